package repository

import (
	"context"
	"time"

	"github.com/lepelaka/kiosk-order/internal/domain/model"
)

// 管理側の注文一覧フィルタ
type OrderListFilter struct {
	Page       int
	Limit      int
	Status     string
	TerminalID *int64
	From       *time.Time
	To         *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	FindByNumber(ctx context.Context, orderNumber string) (model.Order, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error

	// 管理者用の注文一覧（状態・端末・期間で絞り込み）
	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)
}
