package usecase

import (
	"context"
	"net/http"

	"github.com/lepelaka/kiosk-order/internal/domain/model"
	repo "github.com/lepelaka/kiosk-order/internal/repository"
)

type AdminOrderUsecase struct {
	tx repo.TransactionManager
}

func NewAdminOrderUsecase(tx repo.TransactionManager) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx}
}

type OrderListOutput struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// 注文一覧（状態・端末・期間で絞り込み）
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.OrderListFilter) (OrderListOutput, error) {
	// page/limitの最低限チェック
	if f.Page < 1 {
		return OrderListOutput{}, &AppError{Status: http.StatusBadRequest, Code: "ORDER-106", Message: "invalid page"}
	}
	if f.Limit < 1 || f.Limit > 100 {
		return OrderListOutput{}, &AppError{Status: http.StatusBadRequest, Code: "ORDER-106", Message: "invalid limit"}
	}
	if f.Status != "" && !validStatusFilter(f.Status) {
		return OrderListOutput{}, &AppError{Status: http.StatusBadRequest, Code: "ORDER-106", Message: "invalid status"}
	}

	var out OrderListOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().List(ctx, f)
		if err != nil {
			return err
		}

		items := make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			lines, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return err
			}
			items = append(items, toOrderOutput(o, lines))
		}

		out = OrderListOutput{Items: items, Total: total, Page: f.Page, Limit: f.Limit}
		return nil
	})

	if err != nil {
		if _, ok := AsAppError(err); ok {
			return OrderListOutput{}, err
		}
		return OrderListOutput{}, ErrInternal()
	}
	return out, nil
}

func validStatusFilter(s string) bool {
	switch model.OrderStatus(s) {
	case model.OrderStatusPending, model.OrderStatusConfirmed, model.OrderStatusCompleted, model.OrderStatusCanceled:
		return true
	}
	return false
}
