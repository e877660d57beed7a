package repository

import (
	"context"
	"errors"

	"github.com/lepelaka/kiosk-order/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 商品行の読み取りと在庫数の増減だけを約束。カタログCRUDは持たない。
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (model.Product, error)

	// 排他ロック付き一括取得。idsは昇順で渡す前提（デッドロック回避）。
	// 見つかった行だけ返す。不足分の検出は呼び出し側。
	FindByIDsForUpdate(ctx context.Context, ids []int64) ([]model.Product, error)

	// 排他ロック付き単品取得（キャンセル時の在庫戻しで使う）
	FindByIDForUpdate(ctx context.Context, id int64) (model.Product, error)

	// 在庫が足りるときだけ減算。呼び出し側が行ロックを保持していること
	DecrementStock(ctx context.Context, productID int64, qty int64) (bool, error)

	// 在庫戻し（キャンセル）
	IncrementStock(ctx context.Context, productID int64, qty int64) error
}
