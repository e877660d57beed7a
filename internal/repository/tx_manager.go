package repository

import (
	"context"
	"errors"
)

// トランザクション境界で区別したいインフラ失敗。
// どちらも部分状態を残さないのでリトライ可能。
var (
	ErrLockTimeout = errors.New("lock wait timeout")
	ErrDeadlock    = errors.New("deadlock detected")
)

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Products() ProductRepository
	Terminals() TerminalRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
