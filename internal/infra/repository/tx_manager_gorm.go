package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	repo "github.com/lepelaka/kiosk-order/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATE
const (
	pgLockNotAvailable = "55P03"
	pgDeadlockDetected = "40P01"
)

type txReposGorm struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	products   repo.ProductRepository
	terminals  repo.TerminalRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository         { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *txReposGorm) Products() repo.ProductRepository     { return r.products }
func (r *txReposGorm) Terminals() repo.TerminalRepository   { return r.terminals }

type TxManagerGorm struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

// lockTimeout はロック待ちの上限。0なら設定しない
func NewTxManagerGorm(db *gorm.DB, lockTimeout time.Duration) *TxManagerGorm {
	return &TxManagerGorm{db: db, lockTimeout: lockTimeout}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	err := tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tm.lockTimeout > 0 {
			// SET LOCAL はこのトランザクションの間だけ有効
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", tm.lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}

		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:     NewOrderGormRepository(tx),
			orderItems: NewOrderItemGormRepository(tx),
			products:   NewProductGormRepository(tx),
			terminals:  NewTerminalGormRepository(tx),
		}
		return fn(r)
	})

	return classifyTxError(err)
}

// ロック待ちタイムアウトとデッドロックは業務エラーと区別して返す
func classifyTxError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgLockNotAvailable:
			return fmt.Errorf("%w: %v", repo.ErrLockTimeout, err)
		case pgDeadlockDetected:
			return fmt.Errorf("%w: %v", repo.ErrDeadlock, err)
		}
	}
	return err
}
