package e2e

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/lepelaka/kiosk-order/internal/domain/model"
	infraRepo "github.com/lepelaka/kiosk-order/internal/infra/repository"
	"github.com/lepelaka/kiosk-order/internal/ordernum"
	"github.com/lepelaka/kiosk-order/internal/usecase"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// E2E_DATABASE_URL が無ければ丸ごとスキップ
func openDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("E2E_DATABASE_URL")
	if dsn == "" {
		t.Skip("E2E_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open failed: %v", err)
	}

	if err := db.AutoMigrate(
		&model.Terminal{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}

	return db
}

// Redisの代わりのインメモリカウンタ。採番の一意性だけあればいい
type memCounter struct {
	mu   sync.Mutex
	seqs map[string]int64
}

func newMemCounter() *memCounter {
	return &memCounter{seqs: make(map[string]int64)}
}

func (c *memCounter) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seqs[key]++
	return c.seqs[key], nil
}

func (c *memCounter) Expire(_ context.Context, _ string, _ time.Duration) error {
	return nil
}

func newOrderUsecase(t *testing.T, db *gorm.DB) *usecase.OrderUsecase {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tx := infraRepo.NewTxManagerGorm(db, 10*time.Second)
	gen := ordernum.NewGenerator(newMemCounter(), log)
	return usecase.NewOrderUsecase(tx, gen, log)
}

func createTerminal(t *testing.T, db *gorm.DB) model.Terminal {
	t.Helper()

	term := model.Terminal{
		Name:    "e2e-kiosk-" + time.Now().Format("150405.000000000"),
		KeyHash: "e2e-" + time.Now().Format("20060102150405.000000000"),
		Status:  model.TerminalStatusActive,
	}
	if err := db.Create(&term).Error; err != nil {
		t.Fatalf("create terminal failed: %v", err)
	}
	t.Cleanup(func() { db.Unscoped().Delete(&model.Terminal{}, term.ID) })
	return term
}

func createProduct(t *testing.T, db *gorm.DB, name string, price int64, stock int64) model.Product {
	t.Helper()

	p := model.Product{Name: name, Price: price, Stock: stock, IsActive: true}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	t.Cleanup(func() { db.Unscoped().Delete(&model.Product{}, p.ID) })
	return p
}

func currentStock(t *testing.T, db *gorm.DB, productID int64) int64 {
	t.Helper()

	var p model.Product
	if err := db.First(&p, productID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	return p.Stock
}

func countOrders(t *testing.T, db *gorm.DB, terminalID int64) int64 {
	t.Helper()

	var n int64
	if err := db.Model(&model.Order{}).Where("terminal_id = ?", terminalID).Count(&n).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	return n
}

func cleanupOrders(t *testing.T, db *gorm.DB, terminalID int64) {
	t.Helper()
	t.Cleanup(func() {
		var ids []int64
		db.Model(&model.Order{}).Where("terminal_id = ?", terminalID).Pluck("id", &ids)
		if len(ids) > 0 {
			db.Where("order_id IN ?", ids).Delete(&model.OrderItem{})
			db.Where("id IN ?", ids).Delete(&model.Order{})
		}
	})
}

func isCode(err error, code string) bool {
	ae, ok := usecase.AsAppError(err)
	return ok && ae.Code == code
}
