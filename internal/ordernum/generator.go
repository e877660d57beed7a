// Package ordernum は日次シーケンスによる注文番号の採番を行う。
package ordernum

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	keyPrefix  = "order:sequence:"
	dateLayout = "20060102"

	// 日付が変わった1時間後に消える。時計ずれと長時間Txへのバッファ
	counterTTL = 25 * time.Hour
)

// カウンタもフォールバックも使えなかったとき
var ErrGenerationFailed = errors.New("order number generation failed")

// Counter は日付キーのアトミックカウンタ
type Counter interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

type Generator struct {
	counter Counter
	now     func() time.Time
	randStr func() string
	logger  *slog.Logger
}

func NewGenerator(counter Counter, logger *slog.Logger) *Generator {
	return &Generator{
		counter: counter,
		now:     time.Now,
		randStr: uuid.NewString,
		logger:  logger,
	}
}

// テスト用に時計と乱数源を差し替える
func NewGeneratorWithClock(counter Counter, logger *slog.Logger, now func() time.Time, randStr func() string) *Generator {
	return &Generator{counter: counter, now: now, randStr: randStr, logger: logger}
}

// Generate は "YYYYMMDD-0001" 形式の注文番号を返す。
// 9999を超えた分は桁が増えるだけ（保証するのは一意性で、桁数ではない）。
func (g *Generator) Generate(ctx context.Context) (string, error) {
	today := g.now().Format(dateLayout)
	key := keyPrefix + today

	seq, err := g.counter.Incr(ctx, key)
	if err == nil {
		// 今日最初の採番ならTTLを設定する
		if seq == 1 {
			if err := g.counter.Expire(ctx, key, counterTTL); err != nil {
				g.logger.Warn("failed to set sequence counter TTL", "key", key, "error", err)
			}
		}
		return fmt.Sprintf("%s-%04d", today, seq), nil
	}

	g.logger.Error("sequence counter unreachable, using fallback order number", "error", err)

	return g.generateFallback(today)
}

// フォールバック: UUIDの先頭6文字 + 'F' 接頭辞で由来を識別できるようにする
func (g *Generator) generateFallback(today string) (string, error) {
	random := g.randStr()
	if len(random) < 6 {
		return "", ErrGenerationFailed
	}
	return fmt.Sprintf("%s-F%s", today, random[:6]), nil
}
