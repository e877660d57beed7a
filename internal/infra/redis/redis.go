package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect はRedisに接続してクライアントを返す。
// 疎通に失敗してもクライアントは返す。呼び出し側（採番）は
// Incrが失敗した時点でフォールバックに切り替わる
func Connect(ctx context.Context, addr string, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return client, err
	}
	return client, nil
}

// SequenceCounter は日付キーのアトミックカウンタ。
// カウンタのインクリメントは注文トランザクションの外側なので、
// 注文がロールバックしても消費した番号は戻らない（欠番は許容）。
type SequenceCounter struct {
	client *redis.Client
}

func NewSequenceCounter(client *redis.Client) *SequenceCounter {
	return &SequenceCounter{client: client}
}

func (c *SequenceCounter) Incr(ctx context.Context, key string) (int64, error) {
	return c.client.Incr(ctx, key).Result()
}

func (c *SequenceCounter) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.client.Expire(ctx, key, ttl).Err()
}
