package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/lepelaka/kiosk-order/internal/config"
	"github.com/lepelaka/kiosk-order/internal/domain/model"
	"github.com/lepelaka/kiosk-order/internal/handler"
	"github.com/lepelaka/kiosk-order/internal/infra/db"
	infraRedis "github.com/lepelaka/kiosk-order/internal/infra/redis"
	infraRepo "github.com/lepelaka/kiosk-order/internal/infra/repository"
	"github.com/lepelaka/kiosk-order/internal/metrics"
	"github.com/lepelaka/kiosk-order/internal/ordernum"
	"github.com/lepelaka/kiosk-order/internal/server"
	"github.com/lepelaka/kiosk-order/internal/usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/joho/godotenv"
)

// 端末セッションJWTの発行
type jwtIssuer struct {
	secret []byte
	ttl    time.Duration
}

func newJWTIssuer(secret string) *jwtIssuer {
	return &jwtIssuer{
		secret: []byte(secret),
		ttl:    12 * time.Hour, // 営業日の間は持つ
	}
}

func (i *jwtIssuer) Issue(terminalID int64, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.ttl)

	claims := jwt.MapClaims{
		"sub": terminalID,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file, using environment as is")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load failed", "error", err)
		os.Exit(1)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		logger.Error("db connect failed", "error", err)
		os.Exit(1)
	}
	if err := gormDB.AutoMigrate(
		&model.Terminal{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		logger.Error("db migrate failed", "error", err)
		os.Exit(1)
	}

	//採番カウンタ用Redis
	ctx := context.Background()
	redisClient, err := infraRedis.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		// Redisが落ちていても起動は続ける。採番はフォールバックで動く
		logger.Warn("redis connect failed, order numbers will use fallback", "error", err)
	}
	counter := infraRedis.NewSequenceCounter(redisClient)

	//Repository（GORM実装）生成
	txManager := infraRepo.NewTxManagerGorm(gormDB, cfg.LockTimeout)
	terminalRepo := infraRepo.NewTerminalGormRepository(gormDB)

	//採番
	numGen := ordernum.NewGenerator(counter, logger)

	//Usecase生成
	orderUC := usecase.NewOrderUsecase(txManager, numGen, logger)
	adminUC := usecase.NewAdminOrderUsecase(txManager)
	terminalUC := usecase.NewTerminalUsecase(terminalRepo, newJWTIssuer(cfg.JWTSecret), nil)

	//Handler生成
	orderMetrics := metrics.NewOrderMetrics()
	orderH := handler.NewOrderHandler(orderUC, orderMetrics)
	adminH := handler.NewAdminOrderHandler(adminUC)
	terminalH := handler.NewTerminalHandler(terminalUC)

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	e := server.New(cfg, terminalH, orderH, adminH)
	if err := server.Start(e, addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
