package server

import (
	"net/http"

	"github.com/lepelaka/kiosk-order/internal/config"
	"github.com/lepelaka/kiosk-order/internal/handler"
	"github.com/lepelaka/kiosk-order/internal/metrics"

	"github.com/labstack/echo/v4"
)

// New はルートを登録したechoインスタンスを返す。
func New(
	cfg config.Config,
	terminalH *handler.TerminalHandler,
	orderH *handler.OrderHandler,
	adminH *handler.AdminOrderHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	terminalH.RegisterRoutes(e)
	orderH.RegisterRoutes(e, cfg)
	adminH.RegisterRoutes(e)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	return e
}

func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}
