package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/lepelaka/kiosk-order/internal/config"
	"github.com/lepelaka/kiosk-order/internal/metrics"
	"github.com/lepelaka/kiosk-order/internal/middleware"
	"github.com/lepelaka/kiosk-order/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if ae, ok := usecase.AsAppError(err); ok {
		return c.JSON(ae.Status, ErrorResponse{Code: ae.Code, Message: ae.Message, Details: ae.Details})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Code: "SYSTEM-001", Message: "internal error"})
}

type OrderHandler struct {
	uc      *usecase.OrderUsecase
	metrics *metrics.OrderMetrics
}

func NewOrderHandler(uc *usecase.OrderUsecase, m *metrics.OrderMetrics) *OrderHandler {
	return &OrderHandler{uc: uc, metrics: m}
}

type OrderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type OrderCreateRequest struct {
	Items []OrderItemRequest `json:"items"`
}

type OrderCreateResponse struct {
	OrderID int64 `json:"order_id"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/orders")
	g.Use(middleware.AuthTerminal(cfg))

	g.POST("", h.create)
	g.GET("/:id", h.detail)
	g.GET("/number/:number", h.detailByNumber)
	g.POST("/:id/confirm", h.confirm)
	g.POST("/:id/complete", h.complete)
	g.POST("/:id/cancel", h.cancel)
}

func (h *OrderHandler) create(c echo.Context) error {
	terminalID, ok := getTerminalIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Code: "AUTH-001", Message: "unauthorized"})
	}

	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "ORDER-104", Message: "invalid body"})
	}

	items := make([]usecase.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usecase.OrderItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	start := time.Now()
	orderID, err := h.uc.Create(c.Request().Context(), usecase.CreateOrderInput{
		TerminalID: terminalID,
		Items:      items,
	})
	h.metrics.PlacementDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		h.metrics.Placements.WithLabelValues(placementResult(err)).Inc()
		if ae, ok := usecase.AsAppError(err); ok && ae.Code == "ORDER-101" {
			h.metrics.StockConflicts.Inc()
		}
		return writeError(c, err)
	}

	h.metrics.Placements.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, OrderCreateResponse{OrderID: orderID})
}

func (h *OrderHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "ORDER-106", Message: "invalid id"})
	}

	out, err := h.uc.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detailByNumber(c echo.Context) error {
	number := c.Param("number")

	out, err := h.uc.GetByNumber(c.Request().Context(), number)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) confirm(c echo.Context) error {
	return h.transition(c, h.uc.Confirm)
}

func (h *OrderHandler) complete(c echo.Context) error {
	return h.transition(c, h.uc.Complete)
}

func (h *OrderHandler) cancel(c echo.Context) error {
	return h.transition(c, h.uc.Cancel)
}

type SuccessResponse struct {
	Message string `json:"message"`
}

func (h *OrderHandler) transition(c echo.Context, op func(ctx context.Context, orderID int64) error) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "ORDER-106", Message: "invalid id"})
	}

	if err := op(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "ok"})
}

// メトリクス用のラベル。業務的な却下とインフラ失敗を分ける
func placementResult(err error) string {
	if ae, ok := usecase.AsAppError(err); ok && ae.Status < 500 {
		return "rejected"
	}
	return "error"
}

func getTerminalIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxTerminalIDKey)
	id, ok := v.(int64)
	return id, ok
}
