package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/lepelaka/kiosk-order/internal/repository"
	"github.com/lepelaka/kiosk-order/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/orders の管理API
type AdminOrderHandler struct {
	uc *usecase.AdminOrderUsecase
}

func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/admin/orders", h.list)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	// page（default 1）
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "ORDER-106", Message: "invalid page"})
		}
		page = p
	}

	// limit（default 20）
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "ORDER-106", Message: "invalid limit"})
		}
		limit = l
	}

	f := repository.OrderListFilter{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
	}

	if v := c.QueryParam("terminal_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "ORDER-106", Message: "invalid terminal_id"})
		}
		f.TerminalID = &id
	}

	// 期間はRFC3339で受ける
	if v := c.QueryParam("from"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "ORDER-106", Message: "invalid from"})
		}
		f.From = &ts
	}
	if v := c.QueryParam("to"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "ORDER-106", Message: "invalid to"})
		}
		f.To = &ts
	}

	out, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
