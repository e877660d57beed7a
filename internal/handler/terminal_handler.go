package handler

import (
	"net/http"

	"github.com/lepelaka/kiosk-order/internal/usecase"

	"github.com/labstack/echo/v4"
)

type TerminalHandler struct {
	uc *usecase.TerminalUsecase
}

func NewTerminalHandler(uc *usecase.TerminalUsecase) *TerminalHandler {
	return &TerminalHandler{uc: uc}
}

type SessionCreateRequest struct {
	TerminalID int64  `json:"terminal_id"`
	APIKey     string `json:"api_key"`
}

func (h *TerminalHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/terminals/session", h.createSession)
}

func (h *TerminalHandler) createSession(c echo.Context) error {
	var req SessionCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "AUTH-001", Message: "invalid body"})
	}

	out, err := h.uc.CreateSession(c.Request().Context(), req.TerminalID, req.APIKey)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
