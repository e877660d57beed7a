package usecase

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lepelaka/kiosk-order/internal/domain/model"
)

// AppError は境界まで運ぶ構造化エラー。
// Detailsには機械可読な詳細（id・数量など）を入れる。
type AppError struct {
	Status  int
	Code    string
	Message string
	Details map[string]any

	// trueならクライアントはリトライしてよい（インフラ起因のみ）
	Retryable bool
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	ok := errors.As(err, &ae)
	return ae, ok
}

// ── Not-found ──

func ErrTerminalNotFound(terminalID int64) *AppError {
	return &AppError{
		Status:  http.StatusNotFound,
		Code:    "ORDER-001",
		Message: "terminal not found",
		Details: map[string]any{"terminal_id": terminalID},
	}
}

func ErrProductNotFound(productIDs []int64) *AppError {
	return &AppError{
		Status:  http.StatusNotFound,
		Code:    "ORDER-002",
		Message: "product not found",
		Details: map[string]any{"product_ids": productIDs},
	}
}

func ErrOrderNotFoundByID(orderID int64) *AppError {
	return &AppError{
		Status:  http.StatusNotFound,
		Code:    "ORDER-003",
		Message: "order not found",
		Details: map[string]any{"order_id": orderID},
	}
}

func ErrOrderNotFoundByNumber(orderNumber string) *AppError {
	return &AppError{
		Status:  http.StatusNotFound,
		Code:    "ORDER-003",
		Message: "order not found",
		Details: map[string]any{"order_number": orderNumber},
	}
}

// ── Validation ──

func ErrInsufficientStock(productID int64, requested int64, available int64) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    "ORDER-101",
		Message: "insufficient stock",
		Details: map[string]any{
			"product_id": productID,
			"requested":  requested,
			"available":  available,
		},
	}
}

func ErrInvalidQuantity(productID int64, quantity int64) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    "ORDER-102",
		Message: "invalid quantity",
		Details: map[string]any{"product_id": productID, "quantity": quantity},
	}
}

func ErrInvalidStatusTransition(from model.OrderStatus, to model.OrderStatus) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    "ORDER-103",
		Message: "invalid order status transition",
		Details: map[string]any{"current_status": string(from), "attempted_status": string(to)},
	}
}

func ErrEmptyOrderItems() *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    "ORDER-104",
		Message: "order items are empty",
	}
}

func ErrInactiveProduct(productID int64) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    "ORDER-105",
		Message: "inactive product in order",
		Details: map[string]any{"product_id": productID},
	}
}

// ── Conflict ──

func ErrCannotCancelOrder(orderID int64, status model.OrderStatus) *AppError {
	return &AppError{
		Status:  http.StatusConflict,
		Code:    "ORDER-203",
		Message: "order cannot be canceled",
		Details: map[string]any{"order_id": orderID, "current_status": string(status)},
	}
}

// ── Infrastructure ──

func ErrOrderNumberGeneration() *AppError {
	return &AppError{
		Status:  http.StatusInternalServerError,
		Code:    "ORDER-902",
		Message: "order number generation failed",
	}
}

// ロック待ちタイムアウト／デッドロック検出によるTx中断。部分状態は残らない
func ErrTransactionAborted() *AppError {
	return &AppError{
		Status:    http.StatusServiceUnavailable,
		Code:      "ORDER-903",
		Message:   "transaction aborted, retry the request",
		Retryable: true,
	}
}

func ErrInternal() *AppError {
	return &AppError{
		Status:  http.StatusInternalServerError,
		Code:    "SYSTEM-001",
		Message: "internal error",
	}
}

// ── Auth ──

func ErrInvalidTerminalCredentials() *AppError {
	return &AppError{
		Status:  http.StatusUnauthorized,
		Code:    "AUTH-001",
		Message: "invalid terminal credentials",
	}
}

func ErrTerminalInactive(terminalID int64) *AppError {
	return &AppError{
		Status:  http.StatusForbidden,
		Code:    "AUTH-002",
		Message: "terminal is inactive",
		Details: map[string]any{"terminal_id": terminalID},
	}
}
