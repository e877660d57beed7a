package model

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
)

// 許可される遷移。COMPLETED / CANCELED は終端
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCanceled},
	OrderStatusConfirmed: {OrderStatusCompleted},
	OrderStatusCompleted: {},
	OrderStatusCanceled:  {},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// InvalidStatusTransitionError は遷移表に無い状態変更
type InvalidStatusTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidStatusTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition: %s -> %s", e.From, e.To)
}

type Order struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string      `gorm:"type:varchar(50);not null;uniqueIndex" json:"order_number"`
	TerminalID  int64       `gorm:"not null;index:idx_orders_terminal_status" json:"terminal_id"`
	Status      OrderStatus `gorm:"type:varchar(20);not null;index:idx_orders_terminal_status" json:"status"`
	TotalAmount int64       `gorm:"not null" json:"total_amount"`
	CreatedAt   time.Time   `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (o *Order) transitionTo(next OrderStatus) error {
	if !o.Status.CanTransitionTo(next) {
		return &InvalidStatusTransitionError{From: o.Status, To: next}
	}
	o.Status = next
	return nil
}

func (o *Order) Confirm() error {
	return o.transitionTo(OrderStatusConfirmed)
}

func (o *Order) Complete() error {
	return o.transitionTo(OrderStatusCompleted)
}

// Cancel は状態遷移のみ。在庫戻しはusecase側で行う
func (o *Order) Cancel() error {
	return o.transitionTo(OrderStatusCanceled)
}

// キャンセル可能なのはPENDINGだけ
func (o *Order) IsCancellable() bool {
	return o.Status == OrderStatusPending
}
