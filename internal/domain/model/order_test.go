package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrder_Confirm(t *testing.T) {
	o := &Order{Status: OrderStatusPending}

	err := o.Confirm()

	assert.NoError(t, err)
	assert.Equal(t, OrderStatusConfirmed, o.Status)
}

func TestOrder_Complete_AfterConfirm(t *testing.T) {
	o := &Order{Status: OrderStatusConfirmed}

	err := o.Complete()

	assert.NoError(t, err)
	assert.Equal(t, OrderStatusCompleted, o.Status)
}

func TestOrder_Complete_BeforeConfirm_Fails(t *testing.T) {
	o := &Order{Status: OrderStatusPending}

	err := o.Complete()

	var ite *InvalidStatusTransitionError
	assert.True(t, errors.As(err, &ite))
	assert.Equal(t, OrderStatusPending, ite.From)
	assert.Equal(t, OrderStatusCompleted, ite.To)
	//状態は変わらない
	assert.Equal(t, OrderStatusPending, o.Status)
}

func TestOrder_Cancel_AfterConfirm_Fails(t *testing.T) {
	o := &Order{Status: OrderStatusConfirmed}

	err := o.Cancel()

	var ite *InvalidStatusTransitionError
	assert.True(t, errors.As(err, &ite))
	assert.Equal(t, OrderStatusConfirmed, o.Status)
}

func TestOrder_TerminalStates_RejectAllTransitions(t *testing.T) {
	for _, status := range []OrderStatus{OrderStatusCompleted, OrderStatusCanceled} {
		o := &Order{Status: status}

		assert.Error(t, o.Confirm(), "confirm from %s", status)
		assert.Error(t, o.Complete(), "complete from %s", status)
		assert.Error(t, o.Cancel(), "cancel from %s", status)
		assert.Equal(t, status, o.Status)
	}
}

func TestOrder_IsCancellable(t *testing.T) {
	assert.True(t, (&Order{Status: OrderStatusPending}).IsCancellable())
	assert.False(t, (&Order{Status: OrderStatusConfirmed}).IsCancellable())
	assert.False(t, (&Order{Status: OrderStatusCompleted}).IsCancellable())
	assert.False(t, (&Order{Status: OrderStatusCanceled}).IsCancellable())
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusCanceled, true},
		{OrderStatusPending, OrderStatusCompleted, false},
		{OrderStatusConfirmed, OrderStatusCompleted, true},
		{OrderStatusConfirmed, OrderStatusCanceled, false},
		{OrderStatusCompleted, OrderStatusConfirmed, false},
		{OrderStatusCanceled, OrderStatusPending, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestOrderItem_TotalPrice(t *testing.T) {
	it := OrderItem{Quantity: 3, UnitPriceSnapshot: 1500}
	assert.Equal(t, int64(4500), it.TotalPrice())
}
