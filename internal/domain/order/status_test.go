//go:build unit

package order_test

import (
	"testing"

	"storefront/internal/domain/order"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	testCases := []struct {
		from    order.Status
		to      order.Status
		allowed bool
	}{
		{order.StatusPending, order.StatusConfirmed, true},
		{order.StatusConfirmed, order.StatusProcessing, true},
		{order.StatusProcessing, order.StatusShipped, true},
		{order.StatusShipped, order.StatusDelivered, true},

		{order.StatusPending, order.StatusProcessing, false},
		{order.StatusPending, order.StatusShipped, false},
		{order.StatusConfirmed, order.StatusShipped, false},
		{order.StatusShipped, order.StatusConfirmed, false},
		{order.StatusDelivered, order.StatusShipped, false},
		{order.StatusConfirmed, order.StatusPending, false},

		{order.StatusPending, order.StatusCancelled, true},
		{order.StatusConfirmed, order.StatusCancelled, true},
		{order.StatusProcessing, order.StatusCancelled, false},
		{order.StatusShipped, order.StatusCancelled, false},
		{order.StatusDelivered, order.StatusCancelled, false},

		{order.StatusCancelled, order.StatusConfirmed, false},
		{order.StatusCancelled, order.StatusCancelled, false},
		{order.StatusDelivered, order.StatusDelivered, false},
	}

	for _, tc := range testCases {
		t.Run(tc.from.String()+" to "+tc.to.String(), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestStatusPredicates(t *testing.T) {
	t.Run("terminal statuses", func(t *testing.T) {
		assert.True(t, order.StatusDelivered.IsTerminal())
		assert.True(t, order.StatusCancelled.IsTerminal())
		assert.False(t, order.StatusPending.IsTerminal())
		assert.False(t, order.StatusShipped.IsTerminal())
	})

	t.Run("cancellable statuses", func(t *testing.T) {
		assert.True(t, order.StatusPending.IsCancellable())
		assert.True(t, order.StatusConfirmed.IsCancellable())
		assert.False(t, order.StatusProcessing.IsCancellable())
		assert.False(t, order.StatusShipped.IsCancellable())
		assert.False(t, order.StatusDelivered.IsCancellable())
		assert.False(t, order.StatusCancelled.IsCancellable())
	})
}

func TestNewStatus(t *testing.T) {
	t.Run("accepts known statuses", func(t *testing.T) {
		s, err := order.NewStatus("shipped")
		assert.NoError(t, err)
		assert.Equal(t, order.StatusShipped, s)
	})

	t.Run("rejects unknown statuses", func(t *testing.T) {
		_, err := order.NewStatus("returned")
		assert.ErrorIs(t, err, order.ErrInvalidStatus)
	})
}
