package services

import (
	"testing"

	"github.com/ndiayedev/jokkoshop-api/models"
	"github.com/stretchr/testify/assert"
)

func TestCanTransitionOrder(t *testing.T) {
	cases := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"next step", models.OrderStatusPreparing, models.OrderStatusReady, true},
		{"forward jump", models.OrderStatusPreparing, models.OrderStatusDelivered, true},
		{"ready to out", models.OrderStatusReady, models.OrderStatusOutForDelivery, true},
		{"backward", models.OrderStatusReady, models.OrderStatusPreparing, false},
		{"same status", models.OrderStatusPreparing, models.OrderStatusPreparing, false},
		{"cancel from preparing", models.OrderStatusPreparing, models.OrderStatusCancelled, true},
		{"cancel from out", models.OrderStatusOutForDelivery, models.OrderStatusCancelled, true},
		{"cancel delivered", models.OrderStatusDelivered, models.OrderStatusCancelled, false},
		{"leave delivered", models.OrderStatusDelivered, models.OrderStatusPreparing, false},
		{"leave cancelled", models.OrderStatusCancelled, models.OrderStatusPreparing, false},
		{"unknown target", models.OrderStatusPreparing, "shipped", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransitionOrder(tc.from, tc.to))
		})
	}
}

func TestIsValidOrderStatus(t *testing.T) {
	for _, status := range []string{
		models.OrderStatusPreparing,
		models.OrderStatusReady,
		models.OrderStatusOutForDelivery,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
	} {
		assert.True(t, IsValidOrderStatus(status), status)
	}
	assert.False(t, IsValidOrderStatus("shipped"))
	assert.False(t, IsValidOrderStatus(""))
}

func TestIsValidDeliveryStatus(t *testing.T) {
	assert.True(t, IsValidDeliveryStatus(models.DeliveryStatusNotDelivered))
	assert.True(t, IsValidDeliveryStatus(models.DeliveryStatusInProgress))
	assert.False(t, IsValidDeliveryStatus("pending"))
}
