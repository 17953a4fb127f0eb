package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/casafunko/orders-service/internal/order"
)

func TestMapProviderStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want order.Status
	}{
		{"approved", order.StatusPaid},
		{"pending", order.StatusPending},
		{"authorized", order.StatusPending},
		{"in_process", order.StatusProcessing},
		{"rejected", order.StatusFailed},
		{"cancelled", order.StatusCancelled},
		{"refunded", order.StatusRefunded},
		{"charged_back", order.StatusFailed},
		{"some_future_status", order.StatusPending},
		{"", order.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, order.MapProviderStatus(tt.raw))
		})
	}
}
