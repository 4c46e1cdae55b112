package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourstruly-priyanshu/rentify/internal/domain"
)

func TestOrderCreatedPayload(t *testing.T) {
	order := &domain.Order{
		ID:     "order-1",
		UserID: "user-1",
		Items: []domain.OrderItem{
			{
				Product:      domain.Product{ID: "p1", Name: "Canon EOS R5", PricePerDay: 50},
				DurationDays: 2,
				Quantity:     1,
				TotalAmount:  100,
			},
		},
		TotalAmount:   100,
		PaymentMethod: "UPI",
		Status:        domain.OrderStatusPaid,
		CreatedAt:     time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC),
	}

	payload := OrderCreatedPayload(order)
	assert.Equal(t, "order_created", payload["event_type"])
	assert.Equal(t, "order-1", payload["order_id"])
	assert.Equal(t, "user-1", payload["user_id"])

	// must round-trip through JSON for the wire
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 100.0, decoded["total_amount"])
	assert.Equal(t, "Paid", decoded["status"])
	items, ok := decoded["items"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 1)
}
