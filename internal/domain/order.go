package domain

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "Pending"
	OrderStatusPaid    OrderStatus = "Paid"
)

type OrderItem struct {
	Product      Product   `json:"product" bson:"product"`
	StartDate    time.Time `json:"start_date" bson:"start_date"`
	EndDate      time.Time `json:"end_date" bson:"end_date"`
	DurationDays int       `json:"duration_days" bson:"duration_days"`
	Quantity     int       `json:"quantity" bson:"quantity"`
	TotalAmount  float64   `json:"total_amount" bson:"total_amount"`
}

// Order is the immutable snapshot produced by a successful checkout.
// CreatedAt is assigned by the store, not the client.
type Order struct {
	ID            string      `json:"id" bson:"_id,omitempty"`
	UserID        string      `json:"user_id" bson:"user_id"`
	Items         []OrderItem `json:"items" bson:"items"`
	TotalAmount   float64     `json:"total_amount" bson:"total_amount"`
	PaymentMethod string      `json:"payment_method" bson:"payment_method"`
	Status        OrderStatus `json:"status" bson:"status"`
	CreatedAt     time.Time   `json:"created_at" bson:"created_at"`
}

// NewOrderItem snapshots a cart item at checkout time.
func NewOrderItem(item CartItem) OrderItem {
	return OrderItem{
		Product:      item.Product,
		StartDate:    item.StartDate,
		EndDate:      item.EndDate,
		DurationDays: DurationDays(item.StartDate, item.EndDate),
		Quantity:     item.Quantity,
		TotalAmount:  ItemTotal(item),
	}
}

// PaymentStatusFor maps an opaque payment method label to the initial
// order status. Deferred methods (cash on delivery) start out Pending,
// everything else is recorded as Paid.
func PaymentStatusFor(paymentMethod string) OrderStatus {
	switch strings.ToLower(strings.TrimSpace(paymentMethod)) {
	case "cod", "cash", "cash-on-delivery", "cash on delivery":
		return OrderStatusPending
	default:
		return OrderStatusPaid
	}
}
