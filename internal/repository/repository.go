package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yourstruly-priyanshu/rentify/internal/domain"
)

var (
	ErrItemNotFound  = errors.New("cart record not found")
	ErrOrderNotFound = errors.New("order not found")
)

// CartRecord is the persisted shape of one cart line. One document per
// item keeps every remote operation addressable by a stable id instead of
// an array position.
type CartRecord struct {
	ID          string    `bson:"_id,omitempty"`
	UserID      string    `bson:"user_id"`
	ProductID   string    `bson:"product_id"`
	Name        string    `bson:"name"`
	Category    string    `bson:"category"`
	PricePerDay float64   `bson:"price_per_day"`
	ImageURL    string    `bson:"image_url"`
	Location    string    `bson:"location"`
	StartDate   time.Time `bson:"start_date"`
	EndDate     time.Time `bson:"end_date,omitempty"`
	Quantity    int       `bson:"quantity"`
	TotalAmount float64   `bson:"total_amount"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

// CartRecordRepository defines the remote per-identity cart collection.
// Consumers define this interface, not the MongoDB implementation.
type CartRecordRepository interface {
	// ListItems returns all records for the identity in insertion order.
	ListItems(ctx context.Context, userID string) ([]CartRecord, error)

	// InsertItem writes a new record and returns its persistent id.
	InsertItem(ctx context.Context, record CartRecord) (string, error)

	// UpdateItem merge-writes only the given fields.
	UpdateItem(ctx context.Context, userID, itemID string, fields map[string]interface{}) error

	DeleteItem(ctx context.Context, userID, itemID string) error

	// DeleteAll removes every record for the identity. Deleting an already
	// empty collection is a no-op, which makes checkout cleanup retryable.
	DeleteAll(ctx context.Context, userID string) error
}

type OrderRepository interface {
	// CreateOrder writes the order snapshot and returns its id. The store
	// assigns created_at.
	CreateOrder(ctx context.Context, order *domain.Order) (string, error)
	GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error)
	ListOrders(ctx context.Context, userID string) ([]domain.Order, error)
}
