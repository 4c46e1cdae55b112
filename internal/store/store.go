package store

import (
	"errors"
	"time"

	"github.com/yourstruly-priyanshu/rentify/internal/domain"
)

// Common errors returned by the store
var (
	ErrInvalidDateRange = errors.New("end date is before start date")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrItemNotFound     = errors.New("item not found in cart")
)

// CartStore is the in-memory, single-identity cart. All mutations are
// synchronous; every operation that touches amounts recomputes the cached
// TotalAmount so the stored value never drifts from the pricing rule.
type CartStore interface {
	// AddItem appends a new line, or merges into an existing line for the
	// same product by incrementing its quantity.
	AddItem(product domain.Product, start, end time.Time, quantity int) (domain.CartItem, error)

	// RemoveItem deletes the item with the given id. Removing an absent id
	// is a no-op reported as false.
	RemoveItem(id string) bool

	UpdateDateRange(id string, start, end time.Time) (domain.CartItem, error)
	SetQuantity(id string, quantity int) (domain.CartItem, error)

	Get(id string) (domain.CartItem, bool)
	FindByProduct(productID string) (domain.CartItem, bool)
	IndexOf(id string) int

	// Items returns a snapshot in insertion order.
	Items() []domain.CartItem
	Len() int
	Total() float64
	Clear()

	// Put overwrites an existing item, Insert re-inserts one at a position,
	// ReplaceID swaps a provisional id for a persistent one, and ReplaceAll
	// swaps the whole content. The sync layer uses these for rollback and
	// for rebuilding the cart from remote state.
	Put(item domain.CartItem) bool
	Insert(item domain.CartItem, position int)
	ReplaceID(oldID, newID string) bool
	ReplaceAll(items []domain.CartItem)
}
