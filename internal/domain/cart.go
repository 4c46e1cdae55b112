package domain

import "time"

// Product is the catalog snapshot copied into a cart item at add time.
// Later catalog edits do not affect items already in a cart.
type Product struct {
	ID          string  `json:"id" bson:"_id,omitempty"`
	Name        string  `json:"name" bson:"name"`
	Category    string  `json:"category" bson:"category"`
	PricePerDay float64 `json:"price_per_day" bson:"pricePerDay"`
	ImageURL    string  `json:"image_url" bson:"imageUrl"`
	Description string  `json:"description" bson:"description"`
	Location    string  `json:"location" bson:"location"`
	Available   bool    `json:"available" bson:"available"`
}

type CartItem struct {
	ID          string    `json:"id"`
	Product     Product   `json:"product"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Quantity    int       `json:"quantity"`
	TotalAmount float64   `json:"total_amount"` // derived cache, recomputed on every mutation
}

type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}
