// Package catalog reads the rentalProducts collection. The cart engine
// consumes it read-only: product data is snapshotted into cart items at
// add time.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yourstruly-priyanshu/rentify/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

type Catalog struct {
	collection *mongo.Collection
}

func NewCatalog(db *mongo.Database) *Catalog {
	return &Catalog{
		collection: db.Collection("rentalProducts"),
	}
}

func (c *Catalog) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	var doc productDoc
	if err := c.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return doc.toDomain(), nil
}

// ListProducts returns the catalog, optionally filtered by category and a
// case-insensitive name search.
func (c *Catalog) ListProducts(ctx context.Context, category, search string) ([]domain.Product, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = bson.M{"$regex": fmt.Sprintf("^%s$", category), "$options": "i"}
	}
	if search != "" {
		filter["name"] = bson.M{"$regex": search, "$options": "i"}
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := c.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]domain.Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, *doc.toDomain())
	}
	return products, nil
}

// productDoc matches the rentalProducts collection schema (camelCase
// fields, ObjectID keys).
type productDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Category    string             `bson:"category"`
	PricePerDay float64            `bson:"pricePerDay"`
	ImageURL    string             `bson:"imageUrl"`
	Description string             `bson:"description"`
	Location    string             `bson:"location"`
	Available   bool               `bson:"available"`
}

func (d productDoc) toDomain() *domain.Product {
	return &domain.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Category:    d.Category,
		PricePerDay: d.PricePerDay,
		ImageURL:    d.ImageURL,
		Description: d.Description,
		Location:    d.Location,
		Available:   d.Available,
	}
}
