package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const cartCollection = "cart_items"

type mongoCartRepository struct {
	collection *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) CartRecordRepository {
	return &mongoCartRepository{
		collection: db.Collection(cartCollection),
	}
}

func (m *mongoCartRepository) ListItems(ctx context.Context, userID string) ([]CartRecord, error) {
	filter := bson.M{"user_id": userID}
	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: 1},
		{Key: "_id", Value: 1},
	})

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []CartRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode cart records: %w", err)
	}

	return records, nil
}

func (m *mongoCartRepository) InsertItem(ctx context.Context, record CartRecord) (string, error) {
	now := time.Now()
	// String ids keep the persistent id directly usable as the local item id.
	record.ID = primitive.NewObjectID().Hex()
	record.CreatedAt = now
	record.UpdatedAt = now

	if _, err := m.collection.InsertOne(ctx, record); err != nil {
		return "", fmt.Errorf("failed to insert cart record: %w", err)
	}

	return record.ID, nil
}

func (m *mongoCartRepository) UpdateItem(ctx context.Context, userID, itemID string, fields map[string]interface{}) error {
	set := bson.M{"updated_at": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	filter := bson.M{"_id": itemID, "user_id": userID}
	result, err := m.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update cart record: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (m *mongoCartRepository) DeleteItem(ctx context.Context, userID, itemID string) error {
	filter := bson.M{"_id": itemID, "user_id": userID}

	result, err := m.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete cart record: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (m *mongoCartRepository) DeleteAll(ctx context.Context, userID string) error {
	filter := bson.M{"user_id": userID}

	if _, err := m.collection.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("failed to clear cart records: %w", err)
	}

	return nil
}

// EnsureIndexes creates the cart collection indexes, typically at startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	repo := &mongoCartRepository{collection: db.Collection(cartCollection)}
	return repo.CreateIndexes(ctx)
}

func (m *mongoCartRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60), // 90 days TTL
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
