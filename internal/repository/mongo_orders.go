package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/yourstruly-priyanshu/rentify/internal/domain"
)

type mongoOrderRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

func NewMongoOrderRepository(db *mongo.Database, logger *zap.Logger) OrderRepository {
	return &mongoOrderRepository{
		collection: db.Collection("orders"),
		logger:     logger,
	}
}

func (m *mongoOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) (string, error) {
	id := primitive.NewObjectID().Hex()

	// Upsert-with-$currentDate so created_at carries the server clock, not
	// the client's.
	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"user_id":        order.UserID,
			"items":          order.Items,
			"total_amount":   order.TotalAmount,
			"payment_method": order.PaymentMethod,
			"status":         order.Status,
		},
		"$currentDate": bson.M{"created_at": true},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return "", fmt.Errorf("failed to create order: %w", err)
	}

	order.ID = id
	// Read back the server-assigned timestamp. The order itself is durable
	// at this point, so a failed read-back is logged, not surfaced.
	var created struct {
		CreatedAt primitive.DateTime `bson:"created_at"`
	}
	findOpts := options.FindOne().SetProjection(bson.M{"created_at": 1})
	if err := m.collection.FindOne(ctx, filter, findOpts).Decode(&created); err != nil {
		m.logger.Warn("order created_at read-back failed",
			zap.String("order_id", id),
			zap.Error(err))
	} else {
		order.CreatedAt = created.CreatedAt.Time()
	}

	return id, nil
}

func (m *mongoOrderRepository) GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	filter := bson.M{"_id": orderID, "user_id": userID}

	var order domain.Order
	if err := m.collection.FindOne(ctx, filter).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}

func (m *mongoOrderRepository) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	filter := bson.M{"user_id": userID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []domain.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	return orders, nil
}
