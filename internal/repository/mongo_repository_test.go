package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.uber.org/zap"

	"github.com/yourstruly-priyanshu/rentify/internal/domain"
)

func setupTestDB(t *testing.T) (CartRecordRepository, OrderRepository, func()) {
	ctx := context.Background()

	// Start MongoDB container
	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	// Get connection string
	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	// Connect and prepare indexes
	db, err := Bootstrap(ctx, MongoConfig{URI: uri, Database: "testdb"})
	require.NoError(t, err)

	carts := NewMongoCartRepository(db)
	orders := NewMongoOrderRepository(db, zap.NewNop())

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return carts, orders, cleanup
}

func testRecord(userID string) CartRecord {
	return CartRecord{
		UserID:      userID,
		ProductID:   "p1",
		Name:        "Canon EOS R5",
		Category:    "Camera",
		PricePerDay: 50,
		ImageURL:    "https://example.com/r5.png",
		Location:    "Kolkata, India",
		StartDate:   time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC),
		Quantity:    1,
		TotalAmount: 100,
	}
}

func TestInsertAndListItems(t *testing.T) {
	carts, _, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	id, err := carts.InsertItem(ctx, testRecord("user1"))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	second := testRecord("user1")
	second.ProductID = "p2"
	_, err = carts.InsertItem(ctx, second)
	require.NoError(t, err)

	records, err := carts.ListItems(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, id, records[0].ID)
	assert.Equal(t, "p1", records[0].ProductID)

	// Other identities see nothing
	records, err = carts.ListItems(ctx, "user2")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestUpdateItem_MergeWrite(t *testing.T) {
	carts, _, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	id, err := carts.InsertItem(ctx, testRecord("user1"))
	require.NoError(t, err)

	err = carts.UpdateItem(ctx, "user1", id, map[string]interface{}{
		"quantity":     3,
		"total_amount": 300.0,
	})
	require.NoError(t, err)

	records, err := carts.ListItems(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 3, records[0].Quantity)
	assert.Equal(t, 300.0, records[0].TotalAmount)
	// untouched fields survive the merge-write
	assert.Equal(t, "Canon EOS R5", records[0].Name)
}

func TestUpdateItem_NotFound(t *testing.T) {
	carts, _, cleanup := setupTestDB(t)
	defer cleanup()

	err := carts.UpdateItem(context.Background(), "user1", "missing", map[string]interface{}{"quantity": 2})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestDeleteItem(t *testing.T) {
	carts, _, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	id, err := carts.InsertItem(ctx, testRecord("user1"))
	require.NoError(t, err)

	require.NoError(t, carts.DeleteItem(ctx, "user1", id))
	assert.ErrorIs(t, carts.DeleteItem(ctx, "user1", id), ErrItemNotFound)
}

func TestDeleteAll_Idempotent(t *testing.T) {
	carts, _, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	_, err := carts.InsertItem(ctx, testRecord("user1"))
	require.NoError(t, err)

	require.NoError(t, carts.DeleteAll(ctx, "user1"))

	records, err := carts.ListItems(ctx, "user1")
	require.NoError(t, err)
	assert.Empty(t, records)

	// Clearing an already empty collection is a no-op
	require.NoError(t, carts.DeleteAll(ctx, "user1"))
}

func TestCreateOrder_ServerAssignedTimestamp(t *testing.T) {
	_, orders, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	order := &domain.Order{
		UserID: "user1",
		Items: []domain.OrderItem{
			{
				Product:      domain.Product{ID: "p1", Name: "Canon EOS R5", PricePerDay: 50},
				StartDate:    time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
				EndDate:      time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC),
				DurationDays: 2,
				Quantity:     1,
				TotalAmount:  100,
			},
		},
		TotalAmount:   100,
		PaymentMethod: "UPI",
		Status:        domain.OrderStatusPaid,
	}

	id, err := orders.CreateOrder(ctx, order)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, order.ID)
	assert.False(t, order.CreatedAt.IsZero())

	fetched, err := orders.GetOrder(ctx, "user1", id)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, fetched.Status)
	assert.Equal(t, 100.0, fetched.TotalAmount)
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, 2, fetched.Items[0].DurationDays)

	list, err := orders.ListOrders(ctx, "user1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGetOrder_NotFound(t *testing.T) {
	_, orders, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := orders.GetOrder(context.Background(), "user1", "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
