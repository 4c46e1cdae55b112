package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yourstruly-priyanshu/rentify/internal/cache"
	"github.com/yourstruly-priyanshu/rentify/internal/domain"
	"github.com/yourstruly-priyanshu/rentify/internal/repository"
)

// MockCartRepository implements repository.CartRecordRepository for testing
type MockCartRepository struct {
	mu sync.Mutex

	Records []repository.CartRecord

	ListErr      error
	InsertErr    error
	UpdateErr    error
	DeleteErr    error
	DeleteAllErr error

	// DeleteAllFailures fails the first N DeleteAll calls (for retry tests)
	DeleteAllFailures int

	// Delay simulates a slow remote store; calls respect ctx cancellation
	Delay time.Duration

	nextID         int
	ListCalls      int
	UpdatedIDs     []string
	UpdatedFields  []map[string]interface{}
	DeletedIDs     []string
	DeleteAllCalls int
}

func (m *MockCartRepository) wait(ctx context.Context) error {
	if m.Delay == 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(m.Delay):
		return nil
	}
}

func (m *MockCartRepository) ListItems(ctx context.Context, userID string) ([]repository.CartRecord, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	records := make([]repository.CartRecord, len(m.Records))
	copy(records, m.Records)
	return records, nil
}

func (m *MockCartRepository) InsertItem(ctx context.Context, record repository.CartRecord) (string, error) {
	if err := m.wait(ctx); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return "", m.InsertErr
	}
	m.nextID++
	record.ID = fmt.Sprintf("rec-%d", m.nextID)
	m.Records = append(m.Records, record)
	return record.ID, nil
}

func (m *MockCartRepository) UpdateItem(ctx context.Context, userID, itemID string, fields map[string]interface{}) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.UpdatedIDs = append(m.UpdatedIDs, itemID)
	m.UpdatedFields = append(m.UpdatedFields, fields)
	return nil
}

func (m *MockCartRepository) DeleteItem(ctx context.Context, userID, itemID string) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.DeletedIDs = append(m.DeletedIDs, itemID)
	return nil
}

func (m *MockCartRepository) DeleteAll(ctx context.Context, userID string) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteAllCalls++
	if m.DeleteAllErr != nil {
		return m.DeleteAllErr
	}
	if m.DeleteAllCalls <= m.DeleteAllFailures {
		return fmt.Errorf("simulated clear failure %d", m.DeleteAllCalls)
	}
	m.Records = nil
	return nil
}

func (m *MockCartRepository) snapshot() []repository.CartRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	records := make([]repository.CartRecord, len(m.Records))
	copy(records, m.Records)
	return records
}

// MockOrderRepository implements repository.OrderRepository for testing
type MockOrderRepository struct {
	mu sync.Mutex

	CreateErr error
	// Block, when non-nil, stalls CreateOrder until the channel is closed
	Block chan struct{}

	Created []*domain.Order
	nextID  int
}

func (m *MockOrderRepository) CreateOrder(_ context.Context, order *domain.Order) (string, error) {
	if m.Block != nil {
		<-m.Block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	m.nextID++
	order.ID = fmt.Sprintf("order-%d", m.nextID)
	order.CreatedAt = time.Now()

	snapshot := *order
	m.Created = append(m.Created, &snapshot)
	return order.ID, nil
}

func (m *MockOrderRepository) GetOrder(_ context.Context, userID, orderID string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, order := range m.Created {
		if order.ID == orderID && order.UserID == userID {
			return order, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *MockOrderRepository) ListOrders(_ context.Context, userID string) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var orders []domain.Order
	for _, order := range m.Created {
		if order.UserID == userID {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

func (m *MockOrderRepository) createdCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Created)
}

// MockCache implements cache.CartCache for testing
type MockCache struct {
	mu sync.Mutex

	Cart      *domain.Cart
	GetErr    error
	SetErr    error
	DeleteErr error

	SetCalls    int
	DeleteCalls int
}

func (m *MockCache) Get(_ context.Context, userID string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.Cart == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.Cart, nil
}

func (m *MockCache) Set(_ context.Context, userID string, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Cart = cart
	return nil
}

func (m *MockCache) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Cart = nil
	return nil
}

func (m *MockCache) deleteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.DeleteCalls
}

// MockPublisher implements events.Publisher for testing
type MockPublisher struct {
	mu        sync.Mutex
	Err       error
	Published []*domain.Order
}

func (m *MockPublisher) PublishOrderCreated(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Published = append(m.Published, order)
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}
