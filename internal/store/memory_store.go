package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourstruly-priyanshu/rentify/internal/domain"
)

// MemoryStore implements CartStore with in-memory storage
type MemoryStore struct {
	mu    sync.RWMutex
	items []domain.CartItem
	index map[string]int // item ID -> position in items
}

// NewMemoryStore creates a new empty in-memory cart
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		index: make(map[string]int),
	}
}

func (s *MemoryStore) AddItem(product domain.Product, start, end time.Time, quantity int) (domain.CartItem, error) {
	if end.Before(start) {
		return domain.CartItem{}, ErrInvalidDateRange
	}
	if quantity < 1 {
		return domain.CartItem{}, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Same product already in the cart: merge instead of adding a
	// duplicate line.
	for i := range s.items {
		if s.items[i].Product.ID == product.ID {
			s.items[i].Quantity += quantity
			s.items[i].TotalAmount = domain.ItemTotal(s.items[i])
			return s.items[i], nil
		}
	}

	item := domain.CartItem{
		ID:        uuid.NewString(),
		Product:   product,
		StartDate: start,
		EndDate:   end,
		Quantity:  quantity,
	}
	item.TotalAmount = domain.ItemTotal(item)

	s.items = append(s.items, item)
	s.index[item.ID] = len(s.items) - 1
	return item, nil
}

func (s *MemoryStore) RemoveItem(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return false
	}

	s.items = append(s.items[:pos], s.items[pos+1:]...)
	s.reindex()
	return true
}

func (s *MemoryStore) UpdateDateRange(id string, start, end time.Time) (domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return domain.CartItem{}, ErrItemNotFound
	}
	if end.Before(start) {
		return domain.CartItem{}, ErrInvalidDateRange
	}

	s.items[pos].StartDate = start
	s.items[pos].EndDate = end
	s.items[pos].TotalAmount = domain.ItemTotal(s.items[pos])
	return s.items[pos], nil
}

func (s *MemoryStore) SetQuantity(id string, quantity int) (domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return domain.CartItem{}, ErrItemNotFound
	}
	if quantity < 1 {
		return domain.CartItem{}, ErrInvalidQuantity
	}

	s.items[pos].Quantity = quantity
	s.items[pos].TotalAmount = domain.ItemTotal(s.items[pos])
	return s.items[pos], nil
}

func (s *MemoryStore) Get(id string) (domain.CartItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		return domain.CartItem{}, false
	}
	return s.items[pos], true
}

func (s *MemoryStore) FindByProduct(productID string) (domain.CartItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if item.Product.ID == productID {
			return item, true
		}
	}
	return domain.CartItem{}, false
}

func (s *MemoryStore) IndexOf(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		return -1
	}
	return pos
}

func (s *MemoryStore) Items() []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]domain.CartItem, len(s.items))
	copy(snapshot, s.items)
	return snapshot
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *MemoryStore) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CartTotal(s.items)
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.index = make(map[string]int)
}

func (s *MemoryStore) Put(item domain.CartItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[item.ID]
	if !ok {
		return false
	}
	s.items[pos] = item
	return true
}

func (s *MemoryStore) Insert(item domain.CartItem, position int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if position < 0 {
		position = 0
	}
	if position > len(s.items) {
		position = len(s.items)
	}

	s.items = append(s.items, domain.CartItem{})
	copy(s.items[position+1:], s.items[position:])
	s.items[position] = item
	s.reindex()
}

func (s *MemoryStore) ReplaceID(oldID, newID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[oldID]
	if !ok {
		return false
	}
	s.items[pos].ID = newID
	delete(s.index, oldID)
	s.index[newID] = pos
	return true
}

func (s *MemoryStore) ReplaceAll(items []domain.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make([]domain.CartItem, len(items))
	copy(s.items, items)
	s.reindex()
}

// reindex rebuilds the id -> position map. Callers hold the write lock.
func (s *MemoryStore) reindex() {
	s.index = make(map[string]int, len(s.items))
	for i, item := range s.items {
		s.index[item.ID] = i
	}
}
