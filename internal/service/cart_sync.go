package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yourstruly-priyanshu/rentify/internal/cache"
	"github.com/yourstruly-priyanshu/rentify/internal/domain"
	"github.com/yourstruly-priyanshu/rentify/internal/identity"
	"github.com/yourstruly-priyanshu/rentify/internal/repository"
	"github.com/yourstruly-priyanshu/rentify/internal/store"
)

// placeholderImageURL stands in for cart records persisted without one.
const placeholderImageURL = "https://via.placeholder.com/300x200?text=Rentify"

// SyncErrorHandler receives remote-write failures after the local
// mutation has been rolled back.
type SyncErrorHandler func(userID, op string, err error)

// CartSyncService keeps the in-memory cart and the remote per-identity
// record collection converged. Mutations apply locally first; the
// matching remote write runs in the background and is rolled back locally
// if it fails, so the two sides never stay diverged.
type CartSyncService struct {
	store    store.CartStore
	repo     repository.CartRecordRepository
	cache    cache.CartCache
	provider *identity.Provider
	logger   *zap.Logger

	breaker *gobreaker.CircuitBreaker[struct{}]
	sfg     singleflight.Group // prevents duplicate loads per identity
	timeout time.Duration

	mu      sync.Mutex
	onError SyncErrorHandler

	wg  sync.WaitGroup
	sub *identity.Subscription
}

func NewCartSyncService(
	cartStore store.CartStore,
	repo repository.CartRecordRepository,
	cartCache cache.CartCache,
	provider *identity.Provider,
	logger *zap.Logger,
	remoteTimeout time.Duration,
) *CartSyncService {
	s := &CartSyncService{
		store:    cartStore,
		repo:     repo,
		cache:    cartCache,
		provider: provider,
		logger:   logger,
		timeout:  remoteTimeout,
		breaker: gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
			Name:    "cart-remote",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 5
			},
			IsSuccessful: func(err error) bool {
				// a record already gone remotely is convergence, not failure
				return err == nil || errors.Is(err, repository.ErrItemNotFound)
			},
		}),
	}

	if provider != nil {
		s.sub = provider.Subscribe(func(e identity.Event) {
			switch e.Type {
			case identity.EventEstablished:
				s.wg.Add(1)
				go func() {
					defer s.wg.Done()
					if _, err := s.Load(context.Background(), e.UserID); err != nil {
						s.reportError(e.UserID, "load", err)
					}
				}()
			case identity.EventCleared:
				// logout clears the local copy only; the remote records
				// are reloaded on the next login
				s.store.Clear()
			}
		})
	}

	return s
}

// SetErrorHandler registers the callback for rolled-back remote failures.
// Without one, failures are logged.
func (s *CartSyncService) SetErrorHandler(h SyncErrorHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = h
}

// authorize confirms userID is the established identity. The local store
// holds exactly one identity's cart, so a foreign id must never reach it
// or be mirrored remotely under the wrong owner.
func (s *CartSyncService) authorize(userID string) error {
	if userID == "" {
		return ErrAuthRequired
	}
	if s.provider != nil {
		current, ok := s.provider.Current()
		if !ok || current != userID {
			return ErrAuthRequired
		}
	}
	return nil
}

// Load rebuilds the local cart from the remote record collection,
// going through the cache first. Concurrent loads for the same identity
// are collapsed into one.
func (s *CartSyncService) Load(ctx context.Context, userID string) (*domain.Cart, error) {
	if err := s.authorize(userID); err != nil {
		return nil, err
	}

	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		cached, errCache := s.cache.Get(ctx, userID)
		if errCache == nil {
			items := make([]domain.CartItem, 0, len(cached.Items))
			for _, item := range cached.Items {
				items = append(items, normalizeItem(item))
			}
			cached.Items = items
			s.store.ReplaceAll(items)
			return cached, nil
		}
		if !errors.Is(errCache, cache.ErrCacheMiss) {
			s.logger.Warn("cache get failed", zap.String("user_id", userID), zap.Error(errCache))
		}

		var records []repository.CartRecord
		errList := s.remote(func(cctx context.Context) error {
			var errInner error
			records, errInner = s.repo.ListItems(cctx, userID)
			return errInner
		})
		if errList != nil {
			return nil, errList
		}

		items := make([]domain.CartItem, 0, len(records))
		for _, record := range records {
			items = append(items, recordToItem(record))
		}

		cart := &domain.Cart{UserID: userID, Items: items, UpdatedAt: time.Now()}
		s.store.ReplaceAll(items)

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			cctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			defer cancel()
			if errSet := s.cache.Set(cctx, userID, cart); errSet != nil {
				s.logger.Warn("cache set failed", zap.String("user_id", userID), zap.Error(errSet))
			}
		}()

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddItem applies the add locally and mirrors it to the remote store in
// the background. For a new line the remote id replaces the provisional
// local id once the insert succeeds; on failure the add is rolled back.
// The remote write deliberately outlives ctx.
func (s *CartSyncService) AddItem(ctx context.Context, userID string, product domain.Product, start, end time.Time, quantity int) (domain.CartItem, error) {
	if err := s.authorize(userID); err != nil {
		return domain.CartItem{}, err
	}

	prev, merged := s.store.FindByProduct(product.ID)

	item, err := s.store.AddItem(product, start, end, quantity)
	if err != nil {
		return domain.CartItem{}, err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if merged {
			fields := map[string]interface{}{
				"quantity":     item.Quantity,
				"total_amount": item.TotalAmount,
			}
			if errRemote := s.remote(func(cctx context.Context) error {
				return s.repo.UpdateItem(cctx, userID, item.ID, fields)
			}); errRemote != nil {
				s.store.Put(prev)
				s.reportError(userID, "add_item", errRemote)
				return
			}
		} else {
			var persistentID string
			errRemote := s.remote(func(cctx context.Context) error {
				var errInsert error
				persistentID, errInsert = s.repo.InsertItem(cctx, itemToRecord(userID, item))
				return errInsert
			})
			if errRemote != nil {
				s.store.RemoveItem(item.ID)
				s.reportError(userID, "add_item", errRemote)
				return
			}
			s.store.ReplaceID(item.ID, persistentID)
		}

		s.invalidateCache(userID)
	}()

	return item, nil
}

func (s *CartSyncService) UpdateDateRange(ctx context.Context, userID, itemID string, start, end time.Time) (domain.CartItem, error) {
	if err := s.authorize(userID); err != nil {
		return domain.CartItem{}, err
	}

	prev, ok := s.store.Get(itemID)
	if !ok {
		return domain.CartItem{}, store.ErrItemNotFound
	}

	item, err := s.store.UpdateDateRange(itemID, start, end)
	if err != nil {
		return domain.CartItem{}, err
	}

	s.mirrorUpdate(userID, "update_dates", prev, map[string]interface{}{
		"start_date":   item.StartDate,
		"end_date":     item.EndDate,
		"total_amount": item.TotalAmount,
	})

	return item, nil
}

func (s *CartSyncService) SetQuantity(ctx context.Context, userID, itemID string, quantity int) (domain.CartItem, error) {
	if err := s.authorize(userID); err != nil {
		return domain.CartItem{}, err
	}

	prev, ok := s.store.Get(itemID)
	if !ok {
		return domain.CartItem{}, store.ErrItemNotFound
	}

	item, err := s.store.SetQuantity(itemID, quantity)
	if err != nil {
		return domain.CartItem{}, err
	}

	s.mirrorUpdate(userID, "set_quantity", prev, map[string]interface{}{
		"quantity":     item.Quantity,
		"total_amount": item.TotalAmount,
	})

	return item, nil
}

// RemoveItem deletes the item locally and mirrors the delete remotely.
// Removing an absent id is a no-op reported as false, with no remote call.
func (s *CartSyncService) RemoveItem(ctx context.Context, userID, itemID string) (bool, error) {
	if err := s.authorize(userID); err != nil {
		return false, err
	}

	prev, ok := s.store.Get(itemID)
	if !ok {
		return false, nil
	}
	position := s.store.IndexOf(itemID)

	if !s.store.RemoveItem(itemID) {
		return false, nil
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		errRemote := s.remote(func(cctx context.Context) error {
			return s.repo.DeleteItem(cctx, userID, itemID)
		})
		if errRemote != nil && !errors.Is(errRemote, repository.ErrItemNotFound) {
			s.store.Insert(prev, position)
			s.reportError(userID, "remove_item", errRemote)
			return
		}

		s.invalidateCache(userID)
	}()

	return true, nil
}

// Items returns the local cart snapshot in insertion order.
func (s *CartSyncService) Items() []domain.CartItem {
	return s.store.Items()
}

func (s *CartSyncService) Total() float64 {
	return s.store.Total()
}

// Flush blocks until every in-flight remote write has finished.
func (s *CartSyncService) Flush() {
	s.wg.Wait()
}

// Close releases the identity subscription and drains in-flight writes.
func (s *CartSyncService) Close() {
	if s.sub != nil {
		s.sub.Cancel()
	}
	s.wg.Wait()
}

func (s *CartSyncService) mirrorUpdate(userID, op string, prev domain.CartItem, fields map[string]interface{}) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if errRemote := s.remote(func(cctx context.Context) error {
			return s.repo.UpdateItem(cctx, userID, prev.ID, fields)
		}); errRemote != nil {
			s.store.Put(prev)
			s.reportError(userID, op, errRemote)
			return
		}

		s.invalidateCache(userID)
	}()
}

// remote runs fn through the circuit breaker with a bounded timeout.
// Timeouts and an open breaker both surface as ErrRemoteSync.
func (s *CartSyncService) remote(fn func(ctx context.Context) error) error {
	_, err := s.breaker.Execute(func() (struct{}, error) {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		return struct{}{}, fn(ctx)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRemoteSync, err)
	}
	return nil
}

func (s *CartSyncService) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *CartSyncService) reportError(userID, op string, err error) {
	s.mu.Lock()
	handler := s.onError
	s.mu.Unlock()

	if handler != nil {
		handler(userID, op, err)
		return
	}
	s.logger.Error("remote sync failed, local mutation rolled back",
		zap.String("user_id", userID),
		zap.String("op", op),
		zap.Error(err))
}

// normalizeItem applies fallback defaults for missing or corrupt fields
// and recomputes the total. Every loaded item passes through here, whether
// it came from the record collection or the cache: the stored total is
// only a denormalized copy and is never authoritative.
func normalizeItem(item domain.CartItem) domain.CartItem {
	if item.Product.PricePerDay < 0 {
		item.Product.PricePerDay = 0
	}
	if item.Product.ImageURL == "" {
		item.Product.ImageURL = placeholderImageURL
	}
	if item.EndDate.IsZero() {
		item.EndDate = item.StartDate.AddDate(0, 0, 1)
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	item.TotalAmount = domain.ItemTotal(item)
	return item
}

func recordToItem(record repository.CartRecord) domain.CartItem {
	return normalizeItem(domain.CartItem{
		ID: record.ID,
		Product: domain.Product{
			ID:          record.ProductID,
			Name:        record.Name,
			Category:    record.Category,
			PricePerDay: record.PricePerDay,
			ImageURL:    record.ImageURL,
			Location:    record.Location,
		},
		StartDate: record.StartDate,
		EndDate:   record.EndDate,
		Quantity:  record.Quantity,
	})
}

func itemToRecord(userID string, item domain.CartItem) repository.CartRecord {
	return repository.CartRecord{
		UserID:      userID,
		ProductID:   item.Product.ID,
		Name:        item.Product.Name,
		Category:    item.Product.Category,
		PricePerDay: item.Product.PricePerDay,
		ImageURL:    item.Product.ImageURL,
		Location:    item.Product.Location,
		StartDate:   item.StartDate,
		EndDate:     item.EndDate,
		Quantity:    item.Quantity,
		TotalAmount: item.TotalAmount,
	}
}
