package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/yourstruly-priyanshu/rentify/internal/cache"
	"github.com/yourstruly-priyanshu/rentify/internal/domain"
	"github.com/yourstruly-priyanshu/rentify/internal/events"
	"github.com/yourstruly-priyanshu/rentify/internal/identity"
	"github.com/yourstruly-priyanshu/rentify/internal/repository"
	"github.com/yourstruly-priyanshu/rentify/internal/store"
)

// Flusher drains in-flight cart writes before checkout snapshots the cart.
type Flusher interface {
	Flush()
}

type CheckoutResult struct {
	OrderID     string             `json:"order_id"`
	TotalAmount float64            `json:"total_amount"`
	Status      domain.OrderStatus `json:"status"`

	// CleanupErr is set when the order was created but clearing the remote
	// cart records failed after retries. The checkout still succeeded.
	CleanupErr error `json:"-"`
}

// CheckoutService turns the current cart into a durably written order and
// clears the cart, as one logical transaction per identity. Only one
// submission per identity may be in flight at a time.
type CheckoutService struct {
	store     store.CartStore
	syncer    Flusher
	carts     repository.CartRecordRepository
	orders    repository.OrderRepository
	cache     cache.CartCache
	publisher events.Publisher
	provider  *identity.Provider
	logger    *zap.Logger

	mu     sync.Mutex
	states map[string]domain.CheckoutState
}

func NewCheckoutService(
	cartStore store.CartStore,
	syncer Flusher,
	carts repository.CartRecordRepository,
	orders repository.OrderRepository,
	cartCache cache.CartCache,
	publisher events.Publisher,
	provider *identity.Provider,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		store:     cartStore,
		syncer:    syncer,
		carts:     carts,
		orders:    orders,
		cache:     cartCache,
		publisher: publisher,
		provider:  provider,
		logger:    logger,
		states:    make(map[string]domain.CheckoutState),
	}
}

// State reports the identity's checkout state; identities with no history
// are Idle.
func (s *CheckoutService) State(userID string) domain.CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[userID]
	if !ok {
		return domain.CheckoutStateIdle
	}
	return state
}

// Checkout snapshots the cart, writes the order, then clears the cart
// remotely and locally. A failed order write aborts with the cart
// untouched; a failed clear after a durably written order is a cleanup
// concern reported via the result, never as checkout failure.
func (s *CheckoutService) Checkout(ctx context.Context, userID, paymentMethod string) (*CheckoutResult, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	// the local cart belongs to the signed-in principal only
	if s.provider != nil {
		current, ok := s.provider.Current()
		if !ok || current != userID {
			return nil, ErrAuthRequired
		}
	}

	if err := s.begin(userID); err != nil {
		return nil, err
	}

	// settle pending optimistic writes so the snapshot is consistent
	if s.syncer != nil {
		s.syncer.Flush()
	}

	items := s.store.Items()
	if len(items) == 0 {
		s.finish(userID, domain.CheckoutStateIdle)
		return nil, ErrEmptyCart
	}

	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, domain.NewOrderItem(item))
	}

	order := &domain.Order{
		UserID:        userID,
		Items:         orderItems,
		TotalAmount:   domain.CartTotal(items),
		PaymentMethod: paymentMethod,
		Status:        domain.PaymentStatusFor(paymentMethod),
	}

	orderID, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		s.finish(userID, domain.CheckoutStateFailed)
		return nil, fmt.Errorf("%w: %w", ErrOrderCreation, err)
	}

	// The order exists from here on and must never be recreated. Clearing
	// is idempotent, so it is retried rather than rolled back.
	var cleanupErr error
	backoff := retry.WithMaxRetries(3, retry.NewExponential(100*time.Millisecond))
	if errClear := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if errDel := s.carts.DeleteAll(ctx, userID); errDel != nil {
			return retry.RetryableError(errDel)
		}
		return nil
	}); errClear != nil {
		cleanupErr = fmt.Errorf("%w: %w", ErrCartClear, errClear)
		s.logger.Warn("remote cart clear failed after retries",
			zap.String("user_id", userID),
			zap.String("order_id", orderID),
			zap.Error(errClear))
	}

	s.store.Clear()
	s.invalidateCache(userID)
	s.publishOrderCreated(order)

	s.finish(userID, domain.CheckoutStateSucceeded)

	return &CheckoutResult{
		OrderID:     orderID,
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
		CleanupErr:  cleanupErr,
	}, nil
}

func (s *CheckoutService) begin(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.states[userID]
	if !ok {
		current = domain.CheckoutStateIdle
	}
	if !domain.CanTransitionTo(current, domain.CheckoutStateSubmitting) {
		return ErrCheckoutInProgress
	}

	s.states[userID] = domain.CheckoutStateSubmitting
	return nil
}

func (s *CheckoutService) finish(userID string, state domain.CheckoutState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = state
}

func (s *CheckoutService) invalidateCache(userID string) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *CheckoutService) publishOrderCreated(order *domain.Order) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.publisher.PublishOrderCreated(ctx, order); err != nil {
		s.logger.Warn("order event publish failed",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}
}
