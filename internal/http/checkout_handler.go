package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/yourstruly-priyanshu/rentify/internal/service"
)

// CheckoutRunner submits the current cart as an order.
type CheckoutRunner interface {
	Checkout(ctx context.Context, userID, paymentMethod string) (*service.CheckoutResult, error)
}

type CheckoutHandler struct {
	checkout CheckoutRunner
	timeout  time.Duration
}

func NewCheckoutHandler(checkout CheckoutRunner, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		timeout:  timeout,
	}
}

type CheckoutRequestDTO struct {
	PaymentMethod string `json:"payment_method"`
}

type CheckoutResponseDTO struct {
	OrderID     string  `json:"order_id"`
	TotalAmount float64 `json:"total_amount"`
	Status      string  `json:"status"`
	Warning     string  `json:"warning,omitempty"`
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.PaymentMethod == "" {
		respondError(w, http.StatusBadRequest, "invalid_payment_method", "payment_method is required")
		return
	}

	result, err := h.checkout.Checkout(ctx, userID, req.PaymentMethod)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	resp := CheckoutResponseDTO{
		OrderID:     result.OrderID,
		TotalAmount: result.TotalAmount,
		Status:      string(result.Status),
	}
	// the order exists even when the remote cart wipe failed
	if result.CleanupErr != nil && errors.Is(result.CleanupErr, service.ErrCartClear) {
		resp.Warning = "order placed, but the stored cart could not be cleared"
	}

	respondJSON(w, http.StatusCreated, resp)
}
