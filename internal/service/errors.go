package service

import "errors"

var (
	ErrAuthRequired       = errors.New("authentication required")
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrRemoteSync         = errors.New("remote sync failed")
	ErrOrderCreation      = errors.New("failed to create order")
	ErrCartClear          = errors.New("failed to clear cart records")
)
