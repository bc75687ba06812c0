package domain

import "errors"

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrUnknownProvider      = errors.New("unknown payment provider")
	ErrUnknownTariff        = errors.New("unknown tariff code")
	ErrCancelOrder          = errors.New("failed to cancel order")
	ErrNoActiveSubscription = errors.New("no active subscription")
)
