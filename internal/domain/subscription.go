package domain

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusActive  SubscriptionStatus = "ACTIVE"
	SubscriptionStatusExpired SubscriptionStatus = "EXPIRED"
	SubscriptionStatusRevoked SubscriptionStatus = "REVOKED"
)

// Subscription - выданный доступ. EndsAt == nil означает "навсегда".
type Subscription struct {
	ID         string
	UserID     int64
	TariffCode string
	StartsAt   time.Time
	EndsAt     *time.Time
	Status     SubscriptionStatus
	OrderID    string
}
