package kafka

import "time"

const (
	EventOrderCreated        = "order_created"
	EventOrderPaid           = "order_paid"
	EventOrderExpired        = "order_expired"
	EventOrderCanceled       = "order_canceled"
	EventSubscriptionExpired = "subscription_expired"
	EventSubscriptionRevoked = "subscription_revoked"
)

type AccessEvent struct {
	EventID        string    `json:"event_id"`
	Kind           string    `json:"kind"`
	OrderID        string    `json:"order_id,omitempty"`
	SubscriptionID string    `json:"subscription_id,omitempty"`
	UserID         int64     `json:"user_id"`
	TariffCode     string    `json:"tariff_code,omitempty"`
	AmountRub      int64     `json:"amount_rub,omitempty"`
	Provider       string    `json:"provider,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}
