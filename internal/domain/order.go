package domain

import "time"

type OrderStatus string

const (
	OrderStatusCreated  OrderStatus = "CREATED"
	OrderStatusPaid     OrderStatus = "PAID"
	OrderStatusExpired  OrderStatus = "EXPIRED"
	OrderStatusCanceled OrderStatus = "CANCELED"
)

// Order - одна попытка покупки доступа. Статус покидает CREATED ровно один раз.
type Order struct {
	ID                string
	UserID            int64
	TariffCode        string
	PriceRub          int64
	Provider          string
	Status            OrderStatus
	ProviderInvoiceID string
	PayURL            string
	CreatedAt         time.Time
	ExpiresAt         time.Time
	PaidAt            *time.Time
}
