package order

import "time"

type OrderOutput struct {
	OrderID    string
	TariffCode string
	Provider   string
	PriceRub   int64
	PayURL     string
	ExpiresAt  time.Time

	// Реквизиты CactusPay, если провайдер их вернул
	PayUntil   *time.Time
	ReceiverQR string
}
