package domain

import (
	"context"
	"time"
)

// InvoiceStatus - нормализованный статус счета у платежки.
// Все неизвестные состояния провайдера приводятся к created ("еще ждем").
type InvoiceStatus string

const (
	InvoiceStatusCreated  InvoiceStatus = "created"
	InvoiceStatusPaid     InvoiceStatus = "paid"
	InvoiceStatusExpired  InvoiceStatus = "expired"
	InvoiceStatusCanceled InvoiceStatus = "canceled"
)

type Invoice struct {
	InvoiceID string
	PayURL    string

	// Дополнительные реквизиты (возвращает CactusPay)
	PayUntil   *time.Time
	ReceiverQR string
}

type PaymentProvider interface {
	Name() string
	CreateInvoice(ctx context.Context, orderID string, amountRub int64) (*Invoice, error)
	CheckStatus(ctx context.Context, invoiceID string) (InvoiceStatus, error)
	// Cancel - best-effort, ошибки логируются и игнорируются вызывающим
	Cancel(ctx context.Context, invoiceID string) error
}
