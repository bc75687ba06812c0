package models

import (
	"time"

	"github.com/nevskyi/chat-access-service/internal/domain"
)

type OrderModel struct {
	ID                string `gorm:"primaryKey"`
	UserID            int64  `gorm:"index"`
	TariffCode        string
	PriceRub          int64
	Provider          string
	Status            domain.OrderStatus `gorm:"index:idx_order_status_expires"`
	ProviderInvoiceID string             `gorm:"index"`
	PayURL            string
	ExpiresAt         time.Time `gorm:"index:idx_order_status_expires"`
	PaidAt            *time.Time
	CreatedAt         time.Time `gorm:"index:idx_order_created_at"`
	UpdatedAt         time.Time
}
