package models

import (
	"time"

	"github.com/nevskyi/chat-access-service/internal/domain"
)

type SubscriptionModel struct {
	ID         string `gorm:"primaryKey"`
	UserID     int64  `gorm:"index:idx_sub_user_status"`
	TariffCode string
	StartsAt   time.Time
	EndsAt     *time.Time                `gorm:"index:idx_sub_status_ends"`
	Status     domain.SubscriptionStatus `gorm:"index:idx_sub_user_status;index:idx_sub_status_ends"`
	OrderID    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
