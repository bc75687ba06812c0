package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/nevskyi/chat-access-service/internal/domain"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/sqlite/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.UserModel{},
		&models.OrderModel{},
		&models.SubscriptionModel{},
	))

	return db
}

func makeOrder(id string, userID int64, status domain.OrderStatus, createdAt time.Time) *domain.Order {
	return &domain.Order{
		ID:         id,
		UserID:     userID,
		TariffCode: "month",
		PriceRub:   450,
		Provider:   "crypto",
		Status:     status,
		CreatedAt:  createdAt,
		ExpiresAt:  createdAt.Add(10 * time.Minute),
	}
}

func makeSubscription(id string, userID int64, endsAt *time.Time) *domain.Subscription {
	return &domain.Subscription{
		ID:         id,
		UserID:     userID,
		TariffCode: "month",
		StartsAt:   time.Now().UTC(),
		EndsAt:     endsAt,
		Status:     domain.SubscriptionStatusActive,
		OrderID:    "order-" + id,
	}
}
