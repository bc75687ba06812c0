package sqlite

import (
	"log"
	"strings"

	"github.com/nevskyi/chat-access-service/internal/config"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/sqlite/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MustInitDB открывает файл базы и накатывает схему.
// WAL обязателен: конкурентные писатели (петли, вебхуки, watcher)
// сериализуются на уровне хранилища, а не приложения.
func MustInitDB(cfg *config.AccessConfig) *gorm.DB {
	dsn := cfg.AccessDB.Dsn
	if !strings.Contains(dsn, "?") {
		dsn += "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(&models.UserModel{}, &models.OrderModel{}, &models.SubscriptionModel{})

	return db
}
