package repository

import (
	"errors"
	"time"

	"github.com/nevskyi/chat-access-service/internal/infrastructure/sqlite/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultUserRepository struct {
	DB *gorm.DB
}

func NewDefaultUserRepository(db *gorm.DB) *DefaultUserRepository {
	return &DefaultUserRepository{DB: db}
}

func (r *DefaultUserRepository) EnsureUser(userID int64) error {
	return r.DB.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserModel{UserID: userID, CreatedAt: time.Now().UTC()}).Error
}

func (r *DefaultUserRepository) GetLastScreen(userID int64) (int64, int64, error) {
	var userModel models.UserModel
	if err := r.DB.First(&userModel, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, nil
		}
		return 0, 0, err
	}
	return userModel.LastScreenChatID, userModel.LastScreenMessageID, nil
}

func (r *DefaultUserRepository) SetLastScreen(userID, chatID, messageID int64) error {
	if err := r.EnsureUser(userID); err != nil {
		return err
	}
	return r.DB.Model(&models.UserModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"last_screen_chat_id":    chatID,
			"last_screen_message_id": messageID,
		}).Error
}
