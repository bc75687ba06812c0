package repository

import (
	"errors"
	"time"

	"github.com/nevskyi/chat-access-service/internal/domain"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/sqlite/mappers"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/sqlite/models"
	"gorm.io/gorm"
)

type DefaultSubscriptionRepository struct {
	DB *gorm.DB
}

func NewDefaultSubscriptionRepository(db *gorm.DB) *DefaultSubscriptionRepository {
	return &DefaultSubscriptionRepository{DB: db}
}

func (r *DefaultSubscriptionRepository) CreateSubscription(sub *domain.Subscription) error {
	subModel := mappers.ToGORMSubscription(sub)
	if err := r.DB.Create(subModel).Error; err != nil {
		return err
	}
	return nil
}

func (r *DefaultSubscriptionRepository) GetActiveSubscription(userID int64) (*domain.Subscription, error) {
	var subModel models.SubscriptionModel
	if err := r.DB.
		Where("user_id = ? AND status = ?", userID, domain.SubscriptionStatusActive).
		Order("starts_at DESC").
		First(&subModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoActiveSubscription
		}
		return nil, err
	}
	return mappers.ToDomainSubscription(&subModel), nil
}

// FindDueSubscriptions - активные подписки с наступившим ends_at.
// Безлимитные (ends_at IS NULL) сюда не попадают никогда.
func (r *DefaultSubscriptionRepository) FindDueSubscriptions(now time.Time, limit int) ([]*domain.Subscription, error) {
	var subModels []models.SubscriptionModel
	if err := r.DB.
		Where("status = ? AND ends_at IS NOT NULL AND ends_at <= ?", domain.SubscriptionStatusActive, now).
		Order("ends_at ASC").
		Limit(limit).
		Find(&subModels).Error; err != nil {
		return nil, err
	}

	subs := make([]*domain.Subscription, len(subModels))
	for i, subModel := range subModels {
		subs[i] = mappers.ToDomainSubscription(&subModel)
	}

	return subs, nil
}

// TrySetSubscriptionStatus - условный переход ACTIVE -> EXPIRED/REVOKED.
// Гонка между свипом истечения и watcher'ом решается здесь: выигрывает один.
func (r *DefaultSubscriptionRepository) TrySetSubscriptionStatus(subID string, target domain.SubscriptionStatus) (bool, error) {
	res := r.DB.Model(&models.SubscriptionModel{}).
		Where("id = ? AND status = ?", subID, domain.SubscriptionStatusActive).
		Update("status", target)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RevokeActiveByUser отзывает все активные подписки пользователя.
// У пользователя живая подписка одна, но на случай дублей - по user_id.
func (r *DefaultSubscriptionRepository) RevokeActiveByUser(userID int64) (int64, error) {
	res := r.DB.Model(&models.SubscriptionModel{}).
		Where("user_id = ? AND status = ?", userID, domain.SubscriptionStatusActive).
		Update("status", domain.SubscriptionStatusRevoked)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
