package mappers

import (
	"github.com/nevskyi/chat-access-service/internal/domain"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/sqlite/models"
)

func ToDomainSubscription(model *models.SubscriptionModel) *domain.Subscription {
	return &domain.Subscription{
		ID:         model.ID,
		UserID:     model.UserID,
		TariffCode: model.TariffCode,
		StartsAt:   model.StartsAt,
		EndsAt:     model.EndsAt,
		Status:     model.Status,
		OrderID:    model.OrderID,
	}
}

func ToGORMSubscription(sub *domain.Subscription) *models.SubscriptionModel {
	return &models.SubscriptionModel{
		ID:         sub.ID,
		UserID:     sub.UserID,
		TariffCode: sub.TariffCode,
		StartsAt:   sub.StartsAt,
		EndsAt:     sub.EndsAt,
		Status:     sub.Status,
		OrderID:    sub.OrderID,
	}
}
