package mappers

import (
	"github.com/nevskyi/chat-access-service/internal/domain"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/sqlite/models"
)

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	return &domain.Order{
		ID:                model.ID,
		UserID:            model.UserID,
		TariffCode:        model.TariffCode,
		PriceRub:          model.PriceRub,
		Provider:          model.Provider,
		Status:            model.Status,
		ProviderInvoiceID: model.ProviderInvoiceID,
		PayURL:            model.PayURL,
		CreatedAt:         model.CreatedAt,
		ExpiresAt:         model.ExpiresAt,
		PaidAt:            model.PaidAt,
	}
}

func ToGORMOrder(order *domain.Order) *models.OrderModel {
	return &models.OrderModel{
		ID:                order.ID,
		UserID:            order.UserID,
		TariffCode:        order.TariffCode,
		PriceRub:          order.PriceRub,
		Provider:          order.Provider,
		Status:            order.Status,
		ProviderInvoiceID: order.ProviderInvoiceID,
		PayURL:            order.PayURL,
		CreatedAt:         order.CreatedAt,
		ExpiresAt:         order.ExpiresAt,
		PaidAt:            order.PaidAt,
	}
}
