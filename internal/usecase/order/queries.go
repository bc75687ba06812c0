package order

import (
	"time"

	"github.com/nevskyi/chat-access-service/internal/domain"
)

func (uc *DefaultOrderUsecase) GetOrderByID(orderID string) (*domain.Order, error) {
	return uc.OrderRepo.GetOrderByID(orderID)
}

func (uc *DefaultOrderUsecase) GetCreatedOrderByInvoiceID(provider, invoiceID string) (*domain.Order, error) {
	return uc.OrderRepo.GetCreatedOrderByInvoiceID(provider, invoiceID)
}

func (uc *DefaultOrderUsecase) GetCreatedOrders(limit int) ([]*domain.Order, error) {
	return uc.OrderRepo.GetCreatedOrders(limit)
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
