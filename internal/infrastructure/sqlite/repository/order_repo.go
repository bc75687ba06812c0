package repository

import (
	"errors"
	"time"

	"github.com/nevskyi/chat-access-service/internal/domain"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/sqlite/mappers"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/sqlite/models"
	"gorm.io/gorm"
)

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

func (r *DefaultOrderRepository) CreateOrder(order *domain.Order) error {
	orderModel := mappers.ToGORMOrder(order)
	if err := r.DB.Create(orderModel).Error; err != nil {
		return err
	}
	return nil
}

func (r *DefaultOrderRepository) GetOrderByID(orderID string) (*domain.Order, error) {
	var orderModel models.OrderModel
	if err := r.DB.First(&orderModel, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return mappers.ToDomainOrder(&orderModel), nil
}

func (r *DefaultOrderRepository) GetCreatedOrders(limit int) ([]*domain.Order, error) {
	var orderModels []models.OrderModel
	if err := r.DB.
		Where("status = ?", domain.OrderStatusCreated).
		Order("created_at ASC").
		Limit(limit).
		Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]*domain.Order, len(orderModels))
	for i, orderModel := range orderModels {
		orders[i] = mappers.ToDomainOrder(&orderModel)
	}

	return orders, nil
}

func (r *DefaultOrderRepository) GetCreatedOrderByInvoiceID(provider, invoiceID string) (*domain.Order, error) {
	var orderModel models.OrderModel
	if err := r.DB.
		Where("provider = ? AND provider_invoice_id = ? AND status = ?",
			provider, invoiceID, domain.OrderStatusCreated).
		First(&orderModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return mappers.ToDomainOrder(&orderModel), nil
}

func (r *DefaultOrderRepository) FindExpiredCreatedOrders(now time.Time) ([]*domain.Order, error) {
	var orderModels []models.OrderModel
	if err := r.DB.
		Where("status = ?", domain.OrderStatusCreated).
		Where("expires_at <= ?", now).
		Order("expires_at ASC").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]*domain.Order, len(orderModels))
	for i, orderModel := range orderModels {
		orders[i] = mappers.ToDomainOrder(&orderModel)
	}

	return orders, nil
}

// AttachInvoice привязывает счет провайдера. Условие по статусу оставлено
// намеренно: после ухода из CREATED менять платежные реквизиты нельзя.
func (r *DefaultOrderRepository) AttachInvoice(orderID, invoiceID, payURL string) error {
	return r.DB.Model(&models.OrderModel{}).
		Where("id = ? AND status = ?", orderID, domain.OrderStatusCreated).
		Updates(map[string]interface{}{
			"provider_invoice_id": invoiceID,
			"pay_url":             payURL,
		}).Error
}

// TryMarkOrderPaid - условный переход CREATED -> PAID одним UPDATE.
// false означает, что заказ уже финализировал кто-то другой:
// вызывающий обязан пропустить все побочные эффекты.
func (r *DefaultOrderRepository) TryMarkOrderPaid(orderID string, paidAt time.Time) (bool, error) {
	res := r.DB.Model(&models.OrderModel{}).
		Where("id = ? AND status = ?", orderID, domain.OrderStatusCreated).
		Updates(map[string]interface{}{
			"status":  domain.OrderStatusPaid,
			"paid_at": paidAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// TrySetOrderStatus - условный переход CREATED -> EXPIRED/CANCELED.
func (r *DefaultOrderRepository) TrySetOrderStatus(orderID string, target domain.OrderStatus) (bool, error) {
	res := r.DB.Model(&models.OrderModel{}).
		Where("id = ? AND status = ?", orderID, domain.OrderStatusCreated).
		Update("status", target)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
