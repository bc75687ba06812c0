package order

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nevskyi/chat-access-service/internal/domain"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/kafka"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/metrics"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/payments"
	orderdto "github.com/nevskyi/chat-access-service/internal/usecase/dto/order"
)

// Fulfiller - то, что умеет фулфилмент; сюда подставляется
// fulfillment.DefaultFulfillmentService.
type Fulfiller interface {
	FulfillIfPaid(ctx context.Context, order *domain.Order) error
}

type OrderUsecase interface {
	CreateOrder(ctx context.Context, input *orderdto.CreateOrderInput) (*orderdto.OrderOutput, error)
	CancelOrder(ctx context.Context, orderID string) error

	GetOrderByID(orderID string) (*domain.Order, error)
	GetCreatedOrderByInvoiceID(provider, invoiceID string) (*domain.Order, error)
	GetCreatedOrders(limit int) ([]*domain.Order, error)

	ReconcilePendingPayments(ctx context.Context) error
	ExpireOverdueOrders(ctx context.Context) error
}

type DefaultOrderUsecase struct {
	OrderRepo   domain.OrderRepository
	Providers   *payments.Registry
	Tariffs     map[string]domain.Tariff
	Fulfillment Fulfiller
	Publisher   *kafka.AccessEventPublisher
	Metrics     *metrics.AccessMetrics
	OrderTTL    time.Duration
}

func NewDefaultOrderUsecase(
	orderRepo domain.OrderRepository,
	providers *payments.Registry,
	tariffs map[string]domain.Tariff,
	fulfillment Fulfiller,
	publisher *kafka.AccessEventPublisher,
	accessMetrics *metrics.AccessMetrics,
	orderTTL time.Duration) *DefaultOrderUsecase {

	return &DefaultOrderUsecase{
		OrderRepo:   orderRepo,
		Providers:   providers,
		Tariffs:     tariffs,
		Fulfillment: fulfillment,
		Publisher:   publisher,
		Metrics:     accessMetrics,
		OrderTTL:    orderTTL,
	}
}

func (uc *DefaultOrderUsecase) publishEvent(kind string, order *domain.Order) {
	if uc.Publisher == nil {
		return
	}
	go func(event kafka.AccessEvent) {
		if err := uc.Publisher.Publish(event); err != nil {
			slog.Error("failed to publish access event", "kind", event.Kind, "error", err.Error())
		}
	}(kafka.AccessEvent{
		EventID:    uuid.New().String(),
		Kind:       kind,
		OrderID:    order.ID,
		UserID:     order.UserID,
		TariffCode: order.TariffCode,
		AmountRub:  order.PriceRub,
		Provider:   order.Provider,
		Timestamp:  time.Now().UTC(),
	})
}
