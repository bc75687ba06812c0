package fulfillment

import (
	"context"
	"time"

	"github.com/nevskyi/chat-access-service/internal/domain"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/kafka"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/metrics"
)

// FulfillmentService превращает "заказ замечен оплаченным" в подписку,
// инвайт и уведомления - ровно один раз на заказ, кто бы ни дернул.
type FulfillmentService interface {
	FulfillIfPaid(ctx context.Context, order *domain.Order) error
}

type DefaultFulfillmentService struct {
	OrderRepo domain.OrderRepository
	SubRepo   domain.SubscriptionRepository
	UserRepo  domain.UserRepository
	Chat      domain.ChatGateway
	Tariffs   map[string]domain.Tariff
	Publisher *kafka.AccessEventPublisher
	Metrics   *metrics.AccessMetrics
	AdminIDs  []int64
	InviteTTL time.Duration
	Location  *time.Location
}

func NewDefaultFulfillmentService(
	orderRepo domain.OrderRepository,
	subRepo domain.SubscriptionRepository,
	userRepo domain.UserRepository,
	chat domain.ChatGateway,
	tariffs map[string]domain.Tariff,
	publisher *kafka.AccessEventPublisher,
	accessMetrics *metrics.AccessMetrics,
	adminIDs []int64,
	inviteTTL time.Duration,
	location *time.Location) *DefaultFulfillmentService {

	if location == nil {
		location = time.UTC
	}

	return &DefaultFulfillmentService{
		OrderRepo: orderRepo,
		SubRepo:   subRepo,
		UserRepo:  userRepo,
		Chat:      chat,
		Tariffs:   tariffs,
		Publisher: publisher,
		Metrics:   accessMetrics,
		AdminIDs:  adminIDs,
		InviteTTL: inviteTTL,
		Location:  location,
	}
}
