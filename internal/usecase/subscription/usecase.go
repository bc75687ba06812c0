package subscription

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nevskyi/chat-access-service/internal/domain"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/kafka"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/metrics"
)

type SubscriptionUsecase interface {
	GetActiveSubscription(userID int64) (*domain.Subscription, error)
	ExpireDueSubscriptions(ctx context.Context) error
	RevokeAllForUser(ctx context.Context, userID int64) error
}

type DefaultSubscriptionUsecase struct {
	SubRepo   domain.SubscriptionRepository
	Chat      domain.ChatGateway
	Publisher *kafka.AccessEventPublisher
	Metrics   *metrics.AccessMetrics
}

func NewDefaultSubscriptionUsecase(
	subRepo domain.SubscriptionRepository,
	chat domain.ChatGateway,
	publisher *kafka.AccessEventPublisher,
	accessMetrics *metrics.AccessMetrics) *DefaultSubscriptionUsecase {

	return &DefaultSubscriptionUsecase{
		SubRepo:   subRepo,
		Chat:      chat,
		Publisher: publisher,
		Metrics:   accessMetrics,
	}
}

func (uc *DefaultSubscriptionUsecase) GetActiveSubscription(userID int64) (*domain.Subscription, error) {
	return uc.SubRepo.GetActiveSubscription(userID)
}

func (uc *DefaultSubscriptionUsecase) publishEvent(kind, subID string, userID int64) {
	if uc.Publisher == nil {
		return
	}
	go func(event kafka.AccessEvent) {
		if err := uc.Publisher.Publish(event); err != nil {
			slog.Error("failed to publish access event", "kind", event.Kind, "error", err.Error())
		}
	}(kafka.AccessEvent{
		EventID:        uuid.New().String(),
		Kind:           kind,
		SubscriptionID: subID,
		UserID:         userID,
		Timestamp:      time.Now().UTC(),
	})
}
