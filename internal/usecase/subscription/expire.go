package subscription

import (
	"context"
	"log/slog"
	"time"

	"github.com/nevskyi/chat-access-service/internal/domain"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/kafka"
)

// ExpireDueSubscriptions - тело свипа подписок (~30s).
// Порядок строгий: сначала кик, потом перевод в EXPIRED. Если кик не
// удался, статус не трогаем - подписка останется в выборке и кик
// повторится на следующем тике. Хуже лишний тик активности, чем
// пользователь, навсегда оставшийся в чате с EXPIRED-подпиской.
func (uc *DefaultSubscriptionUsecase) ExpireDueSubscriptions(ctx context.Context) error {
	due, err := uc.SubRepo.FindDueSubscriptions(time.Now().UTC(), 200)
	if err != nil {
		return err
	}

	for _, sub := range due {
		if err := uc.Chat.KickUser(ctx, sub.UserID); err != nil {
			slog.Error("failed to kick user, will retry",
				"subscription_id", sub.ID, "user_id", sub.UserID, "error", err.Error())
			continue
		}

		ok, err := uc.SubRepo.TrySetSubscriptionStatus(sub.ID, domain.SubscriptionStatusExpired)
		if err != nil {
			slog.Error("failed to expire subscription",
				"subscription_id", sub.ID, "error", err.Error())
			continue
		}
		if !ok {
			continue
		}

		uc.Metrics.SubscriptionsExpiredTotal.Inc()
		uc.publishEvent(kafka.EventSubscriptionExpired, sub.ID, sub.UserID)

		if _, sendErr := uc.Chat.SendMessage(ctx, sub.UserID,
			"Срок вашей подписки истек. Оформите новую, чтобы вернуться в чат."); sendErr != nil {
			slog.Error("failed to notify user about expired subscription",
				"user_id", sub.UserID, "error", sendErr.Error())
		}
	}

	return nil
}

// RevokeAllForUser вызывается, когда пользователь сам покинул чат
// (или его выгнал админ руками): кикать уже некого, доступ просто
// отзывается.
func (uc *DefaultSubscriptionUsecase) RevokeAllForUser(ctx context.Context, userID int64) error {
	revoked, err := uc.SubRepo.RevokeActiveByUser(userID)
	if err != nil {
		return err
	}
	if revoked == 0 {
		return nil
	}

	slog.Info("revoked subscriptions for departed user", "user_id", userID, "count", revoked)
	uc.Metrics.SubscriptionsRevokedTotal.Add(float64(revoked))
	uc.publishEvent(kafka.EventSubscriptionRevoked, "", userID)

	return nil
}
