package fulfillment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	"github.com/nevskyi/chat-access-service/internal/domain"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/kafka"
)

// FulfillIfPaid - единственная точка входа фулфилмента.
// Вызывающий уже убедился у платежки, что заказ оплачен; сюда конкурентно
// приходят петля опроса и вебхук с тем же заказом. Условный переход
// CREATED -> PAID решает гонку: проигравший выходит без побочных эффектов.
func (s *DefaultFulfillmentService) FulfillIfPaid(ctx context.Context, order *domain.Order) error {
	start := time.Now()
	now := time.Now().UTC()

	won, err := s.OrderRepo.TryMarkOrderPaid(order.ID, now)
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}
	if !won {
		// заказ уже финализировал другой путь (вебхук/петля/свип истечения)
		s.Metrics.FulfillmentsTotal.WithLabelValues("duplicate").Inc()
		return nil
	}

	tariff, ok := s.Tariffs[order.TariffCode]
	if !ok {
		// Заказ остается PAID без подписки - это сознательно поднятая
		// несогласованность для оператора, не цель для ретрая.
		slog.Error("unknown tariff on paid order",
			"order_id", order.ID, "tariff_code", order.TariffCode, "user_id", order.UserID)
		s.Metrics.FulfillmentsTotal.WithLabelValues("unknown_tariff").Inc()
		return fmt.Errorf("%w: %s", domain.ErrUnknownTariff, order.TariffCode)
	}

	var endsAt *time.Time
	if tariff.Duration != nil {
		e := now.Add(*tariff.Duration)
		endsAt = &e
	}

	idGenerator, err := nanoid.Standard(12)
	if err != nil {
		return err
	}

	sub := &domain.Subscription{
		ID:         idGenerator(),
		UserID:     order.UserID,
		TariffCode: order.TariffCode,
		StartsAt:   now,
		EndsAt:     endsAt,
		Status:     domain.SubscriptionStatusActive,
		OrderID:    order.ID,
	}
	if err := s.SubRepo.CreateSubscription(sub); err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}

	invite, err := s.Chat.CreateOneTimeInvite(ctx, fmt.Sprintf("Доступ по заказу %s", order.ID), s.InviteTTL)
	if err != nil {
		s.Metrics.FulfillmentsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("create invite: %w", err)
	}

	// Уведомления best-effort: недоставка не откатывает оплату
	s.notifyUser(ctx, order, tariff, sub, invite)
	s.notifyAdmins(ctx, order, sub)

	s.publishPaid(order)

	s.Metrics.OrdersPaidTotal.WithLabelValues(order.TariffCode, order.Provider).Inc()
	s.Metrics.FulfillmentsTotal.WithLabelValues("fulfilled").Inc()
	s.Metrics.FulfillmentDuration.Observe(time.Since(start).Seconds())

	return nil
}

func (s *DefaultFulfillmentService) notifyUser(ctx context.Context, order *domain.Order, tariff domain.Tariff, sub *domain.Subscription, invite *domain.InviteLink) {
	var periodLine string
	if sub.EndsAt != nil {
		periodLine = fmt.Sprintf("Доступ до: %s", sub.EndsAt.In(s.Location).Format("2006-01-02 15:04"))
	} else {
		periodLine = "Доступ: НАВСЕГДА"
	}

	text := fmt.Sprintf(
		"Оплата прошла успешно!\n\n"+
			"Заказ: %s\n"+
			"Сумма: %d₽\n"+
			"Тариф: %s\n"+
			"%s\n\n"+
			"Одноразовая ссылка для входа: %s\n"+
			"Если вы выйдете - потребуется повторная оплата.",
		order.ID, order.PriceRub, tariff.Title, periodLine, invite.URL,
	)

	s.sendScreen(ctx, order.UserID, text)
}

func (s *DefaultFulfillmentService) notifyAdmins(ctx context.Context, order *domain.Order, sub *domain.Subscription) {
	text := fmt.Sprintf(
		"Оплата получена!\n\n"+
			"User ID: %d\n"+
			"Заказ: %s\n"+
			"Сумма: %d₽\n"+
			"Тариф: %s\n"+
			"Провайдер: %s\n"+
			"Подписка: %s",
		order.UserID, order.ID, order.PriceRub, order.TariffCode, order.Provider, sub.ID,
	)

	for _, adminID := range s.AdminIDs {
		if _, err := s.Chat.SendMessage(ctx, adminID, text); err != nil {
			slog.Error("failed to notify admin about paid order",
				"admin_id", adminID, "order_id", order.ID, "error", err.Error())
		}
	}
}

// sendScreen заменяет предыдущий экран пользователя новым сообщением.
func (s *DefaultFulfillmentService) sendScreen(ctx context.Context, userID int64, text string) {
	lastChatID, lastMsgID, err := s.UserRepo.GetLastScreen(userID)
	if err == nil && lastChatID != 0 && lastMsgID != 0 {
		if err := s.Chat.DeleteMessage(ctx, lastChatID, lastMsgID); err != nil {
			slog.Debug("failed to delete previous screen", "user_id", userID, "error", err.Error())
		}
	}

	msgID, err := s.Chat.SendMessage(ctx, userID, text)
	if err != nil {
		slog.Error("failed to notify user", "user_id", userID, "error", err.Error())
		return
	}

	if err := s.UserRepo.SetLastScreen(userID, userID, msgID); err != nil {
		slog.Error("failed to store last screen", "user_id", userID, "error", err.Error())
	}
}

func (s *DefaultFulfillmentService) publishPaid(order *domain.Order) {
	if s.Publisher == nil {
		return
	}
	go func(event kafka.AccessEvent) {
		if err := s.Publisher.Publish(event); err != nil {
			slog.Error("failed to publish access event", "kind", event.Kind, "error", err.Error())
		}
	}(kafka.AccessEvent{
		EventID:    uuid.New().String(),
		Kind:       kafka.EventOrderPaid,
		OrderID:    order.ID,
		UserID:     order.UserID,
		TariffCode: order.TariffCode,
		AmountRub:  order.PriceRub,
		Provider:   order.Provider,
		Timestamp:  time.Now().UTC(),
	})
}
