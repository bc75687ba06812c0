package order

import (
	"context"
	"log/slog"

	"github.com/nevskyi/chat-access-service/internal/domain"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/kafka"
)

// ReconcilePendingPayments - тело петли опроса платежей (~10s).
// Заказы без привязанного счета пропускаем: они еще между созданием
// и привязкой инвойса. Ошибка по одному заказу не трогает соседние.
func (uc *DefaultOrderUsecase) ReconcilePendingPayments(ctx context.Context) error {
	orders, err := uc.OrderRepo.GetCreatedOrders(100)
	if err != nil {
		return err
	}

	for _, order := range orders {
		if order.ProviderInvoiceID == "" {
			continue
		}

		provider, err := uc.Providers.Get(order.Provider)
		if err != nil {
			slog.Error("order references unknown provider", "order_id", order.ID, "provider", order.Provider)
			continue
		}

		status, err := provider.CheckStatus(ctx, order.ProviderInvoiceID)
		if err != nil {
			uc.Metrics.ProviderErrorsTotal.WithLabelValues(order.Provider, "check_status").Inc()
			slog.Error("failed to check invoice status",
				"order_id", order.ID, "invoice_id", order.ProviderInvoiceID, "error", err.Error())
			continue
		}

		switch status {
		case domain.InvoiceStatusPaid:
			if err := uc.Fulfillment.FulfillIfPaid(ctx, order); err != nil {
				slog.Error("fulfillment failed", "order_id", order.ID, "error", err.Error())
			}

		case domain.InvoiceStatusExpired:
			uc.finalize(order, domain.OrderStatusExpired)

		case domain.InvoiceStatusCanceled:
			uc.finalize(order, domain.OrderStatusCanceled)
		}
	}

	return nil
}

func (uc *DefaultOrderUsecase) finalize(order *domain.Order, target domain.OrderStatus) {
	ok, err := uc.OrderRepo.TrySetOrderStatus(order.ID, target)
	if err != nil {
		slog.Error("failed to finalize order", "order_id", order.ID, "target", string(target), "error", err.Error())
		return
	}
	if !ok {
		return
	}

	switch target {
	case domain.OrderStatusExpired:
		uc.Metrics.OrdersExpiredTotal.Inc()
		uc.publishEvent(kafka.EventOrderExpired, order)
	case domain.OrderStatusCanceled:
		uc.Metrics.OrdersCanceledTotal.Inc()
		uc.publishEvent(kafka.EventOrderCanceled, order)
	}
}
