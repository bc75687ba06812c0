package order

import (
	"context"
	"log/slog"

	"github.com/nevskyi/chat-access-service/internal/domain"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/kafka"
)

// CancelOrder - явная отмена пользователем. Счет у провайдера гасим
// best-effort: его отмена - любезность, а не часть контракта корректности.
func (uc *DefaultOrderUsecase) CancelOrder(ctx context.Context, orderID string) error {
	order, err := uc.OrderRepo.GetOrderByID(orderID)
	if err != nil {
		return err
	}

	if order.ProviderInvoiceID != "" {
		if provider, pErr := uc.Providers.Get(order.Provider); pErr == nil {
			if cErr := provider.Cancel(ctx, order.ProviderInvoiceID); cErr != nil {
				uc.Metrics.ProviderErrorsTotal.WithLabelValues(order.Provider, "cancel").Inc()
				slog.Error("failed to cancel provider invoice",
					"order_id", order.ID, "invoice_id", order.ProviderInvoiceID, "error", cErr.Error())
			}
		}
	}

	ok, err := uc.OrderRepo.TrySetOrderStatus(orderID, domain.OrderStatusCanceled)
	if err != nil {
		return err
	}
	if !ok {
		// заказ уже оплачен/истек - отменять нечего
		return domain.ErrCancelOrder
	}

	uc.Metrics.OrdersCanceledTotal.Inc()
	uc.publishEvent(kafka.EventOrderCanceled, order)

	return nil
}
