package order

import (
	"context"
	"log/slog"

	"github.com/nevskyi/chat-access-service/internal/domain"
)

// ExpireOverdueOrders - тело свипа протухших заказов (~20s).
// Заказ, у которого так и не появился счет, просто истекает без
// обращения к провайдеру.
func (uc *DefaultOrderUsecase) ExpireOverdueOrders(ctx context.Context) error {
	overdue, err := uc.OrderRepo.FindExpiredCreatedOrders(nowUTC())
	if err != nil {
		return err
	}

	for _, order := range overdue {
		if order.ProviderInvoiceID != "" {
			if provider, pErr := uc.Providers.Get(order.Provider); pErr == nil {
				if cErr := provider.Cancel(ctx, order.ProviderInvoiceID); cErr != nil {
					uc.Metrics.ProviderErrorsTotal.WithLabelValues(order.Provider, "cancel").Inc()
					slog.Error("failed to cancel invoice for expired order",
						"order_id", order.ID, "invoice_id", order.ProviderInvoiceID, "error", cErr.Error())
				}
			}
		}

		uc.finalize(order, domain.OrderStatusExpired)
	}

	return nil
}
