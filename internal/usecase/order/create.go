package order

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jaevor/go-nanoid"
	"github.com/nevskyi/chat-access-service/internal/domain"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/kafka"
	orderdto "github.com/nevskyi/chat-access-service/internal/usecase/dto/order"
)

// CreateOrder заводит заказ и сразу, синхронно, выставляет счет у провайдера.
// Реконсиляция не успевает увидеть заказ без счета как оплачиваемый:
// петля пропускает заказы с пустым invoice_id.
func (uc *DefaultOrderUsecase) CreateOrder(ctx context.Context, input *orderdto.CreateOrderInput) (*orderdto.OrderOutput, error) {
	tariff, ok := uc.Tariffs[input.TariffCode]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTariff, input.TariffCode)
	}

	provider, err := uc.Providers.Get(input.Provider)
	if err != nil {
		return nil, err
	}

	idGenerator, err := nanoid.Standard(10)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:         idGenerator(),
		UserID:     input.UserID,
		TariffCode: tariff.Code,
		PriceRub:   tariff.PriceRub,
		Provider:   provider.Name(),
		Status:     domain.OrderStatusCreated,
		CreatedAt:  now,
		ExpiresAt:  now.Add(uc.OrderTTL),
	}

	if err := uc.OrderRepo.CreateOrder(order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	invoice, err := provider.CreateInvoice(ctx, order.ID, order.PriceRub)
	if err != nil {
		uc.Metrics.ProviderErrorsTotal.WithLabelValues(provider.Name(), "create_invoice").Inc()
		// заказ без счета никто не оплатит - сразу отменяем
		if _, cancelErr := uc.OrderRepo.TrySetOrderStatus(order.ID, domain.OrderStatusCanceled); cancelErr != nil {
			slog.Error("failed to cancel order after invoice failure",
				"order_id", order.ID, "error", cancelErr.Error())
		}
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	if err := uc.OrderRepo.AttachInvoice(order.ID, invoice.InvoiceID, invoice.PayURL); err != nil {
		return nil, fmt.Errorf("attach invoice: %w", err)
	}

	uc.Metrics.OrdersCreatedTotal.WithLabelValues(tariff.Code, provider.Name()).Inc()
	uc.publishEvent(kafka.EventOrderCreated, order)

	return &orderdto.OrderOutput{
		OrderID:    order.ID,
		TariffCode: tariff.Code,
		Provider:   provider.Name(),
		PriceRub:   order.PriceRub,
		PayURL:     invoice.PayURL,
		ExpiresAt:  order.ExpiresAt,
		PayUntil:   invoice.PayUntil,
		ReceiverQR: invoice.ReceiverQR,
	}, nil
}
