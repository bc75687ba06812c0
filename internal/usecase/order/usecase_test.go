package order

import (
	"context"
	"testing"
	"time"

	"github.com/nevskyi/chat-access-service/internal/domain"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/metrics"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/payments"
	"github.com/nevskyi/chat-access-service/internal/tariffs"
	orderdto "github.com/nevskyi/chat-access-service/internal/usecase/dto/order"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUsecase(repo *fakeOrderRepo, provider *fakeProvider, fulfiller *fakeFulfiller) *DefaultOrderUsecase {
	return NewDefaultOrderUsecase(
		repo,
		payments.NewRegistry(provider),
		tariffs.Default(),
		fulfiller,
		nil,
		metrics.NewAccessMetricsWith(prometheus.NewRegistry()),
		10*time.Minute,
	)
}

func seedCreatedOrder(t *testing.T, repo *fakeOrderRepo, id, invoiceID string, expiresAt time.Time) *domain.Order {
	t.Helper()
	order := &domain.Order{
		ID:         id,
		UserID:     100,
		TariffCode: "month",
		PriceRub:   450,
		Provider:   "crypto",
		Status:     domain.OrderStatusCreated,
		CreatedAt:  time.Now().UTC(),
		ExpiresAt:  expiresAt,
	}
	require.NoError(t, repo.CreateOrder(order))
	if invoiceID != "" {
		require.NoError(t, repo.AttachInvoice(id, invoiceID, "https://pay.example/"+id))
	}
	return order
}

func TestCreateOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	provider := &fakeProvider{name: "crypto"}
	uc := newTestUsecase(repo, provider, &fakeFulfiller{})

	out, err := uc.CreateOrder(context.Background(), &orderdto.CreateOrderInput{
		UserID:     100,
		TariffCode: "month",
		Provider:   "crypto",
	})
	require.NoError(t, err)

	assert.Equal(t, "month", out.TariffCode)
	assert.Equal(t, int64(450), out.PriceRub)
	assert.Equal(t, "https://pay.example/"+out.OrderID, out.PayURL)

	got, err := repo.GetOrderByID(out.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCreated, got.Status)
	assert.Equal(t, "inv-"+out.OrderID, got.ProviderInvoiceID)
	assert.WithinDuration(t, got.CreatedAt.Add(10*time.Minute), got.ExpiresAt, time.Second)
}

func TestCreateOrder_UnknownTariff(t *testing.T) {
	uc := newTestUsecase(newFakeOrderRepo(), &fakeProvider{name: "crypto"}, &fakeFulfiller{})

	_, err := uc.CreateOrder(context.Background(), &orderdto.CreateOrderInput{
		UserID:     100,
		TariffCode: "platinum",
		Provider:   "crypto",
	})
	assert.ErrorIs(t, err, domain.ErrUnknownTariff)
}

func TestCreateOrder_UnknownProvider(t *testing.T) {
	uc := newTestUsecase(newFakeOrderRepo(), &fakeProvider{name: "crypto"}, &fakeFulfiller{})

	_, err := uc.CreateOrder(context.Background(), &orderdto.CreateOrderInput{
		UserID:     100,
		TariffCode: "month",
		Provider:   "paypal",
	})
	assert.ErrorIs(t, err, domain.ErrUnknownProvider)
}

func TestCreateOrder_InvoiceFailureCancelsOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	provider := &fakeProvider{name: "crypto", createErr: errProviderDown}
	uc := newTestUsecase(repo, provider, &fakeFulfiller{})

	_, err := uc.CreateOrder(context.Background(), &orderdto.CreateOrderInput{
		UserID:     100,
		TariffCode: "month",
		Provider:   "crypto",
	})
	require.Error(t, err)

	orders, err := repo.GetCreatedOrders(10)
	require.NoError(t, err)
	assert.Empty(t, orders, "order without an invoice must not stay CREATED")
}

func TestReconcilePendingPayments_PaidTriggersFulfillment(t *testing.T) {
	repo := newFakeOrderRepo()
	future := time.Now().UTC().Add(10 * time.Minute)
	seedCreatedOrder(t, repo, "ord1", "inv1", future)
	seedCreatedOrder(t, repo, "ord2", "inv2", future)

	provider := &fakeProvider{
		name: "crypto",
		statuses: map[string]domain.InvoiceStatus{
			"inv1": domain.InvoiceStatusPaid,
			"inv2": domain.InvoiceStatusCreated,
		},
	}
	fulfiller := &fakeFulfiller{}
	uc := newTestUsecase(repo, provider, fulfiller)

	require.NoError(t, uc.ReconcilePendingPayments(context.Background()))

	assert.Equal(t, []string{"ord1"}, fulfiller.orders)

	// неоплаченный заказ остался ждать
	got, err := repo.GetOrderByID("ord2")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCreated, got.Status)
}

func TestReconcilePendingPayments_ExpiredAndCanceled(t *testing.T) {
	repo := newFakeOrderRepo()
	future := time.Now().UTC().Add(10 * time.Minute)
	seedCreatedOrder(t, repo, "ord1", "inv1", future)
	seedCreatedOrder(t, repo, "ord2", "inv2", future)

	provider := &fakeProvider{
		name: "crypto",
		statuses: map[string]domain.InvoiceStatus{
			"inv1": domain.InvoiceStatusExpired,
			"inv2": domain.InvoiceStatusCanceled,
		},
	}
	uc := newTestUsecase(repo, provider, &fakeFulfiller{})

	require.NoError(t, uc.ReconcilePendingPayments(context.Background()))

	got, err := repo.GetOrderByID("ord1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusExpired, got.Status)

	got, err = repo.GetOrderByID("ord2")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCanceled, got.Status)
}

func TestReconcilePendingPayments_SkipsOrdersWithoutInvoice(t *testing.T) {
	repo := newFakeOrderRepo()
	future := time.Now().UTC().Add(10 * time.Minute)
	seedCreatedOrder(t, repo, "ord1", "", future)

	provider := &fakeProvider{name: "crypto", checkErr: errProviderDown}
	uc := newTestUsecase(repo, provider, &fakeFulfiller{})

	// checkErr не всплывает: заказ без счета вообще не проверяется
	require.NoError(t, uc.ReconcilePendingPayments(context.Background()))

	got, err := repo.GetOrderByID("ord1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCreated, got.Status)
}

func TestReconcilePendingPayments_ProviderErrorDoesNotStopBatch(t *testing.T) {
	repo := newFakeOrderRepo()
	future := time.Now().UTC().Add(10 * time.Minute)
	seedCreatedOrder(t, repo, "ord1", "inv1", future)

	provider := &fakeProvider{name: "crypto", checkErr: errProviderDown}
	uc := newTestUsecase(repo, provider, &fakeFulfiller{})

	require.NoError(t, uc.ReconcilePendingPayments(context.Background()))

	got, err := repo.GetOrderByID("ord1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCreated, got.Status)
}

func TestExpireOverdueOrders(t *testing.T) {
	repo := newFakeOrderRepo()
	past := time.Now().UTC().Add(-time.Minute)
	future := time.Now().UTC().Add(10 * time.Minute)
	seedCreatedOrder(t, repo, "overdue", "inv1", past)
	seedCreatedOrder(t, repo, "noinvoice", "", past)
	seedCreatedOrder(t, repo, "fresh", "inv3", future)

	provider := &fakeProvider{name: "crypto"}
	uc := newTestUsecase(repo, provider, &fakeFulfiller{})

	require.NoError(t, uc.ExpireOverdueOrders(context.Background()))

	got, err := repo.GetOrderByID("overdue")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusExpired, got.Status)

	got, err = repo.GetOrderByID("noinvoice")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusExpired, got.Status)

	got, err = repo.GetOrderByID("fresh")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCreated, got.Status)

	// провайдера дергали только за заказ со счетом
	assert.Equal(t, []string{"inv1"}, provider.canceled)
}

func TestExpireOverdueOrders_CancelFailureStillExpires(t *testing.T) {
	repo := newFakeOrderRepo()
	past := time.Now().UTC().Add(-time.Minute)
	seedCreatedOrder(t, repo, "overdue", "inv1", past)

	provider := &fakeProvider{name: "crypto", cancelErr: errProviderDown}
	uc := newTestUsecase(repo, provider, &fakeFulfiller{})

	require.NoError(t, uc.ExpireOverdueOrders(context.Background()))

	got, err := repo.GetOrderByID("overdue")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusExpired, got.Status)
}

func TestCancelOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	future := time.Now().UTC().Add(10 * time.Minute)
	seedCreatedOrder(t, repo, "ord1", "inv1", future)

	provider := &fakeProvider{name: "crypto"}
	uc := newTestUsecase(repo, provider, &fakeFulfiller{})

	require.NoError(t, uc.CancelOrder(context.Background(), "ord1"))

	got, err := repo.GetOrderByID("ord1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCanceled, got.Status)
	assert.Equal(t, []string{"inv1"}, provider.canceled)
}

func TestCancelOrder_AlreadyPaid(t *testing.T) {
	repo := newFakeOrderRepo()
	future := time.Now().UTC().Add(10 * time.Minute)
	seedCreatedOrder(t, repo, "ord1", "inv1", future)
	_, err := repo.TryMarkOrderPaid("ord1", time.Now().UTC())
	require.NoError(t, err)

	uc := newTestUsecase(repo, &fakeProvider{name: "crypto"}, &fakeFulfiller{})

	err = uc.CancelOrder(context.Background(), "ord1")
	assert.ErrorIs(t, err, domain.ErrCancelOrder)
}

func TestCancelOrder_NotFound(t *testing.T) {
	uc := newTestUsecase(newFakeOrderRepo(), &fakeProvider{name: "crypto"}, &fakeFulfiller{})

	err := uc.CancelOrder(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
