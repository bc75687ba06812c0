package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AccessMetrics содержит все метрики сервиса доступа
type AccessMetrics struct {
	// Заказы
	OrdersCreatedTotal  prometheus.CounterVec
	OrdersPaidTotal     prometheus.CounterVec
	OrdersExpiredTotal  prometheus.Counter
	OrdersCanceledTotal prometheus.Counter

	// Фулфилмент
	FulfillmentsTotal   prometheus.CounterVec // result: fulfilled / duplicate / unknown_tariff / error
	FulfillmentDuration prometheus.Histogram

	// Подписки
	SubscriptionsExpiredTotal prometheus.Counter
	SubscriptionsRevokedTotal prometheus.Counter

	// Вебхуки
	WebhookRequestsTotal prometheus.CounterVec // provider, outcome

	// Фоновые петли
	LoopErrorsTotal prometheus.CounterVec // loop

	// Ошибки провайдеров
	ProviderErrorsTotal prometheus.CounterVec // provider, op
}

func NewAccessMetrics() *AccessMetrics {
	return NewAccessMetricsWith(prometheus.DefaultRegisterer)
}

// NewAccessMetricsWith позволяет тестам регистрировать метрики в своем registry.
func NewAccessMetricsWith(reg prometheus.Registerer) *AccessMetrics {
	factory := promauto.With(reg)

	return &AccessMetrics{
		OrdersCreatedTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "access_orders_created_total",
				Help: "Количество созданных заказов",
			},
			[]string{"tariff", "provider"},
		),
		OrdersPaidTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "access_orders_paid_total",
				Help: "Количество оплаченных заказов",
			},
			[]string{"tariff", "provider"},
		),
		OrdersExpiredTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "access_orders_expired_total",
				Help: "Количество протухших заказов",
			},
		),
		OrdersCanceledTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "access_orders_canceled_total",
				Help: "Количество отмененных заказов",
			},
		),
		FulfillmentsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "access_fulfillments_total",
				Help: "Исходы фулфилмента оплаченных заказов",
			},
			[]string{"result"},
		),
		FulfillmentDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "access_fulfillment_duration_seconds",
				Help:    "Длительность фулфилмента",
				Buckets: prometheus.DefBuckets,
			},
		),
		SubscriptionsExpiredTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "access_subscriptions_expired_total",
				Help: "Количество истекших подписок",
			},
		),
		SubscriptionsRevokedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "access_subscriptions_revoked_total",
				Help: "Количество отозванных подписок",
			},
		),
		WebhookRequestsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "access_webhook_requests_total",
				Help: "Входящие вебхуки по провайдерам и исходам",
			},
			[]string{"provider", "outcome"},
		),
		LoopErrorsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "access_loop_errors_total",
				Help: "Ошибки итераций фоновых петель",
			},
			[]string{"loop"},
		),
		ProviderErrorsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "access_provider_errors_total",
				Help: "Ошибки вызовов платежных провайдеров",
			},
			[]string{"provider", "op"},
		),
	}
}
