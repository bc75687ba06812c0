package jobs

import (
	"context"
	"log/slog"

	"github.com/nevskyi/chat-access-service/internal/infrastructure/metrics"
	"github.com/robfig/cron/v3"
)

type PaymentReconciler interface {
	ReconcilePendingPayments(ctx context.Context) error
	ExpireOverdueOrders(ctx context.Context) error
}

type SubscriptionSweeper interface {
	ExpireDueSubscriptions(ctx context.Context) error
}

// Scheduler гоняет три фоновые петли. Каденции разные, чтобы не бить
// по провайдерам и по базе одновременно.
type Scheduler struct {
	cron    *cron.Cron
	orders  PaymentReconciler
	subs    SubscriptionSweeper
	metrics *metrics.AccessMetrics
}

func NewScheduler(orders PaymentReconciler, subs SubscriptionSweeper, accessMetrics *metrics.AccessMetrics) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cron.DefaultLogger)),
		),
		orders:  orders,
		subs:    subs,
		metrics: accessMetrics,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc("@every 10s", s.loop(ctx, "reconcile_payments", s.orders.ReconcilePendingPayments)); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("@every 20s", s.loop(ctx, "expire_orders", s.orders.ExpireOverdueOrders)); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("@every 30s", s.loop(ctx, "expire_subscriptions", s.subs.ExpireDueSubscriptions)); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// loop оборачивает итерацию: ошибка логируется и считается, но петлю
// не останавливает.
func (s *Scheduler) loop(ctx context.Context, name string, fn func(context.Context) error) func() {
	return func() {
		if err := fn(ctx); err != nil {
			s.metrics.LoopErrorsTotal.WithLabelValues(name).Inc()
			slog.Error("background loop iteration failed", "loop", name, "error", err.Error())
		}
	}
}
