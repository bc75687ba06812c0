package domain

import "time"

// OrderRepository - единственный владелец таблицы orders.
// Все переходы статуса - одиночные условные UPDATE, возвращающие
// применился переход или нет. Это главный механизм синхронизации:
// из нескольких конкурентных переходов выигрывает ровно один.
type OrderRepository interface {
	CreateOrder(order *Order) error
	GetOrderByID(orderID string) (*Order, error)
	// GetCreatedOrders - ожидающие заказы, старые первыми
	GetCreatedOrders(limit int) ([]*Order, error)
	GetCreatedOrderByInvoiceID(provider, invoiceID string) (*Order, error)
	FindExpiredCreatedOrders(now time.Time) ([]*Order, error)
	// AttachInvoice применяется только пока заказ в CREATED, иначе no-op
	AttachInvoice(orderID, invoiceID, payURL string) error
	TryMarkOrderPaid(orderID string, paidAt time.Time) (bool, error)
	TrySetOrderStatus(orderID string, target OrderStatus) (bool, error)
}

type SubscriptionRepository interface {
	CreateSubscription(sub *Subscription) error
	// GetActiveSubscription - самая свежая активная подписка по starts_at
	GetActiveSubscription(userID int64) (*Subscription, error)
	// FindDueSubscriptions - активные с ненулевым ends_at <= now, старые дедлайны первыми
	FindDueSubscriptions(now time.Time, limit int) ([]*Subscription, error)
	TrySetSubscriptionStatus(subID string, target SubscriptionStatus) (bool, error)
	// RevokeActiveByUser - массовый условный перевод active -> revoked, возвращает число строк
	RevokeActiveByUser(userID int64) (int64, error)
}

type UserRepository interface {
	EnsureUser(userID int64) error
	GetLastScreen(userID int64) (chatID int64, messageID int64, err error)
	SetLastScreen(userID, chatID, messageID int64) error
}
