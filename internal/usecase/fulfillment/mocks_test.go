package fulfillment

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nevskyi/chat-access-service/internal/domain"
)

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

func newFakeOrderRepo(orders ...*domain.Order) *fakeOrderRepo {
	m := make(map[string]*domain.Order)
	for _, o := range orders {
		copied := *o
		m[o.ID] = &copied
	}
	return &fakeOrderRepo{orders: m}
}

func (r *fakeOrderRepo) CreateOrder(order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) GetOrderByID(orderID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *fakeOrderRepo) GetCreatedOrders(limit int) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Order
	for _, o := range r.orders {
		if o.Status == domain.OrderStatusCreated {
			copied := *o
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetCreatedOrderByInvoiceID(provider, invoiceID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.Status == domain.OrderStatusCreated && o.Provider == provider && o.ProviderInvoiceID == invoiceID {
			copied := *o
			return &copied, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *fakeOrderRepo) FindExpiredCreatedOrders(now time.Time) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Order
	for _, o := range r.orders {
		if o.Status == domain.OrderStatusCreated && !o.ExpiresAt.After(now) {
			copied := *o
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) AttachInvoice(orderID, invoiceID, payURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.orders[orderID]; ok && o.Status == domain.OrderStatusCreated {
		o.ProviderInvoiceID = invoiceID
		o.PayURL = payURL
	}
	return nil
}

func (r *fakeOrderRepo) TryMarkOrderPaid(orderID string, paidAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok || o.Status != domain.OrderStatusCreated {
		return false, nil
	}
	o.Status = domain.OrderStatusPaid
	o.PaidAt = &paidAt
	return true, nil
}

func (r *fakeOrderRepo) TrySetOrderStatus(orderID string, target domain.OrderStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok || o.Status != domain.OrderStatusCreated {
		return false, nil
	}
	o.Status = target
	return true, nil
}

type fakeSubRepo struct {
	mu   sync.Mutex
	subs []*domain.Subscription
}

func (r *fakeSubRepo) CreateSubscription(sub *domain.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *sub
	r.subs = append(r.subs, &copied)
	return nil
}

func (r *fakeSubRepo) GetActiveSubscription(userID int64) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subs {
		if s.UserID == userID && s.Status == domain.SubscriptionStatusActive {
			copied := *s
			return &copied, nil
		}
	}
	return nil, domain.ErrNoActiveSubscription
}

func (r *fakeSubRepo) FindDueSubscriptions(now time.Time, limit int) ([]*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Subscription
	for _, s := range r.subs {
		if s.Status == domain.SubscriptionStatusActive && s.EndsAt != nil && !s.EndsAt.After(now) {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeSubRepo) TrySetSubscriptionStatus(subID string, target domain.SubscriptionStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subs {
		if s.ID == subID && s.Status == domain.SubscriptionStatusActive {
			s.Status = target
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSubRepo) RevokeActiveByUser(userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.subs {
		if s.UserID == userID && s.Status == domain.SubscriptionStatusActive {
			s.Status = domain.SubscriptionStatusRevoked
			n++
		}
	}
	return n, nil
}

func (r *fakeSubRepo) all() []*domain.Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Subscription, len(r.subs))
	copy(out, r.subs)
	return out
}

type fakeUserRepo struct {
	mu      sync.Mutex
	screens map[int64][2]int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{screens: make(map[int64][2]int64)}
}

func (r *fakeUserRepo) EnsureUser(userID int64) error { return nil }

func (r *fakeUserRepo) GetLastScreen(userID int64) (int64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.screens[userID]
	return s[0], s[1], nil
}

func (r *fakeUserRepo) SetLastScreen(userID, chatID, messageID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.screens[userID] = [2]int64{chatID, messageID}
	return nil
}

type sentMessage struct {
	chatID int64
	text   string
}

type fakeChatGateway struct {
	mu        sync.Mutex
	invites   int
	kicked    []int64
	messages  []sentMessage
	deleted   [][2]int64
	inviteErr error
	kickErr   error
	sendErr   error
	nextMsgID int64
}

func (g *fakeChatGateway) CreateOneTimeInvite(ctx context.Context, name string, ttl time.Duration) (*domain.InviteLink, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inviteErr != nil {
		return nil, g.inviteErr
	}
	g.invites++
	return &domain.InviteLink{URL: "https://t.me/+invite", ExpiresAt: time.Now().UTC().Add(ttl)}, nil
}

func (g *fakeChatGateway) KickUser(ctx context.Context, userID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.kickErr != nil {
		return g.kickErr
	}
	g.kicked = append(g.kicked, userID)
	return nil
}

func (g *fakeChatGateway) SendMessage(ctx context.Context, chatID int64, text string) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sendErr != nil {
		return 0, g.sendErr
	}
	g.nextMsgID++
	g.messages = append(g.messages, sentMessage{chatID: chatID, text: text})
	return g.nextMsgID, nil
}

func (g *fakeChatGateway) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleted = append(g.deleted, [2]int64{chatID, messageID})
	return nil
}

func (g *fakeChatGateway) sentTo(chatID int64) []sentMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []sentMessage
	for _, m := range g.messages {
		if m.chatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

var errGatewayDown = errors.New("gateway down")
