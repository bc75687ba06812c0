package order

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
	seq    []string
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *fakeOrderRepo) CreateOrder(order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *order
	r.orders[order.ID] = &copied
	r.seq = append(r.seq, order.ID)
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
	for _, id := range r.seq {
		o := r.orders[id]
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
	for _, id := range r.seq {
		o := r.orders[id]
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

// fakeProvider отвечает заранее заданными статусами по invoice_id.
type fakeProvider struct {
	mu        sync.Mutex
	name      string
	statuses  map[string]domain.InvoiceStatus
	createErr error
	checkErr  error
	canceled  []string
	cancelErr error
	invoices  int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) CreateInvoice(ctx context.Context, orderID string, amountRub int64) (*domain.Invoice, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.createErr != nil {
		return nil, p.createErr
	}
	p.invoices++
	return &domain.Invoice{
		InvoiceID: "inv-" + orderID,
		PayURL:    "https://pay.example/" + orderID,
	}, nil
}

func (p *fakeProvider) CheckStatus(ctx context.Context, invoiceID string) (domain.InvoiceStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.checkErr != nil {
		return "", p.checkErr
	}
	if status, ok := p.statuses[invoiceID]; ok {
		return status, nil
	}
	return domain.InvoiceStatusCreated, nil
}

func (p *fakeProvider) Cancel(ctx context.Context, invoiceID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancelErr != nil {
		return p.cancelErr
	}
	p.canceled = append(p.canceled, invoiceID)
	return nil
}

type fakeFulfiller struct {
	mu     sync.Mutex
	orders []string
	err    error
}

func (f *fakeFulfiller) FulfillIfPaid(ctx context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.orders = append(f.orders, order.ID)
	return nil
}

var errProviderDown = errors.New("provider down")
