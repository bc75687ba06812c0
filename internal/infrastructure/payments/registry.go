package payments

import (
	"fmt"

	"github.com/nevskyi/chat-access-service/internal/domain"
)

// Registry - закрытый набор платежных провайдеров, собирается один раз на старте.
type Registry struct {
	providers map[string]domain.PaymentProvider
}

func NewRegistry(providers ...domain.PaymentProvider) *Registry {
	m := make(map[string]domain.PaymentProvider, len(providers))
	for _, p := range providers {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

func (r *Registry) Get(name string) (domain.PaymentProvider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownProvider, name)
	}
	return p, nil
}
