package integration

import (
	"context"
	"sync"
	"time"

	"qr-settlement-gateway/internal/core/domain"

	"github.com/google/uuid"
)

// In-memory repository implementations. These replace the postgres adapters
// so the suite exercises the real HTTP layer, middleware, services, codec,
// and Redis stores without a database.

type inMemoryMerchantRepo struct {
	mu        sync.RWMutex
	merchants map[uuid.UUID]domain.Merchant
}

func newInMemoryMerchantRepo() *inMemoryMerchantRepo {
	return &inMemoryMerchantRepo{merchants: make(map[uuid.UUID]domain.Merchant)}
}

func (r *inMemoryMerchantRepo) Create(_ context.Context, m *domain.Merchant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.merchants[m.ID] = *m
	return nil
}

func (r *inMemoryMerchantRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Merchant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.merchants[id]
	if !ok {
		return nil, nil
	}
	found := m
	return &found, nil
}

func (r *inMemoryMerchantRepo) Update(_ context.Context, m *domain.Merchant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.merchants[m.ID] = *m
	return nil
}

type inMemoryPaymentRepo struct {
	mu        sync.RWMutex
	byID      map[uuid.UUID]domain.Payment
	bySession map[string]uuid.UUID
}

func newInMemoryPaymentRepo() *inMemoryPaymentRepo {
	return &inMemoryPaymentRepo{
		byID:      make(map[uuid.UUID]domain.Payment),
		bySession: make(map[string]uuid.UUID),
	}
}

func (r *inMemoryPaymentRepo) Create(_ context.Context, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[p.ID] = *p
	r.bySession[p.SessionID] = p.ID
	return nil
}

func (r *inMemoryPaymentRepo) GetBySessionID(_ context.Context, sessionID string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.bySession[sessionID]
	if !ok {
		return nil, nil
	}
	p := r.byID[id]
	return &p, nil
}

func (r *inMemoryPaymentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil
	}
	p.Status = status
	r.byID[id] = p
	return nil
}

func (r *inMemoryPaymentRepo) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

type inMemoryHistoryRepo struct {
	mu     sync.RWMutex
	quotes []domain.Quote
}

func newInMemoryHistoryRepo() *inMemoryHistoryRepo {
	return &inMemoryHistoryRepo{}
}

func (r *inMemoryHistoryRepo) Append(_ context.Context, q domain.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quotes = append(r.quotes, q)
	return nil
}

func (r *inMemoryHistoryRepo) QueryRecent(_ context.Context, asset, base string, since time.Time, limit int) ([]domain.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Quote
	for i := len(r.quotes) - 1; i >= 0 && len(out) < limit; i-- {
		q := r.quotes[i]
		if q.Asset == asset && q.Base == base && !q.Timestamp.Before(since) {
			out = append(out, q)
		}
	}
	return out, nil
}
