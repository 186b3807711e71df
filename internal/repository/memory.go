package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"ticketsafi/web/internal/model"
)

// MemoryCheckoutRepository keeps attempts in process. It is used when no
// database is configured; attempts do not survive a restart.
type MemoryCheckoutRepository struct {
	// txMu serializes RunAtomic blocks, standing in for row locks.
	txMu sync.Mutex

	mu       sync.RWMutex
	attempts map[uuid.UUID]model.CheckoutAttempt
	now      func() time.Time
}

func NewMemoryCheckoutRepository() *MemoryCheckoutRepository {
	return &MemoryCheckoutRepository{attempts: make(map[uuid.UUID]model.CheckoutAttempt), now: time.Now}
}

func (r *MemoryCheckoutRepository) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	return fn(ctx)
}

func (r *MemoryCheckoutRepository) Create(_ context.Context, a *model.CheckoutAttempt) error {
	now := r.now()
	a.CreatedAt, a.UpdatedAt = now, now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts[a.ID] = *a
	return nil
}

func (r *MemoryCheckoutRepository) Get(_ context.Context, id uuid.UUID) (*model.CheckoutAttempt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.attempts[id]
	if !ok {
		return nil, ErrAttemptNotFound
	}
	return &a, nil
}

func (r *MemoryCheckoutRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*model.CheckoutAttempt, error) {
	return r.Get(ctx, id)
}

func (r *MemoryCheckoutRepository) UpdateOutcome(_ context.Context, id uuid.UUID, o Outcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attempts[id]
	if !ok {
		return ErrAttemptNotFound
	}
	if isTerminal(a.Status) {
		return ErrOutcomeFinal
	}
	a.Status = o.Status
	if o.TicketID != "" {
		a.TicketID = o.TicketID
	}
	if o.TransactionRef != "" {
		a.TransactionRef = o.TransactionRef
	}
	a.Error = o.Error
	a.UpdatedAt = r.now()
	r.attempts[id] = a
	return nil
}
