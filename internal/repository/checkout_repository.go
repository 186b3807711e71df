package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"ticketsafi/web/internal/model"
)

var (
	ErrAttemptNotFound = errors.New("checkout attempt not found")
	// ErrOutcomeFinal is returned when an attempt already has a terminal
	// status.
	ErrOutcomeFinal = errors.New("checkout outcome already recorded")
)

// terminalStatuses must match checkout.Step.Terminal.
var terminalStatuses = []string{"success", "failed", "pending"}

func isTerminal(status string) bool {
	for _, s := range terminalStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Outcome is the part of an attempt that changes after creation.
type Outcome struct {
	Status         string
	TicketID       string
	TransactionRef string
	Error          string
}

const Schema = `
CREATE TABLE IF NOT EXISTS checkout_attempts (
	id              UUID PRIMARY KEY,
	event_id        TEXT NOT NULL,
	tier_id         TEXT NOT NULL,
	tier_name       TEXT NOT NULL DEFAULT '',
	quantity        INTEGER NOT NULL,
	amount          NUMERIC(12, 2) NOT NULL,
	phone           TEXT NOT NULL,
	guest_email     TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL,
	ticket_id       TEXT NOT NULL DEFAULT '',
	transaction_ref TEXT NOT NULL DEFAULT '',
	error           TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS checkout_attempts_status_idx ON checkout_attempts (status, created_at);
`

type CheckoutRepository struct {
	db *pgxpool.Pool
}

func NewCheckoutRepository(db *pgxpool.Pool) *CheckoutRepository {
	return &CheckoutRepository{db: db}
}

// Migrate creates the attempt table if it does not exist.
func (r *CheckoutRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to migrate checkout_attempts: %w", err)
	}
	return nil
}

// RunAtomic executes a function within a transaction. Repository calls made
// with the context passed to fn run inside it.
func (r *CheckoutRepository) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// No-op after a successful commit.
	defer tx.Rollback(ctx)

	ctx = context.WithValue(ctx, txKey{}, tx)

	if err := fn(ctx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

type txKey struct{}

func (r *CheckoutRepository) getExecutor(ctx context.Context) PgxExecutor {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return r.db
}

// PgxExecutor is an interface that matches both *pgxpool.Pool and pgx.Tx
type PgxExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const attemptColumns = `id, event_id, tier_id, tier_name, quantity, amount::float8, phone, guest_email,
	status, ticket_id, transaction_ref, error, created_at, updated_at`

func (r *CheckoutRepository) Create(ctx context.Context, a *model.CheckoutAttempt) error {
	err := r.getExecutor(ctx).QueryRow(ctx, `
		INSERT INTO checkout_attempts (id, event_id, tier_id, tier_name, quantity, amount, phone, guest_email, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		a.ID, a.EventID, a.TierID, a.TierName, a.Quantity, a.Amount, a.Phone, a.GuestEmail, a.Status,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create checkout attempt: %w", err)
	}
	return nil
}

func (r *CheckoutRepository) Get(ctx context.Context, id uuid.UUID) (*model.CheckoutAttempt, error) {
	return r.get(ctx, "SELECT "+attemptColumns+" FROM checkout_attempts WHERE id = $1", id)
}

// GetForUpdate locks the attempt row until the surrounding transaction ends.
func (r *CheckoutRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*model.CheckoutAttempt, error) {
	return r.get(ctx, "SELECT "+attemptColumns+" FROM checkout_attempts WHERE id = $1 FOR UPDATE", id)
}

func (r *CheckoutRepository) get(ctx context.Context, query string, id uuid.UUID) (*model.CheckoutAttempt, error) {
	var a model.CheckoutAttempt
	err := r.getExecutor(ctx).QueryRow(ctx, query, id).Scan(
		&a.ID, &a.EventID, &a.TierID, &a.TierName, &a.Quantity, &a.Amount, &a.Phone, &a.GuestEmail,
		&a.Status, &a.TicketID, &a.TransactionRef, &a.Error, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get checkout attempt: %w", err)
	}
	return &a, nil
}

// UpdateOutcome writes o unless the attempt already has a terminal status.
func (r *CheckoutRepository) UpdateOutcome(ctx context.Context, id uuid.UUID, o Outcome) error {
	tag, err := r.getExecutor(ctx).Exec(ctx, `
		UPDATE checkout_attempts
		SET status = $2,
			ticket_id = COALESCE(NULLIF($3, ''), ticket_id),
			transaction_ref = COALESCE(NULLIF($4, ''), transaction_ref),
			error = $5,
			updated_at = now()
		WHERE id = $1 AND NOT (status = ANY($6))`,
		id, o.Status, o.TicketID, o.TransactionRef, o.Error, terminalStatuses,
	)
	if err != nil {
		return fmt.Errorf("failed to update checkout attempt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return ErrOutcomeFinal
	}
	return nil
}
