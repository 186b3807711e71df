package checkout

import (
	"context"
	"log/slog"
	"time"

	"ticketsafi/web/internal/model"
)

type TicketGetter interface {
	GetTicket(ctx context.Context, id string) (*model.Ticket, error)
}

// Poller watches a ticket until the payment behind it is confirmed or
// rejected.
type Poller struct {
	api      TicketGetter
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

func NewPoller(api TicketGetter, interval, timeout time.Duration, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{api: api, interval: interval, timeout: timeout, logger: logger}
}

// OutcomeFor maps a ticket status to a terminal step. ok is false while the
// status says nothing yet.
func OutcomeFor(status model.TicketStatus) (step Step, ok bool) {
	switch status {
	case model.TicketActive, model.TicketCheckedIn, model.TicketUsed:
		return StepSuccess, true
	case model.TicketCancelled:
		return StepFailed, true
	}
	return "", false
}

// Wait polls the ticket and returns success, failed or pending. Errors from
// the API are logged and polling continues; running out of time or having
// no ticket id yields pending.
func (p *Poller) Wait(ctx context.Context, ticketID string) Step {
	if ticketID == "" {
		return StepPending
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		ticket, err := p.api.GetTicket(ctx, ticketID)
		switch {
		case err != nil:
			if ctx.Err() == nil {
				p.logger.WarnContext(ctx, "failed to poll ticket", "ticket_id", ticketID, "error", err)
			}
		default:
			if step, ok := OutcomeFor(ticket.Status); ok {
				return step
			}
		}

		select {
		case <-ctx.Done():
			return StepPending
		case <-ticker.C:
		}
	}
}
