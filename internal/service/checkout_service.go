package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"ticketsafi/web/internal/checkout"
	"ticketsafi/web/internal/model"
	"ticketsafi/web/internal/repository"
	"ticketsafi/web/internal/service/ticketsafi"
)

type CheckoutRepository interface {
	RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error
	Create(ctx context.Context, a *model.CheckoutAttempt) error
	Get(ctx context.Context, id uuid.UUID) (*model.CheckoutAttempt, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*model.CheckoutAttempt, error)
	UpdateOutcome(ctx context.Context, id uuid.UUID, o repository.Outcome) error
}

type PaymentAPI interface {
	InitiatePayment(ctx context.Context, req model.PaymentRequest) (*model.PaymentResult, error)
	GetTicket(ctx context.Context, id string) (*model.Ticket, error)
}

type CheckoutConfig struct {
	PollInterval time.Duration
	PollTimeout  time.Duration
}

// CheckoutService runs purchases: it validates, initiates the charge and
// watches for confirmation in the background.
type CheckoutService struct {
	repo    CheckoutRepository
	api     PaymentAPI
	poller  *checkout.Poller
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewCheckoutService(repo CheckoutRepository, api PaymentAPI, cfg CheckoutConfig, logger *slog.Logger) *CheckoutService {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &CheckoutService{
		repo:    repo,
		api:     api,
		poller:  checkout.NewPoller(api, cfg.PollInterval, cfg.PollTimeout, logger),
		timeout: cfg.PollTimeout,
		logger:  logger,
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start submits the flow. Validation and initiation failures leave the flow
// on the input step with its message set and return a nil attempt; neither
// is an error of the service.
func (s *CheckoutService) Start(ctx context.Context, eventID string, flow *checkout.Flow) (*model.CheckoutAttempt, error) {
	if err := flow.Submit(); err != nil {
		var ve *checkout.ValidationError
		if errors.As(err, &ve) {
			return nil, nil
		}
		return nil, err
	}

	attempt := &model.CheckoutAttempt{
		ID:       uuid.New(),
		EventID:  eventID,
		TierID:   flow.Form.TierID,
		TierName: flow.Form.TierName,
		Quantity: flow.Form.Quantity,
		Amount:   flow.Form.Total(),
		Phone:    flow.Form.Phone,
		Status:   string(checkout.StepProcessing),
	}
	req := model.PaymentRequest{
		TierID:      flow.Form.TierID,
		PhoneNumber: flow.Form.Phone,
		Quantity:    flow.Form.Quantity,
	}
	if flow.Guest {
		attempt.GuestEmail = flow.Form.GuestEmail
		req.Email = flow.Form.GuestEmail
		req.Name = flow.Form.GuestName
	}

	if err := s.repo.Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to record checkout: %w", err)
	}

	result, err := s.api.InitiatePayment(ctx, req)
	if err != nil {
		msg := ticketsafi.MessageOr(err, checkout.MsgPaymentFailed)
		_ = flow.InitiationFailed(msg)
		if uerr := s.repo.UpdateOutcome(ctx, attempt.ID, repository.Outcome{Status: string(checkout.StepInput), Error: msg}); uerr != nil {
			s.logger.WarnContext(ctx, "failed to record checkout failure", "checkout_id", attempt.ID, "error", uerr)
		}
		s.logger.InfoContext(ctx, "payment initiation failed", "checkout_id", attempt.ID, "tier_id", req.TierID, "error", err)
		return nil, nil
	}

	_ = flow.Initiated(result.TicketID)
	attempt.TicketID = result.TicketID
	attempt.TransactionRef = result.TransactionRef
	if err := s.repo.UpdateOutcome(ctx, attempt.ID, repository.Outcome{
		Status:         string(checkout.StepProcessing),
		TicketID:       result.TicketID,
		TransactionRef: result.TransactionRef,
	}); err != nil {
		return nil, fmt.Errorf("failed to record checkout: %w", err)
	}

	s.watch(ctx, attempt.ID, result.TicketID)
	return attempt, nil
}

// watch polls for confirmation in the background. The caller's cookies are
// kept but not its cancellation.
func (s *CheckoutService) watch(ctx context.Context, id uuid.UUID, ticketID string) {
	pctx := ticketsafi.WithCookies(s.ctx, ticketsafi.CookiesFrom(ctx))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		step := s.poller.Wait(pctx, ticketID)
		if s.ctx.Err() != nil {
			// Shutting down; Status settles the attempt later.
			return
		}
		if err := s.RecordOutcome(s.ctx, id, step); err != nil && !errors.Is(err, repository.ErrOutcomeFinal) {
			s.logger.Error("failed to record checkout outcome", "checkout_id", id, "error", err)
			return
		}
		s.logger.Info("checkout settled", "checkout_id", id, "ticket_id", ticketID, "outcome", string(step))
	}()
}

// RecordOutcome stores a terminal step. An attempt that already has one
// keeps it and ErrOutcomeFinal is returned.
func (s *CheckoutService) RecordOutcome(ctx context.Context, id uuid.UUID, step checkout.Step) error {
	if !step.Terminal() {
		return fmt.Errorf("%w: %s is not an outcome", checkout.ErrInvalidTransition, step)
	}
	return s.repo.RunAtomic(ctx, func(ctx context.Context) error {
		a, err := s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if checkout.Step(a.Status).Terminal() {
			return repository.ErrOutcomeFinal
		}
		if checkout.Step(a.Status) != checkout.StepProcessing {
			return fmt.Errorf("%w: %s to %s", checkout.ErrInvalidTransition, a.Status, step)
		}
		return s.repo.UpdateOutcome(ctx, id, repository.Outcome{Status: string(step)})
	})
}

// Status returns the attempt. An attempt left processing past the poll
// timeout, for example across a restart, is settled as pending.
func (s *CheckoutService) Status(ctx context.Context, id uuid.UUID) (*model.CheckoutAttempt, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if checkout.Step(a.Status) == checkout.StepProcessing && s.now().Sub(a.CreatedAt) > 2*s.timeout {
		if err := s.RecordOutcome(ctx, id, checkout.StepPending); err != nil && !errors.Is(err, repository.ErrOutcomeFinal) {
			return nil, err
		}
		return s.repo.Get(ctx, id)
	}
	return a, nil
}

// Close stops background polling and waits for the pollers to return.
func (s *CheckoutService) Close() {
	s.cancel()
	s.wg.Wait()
}
