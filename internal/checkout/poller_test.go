package checkout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ticketsafi/web/internal/model"
	"ticketsafi/web/internal/service/ticketsafi"
)

type scriptedTickets struct {
	mu    sync.Mutex
	calls int
	steps []func() (*model.Ticket, error)
}

func (s *scriptedTickets) GetTicket(context.Context, string) (*model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	s.calls++
	if i >= len(s.steps) {
		i = len(s.steps) - 1
	}
	return s.steps[i]()
}

func status(st model.TicketStatus) func() (*model.Ticket, error) {
	return func() (*model.Ticket, error) { return &model.Ticket{ID: "t", Status: st}, nil }
}

func notFound() (*model.Ticket, error) {
	return nil, &ticketsafi.Error{Status: 404, Kind: ticketsafi.KindNotFound}
}

func TestPoller_Outcomes(t *testing.T) {
	tests := []struct {
		name  string
		steps []func() (*model.Ticket, error)
		want  Step
	}{
		{"active", []func() (*model.Ticket, error){status(model.TicketActive)}, StepSuccess},
		{"checked in", []func() (*model.Ticket, error){status(model.TicketCheckedIn)}, StepSuccess},
		{"used", []func() (*model.Ticket, error){status(model.TicketUsed)}, StepSuccess},
		{"cancelled", []func() (*model.Ticket, error){status(model.TicketCancelled)}, StepFailed},
		{"appears later", []func() (*model.Ticket, error){notFound, notFound, status(model.TicketActive)}, StepSuccess},
		{"never confirmed", []func() (*model.Ticket, error){status("PENDING")}, StepPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &scriptedTickets{steps: tt.steps}
			p := NewPoller(api, 5*time.Millisecond, 100*time.Millisecond, nil)
			assert.Equal(t, tt.want, p.Wait(context.Background(), "ticket-1"))
		})
	}
}

func TestPoller_NoTicketIDIsPending(t *testing.T) {
	api := &scriptedTickets{steps: []func() (*model.Ticket, error){status(model.TicketActive)}}
	p := NewPoller(api, time.Millisecond, time.Second, nil)

	assert.Equal(t, StepPending, p.Wait(context.Background(), ""))
	assert.Equal(t, 0, api.calls)
}

func TestPoller_StopsOnCancel(t *testing.T) {
	api := &scriptedTickets{steps: []func() (*model.Ticket, error){status("PENDING")}}
	p := NewPoller(api, 5*time.Millisecond, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	done := make(chan Step, 1)
	go func() { done <- p.Wait(ctx, "ticket-1") }()

	select {
	case got := <-done:
		assert.Equal(t, StepPending, got)
	case <-time.After(time.Second):
		t.Fatal("poller ignored cancellation")
	}
}
