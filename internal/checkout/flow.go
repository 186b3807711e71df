package checkout

import (
	"errors"
	"fmt"
)

type Step string

const (
	StepInput      Step = "input"
	StepProcessing Step = "processing"
	StepSuccess    Step = "success"
	StepFailed     Step = "failed"
	StepPending    Step = "pending"
)

// Terminal reports whether the step ends the flow.
func (s Step) Terminal() bool {
	switch s {
	case StepSuccess, StepFailed, StepPending:
		return true
	}
	return false
}

func (s Step) Message() string {
	switch s {
	case StepProcessing:
		return "Check your phone and enter your M-Pesa PIN to complete the payment."
	case StepSuccess:
		return "Payment successful! Your ticket is ready."
	case StepFailed:
		return "The payment was not completed. No ticket was issued."
	case StepPending:
		return "Payment still pending. We'll email your ticket once the payment is confirmed."
	}
	return ""
}

var ErrInvalidTransition = errors.New("checkout: invalid step transition")

// Flow is one buyer's walk through the purchase steps. The step only moves
// forward, except that a failed initiation returns to input with the entered
// fields kept.
type Flow struct {
	Step     Step
	Form     Form
	Guest    bool
	Error    string
	TicketID string
}

func NewFlow(form Form, guest bool) *Flow {
	return &Flow{Step: StepInput, Form: form, Guest: guest}
}

// Submit validates the form and moves to processing. On a validation error
// the flow stays on input and shows the message.
func (f *Flow) Submit() error {
	if f.Step != StepInput {
		return fmt.Errorf("%w: submit from %s", ErrInvalidTransition, f.Step)
	}
	if err := f.Form.Validate(f.Guest); err != nil {
		f.Error = err.Error()
		return err
	}
	f.Error = ""
	f.Step = StepProcessing
	return nil
}

// InitiationFailed returns to input with msg, or the default message.
func (f *Flow) InitiationFailed(msg string) error {
	if f.Step != StepProcessing {
		return fmt.Errorf("%w: fail from %s", ErrInvalidTransition, f.Step)
	}
	if msg == "" {
		msg = MsgPaymentFailed
	}
	f.Step = StepInput
	f.Error = msg
	return nil
}

func (f *Flow) Initiated(ticketID string) error {
	if f.Step != StepProcessing {
		return fmt.Errorf("%w: initiated from %s", ErrInvalidTransition, f.Step)
	}
	f.TicketID = ticketID
	return nil
}

// Resolve records the confirmation outcome.
func (f *Flow) Resolve(outcome Step) error {
	if f.Step != StepProcessing || !outcome.Terminal() {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, f.Step, outcome)
	}
	f.Step = outcome
	return nil
}
