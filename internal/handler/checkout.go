package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"ticketsafi/web/internal/checkout"
	"ticketsafi/web/internal/model"
	"ticketsafi/web/internal/repository"
	"ticketsafi/web/internal/session"
)

const msgCheckoutNotFound = "We could not find that checkout."

// StartCheckout submits the buy form of an event page. A rejected form or
// a failed charge request shows the event page again with the entered
// values kept; an accepted one moves to the checkout status page.
func (h *Handler) StartCheckout(w http.ResponseWriter, r *http.Request) {
	event, ok := h.loadEvent(w, r)
	if !ok {
		return
	}
	sess := session.FromContext(r.Context())

	form := checkout.Form{
		Quantity:   checkout.ClampQuantity(r.FormValue("quantity")),
		Phone:      strings.TrimSpace(r.FormValue("phone_number")),
		GuestName:  strings.TrimSpace(r.FormValue("guest_name")),
		GuestEmail: strings.TrimSpace(r.FormValue("guest_email")),
	}
	if tier, found := event.Tier(r.FormValue("tier_id")); found {
		form.TierID = tier.ID
		form.TierName = tier.Name
		form.Price = tier.PriceValue
	}

	flow := checkout.NewFlow(form, sess.Anonymous())
	attempt, err := h.checkout.Start(r.Context(), event.ID, flow)
	if err != nil {
		h.log(r).Error("failed to start checkout", "event_id", event.ID, "error", err)
		flow.Step = checkout.StepInput
		flow.Error = checkout.MsgPaymentFailed
		h.renderEvent(w, r, http.StatusInternalServerError, event, flow)
		return
	}
	if attempt == nil {
		h.renderEvent(w, r, http.StatusUnprocessableEntity, event, flow)
		return
	}
	http.Redirect(w, r, "/checkout/"+attempt.ID.String(), http.StatusSeeOther)
}

type checkoutData struct {
	Attempt *model.CheckoutAttempt
	Step    checkout.Step
	Message string
	Done    bool
}

func (h *Handler) loadAttempt(w http.ResponseWriter, r *http.Request) (*model.CheckoutAttempt, int, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, http.StatusNotFound, false
	}
	attempt, err := h.checkout.Status(r.Context(), id)
	if errors.Is(err, repository.ErrAttemptNotFound) {
		return nil, http.StatusNotFound, false
	}
	if err != nil {
		h.log(r).Error("failed to load checkout", "checkout_id", id, "error", err)
		return nil, http.StatusInternalServerError, false
	}
	return attempt, http.StatusOK, true
}

// CheckoutPage shows where a purchase stands. While the payment is being
// confirmed the page refreshes itself.
func (h *Handler) CheckoutPage(w http.ResponseWriter, r *http.Request) {
	attempt, status, ok := h.loadAttempt(w, r)
	if !ok {
		h.renderError(w, r, status, msgCheckoutNotFound)
		return
	}
	step := checkout.Step(attempt.Status)
	h.render(w, r, http.StatusOK, "checkout", "Checkout", checkoutData{
		Attempt: attempt,
		Step:    step,
		Message: stepMessage(attempt),
		Done:    step.Terminal(),
	})
}

type checkoutStatus struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Message  string `json:"message"`
	TicketID string `json:"ticket_id,omitempty"`
	Done     bool   `json:"done"`
}

func (h *Handler) CheckoutStatus(w http.ResponseWriter, r *http.Request) {
	attempt, status, ok := h.loadAttempt(w, r)
	if !ok {
		writeJSON(w, status, map[string]string{"error": msgCheckoutNotFound})
		return
	}
	step := checkout.Step(attempt.Status)
	writeJSON(w, http.StatusOK, checkoutStatus{
		ID:       attempt.ID.String(),
		Status:   attempt.Status,
		Message:  stepMessage(attempt),
		TicketID: attempt.TicketID,
		Done:     step.Terminal(),
	})
}

// stepMessage is the step text, or the recorded error of an attempt that
// went back to input.
func stepMessage(a *model.CheckoutAttempt) string {
	if a.Error != "" {
		return a.Error
	}
	return checkout.Step(a.Status).Message()
}
