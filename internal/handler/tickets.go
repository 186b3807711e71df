package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"

	"ticketsafi/web/internal/service/ticketsafi"
	"ticketsafi/web/internal/session"
	"ticketsafi/web/internal/view"
)

const qrSize = 256

type ticketsData struct {
	Tickets []view.Ticket
	// SignIn asks an anonymous visitor to log in first.
	SignIn bool
}

func (h *Handler) MyTickets(w http.ResponseWriter, r *http.Request) {
	if session.FromContext(r.Context()).Anonymous() {
		h.render(w, r, http.StatusOK, "tickets", "My tickets", ticketsData{SignIn: true})
		return
	}
	tickets, err := h.api.ListTickets(r.Context())
	if err != nil {
		h.log(r).Warn("failed to list tickets", "error", err)
		h.renderError(w, r, statusFor(err), view.MsgTicketsFailed)
		return
	}
	h.render(w, r, http.StatusOK, "tickets", "My tickets", ticketsData{Tickets: h.mapper.Tickets(tickets)})
}

// TicketDetails shows one ticket with its QR code payload. Guests reach it
// from the link in their confirmation email.
func (h *Handler) TicketDetails(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ticket, err := h.api.GetTicket(r.Context(), id)
	if err != nil {
		msg := "Ticket not found or access denied."
		if ticketsafi.KindOf(err) == ticketsafi.KindNetwork {
			msg = view.MsgTicketsFailed
		}
		h.log(r).Warn("failed to load ticket", "ticket_id", id, "error", err)
		h.renderError(w, r, statusFor(err), msg)
		return
	}
	v := h.mapper.Ticket(*ticket)
	h.render(w, r, http.StatusOK, "ticket", v.EventTitle, v)
}

// TicketQR renders the ticket's check-in payload as a PNG for the gate
// scanner to read. The ticket is fetched with the caller's cookies, so only
// its holder gets the image.
func (h *Handler) TicketQR(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ticket, err := h.api.GetTicket(r.Context(), id)
	if err != nil {
		h.log(r).Warn("failed to load ticket for qr", "ticket_id", id, "error", err)
		http.Error(w, http.StatusText(statusFor(err)), statusFor(err))
		return
	}
	if ticket.QRCodeHash == "" {
		http.NotFound(w, r)
		return
	}
	png, err := qrcode.Encode(ticket.QRCodeHash, qrcode.Medium, qrSize)
	if err != nil {
		h.log(r).Error("failed to encode qr code", "ticket_id", id, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.Write(png)
}
