package handler

import (
	"net/http"
	"strings"

	"ticketsafi/web/internal/model"
	"ticketsafi/web/internal/service/ticketsafi"
)

const (
	scanValid       = "VALID"
	scanAlreadyUsed = "ALREADY USED"
	scanInvalid     = "INVALID"

	msgScanEmpty  = "Scan or enter a ticket code."
	msgScanFailed = "Invalid ticket."
)

type scanData struct {
	Outcome string
	Result  *model.VerifyResult
	Error   string
}

func (h *Handler) ScannerPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "scanner", "Scanner", scanData{})
}

// VerifyTicket checks a scanned QR payload in. Whether the ticket is good is
// decided by the API alone.
func (h *Handler) VerifyTicket(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.FormValue("qr_hash"))
	if code == "" {
		h.render(w, r, http.StatusUnprocessableEntity, "scanner", "Scanner", scanData{Error: msgScanEmpty})
		return
	}

	result, err := h.api.VerifyTicket(r.Context(), code)
	switch {
	case err == nil:
		h.render(w, r, http.StatusOK, "scanner", "Scanner", scanData{Outcome: scanValid, Result: result})
	case ticketsafi.KindOf(err) == ticketsafi.KindConflict:
		h.render(w, r, http.StatusOK, "scanner", "Scanner", scanData{Outcome: scanAlreadyUsed, Result: result})
	default:
		h.log(r).Info("ticket rejected at the gate", "error", err)
		h.render(w, r, http.StatusOK, "scanner", "Scanner", scanData{
			Outcome: scanInvalid,
			Error:   ticketsafi.MessageOr(err, msgScanFailed),
		})
	}
}
