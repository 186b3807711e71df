package handler

import (
	"net/http"
	"strings"

	"ticketsafi/web/internal/model"
	"ticketsafi/web/internal/service/ticketsafi"
)

const (
	msgScannerFields  = "Username and password are required."
	msgScannerFailed  = "Failed to create scanner."
	msgScannersFailed = "Could not load your gate team."
)

type teamData struct {
	Scanners []model.Scanner
	Username string
	Email    string
	Error    string
}

func (h *Handler) Team(w http.ResponseWriter, r *http.Request) {
	scanners, err := h.api.Scanners(r.Context())
	if err != nil {
		h.log(r).Warn("failed to list scanners", "error", err)
		h.renderError(w, r, statusFor(err), msgScannersFailed)
		return
	}
	h.render(w, r, http.StatusOK, "team", "Gate team", teamData{Scanners: scanners})
}

// CreateScanner adds a gate staff account that can only check tickets in.
func (h *Handler) CreateScanner(w http.ResponseWriter, r *http.Request) {
	req := ticketsafi.ScannerRequest{
		Username: strings.TrimSpace(r.FormValue("username")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	data := teamData{Username: req.Username, Email: req.Email}

	status := http.StatusUnprocessableEntity
	if req.Username == "" || req.Password == "" {
		data.Error = msgScannerFields
	} else if _, err := h.api.CreateScanner(r.Context(), req); err != nil {
		h.log(r).Warn("failed to create scanner", "error", err)
		data.Error = ticketsafi.MessageOr(err, msgScannerFailed)
		status = statusFor(err)
	} else {
		http.Redirect(w, r, "/organizer/team", http.StatusSeeOther)
		return
	}

	scanners, err := h.api.Scanners(r.Context())
	if err != nil {
		h.log(r).Warn("failed to list scanners", "error", err)
	}
	data.Scanners = scanners
	h.render(w, r, status, "team", "Gate team", data)
}
