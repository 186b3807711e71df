package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ticketsafi/web/internal/forms"
	"ticketsafi/web/internal/service/ticketsafi"
)

const (
	draftCookiePath = "/organizer"
	draftCookieTTL  = 24 * time.Hour
)

func (h *Handler) loadDraft(r *http.Request) *forms.Draft {
	c, err := r.Cookie(forms.DraftCookie)
	if err != nil {
		return forms.NewDraft()
	}
	d, err := h.drafts.Load(r.Context(), c.Value)
	if err != nil {
		if !errors.Is(err, forms.ErrDraftNotFound) {
			h.log(r).Warn("failed to load event draft", "error", err)
		}
		return forms.NewDraft()
	}
	return d
}

func (h *Handler) CreateEventPage(w http.ResponseWriter, r *http.Request) {
	d := h.loadDraft(r)
	if r.URL.Query().Has("new") {
		if err := h.drafts.Delete(r.Context(), d.ID); err != nil {
			h.log(r).Warn("failed to drop event draft", "draft_id", d.ID, "error", err)
		}
		d = forms.NewDraft()
	}
	h.saveDraft(w, r, d)
	h.renderWizard(w, r, http.StatusOK, d, nil)
}

// CreateEvent advances the two step wizard. The draft, poster included,
// stays on the server between steps and is uploaded only by "submit".
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(forms.MaxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.renderError(w, r, http.StatusBadRequest, forms.ErrFileTooLarge.Error())
		return
	}
	d := h.loadDraft(r)
	errs := forms.Errors{}

	action := r.FormValue("action")
	switch {
	case action == "next":
		poster, err := forms.ReadPoster(r)
		if err != nil {
			errs.Add("poster", err.Error())
		}
		for f, msg := range d.Advance(forms.ParseEventDetails(r), poster, h.loc) {
			errs.Add(f, msg)
		}
		if errs.Get("poster") != "" {
			d.Step = 1
		}

	case action == "back":
		d.Tiers = forms.ParseTierRows(r)
		d.Back()

	case action == "add_tier":
		d.Tiers = append(forms.ParseTierRows(r), forms.TierRow{})

	case strings.HasPrefix(action, "remove_tier:"):
		rows := forms.ParseTierRows(r)
		i, err := strconv.Atoi(strings.TrimPrefix(action, "remove_tier:"))
		if err == nil && i >= 0 && i < len(rows) && len(rows) > 1 {
			rows = append(rows[:i], rows[i+1:]...)
		}
		d.Tiers = rows

	case action == "submit":
		sub, ferrs := d.Finish(forms.ParseTierRows(r), h.loc)
		if ferrs.Any() {
			errs = ferrs
			break
		}
		if err := h.api.CreateEvent(r.Context(), sub); err != nil {
			h.log(r).Warn("failed to create event", "draft_id", d.ID, "error", err)
			errs.Add("", ticketsafi.MessageOr(err, forms.MsgCreateFailed))
			break
		}
		if err := h.drafts.Delete(r.Context(), d.ID); err != nil {
			h.log(r).Warn("failed to drop event draft", "draft_id", d.ID, "error", err)
		}
		h.clearLocalCookie(w, forms.DraftCookie, draftCookiePath)
		http.Redirect(w, r, "/organizer", http.StatusSeeOther)
		return

	default:
		h.renderError(w, r, http.StatusBadRequest, "Unknown form action.")
		return
	}

	h.saveDraft(w, r, d)
	status := http.StatusOK
	if errs.Any() {
		status = http.StatusUnprocessableEntity
	}
	h.renderWizard(w, r, status, d, errs)
}

func (h *Handler) saveDraft(w http.ResponseWriter, r *http.Request, d *forms.Draft) {
	if err := h.drafts.Save(r.Context(), d); err != nil {
		h.log(r).Warn("failed to save event draft", "draft_id", d.ID, "error", err)
		return
	}
	h.setLocalCookie(w, forms.DraftCookie, d.ID.String(), draftCookiePath, draftCookieTTL)
}

func (h *Handler) renderWizard(w http.ResponseWriter, r *http.Request, status int, d *forms.Draft, errs forms.Errors) {
	rows := make([]tierRowView, 0, len(d.Tiers))
	for _, t := range d.Tiers {
		rows = append(rows, tierRowView{TierRow: t, Lock: forms.TierLock{MinQuantity: 1}})
	}
	data := eventFormData{
		Details:    d.Details,
		Tiers:      rows,
		Stores:     h.organizerStores(r.Context(), r),
		Errors:     errs,
		Step:       d.Step,
		Categories: eventCategories(),
	}
	if d.Poster != nil {
		data.Poster = d.Poster.Name
	}
	h.render(w, r, status, "create_event", "Create event", data)
}
