package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"ticketsafi/web/internal/forms"
	"ticketsafi/web/internal/model"
	"ticketsafi/web/internal/service/ticketsafi"
	"ticketsafi/web/internal/session"
	"ticketsafi/web/internal/view"
)

const (
	msgWalletActivateFailed = "Connection to Banking Service failed. Please try again."
	msgWalletActivated      = "Your wallet is being set up."
)

type dashboardData struct {
	User  *model.User
	Stats view.Dashboard
	// Wallet is nil when the wallet could not be loaded.
	Wallet       *view.Wallet
	NeedsWallet  bool
	WalletNotice string
	WalletError  string
}

// Dashboard loads the sales summary and the wallet side by side. Only the
// summary is required for the page.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	var (
		stats  *model.DashboardStats
		wallet *model.Wallet
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		s, err := h.api.Dashboard(ctx)
		if err != nil {
			return err
		}
		stats = s
		return nil
	})
	g.Go(func() error {
		wl, err := h.api.Wallet(ctx)
		if err != nil {
			h.log(r).Warn("failed to load wallet summary", "error", err)
			return nil
		}
		wallet = wl
		return nil
	})
	if err := g.Wait(); err != nil {
		h.log(r).Warn("failed to load dashboard", "error", err)
		h.renderError(w, r, statusFor(err), view.MsgDashboardFailed)
		return
	}

	data := dashboardData{
		User:        sess.User,
		Stats:       h.mapper.Dashboard(*stats),
		NeedsWallet: !sess.User.HasWallet(),
	}
	if wallet != nil {
		v := h.mapper.Wallet(*wallet)
		data.Wallet = &v
	}
	switch r.URL.Query().Get("wallet") {
	case "activated":
		data.WalletNotice = msgWalletActivated
	case "failed":
		data.WalletError = msgWalletActivateFailed
	}
	h.render(w, r, http.StatusOK, "dashboard", "Dashboard", data)
}

func (h *Handler) ActivateWallet(w http.ResponseWriter, r *http.Request) {
	if err := h.api.ActivateWallet(r.Context()); err != nil {
		h.log(r).Warn("wallet activation failed", "error", err)
		http.Redirect(w, r, "/organizer?wallet=failed", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/organizer?wallet=activated", http.StatusSeeOther)
}

func (h *Handler) OrganizerEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.api.OrganizerEvents(r.Context())
	if err != nil {
		h.log(r).Warn("failed to list organizer events", "error", err)
		h.renderError(w, r, statusFor(err), view.MsgEventsFailed)
		return
	}
	h.render(w, r, http.StatusOK, "organizer_events", "My events", h.mapper.EventCards(events))
}

type attendeesData struct {
	EventID     string
	Groups      []view.AttendeeGroup
	Search      string
	Pager       view.Pager
	Total       int
	PageRevenue string
}

// EventAttendees lists one page of an event's tickets grouped by buyer.
// The search box filters the current page only.
func (h *Handler) EventAttendees(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	page := pageParam(r)

	result, err := h.api.Attendees(r.Context(), id, page)
	if err != nil {
		h.log(r).Warn("failed to load attendees", "event_id", id, "page", page, "error", err)
		h.renderError(w, r, statusFor(err), view.MsgAttendeesFailed)
		return
	}

	search := r.URL.Query().Get("q")
	h.render(w, r, http.StatusOK, "attendees", "Attendees", attendeesData{
		EventID:     id,
		Groups:      view.FilterGroups(h.mapper.GroupAttendees(result.Results), search),
		Search:      search,
		Pager:       view.AttendeePager(page, result.Count),
		Total:       result.Count,
		PageRevenue: view.PageRevenue(result.Results),
	})
}

// ExportAttendees hands the CSV download to the API. The browser's own
// cookies authorize it there.
func (h *Handler) ExportAttendees(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.api.ExportURL(chi.URLParam(r, "id")), http.StatusFound)
}

type tierRowView struct {
	forms.TierRow
	Lock forms.TierLock
	Sold int
}

type eventFormData struct {
	EventID    string
	Details    forms.EventDetails
	Tiers      []tierRowView
	Poster     string
	Stores     []view.Store
	Errors     forms.Errors
	Step       int
	Categories []string
}

func (h *Handler) EditEventPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	event, err := h.api.EditableEvent(r.Context(), id)
	if err != nil {
		h.log(r).Warn("failed to load event for editing", "event_id", id, "error", err)
		h.renderError(w, r, statusFor(err), forms.MsgLoadEventFailed)
		return
	}
	h.renderEditForm(w, r, http.StatusOK, event, h.storedDetails(event), forms.EditRows(event.Tiers), nil)
}

// EditEvent saves the edit form. Tiers that have sold tickets keep their
// name, description and price whatever was posted.
func (h *Handler) EditEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	event, err := h.api.EditableEvent(r.Context(), id)
	if err != nil {
		h.log(r).Warn("failed to load event for editing", "event_id", id, "error", err)
		h.renderError(w, r, statusFor(err), forms.MsgLoadEventFailed)
		return
	}

	details := forms.ParseEventDetails(r)
	rows := forms.ParseTierRows(r)

	errs := details.Validate(h.loc)
	tiers, tierErrs := forms.ApplyTierLocks(event.Tiers, rows)
	for f, msg := range tierErrs {
		errs.Add(f, msg)
	}
	poster, err := forms.ReadPoster(r)
	if err != nil {
		errs.Add("poster", err.Error())
	}
	if errs.Any() {
		h.renderEditForm(w, r, http.StatusUnprocessableEntity, event, details, rows, errs)
		return
	}

	sub, err := forms.BuildSubmission(details, tiers, poster, h.loc)
	if err != nil {
		h.renderEditForm(w, r, http.StatusUnprocessableEntity, event, details, rows, forms.Errors{"": err.Error()})
		return
	}
	if err := h.api.UpdateEvent(r.Context(), id, sub); err != nil {
		h.log(r).Warn("failed to update event", "event_id", id, "error", err)
		h.renderEditForm(w, r, statusFor(err), event, details, rows, forms.Errors{"": ticketsafi.MessageOr(err, forms.MsgSaveFailed)})
		return
	}
	http.Redirect(w, r, "/organizer/events/"+id, http.StatusSeeOther)
}

func (h *Handler) storedDetails(e *model.EditableEvent) forms.EventDetails {
	d := forms.EventDetails{
		Title:       e.Title,
		Description: e.Description,
		Category:    string(e.Category),
		Location:    e.LocationName,
		Start:       forms.FormatDateTime(e.StartDatetime, h.loc),
		End:         forms.FormatDateTime(e.EndDatetime, h.loc),
	}
	if e.Store != nil {
		d.Store = *e.Store
	}
	return d
}

func (h *Handler) renderEditForm(w http.ResponseWriter, r *http.Request, status int, event *model.EditableEvent, details forms.EventDetails, rows []forms.TierRow, errs forms.Errors) {
	stored := make(map[string]model.Tier, len(event.Tiers))
	storedRows := make(map[string]forms.TierRow, len(event.Tiers))
	for i, row := range forms.EditRows(event.Tiers) {
		stored[row.ID] = event.Tiers[i]
		storedRows[row.ID] = row
	}
	views := make([]tierRowView, 0, len(rows))
	for _, row := range rows {
		v := tierRowView{TierRow: row, Lock: forms.TierLock{MinQuantity: 1}}
		if t, ok := stored[row.ID]; ok {
			v.Lock = forms.LockFor(t)
			v.Sold = t.QuantitySold
			if v.Lock.Locked {
				locked := storedRows[row.ID]
				v.Name, v.Description, v.Price = locked.Name, locked.Description, locked.Price
			}
		}
		views = append(views, v)
	}
	h.render(w, r, status, "edit_event", "Edit event", eventFormData{
		EventID:    event.ID,
		Details:    details,
		Tiers:      views,
		Poster:     h.mapper.Image(event.PosterImage),
		Errors:     errs,
		Categories: eventCategories(),
	})
}

func eventCategories() []string {
	out := make([]string, 0, len(model.Categories))
	for _, c := range model.Categories {
		out = append(out, string(c))
	}
	return out
}

// pageParam reads ?page=, defaulting to 1.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// organizerStores loads the caller's stores for the store picker. A
// failure leaves the picker empty.
func (h *Handler) organizerStores(ctx context.Context, r *http.Request) []view.Store {
	stores, err := h.api.OrganizerStores(ctx)
	if err != nil {
		h.log(r).Warn("failed to list organizer stores", "error", err)
		return nil
	}
	return h.mapper.Stores(stores)
}
