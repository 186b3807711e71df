package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"ticketsafi/web/internal/cache"
	"ticketsafi/web/internal/checkout"
	"ticketsafi/web/internal/model"
	"ticketsafi/web/internal/search"
	"ticketsafi/web/internal/service/ticketsafi"
	"ticketsafi/web/internal/session"
	"ticketsafi/web/internal/view"
)

// searchCookie identifies a browser for live search debouncing.
const searchCookie = session.LocalCookiePrefix + "search"

type listing struct {
	Heading string
	Events  []view.EventCard
	Error   string
}

type homeData struct {
	Filter     ticketsafi.EventFilter
	Categories []string
	Prices     []view.PriceOption
	Listing    listing
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	// Issued up front so the first keystrokes already share one key.
	h.searchKey(w, r)
	f := view.FilterFromQuery(r.URL.Query())
	data := homeData{
		Filter:     f,
		Categories: view.CategoryOptions,
		Prices:     view.PriceOptions,
		Listing:    h.listing(r.Context(), r, f),
	}
	h.render(w, r, http.StatusOK, "home", "Discover events", data)
}

// LiveEvents renders the listing fragment for the search box. Only the last
// submission of a burst from one browser reaches the API; the others get
// 204.
func (h *Handler) LiveEvents(w http.ResponseWriter, r *http.Request) {
	f := view.FilterFromQuery(r.URL.Query())

	var result listing
	err := h.search.Do(r.Context(), h.searchKey(w, r), func(ctx context.Context) error {
		result = h.listing(ctx, r, f)
		return ctx.Err()
	})
	if errors.Is(err, search.ErrSuperseded) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		// The browser went away.
		return
	}
	h.renderFragment(w, r, "event_listing", result)
}

func (h *Handler) listing(ctx context.Context, r *http.Request, f ticketsafi.EventFilter) listing {
	l := listing{Heading: view.ListingHeading(f)}
	events, err := h.listEvents(ctx, f)
	if err != nil {
		if ctx.Err() == nil {
			h.log(r).Warn("failed to list events", "filter", f.Key(), "error", err)
		}
		l.Error = view.MsgEventsFailed
		return l
	}
	l.Events = h.mapper.EventCards(events)
	return l
}

// listEvents serves public listings from the shared cache.
func (h *Handler) listEvents(ctx context.Context, f ticketsafi.EventFilter) ([]model.EventSummary, error) {
	if h.events == nil {
		return h.api.ListEvents(ctx, f)
	}
	return cache.FetchJSON(ctx, h.events, "events:"+f.Key(), func(ctx context.Context) ([]model.EventSummary, error) {
		return h.api.ListEvents(ctx, f)
	})
}

func (h *Handler) searchKey(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(searchCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	h.setLocalCookie(w, searchCookie, id, "/", 0)
	return id
}

type eventData struct {
	Event      view.EventDetail
	Flow       *checkout.Flow
	Guest      bool
	Quantities []int
}

func (h *Handler) EventDetails(w http.ResponseWriter, r *http.Request) {
	event, ok := h.loadEvent(w, r)
	if !ok {
		return
	}
	sess := session.FromContext(r.Context())
	form := checkout.Form{Quantity: 1}
	if len(event.Tiers) > 0 {
		form.TierID = event.Tiers[0].ID
	}
	h.renderEvent(w, r, http.StatusOK, event, checkout.NewFlow(form, sess.Anonymous()))
}

func (h *Handler) loadEvent(w http.ResponseWriter, r *http.Request) (view.EventDetail, bool) {
	id := chi.URLParam(r, "id")
	event, err := h.api.GetEvent(r.Context(), id)
	if err != nil {
		h.log(r).Warn("failed to load event", "event_id", id, "error", err)
		h.renderError(w, r, statusFor(err), view.MsgEventFailed)
		return view.EventDetail{}, false
	}
	return h.mapper.EventDetail(*event), true
}

func (h *Handler) renderEvent(w http.ResponseWriter, r *http.Request, status int, event view.EventDetail, flow *checkout.Flow) {
	h.render(w, r, status, "event", event.Title, eventData{
		Event:      event,
		Flow:       flow,
		Guest:      flow.Guest,
		Quantities: quantityChoices(),
	})
}

func quantityChoices() []int {
	out := make([]int, checkout.MaxQuantity)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func (h *Handler) Stores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.api.Stores(r.Context())
	if err != nil {
		h.log(r).Warn("failed to list stores", "error", err)
		h.renderError(w, r, statusFor(err), view.MsgStoresFailed)
		return
	}
	h.render(w, r, http.StatusOK, "stores", "Stores", h.mapper.Stores(stores))
}

func (h *Handler) StorePage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	store, err := h.api.Store(r.Context(), slug)
	if err != nil {
		h.log(r).Warn("failed to load store", "slug", slug, "error", err)
		h.renderError(w, r, statusFor(err), view.MsgStoresFailed)
		return
	}
	v := h.mapper.Store(*store)
	h.render(w, r, http.StatusOK, "store", v.Name, v)
}
