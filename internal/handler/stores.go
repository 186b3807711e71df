package handler

import (
	"net/http"

	"ticketsafi/web/internal/forms"
	"ticketsafi/web/internal/view"
)

type storeFormData struct {
	Form forms.StoreForm
	// Current is the stored store when editing.
	Current *view.Store
	Error   string
	Created bool
}

func (h *Handler) OrganizerStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.api.OrganizerStores(r.Context())
	if err != nil {
		h.log(r).Warn("failed to list organizer stores", "error", err)
		h.renderError(w, r, statusFor(err), view.MsgStoresFailed)
		return
	}
	h.render(w, r, http.StatusOK, "organizer_stores", "My stores", h.mapper.Stores(stores))
}

func (h *Handler) CreateStorePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "store_form", "Launch your storefront", storeFormData{})
}

func (h *Handler) CreateStore(w http.ResponseWriter, r *http.Request) {
	f, err := forms.ParseStore(r)
	data := storeFormData{Form: f}
	if err != nil {
		data.Error = forms.ErrFileTooLarge.Error()
		h.render(w, r, http.StatusUnprocessableEntity, "store_form", "Launch your storefront", data)
		return
	}
	if errs := f.Validate(); errs.Any() {
		data.Error = errs.First()
		h.render(w, r, http.StatusUnprocessableEntity, "store_form", "Launch your storefront", data)
		return
	}
	if _, err := h.api.CreateStore(r.Context(), f.Submission()); err != nil {
		h.log(r).Warn("failed to create store", "slug", f.Slug, "error", err)
		data.Error = forms.StoreFailure(err, f.Slug, forms.MsgStoreCreateFailed)
		h.render(w, r, statusFor(err), "store_form", "Launch your storefront", data)
		return
	}
	data.Created = true
	h.render(w, r, http.StatusCreated, "store_form", "Launch your storefront", data)
}

// EditStorePage edits the organizer's own store. The API resolves which
// store that is from the session, so the id in the path is informational.
func (h *Handler) EditStorePage(w http.ResponseWriter, r *http.Request) {
	store, err := h.api.ManagedStore(r.Context())
	if err != nil {
		h.log(r).Warn("failed to load managed store", "error", err)
		h.renderError(w, r, statusFor(err), view.MsgStoresFailed)
		return
	}
	current := h.mapper.Store(*store)
	h.render(w, r, http.StatusOK, "store_form", "Edit store", storeFormData{
		Form: forms.StoreForm{
			Name:          store.Name,
			Slug:          store.Slug,
			Description:   store.Description,
			InstagramLink: store.InstagramLink,
			WebsiteLink:   store.WebsiteLink,
		},
		Current: &current,
	})
}

func (h *Handler) EditStore(w http.ResponseWriter, r *http.Request) {
	f, err := forms.ParseStore(r)
	data := storeFormData{Form: f, Current: &view.Store{}}
	if err != nil {
		data.Error = forms.ErrFileTooLarge.Error()
		h.render(w, r, http.StatusUnprocessableEntity, "store_form", "Edit store", data)
		return
	}
	if errs := f.Validate(); errs.Any() {
		data.Error = errs.First()
		h.render(w, r, http.StatusUnprocessableEntity, "store_form", "Edit store", data)
		return
	}
	if _, err := h.api.UpdateStore(r.Context(), f.Submission()); err != nil {
		h.log(r).Warn("failed to update store", "slug", f.Slug, "error", err)
		data.Error = forms.StoreFailure(err, f.Slug, forms.MsgStoreSaveFailed)
		h.render(w, r, statusFor(err), "store_form", "Edit store", data)
		return
	}
	http.Redirect(w, r, "/organizer/stores", http.StatusSeeOther)
}
