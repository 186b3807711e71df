package forms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ticketsafi/web/internal/cache"
	"ticketsafi/web/internal/service/ticketsafi"
)

// DraftCookie holds the id of the browser's event wizard draft.
const DraftCookie = "tsweb_event_draft"

var ErrDraftNotFound = errors.New("event draft not found or expired")

// Draft is an event being created. The poster stays in the draft until the
// final submit uploads it.
type Draft struct {
	ID      uuid.UUID        `json:"id"`
	Step    int              `json:"step"`
	Details EventDetails     `json:"details"`
	Tiers   []TierRow        `json:"tiers"`
	Poster  *ticketsafi.File `json:"poster,omitempty"`
}

func NewDraft() *Draft {
	return &Draft{
		ID:    uuid.New(),
		Step:  1,
		Tiers: []TierRow{{}},
	}
}

// Advance stores step one and moves to tiers if the details are complete.
func (d *Draft) Advance(details EventDetails, poster *ticketsafi.File, loc *time.Location) Errors {
	d.Details = details
	if poster != nil {
		d.Poster = poster
	}
	errs := details.Validate(loc)
	if !errs.Any() {
		d.Step = 2
	}
	return errs
}

func (d *Draft) Back() {
	d.Step = 1
}

// Finish validates the tiers and returns the payload to upload.
func (d *Draft) Finish(rows []TierRow, loc *time.Location) (ticketsafi.EventSubmission, Errors) {
	d.Tiers = rows
	if errs := d.Details.Validate(loc); errs.Any() {
		d.Step = 1
		return ticketsafi.EventSubmission{}, errs
	}
	tiers, errs := ValidateTiers(rows)
	if errs.Any() {
		return ticketsafi.EventSubmission{}, errs
	}
	sub, err := BuildSubmission(d.Details, tiers, d.Poster, loc)
	if err != nil {
		return ticketsafi.EventSubmission{}, Errors{"": err.Error()}
	}
	return sub, nil
}

// DraftStore keeps drafts in the shared cache.
type DraftStore struct {
	store cache.Store
	ttl   time.Duration
}

func NewDraftStore(store cache.Store, ttl time.Duration) *DraftStore {
	return &DraftStore{store: store, ttl: ttl}
}

func draftKey(id uuid.UUID) string {
	return "draft:" + id.String()
}

func (s *DraftStore) Load(ctx context.Context, id string) (*Draft, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrDraftNotFound
	}
	data, err := s.store.Get(ctx, draftKey(uid))
	if errors.Is(err, cache.ErrNotFound) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &d, nil
}

func (s *DraftStore) Save(ctx context.Context, d *Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	return s.store.Set(ctx, draftKey(d.ID), data, s.ttl)
}

func (s *DraftStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, draftKey(id))
}
