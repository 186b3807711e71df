package forms

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketsafi/web/internal/cache"
	"ticketsafi/web/internal/service/ticketsafi"
)

var nairobi = time.FixedZone("EAT", 3*60*60)

func details() EventDetails {
	return EventDetails{
		Title:    "Jazz Night",
		Category: "CONCERT",
		Location: "Nairobi",
		Start:    "2025-11-27T20:00",
		End:      "2025-11-27T23:30",
	}
}

func TestEventDetails_Validate(t *testing.T) {
	assert.False(t, details().Validate(nairobi).Any())

	for _, edit := range []func(*EventDetails){
		func(d *EventDetails) { d.Title = "" },
		func(d *EventDetails) { d.Start = "" },
		func(d *EventDetails) { d.End = "" },
	} {
		d := details()
		edit(&d)
		assert.Equal(t, MsgRequiredFields, d.Validate(nairobi).First())
	}

	d := details()
	d.End = "2025-11-27T19:00"
	assert.Equal(t, MsgEndBeforeStart, d.Validate(nairobi).Get("end_datetime"))

	d = details()
	d.Category = "KARAOKE"
	assert.NotEmpty(t, d.Validate(nairobi).Get("category"))
}

func TestValidateTiers(t *testing.T) {
	_, errs := ValidateTiers(nil)
	assert.Equal(t, MsgNeedTier, errs.First())

	tiers, errs := ValidateTiers([]TierRow{
		{Name: "Regular", Price: "1500", Quantity: "100"},
		{Name: "Free Entry", Price: "", Quantity: "20"},
	})
	require.False(t, errs.Any())
	assert.Equal(t, []ticketsafi.TierSubmission{
		{Name: "Regular", Price: 1500, QuantityAllocated: 100},
		{Name: "Free Entry", Price: 0, QuantityAllocated: 20},
	}, tiers)

	_, errs = ValidateTiers([]TierRow{{Name: "", Price: "-1", Quantity: "0"}})
	assert.Equal(t, MsgTierName, errs.Get("tiers.0.name"))
	assert.Equal(t, MsgTierPrice, errs.Get("tiers.0.price"))
	assert.Equal(t, MsgTierQuantity, errs.Get("tiers.0.quantity"))
}

func TestDraft_Steps(t *testing.T) {
	d := NewDraft()
	assert.Equal(t, 1, d.Step)

	incomplete := details()
	incomplete.Title = ""
	errs := d.Advance(incomplete, nil, nairobi)
	assert.True(t, errs.Any())
	assert.Equal(t, 1, d.Step)

	poster := &ticketsafi.File{Name: "poster.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
	require.False(t, d.Advance(details(), poster, nairobi).Any())
	assert.Equal(t, 2, d.Step)

	_, errs = d.Finish(nil, nairobi)
	assert.Equal(t, MsgNeedTier, errs.First())

	sub, errs := d.Finish([]TierRow{{Name: "VIP", Price: "5000", Quantity: "10"}}, nairobi)
	require.False(t, errs.Any())
	assert.Equal(t, "Jazz Night", sub.Title)
	assert.Equal(t, time.Date(2025, 11, 27, 17, 0, 0, 0, time.UTC), sub.Start.UTC())
	assert.True(t, sub.OfflineReady)
	assert.Equal(t, poster, sub.Poster)
	assert.Len(t, sub.Tiers, 1)
}

func TestDraftStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewDraftStore(cache.NewMemory(), time.Hour)

	d := NewDraft()
	d.Advance(details(), &ticketsafi.File{Name: "p.jpg", ContentType: "image/jpeg", Data: []byte("jpeg")}, nairobi)
	require.NoError(t, store.Save(ctx, d))

	got, err := store.Load(ctx, d.ID.String())
	require.NoError(t, err)
	assert.Equal(t, d, got)

	require.NoError(t, store.Delete(ctx, d.ID))
	_, err = store.Load(ctx, d.ID.String())
	assert.ErrorIs(t, err, ErrDraftNotFound)

	_, err = store.Load(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestFormatDateTime(t *testing.T) {
	ts := time.Date(2025, 11, 27, 17, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-11-27T20:00", FormatDateTime(ts, nairobi))
	assert.Equal(t, "", FormatDateTime(time.Time{}, nairobi))
}
