package view

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketsafi/web/internal/assets"
	"ticketsafi/web/internal/model"
)

var eat = time.FixedZone("EAT", 3*60*60)

func mapper() *Mapper {
	return NewMapper("http://api.test/", eat)
}

func ptr(s string) *string { return &s }

func TestNumberAndKES(t *testing.T) {
	tests := map[float64]string{
		0:          "0",
		999:        "999",
		1000:       "1,000",
		1500:       "1,500",
		1234567:    "1,234,567",
		1500.5:     "1,500.5",
		2500.256:   "2,500.26",
		-12000.999: "-12,001",
	}
	for in, want := range tests {
		assert.Equal(t, want, Number(in), "%v", in)
	}
	assert.Equal(t, "KES 1,500", KES(1500))
}

func TestMapper_Dates(t *testing.T) {
	m := mapper()
	ts := time.Date(2025, 11, 27, 17, 0, 0, 0, time.UTC)

	assert.Equal(t, "Nov 27, 2025 • 8:00 PM", m.DateTime(ts))
	assert.Equal(t, "Nov 27, 2025", m.Day(ts))
	assert.Equal(t, "Thursday, November 27 at 8:00 PM", m.LongDate(ts))
	assert.Empty(t, m.DateTime(time.Time{}))
}

func TestMapper_EventCard(t *testing.T) {
	m := mapper()
	card := m.EventCard(model.EventSummary{
		ID:            "e1",
		Title:         "Jazz Night",
		StartDatetime: time.Date(2025, 11, 27, 17, 0, 0, 0, time.UTC),
		LocationName:  "Alliance Française",
		PosterImage:   ptr("/media/posters/jazz.jpg"),
		LowestPrice:   1500,
		Category:      model.CategoryConcert,
		Store:         &model.StoreRef{ID: "s1", Name: "Jazz Club", Slug: "jazz-club", LogoImage: ptr("https://cdn.test/logo.png")},
	})

	assert.Equal(t, "Nov 27, 2025 • 8:00 PM", card.Date)
	assert.Equal(t, "http://api.test/media/posters/jazz.jpg", card.ImageURL)
	assert.Equal(t, "KES 1,500", card.Price)
	require.NotNil(t, card.Store)
	assert.Equal(t, "https://cdn.test/logo.png", card.Store.LogoURL)

	noPoster := m.EventCard(model.EventSummary{ID: "e2"})
	assert.Equal(t, assets.Placeholder, noPoster.ImageURL)
	assert.Nil(t, noPoster.Store)
}

func TestMapper_EventDetail(t *testing.T) {
	d := mapper().EventDetail(model.EventDetail{
		EventSummary: model.EventSummary{ID: "e1", Title: "Jazz Night"},
		Description:  "Live jazz",
		Tiers: []model.Tier{
			{ID: "t1", Name: "Regular", Price: 1500, AvailableQty: 10},
			{ID: "t2", Name: "VIP", Price: 5000, AvailableQty: 0},
		},
	})

	require.Len(t, d.Tiers, 2)
	assert.Equal(t, "1,500", d.Tiers[0].Price)
	assert.False(t, d.Tiers[0].SoldOut)
	assert.True(t, d.Tiers[1].SoldOut)

	tier, ok := d.Tier("t2")
	assert.True(t, ok)
	assert.Equal(t, 5000.0, tier.PriceValue)
	_, ok = d.Tier("nope")
	assert.False(t, ok)
}

func TestFilterFromQuery(t *testing.T) {
	f := FilterFromQuery(url.Values{})
	assert.True(t, f.IsDefault())
	assert.Equal(t, "Trending Now", ListingHeading(f))

	f = FilterFromQuery(url.Values{"q": {"jazz"}, "category": {"Concert"}, "price": {"5000-max"}, "date": {"2025-11-27"}})
	assert.Equal(t, "Search Results", ListingHeading(f))
	assert.Equal(t, url.Values{
		"q":         {"jazz"},
		"category":  {"Concert"},
		"date":      {"2025-11-27"},
		"min_price": {"5000"},
	}, f.Values())

	assert.Equal(t, url.Values{"max_price": {"0"}}, FilterFromQuery(url.Values{"price": {"free"}}).Values())
	assert.Equal(t, url.Values{"min_price": {"1000"}, "max_price": {"2500"}}, FilterFromQuery(url.Values{"price": {"1000-2500"}}).Values())
	assert.True(t, FilterFromQuery(url.Values{"category": {"All"}}).IsDefault())
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Valid", StatusLabel(model.TicketActive))
	assert.Equal(t, "CHECKED_IN", StatusLabel(model.TicketCheckedIn))
	assert.Equal(t, "CANCELLED", StatusLabel(model.TicketCancelled))
}

func TestGroupAttendees(t *testing.T) {
	tickets := []model.Attendee{
		{ID: "a-0001", AttendeeName: "jane", AttendeeEmail: "jane@x.com", TierName: "VIP", TierPrice: 5000, Status: model.TicketCheckedIn},
		{ID: "a-0002", AttendeeName: "Bob", AttendeeEmail: "bob@x.com", TierName: "Regular", TierPrice: 1500, Status: model.TicketActive},
		{ID: "a-0003", AttendeeName: "jane", AttendeeEmail: "jane@x.com", TierName: "VIP", TierPrice: 5000, Status: model.TicketCheckedIn},
		{ID: "a-0004", AttendeeName: "jane", AttendeeEmail: "jane@x.com", TierName: "Regular", TierPrice: 1500, Status: model.TicketActive},
	}
	groups := mapper().GroupAttendees(tickets)

	require.Len(t, groups, 3)
	assert.Equal(t, "jane@x.com-VIP", groups[0].ID)
	assert.Equal(t, "J", groups[0].Initial)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, 2, groups[0].CheckedIn)
	assert.True(t, groups[0].AllCheckedIn)
	assert.Equal(t, "KES 10,000", groups[0].TotalPaid)
	assert.Equal(t, "bob@x.com-Regular", groups[1].ID)
	assert.False(t, groups[1].AllCheckedIn)

	assert.Len(t, FilterGroups(groups, "BOB"), 1)
	assert.Len(t, FilterGroups(groups, "0004"), 1)
	assert.Len(t, FilterGroups(groups, ""), 3)
	assert.Equal(t, "KES 13,000", PageRevenue(tickets))
}

func TestTotalPagesAndPager(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 3, TotalPages(25, 10))

	p := AttendeePager(2, 25)
	assert.Equal(t, Pager{Page: 2, TotalPages: 3, HasNext: true, HasPrev: true}, p)
	assert.Equal(t, 3, p.Next())
	assert.Equal(t, 1, p.Prev())
}

func TestMapper_Wallet(t *testing.T) {
	m := mapper()

	ok := m.Wallet(model.Wallet{Balance: 12500, Currency: "KES", IsKYCVerified: true})
	assert.True(t, ok.CanWithdraw)
	assert.Equal(t, "KES 12,500", ok.Balance)

	for _, w := range []model.Wallet{
		{Balance: 100, IsFrozen: true, IsKYCVerified: true},
		{Balance: 100},
		{Balance: 0, IsKYCVerified: true},
	} {
		v := m.Wallet(w)
		assert.False(t, v.CanWithdraw)
		assert.NotEmpty(t, v.Blocker)
	}
}

func TestMapper_History(t *testing.T) {
	h := mapper().History(model.TransactionPage{
		Results:     []model.Transaction{{ID: "x", Type: "SALE", Amount: 1500}, {ID: "y", Type: "PAYOUT", Amount: -1000}},
		CurrentPage: 1, TotalPages: 2, HasNext: true,
	}, "")
	require.Len(t, h.Transactions, 2)
	assert.Equal(t, "KES 1,500", h.Transactions[0].Amount)
	assert.True(t, h.Transactions[0].Credit)
	assert.False(t, h.Transactions[1].Credit)
	assert.Equal(t, Pager{Page: 1, TotalPages: 2, HasNext: true}, h.Pager)
}
