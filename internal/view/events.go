package view

import (
	"net/url"

	"ticketsafi/web/internal/model"
	"ticketsafi/web/internal/service/ticketsafi"
)

const (
	MsgEventsFailed = "Could not load events."
	MsgEventFailed  = "Could not load this event."
)

var CategoryOptions = []string{"All Events", "Concert", "Festival", "Nightlife", "Theatre", "Sports", "Arts"}

type PriceOption struct {
	Label string
	Value string
}

var PriceOptions = []PriceOption{
	{"Any Price", "all"},
	{"Free", "free"},
	{"Under KES 1,000", "0-1000"},
	{"KES 1,000 - 2,500", "1000-2500"},
	{"KES 2,500 - 5,000", "2500-5000"},
	{"VIP (5,000+)", "5000-max"},
}

// FilterFromQuery reads the discovery filters from a page URL.
func FilterFromQuery(q url.Values) ticketsafi.EventFilter {
	f := ticketsafi.EventFilter{
		Query:      q.Get("q"),
		Category:   q.Get("category"),
		Date:       q.Get("date"),
		PriceRange: q.Get("price"),
	}
	if f.Category == "" {
		f.Category = "All Events"
	}
	if f.PriceRange == "" {
		f.PriceRange = "all"
	}
	return f
}

// ListingHeading is "Search Results" once any filter is set.
func ListingHeading(f ticketsafi.EventFilter) string {
	if f.IsDefault() {
		return "Trending Now"
	}
	return "Search Results"
}

type StoreBadge struct {
	ID      string
	Name    string
	Slug    string
	LogoURL string
}

type EventCard struct {
	ID            string
	Title         string
	Date          string
	Day           string
	Location      string
	ImageURL      string
	Price         string
	Category      string
	OrganizerName string
	Store         *StoreBadge
}

func (m *Mapper) EventCard(e model.EventSummary) EventCard {
	return EventCard{
		ID:            e.ID,
		Title:         e.Title,
		Date:          m.DateTime(e.StartDatetime),
		Day:           m.Day(e.StartDatetime),
		Location:      e.LocationName,
		ImageURL:      m.Image(e.PosterImage),
		Price:         KES(e.LowestPrice.Float()),
		Category:      string(e.Category),
		OrganizerName: e.OrganizerName,
		Store:         m.storeBadge(e.Store),
	}
}

func (m *Mapper) EventCards(events []model.EventSummary) []EventCard {
	cards := make([]EventCard, 0, len(events))
	for _, e := range events {
		cards = append(cards, m.EventCard(e))
	}
	return cards
}

func (m *Mapper) storeBadge(s *model.StoreRef) *StoreBadge {
	if s == nil {
		return nil
	}
	return &StoreBadge{ID: s.ID, Name: s.Name, Slug: s.Slug, LogoURL: m.Assets.ResolveOr(s.LogoImage, "")}
}

type TierView struct {
	ID          string
	Name        string
	Description string
	Price       string
	PriceValue  float64
	Available   int
	SoldOut     bool
}

type EventDetail struct {
	EventCard
	LongDate    string
	EndDate     string
	Description string
	Tiers       []TierView
}

func (m *Mapper) EventDetail(e model.EventDetail) EventDetail {
	d := EventDetail{
		EventCard:   m.EventCard(e.EventSummary),
		LongDate:    m.LongDate(e.StartDatetime),
		EndDate:     m.DateTime(e.EndDatetime),
		Description: e.Description,
	}
	for _, t := range e.Tiers {
		d.Tiers = append(d.Tiers, TierView{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Price:       Number(t.Price.Float()),
			PriceValue:  t.Price.Float(),
			Available:   t.AvailableQty,
			SoldOut:     t.AvailableQty <= 0,
		})
	}
	return d
}

// Tier finds a tier of the event by id.
func (d EventDetail) Tier(id string) (TierView, bool) {
	for _, t := range d.Tiers {
		if t.ID == id {
			return t, true
		}
	}
	return TierView{}, false
}
