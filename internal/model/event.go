package model

import "time"

type Category string

const (
	CategoryConcert   Category = "CONCERT"
	CategoryFestival  Category = "FESTIVAL"
	CategoryNightlife Category = "NIGHTLIFE"
	CategoryTheatre   Category = "THEATRE"
	CategorySports    Category = "SPORTS"
	CategoryArts      Category = "ARTS"
	CategoryOther     Category = "OTHER"
)

var Categories = []Category{
	CategoryConcert, CategoryFestival, CategoryNightlife, CategoryTheatre,
	CategorySports, CategoryArts, CategoryOther,
}

// StoreRef is the store summary nested in event payloads.
type StoreRef struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	LogoImage *string `json:"logo_image"`
}

type EventSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	StartDatetime time.Time `json:"start_datetime"`
	EndDatetime   time.Time `json:"end_datetime"`
	LocationName  string    `json:"location_name"`
	PosterImage   *string   `json:"poster_image"`
	LowestPrice   Decimal   `json:"lowest_price"`
	Category      Category  `json:"category"`
	OrganizerName string    `json:"organizer_name"`
	StoreSlug     *string   `json:"store_slug"`
	Store         *StoreRef `json:"store"`
}

type Tier struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	Price             Decimal `json:"price"`
	QuantityAllocated int     `json:"quantity_allocated"`
	QuantitySold      int     `json:"quantity_sold"`
	AvailableQty      int     `json:"available_qty"`
}

type EventDetail struct {
	EventSummary
	Description string `json:"description"`
	Tiers       []Tier `json:"tiers"`
}

// EditableEvent is the payload of GET /api/organizer/events/:id/edit/.
type EditableEvent struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      Category  `json:"category"`
	LocationName  string    `json:"location_name"`
	StartDatetime time.Time `json:"start_datetime"`
	EndDatetime   time.Time `json:"end_datetime"`
	PosterImage   *string   `json:"poster_image"`
	Store         *string   `json:"store"`
	Tiers         []Tier    `json:"tiers"`
}

type EventPerformance struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
	Status   string    `json:"status"`
	Sold     int       `json:"sold"`
	Capacity int       `json:"capacity"`
	Revenue  Decimal   `json:"revenue"`
}

type DashboardStats struct {
	TotalRevenue   Decimal            `json:"total_revenue"`
	TicketsSold    int                `json:"tickets_sold"`
	TotalAttendees int                `json:"total_attendees"`
	AvgTicketPrice Decimal            `json:"avg_ticket_price"`
	RecentEvents   []EventPerformance `json:"recent_events"`
}
