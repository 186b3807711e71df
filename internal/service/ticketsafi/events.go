package ticketsafi

import (
	"context"
	"net/url"
	"strings"

	"ticketsafi/web/internal/model"
)

// EventFilter is the state of the discovery filters on the home page.
type EventFilter struct {
	Query      string
	Category   string
	Date       string
	PriceRange string
}

// Values maps the filters to the query parameters of GET /api/events/.
// Price ranges are "all", "free" or "<min>-<max>", where max may be "max".
func (f EventFilter) Values() url.Values {
	v := url.Values{}
	if q := strings.TrimSpace(f.Query); q != "" {
		v.Set("q", q)
	}
	if f.Category != "" && f.Category != "All" && f.Category != "All Events" {
		v.Set("category", f.Category)
	}
	if f.Date != "" {
		v.Set("date", f.Date)
	}
	switch {
	case f.PriceRange == "" || f.PriceRange == "all":
	case f.PriceRange == "free":
		v.Set("max_price", "0")
	case strings.Contains(f.PriceRange, "-"):
		lo, hi, _ := strings.Cut(f.PriceRange, "-")
		v.Set("min_price", lo)
		if hi != "max" {
			v.Set("max_price", hi)
		}
	}
	return v
}

// Key identifies the filter state for caching and request coalescing.
func (f EventFilter) Key() string {
	return f.Values().Encode()
}

// IsDefault reports whether no filter narrows the listing.
func (f EventFilter) IsDefault() bool {
	return len(f.Values()) == 0
}

func (c *Client) ListEvents(ctx context.Context, f EventFilter) ([]model.EventSummary, error) {
	data, err := c.getList(ctx, "/api/events/", f.Values())
	if err != nil {
		return nil, err
	}
	return decodeList[model.EventSummary](data)
}

func (c *Client) GetEvent(ctx context.Context, id string) (*model.EventDetail, error) {
	var event model.EventDetail
	if err := c.getJSON(ctx, "/api/events/"+url.PathEscape(id)+"/", nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
