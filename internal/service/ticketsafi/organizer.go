package ticketsafi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"ticketsafi/web/internal/model"
)

func (c *Client) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	if err := c.getJSON(ctx, "/api/organizer/dashboard/", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) OrganizerEvents(ctx context.Context) ([]model.EventSummary, error) {
	data, err := c.getList(ctx, "/api/organizer/events/", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[model.EventSummary](data)
}

func (c *Client) CreateEvent(ctx context.Context, s EventSubmission) error {
	return c.sendMultipart(ctx, http.MethodPost, "/api/organizer/events/create/", s, nil)
}

// EditableEvent loads an event through the organizer-only edit endpoint,
// which includes allocation and sales per tier.
func (c *Client) EditableEvent(ctx context.Context, id string) (*model.EditableEvent, error) {
	var event model.EditableEvent
	if err := c.getJSON(ctx, editPath(id), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id string, s EventSubmission) error {
	return c.sendMultipart(ctx, http.MethodPatch, editPath(id), s, nil)
}

func (c *Client) Attendees(ctx context.Context, eventID string, page int) (*model.Page[model.Attendee], error) {
	if page < 1 {
		page = 1
	}
	var result model.Page[model.Attendee]
	path := "/api/organizer/events/" + url.PathEscape(eventID) + "/attendees/"
	if err := c.getJSON(ctx, path, url.Values{"page": {strconv.Itoa(page)}}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExportURL is the CSV download the browser navigates to directly.
func (c *Client) ExportURL(eventID string) string {
	return c.baseURL + "/api/organizer/events/" + url.PathEscape(eventID) + "/export/"
}

type ScannerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Scanners(ctx context.Context) ([]model.Scanner, error) {
	data, err := c.getList(ctx, "/api/organizer/team/scanners/", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[model.Scanner](data)
}

func (c *Client) CreateScanner(ctx context.Context, req ScannerRequest) (*model.Scanner, error) {
	var scanner model.Scanner
	if _, err := c.sendJSON(ctx, http.MethodPost, "/api/organizer/team/scanners/create/", nil, req, &scanner); err != nil {
		return nil, err
	}
	return &scanner, nil
}

func editPath(id string) string {
	return "/api/organizer/events/" + url.PathEscape(id) + "/edit/"
}
