package forms

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ticketsafi/web/internal/model"
	"ticketsafi/web/internal/service/ticketsafi"
)

// DateTimeLayout is the value format of an <input type="datetime-local">.
const DateTimeLayout = "2006-01-02T15:04"

const (
	MsgEndBeforeStart  = "End time must be after the start time."
	MsgNeedTier        = "Add at least one ticket tier."
	MsgTierName        = "Tier name is required."
	MsgTierPrice       = "Price must be a number of 0 or more."
	MsgTierQuantity    = "Quantity must be at least 1."
	MsgCreateFailed    = "Failed to create event."
	MsgSaveFailed      = "Failed to save changes."
	MsgLoadEventFailed = "Could not load event details."
)

// EventDetails is step one of the wizard, kept as typed so the form can be
// shown again unchanged.
type EventDetails struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Store       string `json:"store"`
}

func ParseEventDetails(r *http.Request) EventDetails {
	return EventDetails{
		Title:       field(r, "title"),
		Description: field(r, "description"),
		Category:    field(r, "category"),
		Location:    field(r, "location_name"),
		Start:       field(r, "start_datetime"),
		End:         field(r, "end_datetime"),
		Store:       field(r, "store"),
	}
}

// Validate gates the move to step two: title, start and end are required
// and the event cannot end before it starts.
func (d EventDetails) Validate(loc *time.Location) Errors {
	errs := Errors{}
	if d.Title == "" || d.Start == "" || d.End == "" {
		errs.Add("", MsgRequiredFields)
	}
	if d.Category != "" && !knownCategory(d.Category) {
		errs.Add("category", "Choose a category from the list.")
	}
	start, serr := parseDateTime(d.Start, loc)
	end, eerr := parseDateTime(d.End, loc)
	if d.Start != "" && serr != nil {
		errs.Add("start_datetime", "Enter a valid start date and time.")
	}
	if d.End != "" && eerr != nil {
		errs.Add("end_datetime", "Enter a valid end date and time.")
	}
	if serr == nil && eerr == nil && end.Before(start) {
		errs.Add("end_datetime", MsgEndBeforeStart)
	}
	return errs
}

func knownCategory(c string) bool {
	for _, k := range model.Categories {
		if string(k) == c {
			return true
		}
	}
	return false
}

func parseDateTime(v string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateTimeLayout, v, loc)
}

// FormatDateTime renders t for a datetime-local input in loc.
func FormatDateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateTimeLayout)
}

// TierRow is one ticket tier row as typed.
type TierRow struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Quantity    string `json:"quantity_allocated"`
}

// ParseTierRows reads the parallel tier_* form arrays.
func ParseTierRows(r *http.Request) []TierRow {
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		_ = r.ParseForm()
	}
	names := r.Form["tier_name"]
	rows := make([]TierRow, 0, len(names))
	for i := range names {
		rows = append(rows, TierRow{
			ID:          index(r.Form["tier_id"], i),
			Name:        strings.TrimSpace(names[i]),
			Description: strings.TrimSpace(index(r.Form["tier_description"], i)),
			Price:       strings.TrimSpace(index(r.Form["tier_price"], i)),
			Quantity:    strings.TrimSpace(index(r.Form["tier_quantity"], i)),
		})
	}
	return rows
}

// Parse converts the row. An empty price means a free tier.
func (t TierRow) Parse() (ticketsafi.TierSubmission, Errors) {
	errs := Errors{}
	out := ticketsafi.TierSubmission{ID: t.ID, Name: t.Name, Description: t.Description}
	if t.Name == "" {
		errs.Add("name", MsgTierName)
	}
	if t.Price != "" {
		p, err := strconv.ParseFloat(t.Price, 64)
		if err != nil || p < 0 {
			errs.Add("price", MsgTierPrice)
		}
		out.Price = p
	}
	q, err := strconv.Atoi(t.Quantity)
	if err != nil || q < 1 {
		errs.Add("quantity", MsgTierQuantity)
	}
	out.QuantityAllocated = q
	return out, errs
}

// ValidateTiers gates the final submit: at least one complete tier row.
func ValidateTiers(rows []TierRow) ([]ticketsafi.TierSubmission, Errors) {
	errs := Errors{}
	if len(rows) == 0 {
		errs.Add("", MsgNeedTier)
		return nil, errs
	}
	tiers := make([]ticketsafi.TierSubmission, 0, len(rows))
	for i, row := range rows {
		tier, rowErrs := row.Parse()
		for f, msg := range rowErrs {
			errs.Add(fmt.Sprintf("tiers.%d.%s", i, f), msg)
		}
		tiers = append(tiers, tier)
	}
	if errs.Any() {
		return nil, errs
	}
	return tiers, nil
}

// BuildSubmission assembles the multipart payload from validated parts.
func BuildSubmission(d EventDetails, tiers []ticketsafi.TierSubmission, poster *ticketsafi.File, loc *time.Location) (ticketsafi.EventSubmission, error) {
	start, err := parseDateTime(d.Start, loc)
	if err != nil {
		return ticketsafi.EventSubmission{}, fmt.Errorf("start_datetime: %w", err)
	}
	end, err := parseDateTime(d.End, loc)
	if err != nil {
		return ticketsafi.EventSubmission{}, fmt.Errorf("end_datetime: %w", err)
	}
	return ticketsafi.EventSubmission{
		Title:        d.Title,
		Description:  d.Description,
		Category:     d.Category,
		LocationName: d.Location,
		Start:        start,
		End:          end,
		Store:        d.Store,
		OfflineReady: true,
		Poster:       poster,
		Tiers:        tiers,
	}, nil
}

// ReadPoster reads the optional poster upload.
func ReadPoster(r *http.Request) (*ticketsafi.File, error) {
	return readFile(r, "poster_image")
}

func index(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}
