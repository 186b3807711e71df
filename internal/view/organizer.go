package view

import (
	"strings"

	"ticketsafi/web/internal/model"
)

const (
	AttendeesPageSize = 10
	HistoryPageSize   = 5

	MsgDashboardFailed = "Failed to load dashboard data."
	MsgAttendeesFailed = "Could not load attendees."
	MsgWalletFailed    = "Could not load wallet details."
)

type Performance struct {
	ID       string
	Title    string
	Date     string
	Status   string
	Sold     int
	Capacity int
	Revenue  string
	// Percent of capacity sold, 0 to 100.
	Percent int
}

type Dashboard struct {
	TotalRevenue   string
	TicketsSold    int
	TotalAttendees int
	AvgTicketPrice string
	Recent         []Performance
}

func (m *Mapper) Dashboard(s model.DashboardStats) Dashboard {
	d := Dashboard{
		TotalRevenue:   KES(s.TotalRevenue.Float()),
		TicketsSold:    s.TicketsSold,
		TotalAttendees: s.TotalAttendees,
		AvgTicketPrice: KES(s.AvgTicketPrice.Float()),
	}
	for _, e := range s.RecentEvents {
		p := Performance{
			ID:       e.ID,
			Title:    e.Title,
			Date:     m.Day(e.Date),
			Status:   e.Status,
			Sold:     e.Sold,
			Capacity: e.Capacity,
			Revenue:  KES(e.Revenue.Float()),
		}
		if e.Capacity > 0 {
			p.Percent = min(100, e.Sold*100/e.Capacity)
		}
		d.Recent = append(d.Recent, p)
	}
	return d
}

// AttendeeGroup collects the tickets one buyer holds for one tier.
type AttendeeGroup struct {
	ID             string
	Name           string
	Initial        string
	Email          string
	TierName       string
	TotalPaid      string
	Count          int
	CheckedIn      int
	AllCheckedIn   bool
	Tickets        []Ticket
	totalPaidValue float64
}

// GroupAttendees groups tickets by buyer email and tier, in order of first
// appearance.
func (m *Mapper) GroupAttendees(tickets []model.Attendee) []AttendeeGroup {
	index := make(map[string]int)
	var groups []AttendeeGroup
	for _, t := range tickets {
		key := t.AttendeeEmail + "-" + t.TierName
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, AttendeeGroup{
				ID:       key,
				Name:     t.AttendeeName,
				Initial:  initial(t.AttendeeName),
				Email:    t.AttendeeEmail,
				TierName: t.TierName,
			})
		}
		g := &groups[i]
		g.Tickets = append(g.Tickets, m.Ticket(t))
		g.totalPaidValue += t.TierPrice.Float()
		g.Count++
		if t.Status == model.TicketCheckedIn {
			g.CheckedIn++
		}
	}
	for i := range groups {
		groups[i].TotalPaid = KES(groups[i].totalPaidValue)
		groups[i].AllCheckedIn = groups[i].CheckedIn == groups[i].Count
	}
	return groups
}

// FilterGroups keeps groups whose name or email contains term, or with a
// ticket id ending in it.
func FilterGroups(groups []AttendeeGroup, term string) []AttendeeGroup {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return groups
	}
	var out []AttendeeGroup
	for _, g := range groups {
		if strings.Contains(strings.ToLower(g.Name), term) || strings.Contains(strings.ToLower(g.Email), term) {
			out = append(out, g)
			continue
		}
		for _, t := range g.Tickets {
			if strings.HasSuffix(strings.ToLower(t.ID), term) {
				out = append(out, g)
				break
			}
		}
	}
	return out
}

// PageRevenue sums the ticket prices on the current attendee page.
func PageRevenue(tickets []model.Attendee) string {
	var sum float64
	for _, t := range tickets {
		sum += t.TierPrice.Float()
	}
	return KES(sum)
}

type Pager struct {
	Page       int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

func (p Pager) Next() int { return p.Page + 1 }
func (p Pager) Prev() int { return p.Page - 1 }

func AttendeePager(page int, count int) Pager {
	total := TotalPages(count, AttendeesPageSize)
	return Pager{Page: page, TotalPages: total, HasNext: page < total, HasPrev: page > 1}
}
