package view

import "ticketsafi/web/internal/model"

const MsgTicketsFailed = "Could not load your tickets."

type Ticket struct {
	ID            string
	QRPayload     string
	Status        string
	StatusLabel   string
	Valid         bool
	EventTitle    string
	EventImage    string
	EventLocation string
	EventDate     string
	OrganizerName string
	TierName      string
	TierPrice     string
	AttendeeName  string
	AttendeeEmail string
	PurchaseDate  string
}

// StatusLabel shows ACTIVE as "Valid" and any other status as sent.
func StatusLabel(s model.TicketStatus) string {
	if s == model.TicketActive {
		return "Valid"
	}
	return string(s)
}

func (m *Mapper) Ticket(t model.Ticket) Ticket {
	image := t.EventImage
	return Ticket{
		ID:            t.ID,
		QRPayload:     t.QRCodeHash,
		Status:        string(t.Status),
		StatusLabel:   StatusLabel(t.Status),
		Valid:         t.Status == model.TicketActive,
		EventTitle:    t.EventTitle,
		EventImage:    m.Image(&image),
		EventLocation: t.EventLocation,
		EventDate:     m.DateTime(t.EventStartDate),
		OrganizerName: t.OrganizerName,
		TierName:      t.TierName,
		TierPrice:     KES(t.TierPrice.Float()),
		AttendeeName:  t.AttendeeName,
		AttendeeEmail: t.AttendeeEmail,
		PurchaseDate:  m.Day(t.PurchaseDate),
	}
}

func (m *Mapper) Tickets(ts []model.Ticket) []Ticket {
	out := make([]Ticket, 0, len(ts))
	for _, t := range ts {
		out = append(out, m.Ticket(t))
	}
	return out
}
