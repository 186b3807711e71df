package model

import "time"

type TicketStatus string

const (
	TicketActive    TicketStatus = "ACTIVE"
	TicketCheckedIn TicketStatus = "CHECKED_IN"
	TicketUsed      TicketStatus = "USED"
	TicketCancelled TicketStatus = "CANCELLED"
)

type Ticket struct {
	ID             string       `json:"id"`
	QRCodeHash     string       `json:"qr_code_hash"`
	Status         TicketStatus `json:"status"`
	PurchaseDate   time.Time    `json:"purchase_date"`
	AttendeeName   string       `json:"attendee_name"`
	AttendeeEmail  string       `json:"attendee_email"`
	EventTitle     string       `json:"event_title"`
	EventImage     string       `json:"event_image"`
	EventLocation  string       `json:"event_location"`
	EventStartDate time.Time    `json:"event_start_date"`
	EventEndDate   time.Time    `json:"event_end_date"`
	OrganizerName  string       `json:"organizer_name"`
	TierName       string       `json:"tier_name"`
	TierPrice      Decimal      `json:"tier_price"`
}

type PaymentRequest struct {
	TierID      string `json:"tier_id"`
	PhoneNumber string `json:"phone_number"`
	Quantity    int    `json:"quantity,omitempty"`
	Email       string `json:"email,omitempty"`
	Name        string `json:"name,omitempty"`
}

type PaymentResult struct {
	Status         string `json:"status"`
	TransactionRef string `json:"transaction_ref"`
	TicketID       string `json:"ticket_id"`
}

// VerifyResult is returned by the scanner check-in endpoint for both the
// success and the already-used case.
type VerifyResult struct {
	Status       string `json:"status"`
	Error        string `json:"error"`
	AttendeeName string `json:"attendee_name"`
	TierName     string `json:"tier_name"`
	Event        string `json:"event"`
	CheckedInAt  string `json:"checked_in_at"`
}
