package model

import (
	"time"

	"github.com/google/uuid"
)

// CheckoutAttempt is the web server's record of one purchase attempt and
// what the buyer was last told about it.
type CheckoutAttempt struct {
	ID             uuid.UUID `json:"id"`
	EventID        string    `json:"event_id"`
	TierID         string    `json:"tier_id"`
	TierName       string    `json:"tier_name"`
	Quantity       int       `json:"quantity"`
	Amount         float64   `json:"amount"`
	Phone          string    `json:"-"`
	GuestEmail     string    `json:"-"`
	Status         string    `json:"status"`
	TicketID       string    `json:"ticket_id,omitempty"`
	TransactionRef string    `json:"transaction_ref,omitempty"`
	Error          string    `json:"error,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
