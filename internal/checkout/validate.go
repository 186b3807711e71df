// Package checkout holds the ticket purchase flow: local form validation,
// the step machine shown to the buyer and payment confirmation polling.
package checkout

import (
	"strconv"
	"strings"
)

const (
	MaxQuantity = 10
	PhonePrefix = "254"
	PhoneLength = 12
)

const (
	MsgInvalidPhone    = "Please enter a valid M-Pesa number (e.g., 2547... or 2541...)"
	MsgInvalidEmail    = "Please enter a valid email address for ticket delivery."
	MsgMissingName     = "Please enter your full name."
	MsgInvalidQuantity = "Please choose between 1 and 10 tickets."
	MsgMissingTier     = "Please select a ticket type."
	MsgPaymentFailed   = "Payment failed. Please try again."
)

// ValidationError is a form problem caught before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ClampQuantity maps the raw quantity input to the value used by the form.
// Empty, non-numeric and values below one give 0, which renders as an empty
// input and blocks submission. Values above MaxQuantity are clamped.
func ClampQuantity(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0
	}
	if n > MaxQuantity {
		return MaxQuantity
	}
	return n
}

func ValidatePhone(phone string) error {
	if !strings.HasPrefix(phone, PhonePrefix) || len(phone) != PhoneLength {
		return &ValidationError{Field: "phone_number", Message: MsgInvalidPhone}
	}
	return nil
}

// Form is what the buyer typed. Guest fields are only read for anonymous
// buyers.
type Form struct {
	TierID     string
	TierName   string
	Price      float64
	Quantity   int
	Phone      string
	GuestName  string
	GuestEmail string
}

func (f Form) Total() float64 {
	return f.Price * float64(f.Quantity)
}

// Validate checks the form in the order the buyer sees the messages.
func (f Form) Validate(guest bool) error {
	if f.TierID == "" {
		return &ValidationError{Field: "tier_id", Message: MsgMissingTier}
	}
	if f.Quantity < 1 || f.Quantity > MaxQuantity {
		return &ValidationError{Field: "quantity", Message: MsgInvalidQuantity}
	}
	if err := ValidatePhone(f.Phone); err != nil {
		return err
	}
	if guest {
		if !strings.Contains(f.GuestEmail, "@") {
			return &ValidationError{Field: "email", Message: MsgInvalidEmail}
		}
		if strings.TrimSpace(f.GuestName) == "" {
			return &ValidationError{Field: "name", Message: MsgMissingName}
		}
	}
	return nil
}
