package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"ticketsafi/web/internal/service/ticketsafi"
)

func TestWithdrawalAmount(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		balance float64
		want    string
		wantErr error
	}{
		{"plain", "500", 1000, "500.00", nil},
		{"grouped", "1,250.5", 2000, "1250.50", nil},
		{"whole balance", "1000", 1000, "1000.00", nil},
		{"zero", "0", 1000, "", errWithdrawInvalid},
		{"negative", "-5", 1000, "", errWithdrawInvalid},
		{"not a number", "lots", 1000, "", errWithdrawInvalid},
		{"over balance", "1000.01", 1000, "", errWithdrawTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := withdrawalAmount(tt.raw, tt.balance)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergeCookies(t *testing.T) {
	sent := []*http.Cookie{
		{Name: "sessionid", Value: "old"},
		{Name: "csrftoken", Value: "tok"},
	}
	fresh := []*http.Cookie{
		{Name: "sessionid", Value: "new", Path: "/", HttpOnly: true},
		{Name: "csrftoken", MaxAge: -1},
		{Name: "messages", Value: "hi"},
	}

	got := mergeCookies(sent, fresh)

	assert.Equal(t, []*http.Cookie{
		{Name: "sessionid", Value: "new"},
		{Name: "messages", Value: "hi"},
	}, got)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, statusFor(&ticketsafi.Error{Kind: ticketsafi.KindUnauthorized}))
	assert.Equal(t, http.StatusNotFound, statusFor(&ticketsafi.Error{Kind: ticketsafi.KindNotFound}))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(&ticketsafi.Error{Kind: ticketsafi.KindValidation}))
	assert.Equal(t, http.StatusBadGateway, statusFor(&ticketsafi.Error{Kind: ticketsafi.KindUnavailable}))
}

func TestPagesParsed(t *testing.T) {
	for _, name := range []string{
		"home", "event", "checkout", "tickets", "ticket", "stores", "store",
		"auth_select", "login", "register", "gate", "message", "forgot_password", "reset_password", "error",
		"dashboard", "organizer_events", "attendees", "edit_event", "create_event",
		"payouts", "team", "organizer_stores", "store_form", "scanner",
	} {
		assert.Contains(t, pages, name)
	}
}
