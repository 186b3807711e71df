package forms

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ticketsafi/web/internal/model"
	"ticketsafi/web/internal/service/ticketsafi"
)

func postForm(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestLoginForm_Request(t *testing.T) {
	byEmail := LoginForm{Identifier: "jane@example.com", Password: "pw"}.Request()
	assert.Equal(t, ticketsafi.LoginRequest{Email: "jane@example.com", Password: "pw"}, byEmail)

	byName := ParseLogin(postForm(url.Values{"identifier": {" jane "}, "password": {"pw"}})).Request()
	assert.Equal(t, ticketsafi.LoginRequest{Username: "jane", Password: "pw"}, byName)
}

func TestLoginFailure(t *testing.T) {
	n := LoginFailure(&ticketsafi.Error{Status: 400, Kind: ticketsafi.KindValidation, NonField: []string{"Unable to log in with provided credentials."}})
	assert.Equal(t, "Unable to log in with provided credentials.", n.Text)
	assert.True(t, n.ResetLink)

	n = LoginFailure(&ticketsafi.Error{Kind: ticketsafi.KindNetwork})
	assert.Equal(t, MsgInvalidCredentials, n.Text)
	assert.False(t, n.ResetLink)
}

func TestRegisterForm_Validate(t *testing.T) {
	f := RegisterForm{Username: "jane", Email: "jane@example.com", Password: "s3cret!!", Confirm: "s3cret!!"}
	assert.False(t, f.Validate(model.RoleAttendee).Any())

	mismatch := f
	mismatch.Confirm = "other"
	assert.Equal(t, MsgPasswordMismatch, mismatch.Validate(model.RoleAttendee).First())

	// Organizers need the invitation code from the gate.
	errs := f.Validate(model.RoleOrganizer)
	assert.Equal(t, MsgInvalidCode, errs.Get("code"))
	f.Code = "INV-123"
	assert.False(t, f.Validate(model.RoleOrganizer).Any())

	req := f.Request(model.RoleOrganizer)
	assert.Equal(t, "s3cret!!", req.Password1)
	assert.Equal(t, "s3cret!!", req.Password2)
	assert.Equal(t, "INV-123", req.Code)
}

func TestRegisterFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Notice
	}{
		{"guest account", &ticketsafi.Error{Kind: ticketsafi.KindAccountExistsNeedsActivation}, Notice{Kind: NoticeGuestAccountFound, Email: "a@b.c"}},
		{"created", &ticketsafi.Error{Kind: ticketsafi.KindAccountCreatedNeedsActivation}, Notice{Kind: NoticeAccountCreated, Email: "a@b.c"}},
		{"email", &ticketsafi.Error{Kind: ticketsafi.KindValidation, Fields: map[string][]string{"email": {"exists"}}}, Notice{Kind: NoticeError, Text: MsgEmailExists, LoginLink: true}},
		{"username", &ticketsafi.Error{Kind: ticketsafi.KindValidation, Fields: map[string][]string{"username": {"taken"}}}, Notice{Kind: NoticeError, Text: MsgUsernameTaken}},
		{"password", &ticketsafi.Error{Kind: ticketsafi.KindValidation, Fields: map[string][]string{"password1": {"This password is too short."}}}, Notice{Kind: NoticeError, Text: "Password error: This password is too short."}},
		{"other", &ticketsafi.Error{Kind: ticketsafi.KindServer}, Notice{Kind: NoticeError, Text: MsgRegistrationFailed}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RegisterFailure(tt.err, "a@b.c"))
		})
	}
}

func TestPasswordResetForm_Validate(t *testing.T) {
	assert.False(t, PasswordResetForm{Password: "x", Confirm: "x"}.Validate().Any())
	assert.Equal(t, MsgPasswordMismatch, PasswordResetForm{Password: "x", Confirm: "y"}.Validate().First())
}

func TestErrors_First(t *testing.T) {
	errs := Errors{}
	assert.Equal(t, "", errs.First())
	errs.Add("b", "second")
	errs.Add("a", "first")
	errs.Add("a", "ignored")
	assert.Equal(t, "first", errs.First())
	errs.Add("", "form")
	assert.Equal(t, "form", errs.First())
}
