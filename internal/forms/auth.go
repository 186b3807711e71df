package forms

import (
	"errors"
	"net/http"
	"strings"

	"ticketsafi/web/internal/model"
	"ticketsafi/web/internal/service/ticketsafi"
)

const (
	MsgPasswordMismatch   = "Passwords don't match"
	MsgInvalidCredentials = "Invalid credentials. Please try again."
	MsgRequiredFields     = "Please fill in all required fields."
	MsgUsernameTaken      = "That username is already taken. Please choose another."
	MsgEmailExists        = "An account with this email already exists."
	MsgRegistrationFailed = "Registration failed. Please check your details."
	MsgInvalidCode        = "Invalid or expired Invitation Code. Please check and try again."
	MsgResetEmailFailed   = "Failed to send reset email. Please try again."
	MsgResetFailed        = "Failed to reset password. The link may be invalid or expired."
	MsgGoogleFailed       = "Google Sign-In failed. Please try again."
)

// NoticeKind selects how an auth outcome is rendered.
type NoticeKind string

const (
	NoticeError             NoticeKind = "error"
	NoticeGuestAccountFound NoticeKind = "guest_account_found"
	NoticeAccountCreated    NoticeKind = "account_created"
)

// Notice is the message shown above an auth form.
type Notice struct {
	Kind  NoticeKind
	Text  string
	Email string
	// LoginLink and ResetLink add the matching link under Text.
	LoginLink bool
	ResetLink bool
}

type LoginForm struct {
	Identifier string
	Password   string
}

func ParseLogin(r *http.Request) LoginForm {
	return LoginForm{Identifier: field(r, "identifier"), Password: r.FormValue("password")}
}

func (f LoginForm) Validate() Errors {
	errs := Errors{}
	if f.Identifier == "" {
		errs.Add("identifier", "Enter your username or email.")
	}
	if f.Password == "" {
		errs.Add("password", "Enter your password.")
	}
	return errs
}

// Request sends an identifier containing @ as the email, otherwise as the
// username.
func (f LoginForm) Request() ticketsafi.LoginRequest {
	req := ticketsafi.LoginRequest{Password: f.Password}
	if strings.Contains(f.Identifier, "@") {
		req.Email = f.Identifier
	} else {
		req.Username = f.Identifier
	}
	return req
}

// LoginFailure maps a login error to what the user sees.
func LoginFailure(err error) Notice {
	var apiErr *ticketsafi.Error
	if errors.As(err, &apiErr) && len(apiErr.NonField) > 0 {
		return Notice{Kind: NoticeError, Text: apiErr.NonField[0], ResetLink: true}
	}
	return Notice{Kind: NoticeError, Text: MsgInvalidCredentials}
}

type RegisterForm struct {
	Username string
	Email    string
	Password string
	Confirm  string
	Code     string
}

func ParseRegister(r *http.Request) RegisterForm {
	return RegisterForm{
		Username: field(r, "username"),
		Email:    field(r, "email"),
		Password: r.FormValue("password"),
		Confirm:  r.FormValue("confirm_password"),
		Code:     field(r, "code"),
	}
}

// Validate runs the local checks. Organizer sign up needs the invitation
// code the gate page handed over.
func (f RegisterForm) Validate(role model.Role) Errors {
	errs := Errors{}
	if f.Username == "" {
		errs.Add("username", "Username is required.")
	}
	if !strings.Contains(f.Email, "@") {
		errs.Add("email", "Enter a valid email address.")
	}
	if f.Password == "" {
		errs.Add("password", "Password is required.")
	}
	if f.Password != f.Confirm {
		errs.Add("", MsgPasswordMismatch)
	}
	if role == model.RoleOrganizer && f.Code == "" {
		errs.Add("code", MsgInvalidCode)
	}
	return errs
}

func (f RegisterForm) Request(role model.Role) ticketsafi.RegisterRequest {
	return ticketsafi.RegisterRequest{
		Username:  f.Username,
		Email:     f.Email,
		Password:  f.Password,
		Password1: f.Password,
		Password2: f.Confirm,
		Role:      role,
		Code:      f.Code,
	}
}

// RegisterFailure maps a registration error to what the user sees. The two
// activation outcomes are not failures from the user's point of view.
func RegisterFailure(err error, email string) Notice {
	switch ticketsafi.KindOf(err) {
	case ticketsafi.KindAccountExistsNeedsActivation:
		return Notice{Kind: NoticeGuestAccountFound, Email: email}
	case ticketsafi.KindAccountCreatedNeedsActivation:
		return Notice{Kind: NoticeAccountCreated, Email: email}
	}

	var apiErr *ticketsafi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Field("email") != "":
			return Notice{Kind: NoticeError, Text: MsgEmailExists, LoginLink: true}
		case apiErr.Field("username") != "":
			return Notice{Kind: NoticeError, Text: MsgUsernameTaken}
		case apiErr.Field("password1") != "":
			return Notice{Kind: NoticeError, Text: "Password error: " + apiErr.Field("password1")}
		}
	}
	return Notice{Kind: NoticeError, Text: MsgRegistrationFailed}
}

type PasswordResetForm struct {
	Password string
	Confirm  string
}

func ParsePasswordReset(r *http.Request) PasswordResetForm {
	return PasswordResetForm{Password: r.FormValue("password"), Confirm: r.FormValue("confirm_password")}
}

func (f PasswordResetForm) Validate() Errors {
	errs := Errors{}
	if f.Password == "" {
		errs.Add("password", "Password is required.")
	}
	if f.Password != f.Confirm {
		errs.Add("", MsgPasswordMismatch)
	}
	return errs
}
