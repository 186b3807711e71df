package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"ticketsafi/web/internal/forms"
	"ticketsafi/web/internal/guard"
	"ticketsafi/web/internal/model"
	"ticketsafi/web/internal/service/ticketsafi"
	"ticketsafi/web/internal/session"
)

const (
	oauthStateCookie = session.LocalCookiePrefix + "oauth_state"
	oauthStatePath   = "/auth/google"
	oauthStateTTL    = 10 * time.Minute

	msgResetSent      = "If an account exists for that email, a reset link is on its way."
	msgResetDone      = "Your password has been reset. You can now log in."
	msgActivationDone = "Account Verified! Logging you in..."
	msgActivationFail = "Verification Failed. Link may be expired or invalid."
)

type authData struct {
	Role        model.Role
	Type        string
	Identifier  string
	Username    string
	Email       string
	Code        string
	Notice      *forms.Notice
	GoogleLogin bool
}

func roleFromParam(r *http.Request) (model.Role, string) {
	t := strings.ToLower(chi.URLParam(r, "type"))
	role := model.ParseRole(t)
	if role == model.RoleOrganizer {
		return role, "organizer"
	}
	return model.RoleAttendee, "attendee"
}

func (h *Handler) AuthSelect(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "auth_select", "Welcome", nil)
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	role, t := roleFromParam(r)
	h.render(w, r, http.StatusOK, "login", "Log in", authData{Role: role, Type: t, GoogleLogin: h.oauth != nil})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	role, t := roleFromParam(r)
	f := forms.ParseLogin(r)
	data := authData{Role: role, Type: t, Identifier: f.Identifier, GoogleLogin: h.oauth != nil}

	if errs := f.Validate(); errs.Any() {
		data.Notice = &forms.Notice{Kind: forms.NoticeError, Text: errs.First()}
		h.render(w, r, http.StatusUnprocessableEntity, "login", "Log in", data)
		return
	}

	res, err := h.api.Login(r.Context(), f.Request())
	if err != nil {
		h.log(r).Info("login failed", "error", err)
		notice := forms.LoginFailure(err)
		data.Notice = &notice
		h.render(w, r, http.StatusUnauthorized, "login", "Log in", data)
		return
	}
	h.signedIn(w, r, res)
}

func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	role, t := roleFromParam(r)
	code := r.URL.Query().Get("code")
	if role == model.RoleOrganizer && code == "" {
		http.Redirect(w, r, "/organizer/gate/register", http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, "register", "Create account", authData{Role: role, Type: t, Code: code, GoogleLogin: h.oauth != nil})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	role, t := roleFromParam(r)
	f := forms.ParseRegister(r)
	data := authData{Role: role, Type: t, Username: f.Username, Email: f.Email, Code: f.Code, GoogleLogin: h.oauth != nil}

	if errs := f.Validate(role); errs.Any() {
		data.Notice = &forms.Notice{Kind: forms.NoticeError, Text: errs.First()}
		h.render(w, r, http.StatusUnprocessableEntity, "register", "Create account", data)
		return
	}

	res, err := h.api.Register(r.Context(), f.Request(role))
	if err != nil {
		notice := forms.RegisterFailure(err, f.Email)
		status := http.StatusUnprocessableEntity
		if notice.Kind != forms.NoticeError {
			status = http.StatusOK
		}
		h.log(r).Info("registration not completed", "role", string(role), "notice", string(notice.Kind), "error", err)
		data.Notice = &notice
		h.render(w, r, status, "register", "Create account", data)
		return
	}
	h.signedIn(w, r, res)
}

// signedIn relays the new session cookies and sends the browser to the
// home page of the user's role.
func (h *Handler) signedIn(w http.ResponseWriter, r *http.Request, res *ticketsafi.AuthResult) {
	h.relayCookies(w, res.Cookies)

	ctx := ticketsafi.WithCookies(r.Context(), mergeCookies(session.ForwardCookies(r), res.Cookies))
	user, err := h.api.CurrentUser(ctx)
	if err != nil {
		h.log(r).Warn("failed to load user after sign in", "error", err)
	}
	http.Redirect(w, r, guard.RoleHome(user), http.StatusSeeOther)
}

// mergeCookies overlays fresh cookies on the ones the browser sent. A
// cookie the API expired is dropped.
func mergeCookies(sent, fresh []*http.Cookie) []*http.Cookie {
	byName := make(map[string]*http.Cookie, len(sent)+len(fresh))
	order := make([]string, 0, len(sent)+len(fresh))
	for _, list := range [][]*http.Cookie{sent, fresh} {
		for _, c := range list {
			if _, ok := byName[c.Name]; !ok {
				order = append(order, c.Name)
			}
			byName[c.Name] = c
		}
	}
	out := make([]*http.Cookie, 0, len(order))
	for _, name := range order {
		c := byName[name]
		if c.MaxAge < 0 || c.Value == "" {
			continue
		}
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}

type gateData struct {
	Action string
	Code   string
	Error  string
}

func gateAction(r *http.Request) (string, bool) {
	switch a := chi.URLParam(r, "action"); a {
	case "login", "register":
		return a, true
	}
	return "", false
}

func (h *Handler) GatePage(w http.ResponseWriter, r *http.Request) {
	action, ok := gateAction(r)
	if !ok {
		h.renderError(w, r, http.StatusNotFound, "Page not found.")
		return
	}
	h.render(w, r, http.StatusOK, "gate", "Organizer access", gateData{Action: action, Code: r.URL.Query().Get("code")})
}

// Gate checks an organizer invitation code and forwards it to the login or
// registration form.
func (h *Handler) Gate(w http.ResponseWriter, r *http.Request) {
	action, ok := gateAction(r)
	if !ok {
		h.renderError(w, r, http.StatusNotFound, "Page not found.")
		return
	}
	code := strings.TrimSpace(r.FormValue("code"))
	data := gateData{Action: action, Code: code}
	if code == "" {
		data.Error = forms.MsgInvalidCode
		h.render(w, r, http.StatusUnprocessableEntity, "gate", "Organizer access", data)
		return
	}
	if err := h.api.CheckInvitationCode(r.Context(), code); err != nil {
		h.log(r).Info("invitation code rejected", "error", err)
		data.Error = forms.MsgInvalidCode
		h.render(w, r, http.StatusUnprocessableEntity, "gate", "Organizer access", data)
		return
	}
	http.Redirect(w, r, "/"+action+"/organizer?code="+url.QueryEscape(code), http.StatusSeeOther)
}

type messageData struct {
	Title   string
	Message string
	OK      bool
	// Next is where the page sends the browser after a short pause.
	Next string
}

// Activate confirms a guest account from the emailed link and signs the
// guest in.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	res, err := h.api.ActivateGuestAccount(r.Context(), chi.URLParam(r, "uid"), chi.URLParam(r, "token"))
	if err != nil {
		h.log(r).Info("guest activation failed", "error", err)
		h.render(w, r, statusFor(err), "message", "Verification", messageData{Title: "Verification", Message: msgActivationFail, Next: guard.PathLogin})
		return
	}
	h.relayCookies(w, res.Cookies)
	h.render(w, r, http.StatusOK, "message", "Verification", messageData{Title: "Verification", Message: msgActivationDone, OK: true, Next: "/my-tickets"})
}

type resetData struct {
	Email   string
	Error   string
	Message string
}

func (h *Handler) ForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "forgot_password", "Reset password", resetData{})
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	data := resetData{Email: email}
	if !strings.Contains(email, "@") {
		data.Error = "Enter a valid email address."
		h.render(w, r, http.StatusUnprocessableEntity, "forgot_password", "Reset password", data)
		return
	}
	if err := h.api.RequestPasswordReset(r.Context(), email); err != nil {
		h.log(r).Warn("password reset request failed", "error", err)
		data.Error = forms.MsgResetEmailFailed
		h.render(w, r, statusFor(err), "forgot_password", "Reset password", data)
		return
	}
	data.Message = msgResetSent
	h.render(w, r, http.StatusOK, "forgot_password", "Reset password", data)
}

func (h *Handler) PasswordResetPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "reset_password", "Choose a new password", resetData{})
}

func (h *Handler) PasswordReset(w http.ResponseWriter, r *http.Request) {
	f := forms.ParsePasswordReset(r)
	if errs := f.Validate(); errs.Any() {
		h.render(w, r, http.StatusUnprocessableEntity, "reset_password", "Choose a new password", resetData{Error: errs.First()})
		return
	}
	err := h.api.ConfirmPasswordReset(r.Context(), chi.URLParam(r, "uid"), chi.URLParam(r, "token"), f.Password, f.Confirm)
	if err != nil {
		h.log(r).Info("password reset failed", "error", err)
		h.render(w, r, statusFor(err), "reset_password", "Choose a new password", resetData{Error: forms.MsgResetFailed})
		return
	}
	h.render(w, r, http.StatusOK, "message", "Password reset", messageData{Title: "Password reset", Message: msgResetDone, OK: true, Next: guard.PathLogin})
}

// Logout ends the API session. The browser is signed out locally even when
// the API call fails.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	res, err := h.api.Logout(r.Context())
	if err != nil {
		h.log(r).Warn("logout failed", "error", err)
	} else {
		h.relayCookies(w, res.Cookies)
	}
	h.clearLocalCookie(w, forms.DraftCookie, "/organizer")
	http.Redirect(w, r, guard.PathHome, http.StatusSeeOther)
}

// GoogleStart sends the browser to Google. The state nonce and the role
// the account is for ride in a short lived cookie.
func (h *Handler) GoogleStart(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		h.renderError(w, r, http.StatusNotFound, "Google Sign-In is not available.")
		return
	}
	role := model.ParseRole(r.URL.Query().Get("role"))
	if role != model.RoleOrganizer {
		role = model.RoleAttendee
	}
	state := uuid.NewString()
	h.setLocalCookie(w, oauthStateCookie, state+"|"+string(role), oauthStatePath, oauthStateTTL)
	http.Redirect(w, r, h.oauth.AuthCodeURL(state), http.StatusFound)
}

func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		h.renderError(w, r, http.StatusNotFound, "Google Sign-In is not available.")
		return
	}
	h.clearLocalCookie(w, oauthStateCookie, oauthStatePath)

	role, ok := checkOAuthState(r)
	if !ok {
		h.googleFailed(w, r, http.StatusBadRequest, role, nil)
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		h.googleFailed(w, r, http.StatusBadRequest, role, nil)
		return
	}

	token, err := h.oauth.Exchange(context.WithoutCancel(r.Context()), code)
	if err != nil {
		h.googleFailed(w, r, http.StatusBadGateway, role, err)
		return
	}
	res, err := h.api.GoogleLogin(r.Context(), token.AccessToken, role)
	if err != nil {
		h.googleFailed(w, r, statusFor(err), role, err)
		return
	}
	h.signedIn(w, r, res)
}

func checkOAuthState(r *http.Request) (model.Role, bool) {
	c, err := r.Cookie(oauthStateCookie)
	if err != nil {
		return model.RoleAttendee, false
	}
	state, role, found := strings.Cut(c.Value, "|")
	if !found || state == "" {
		return model.RoleAttendee, false
	}
	return model.ParseRole(role), state == r.URL.Query().Get("state")
}

func (h *Handler) googleFailed(w http.ResponseWriter, r *http.Request, status int, role model.Role, err error) {
	h.log(r).Info("google sign in failed", "role", string(role), "error", err)
	t := "attendee"
	if role == model.RoleOrganizer {
		t = "organizer"
	}
	h.render(w, r, status, "login", "Log in", authData{
		Role:        role,
		Type:        t,
		Notice:      &forms.Notice{Kind: forms.NoticeError, Text: forms.MsgGoogleFailed},
		GoogleLogin: true,
	})
}
