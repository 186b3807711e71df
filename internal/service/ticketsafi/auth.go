package ticketsafi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"ticketsafi/web/internal/model"
)

type LoginRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Password  string     `json:"password"`
	Password1 string     `json:"password1"`
	Password2 string     `json:"password2"`
	Role      model.Role `json:"role"`
	Code      string     `json:"code,omitempty"`
}

// AuthResult carries the cookies the API set, to be relayed to the browser.
type AuthResult struct {
	Cookies []*http.Cookie
}

func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.getJSON(ctx, "/api/auth/user/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/login/", nil, req)
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/registration/", nil, req)
}

// GoogleLogin hands a Google access token to the API, which creates or signs
// in the account under role.
func (c *Client) GoogleLogin(ctx context.Context, accessToken string, role model.Role) (*AuthResult, error) {
	body := map[string]string{"access_token": accessToken, "role": string(role)}
	return c.authenticate(ctx, "/api/auth/google/", url.Values{"role": {string(role)}}, body)
}

func (c *Client) Logout(ctx context.Context) (*AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/logout/", nil, nil)
}

func (c *Client) authenticate(ctx context.Context, path string, query url.Values, body any) (*AuthResult, error) {
	resp, err := c.sendJSON(ctx, http.MethodPost, path, query, body, nil)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Cookies: resp.Cookies()}, nil
}

// CheckInvitationCode validates an organizer invitation code.
func (c *Client) CheckInvitationCode(ctx context.Context, code string) error {
	_, err := c.sendJSON(ctx, http.MethodPost, "/api/auth/check-code/", nil, map[string]string{"code": code}, nil)
	if err != nil {
		return fmt.Errorf("check invitation code: %w", err)
	}
	return nil
}

func (c *Client) ActivateGuestAccount(ctx context.Context, uid, token string) (*AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/guest/activate/", nil, map[string]string{"uid": uid, "token": token})
}

func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	_, err := c.sendJSON(ctx, http.MethodPost, "/api/auth/password/reset/", nil, map[string]string{"email": email}, nil)
	return err
}

func (c *Client) ConfirmPasswordReset(ctx context.Context, uid, token, password1, password2 string) error {
	body := map[string]string{
		"uid":           uid,
		"token":         token,
		"new_password1": password1,
		"new_password2": password2,
	}
	_, err := c.sendJSON(ctx, http.MethodPost, "/api/auth/password/reset/confirm/", nil, body, nil)
	return err
}
