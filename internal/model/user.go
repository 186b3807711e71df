package model

import "strings"

type Role string

const (
	RoleAttendee  Role = "ATTENDEE"
	RoleOrganizer Role = "ORGANIZER"
	RoleScanner   Role = "SCANNER"
	RoleAdmin     Role = "ADMIN"
)

// ParseRole maps the login/register URL segment ("organizer", "attendee")
// to a role. Unknown values fall back to attendee.
func ParseRole(s string) Role {
	switch Role(strings.ToUpper(s)) {
	case RoleOrganizer:
		return RoleOrganizer
	case RoleScanner:
		return RoleScanner
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleAttendee
	}
}

type User struct {
	PK        string  `json:"pk"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name,omitempty"`
	LastName  string  `json:"last_name,omitempty"`
	Role      Role    `json:"role,omitempty"`
	IsStaff   bool    `json:"is_staff,omitempty"`
	WalletID  *string `json:"wallet_id,omitempty"`
}

func (u *User) HasWallet() bool {
	return u != nil && u.WalletID != nil && *u.WalletID != ""
}

// Initial is the avatar letter shown in the organizer header.
func (u *User) Initial() string {
	if u == nil || u.Username == "" {
		return "U"
	}
	return strings.ToUpper(u.Username[:1])
}

type Scanner struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	IsVerified bool   `json:"is_verified"`
}
