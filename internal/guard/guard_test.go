package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ticketsafi/web/internal/model"
)

func user(role model.Role) *model.User {
	return &model.User{PK: "u1", Username: "test", Role: role}
}

var organizerPaths = []string{
	"/organizer",
	"/organizer/",
	"/organizer/events",
	"/organizer/events/123/edit",
	"/organizer/create",
	"/organizer/payouts",
	"/organizer/team",
	"/organizer/store/create",
}

func TestDecide_NonOrganizersKeptOutOfOrganizerArea(t *testing.T) {
	subjects := map[string]Subject{
		"anonymous": {},
		"attendee":  {User: user(model.RoleAttendee)},
		"scanner":   {User: user(model.RoleScanner)},
		"admin":     {User: user(model.RoleAdmin)},
		"unknown":   {User: user(model.Role("SUPPORT"))},
	}

	for name, s := range subjects {
		for _, p := range organizerPaths {
			d := Decide(s, p)
			assert.False(t, d.Allow, "%s on %s", name, p)
			assert.NotEmpty(t, d.RedirectTo, "%s on %s", name, p)
			assert.False(t, IsOrganizerPath(d.RedirectTo), "%s on %s redirected into the organizer area", name, p)
		}
	}
}

func TestDecide_RedirectTargets(t *testing.T) {
	assert.Equal(t, Decision{RedirectTo: PathOrganizerLogin}, Decide(Subject{}, "/organizer/events"))
	assert.Equal(t, Decision{RedirectTo: PathLogin}, Decide(Subject{}, "/scanner"))
	assert.Equal(t, Decision{RedirectTo: PathHome}, Decide(Subject{User: user(model.RoleAttendee)}, "/organizer"))
	assert.Equal(t, Decision{RedirectTo: PathScanner}, Decide(Subject{User: user(model.RoleScanner)}, "/organizer"))
}

func TestDecide_ScannerForcedToScanPage(t *testing.T) {
	s := Subject{User: user(model.RoleScanner)}

	for _, p := range []string{"/", "/event/1", "/my-tickets", "/stores", "/login"} {
		assert.Equal(t, Decision{RedirectTo: PathScanner}, Decide(s, p), p)
	}
	assert.True(t, Decide(s, "/scanner").Allow)
}

func TestDecide_LogoutOpenToEveryRole(t *testing.T) {
	for _, s := range []Subject{
		{},
		{User: user(model.RoleAttendee)},
		{User: user(model.RoleScanner)},
		{User: user(model.RoleOrganizer)},
		{User: user(model.RoleAdmin)},
	} {
		assert.Equal(t, Decision{Allow: true}, Decide(s, "/logout"))
	}
}

func TestDecide_ScannerPageForOtherRoles(t *testing.T) {
	assert.Equal(t, PathOrganizer, Decide(Subject{User: user(model.RoleOrganizer), HasStore: true}, "/scanner").RedirectTo)
	assert.Equal(t, PathHome, Decide(Subject{User: user(model.RoleAttendee)}, "/scanner").RedirectTo)
}

func TestDecide_OrganizerWithoutStore(t *testing.T) {
	s := Subject{User: user(model.RoleOrganizer), HasStore: false}

	for _, p := range organizerPaths {
		d := Decide(s, p)
		if p == PathStoreCreate {
			assert.True(t, d.Allow, p)
			continue
		}
		assert.Equal(t, PathStoreCreate, d.RedirectTo, p)
	}
}

func TestDecide_OrganizerWithStore(t *testing.T) {
	s := Subject{User: user(model.RoleOrganizer), HasStore: true}

	assert.Equal(t, Decision{RedirectTo: PathOrganizer}, Decide(s, PathStoreCreate))
	assert.Equal(t, Decision{RedirectTo: PathOrganizer}, Decide(s, PathStoreCreate+"/"))
	for _, p := range organizerPaths {
		if p == PathStoreCreate {
			continue
		}
		assert.True(t, Decide(s, p).Allow, p)
	}
}

func TestDecide_PublicPages(t *testing.T) {
	for _, s := range []Subject{{}, {User: user(model.RoleAttendee)}, {User: user(model.RoleOrganizer)}} {
		for _, p := range []string{"/", "/event/abc", "/stores", "/stores/slug", "/my-tickets", "/organizer/gate/register"} {
			assert.True(t, Decide(s, p).Allow, p)
		}
	}
}

func TestRoleHome(t *testing.T) {
	assert.Equal(t, "/", RoleHome(nil))
	assert.Equal(t, "/scanner", RoleHome(user(model.RoleScanner)))
	assert.Equal(t, "/organizer", RoleHome(user(model.RoleOrganizer)))
	assert.Equal(t, "/", RoleHome(user(model.RoleAttendee)))
}

func TestDecide_UnknownStoreStateAllowsOrganizer(t *testing.T) {
	s := Subject{User: user(model.RoleOrganizer), StoreUnknown: true}

	assert.True(t, Decide(s, "/organizer/events").Allow)
	assert.True(t, Decide(s, "/organizer/store/create").Allow)
}
