// Package guard decides, from the caller's role and store state, whether a
// page may render or where the browser should be sent instead.
//
// The guard only shapes navigation. The API authorizes every request on its
// own, so a request that slips past the guard still gets nothing the caller's
// cookies do not entitle it to.
package guard

import (
	"strings"

	"ticketsafi/web/internal/model"
)

const (
	PathHome            = "/"
	PathLogin           = "/login"
	PathOrganizerLogin  = "/login/organizer"
	PathScanner         = "/scanner"
	PathOrganizer       = "/organizer"
	PathStoreCreate     = "/organizer/store/create"
	PathLogout          = "/logout"
	organizerGatePrefix = "/organizer/gate/"
)

// Subject is what the guard knows about the caller. A nil User is anonymous.
type Subject struct {
	User     *model.User
	HasStore bool
	// StoreUnknown skips the store rules; the page handler reports the
	// API failure itself.
	StoreUnknown bool
}

type Decision struct {
	Allow      bool
	RedirectTo string
}

func allow() Decision { return Decision{Allow: true} }

func redirect(to string) Decision { return Decision{RedirectTo: to} }

// Decide applies the routing rules to path.
func Decide(s Subject, path string) Decision {
	path = normalize(path)
	organizerArea := IsOrganizerPath(path)
	scannerArea := path == PathScanner

	// Signing out is open to every role.
	if path == PathLogout {
		return allow()
	}

	if s.User == nil {
		switch {
		case organizerArea:
			return redirect(PathOrganizerLogin)
		case scannerArea:
			return redirect(PathLogin)
		}
		return allow()
	}

	role := s.User.Role

	if role == model.RoleScanner {
		if scannerArea {
			return allow()
		}
		return redirect(PathScanner)
	}

	if scannerArea {
		if role == model.RoleOrganizer {
			return redirect(PathOrganizer)
		}
		return redirect(PathHome)
	}

	if !organizerArea {
		return allow()
	}

	if role != model.RoleOrganizer {
		return redirect(PathHome)
	}

	switch {
	case s.StoreUnknown:
	case !s.HasStore && path != PathStoreCreate:
		return redirect(PathStoreCreate)
	case s.HasStore && path == PathStoreCreate:
		return redirect(PathOrganizer)
	}
	return allow()
}

// IsOrganizerPath reports whether path belongs to the organizer area. The
// invitation code gate lives under /organizer but is public.
func IsOrganizerPath(path string) bool {
	path = normalize(path)
	if strings.HasPrefix(path, organizerGatePrefix) {
		return false
	}
	return path == PathOrganizer || strings.HasPrefix(path, PathOrganizer+"/")
}

// RoleHome is where a freshly signed in user lands.
func RoleHome(u *model.User) string {
	if u == nil {
		return PathHome
	}
	switch u.Role {
	case model.RoleScanner:
		return PathScanner
	case model.RoleOrganizer:
		return PathOrganizer
	}
	return PathHome
}

func normalize(path string) string {
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
