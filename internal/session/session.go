// Package session resolves who is calling before a page handler runs.
package session

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"ticketsafi/web/internal/guard"
	"ticketsafi/web/internal/model"
	"ticketsafi/web/internal/service/ticketsafi"
)

// LocalCookiePrefix marks cookies owned by the web server itself. They are
// never forwarded to the API.
const LocalCookiePrefix = "tsweb_"

type API interface {
	CurrentUser(ctx context.Context) (*model.User, error)
	OrganizerStores(ctx context.Context) ([]model.Store, error)
}

type Session struct {
	User     *model.User
	HasStore bool
	// StoreUnknown is set when the store lookup failed for a reason other
	// than authentication.
	StoreUnknown bool
}

func (s *Session) Anonymous() bool { return s == nil || s.User == nil }

func (s *Session) Role() model.Role {
	if s.Anonymous() {
		return ""
	}
	return s.User.Role
}

type sessionKey struct{}

// FromContext returns the session stored by Loader. It never returns nil.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(sessionKey{}).(*Session); ok {
		return s
	}
	return &Session{}
}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// ForwardCookies returns the browser cookies that belong to the API.
func ForwardCookies(r *http.Request) []*http.Cookie {
	all := r.Cookies()
	out := make([]*http.Cookie, 0, len(all))
	for _, c := range all {
		if strings.HasPrefix(c.Name, LocalCookiePrefix) {
			continue
		}
		out = append(out, c)
	}
	return out
}

type Loader struct {
	api    API
	logger *slog.Logger
}

func NewLoader(api API, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{api: api, logger: logger}
}

// Load fetches the current user and, inside the organizer area, whether the
// user owns a store. A failed user lookup degrades to an anonymous session; a
// failed store lookup only leaves the store state unknown.
func (l *Loader) Load(ctx context.Context, path string) *Session {
	var (
		user         *model.User
		stores       []model.Store
		storeUnknown bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := l.api.CurrentUser(gctx)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if guard.IsOrganizerPath(path) {
		g.Go(func() error {
			s, err := l.api.OrganizerStores(gctx)
			if err != nil {
				// Anonymous callers get 401 here too; the user lookup
				// decides the session.
				if !isAuthError(err) && gctx.Err() == nil {
					l.logger.WarnContext(ctx, "failed to load organizer stores", "path", path, "error", err)
					storeUnknown = true
				}
				return nil
			}
			stores = s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if !isAuthError(err) {
			l.logger.WarnContext(ctx, "failed to load session", "path", path, "error", err)
		}
		return &Session{}
	}
	if user == nil {
		return &Session{}
	}
	return &Session{User: user, HasStore: len(stores) > 0, StoreUnknown: storeUnknown}
}

// Middleware attaches the forwarded cookies and the session to the request
// context and applies the routing guard.
func (l *Loader) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ticketsafi.WithCookies(r.Context(), ForwardCookies(r))
		s := l.Load(ctx, r.URL.Path)
		ctx = NewContext(ctx, s)

		d := guard.Decide(guard.Subject{User: s.User, HasStore: s.HasStore, StoreUnknown: s.StoreUnknown}, r.URL.Path)
		if !d.Allow {
			http.Redirect(w, r, d.RedirectTo, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func isAuthError(err error) bool {
	switch ticketsafi.KindOf(err) {
	case ticketsafi.KindUnauthorized, ticketsafi.KindForbidden:
		return true
	}
	return false
}
