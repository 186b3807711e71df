package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"ticketsafi/web/internal/cache"
	"ticketsafi/web/internal/checkout"
	"ticketsafi/web/internal/forms"
	"ticketsafi/web/internal/model"
	"ticketsafi/web/internal/search"
	"ticketsafi/web/internal/service/ticketsafi"
	"ticketsafi/web/internal/session"
	"ticketsafi/web/internal/view"
)

// API is the part of the TicketSafi client the pages use.
type API interface {
	session.API

	Login(ctx context.Context, req ticketsafi.LoginRequest) (*ticketsafi.AuthResult, error)
	Register(ctx context.Context, req ticketsafi.RegisterRequest) (*ticketsafi.AuthResult, error)
	GoogleLogin(ctx context.Context, accessToken string, role model.Role) (*ticketsafi.AuthResult, error)
	Logout(ctx context.Context) (*ticketsafi.AuthResult, error)
	CheckInvitationCode(ctx context.Context, code string) error
	ActivateGuestAccount(ctx context.Context, uid, token string) (*ticketsafi.AuthResult, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, uid, token, password1, password2 string) error

	ListEvents(ctx context.Context, f ticketsafi.EventFilter) ([]model.EventSummary, error)
	GetEvent(ctx context.Context, id string) (*model.EventDetail, error)

	ListTickets(ctx context.Context) ([]model.Ticket, error)
	GetTicket(ctx context.Context, id string) (*model.Ticket, error)
	VerifyTicket(ctx context.Context, qrHash string) (*model.VerifyResult, error)

	Dashboard(ctx context.Context) (*model.DashboardStats, error)
	OrganizerEvents(ctx context.Context) ([]model.EventSummary, error)
	CreateEvent(ctx context.Context, s ticketsafi.EventSubmission) error
	EditableEvent(ctx context.Context, id string) (*model.EditableEvent, error)
	UpdateEvent(ctx context.Context, id string, s ticketsafi.EventSubmission) error
	Attendees(ctx context.Context, eventID string, page int) (*model.Page[model.Attendee], error)
	ExportURL(eventID string) string
	Scanners(ctx context.Context) ([]model.Scanner, error)
	CreateScanner(ctx context.Context, req ticketsafi.ScannerRequest) (*model.Scanner, error)

	Stores(ctx context.Context) ([]model.Store, error)
	Store(ctx context.Context, slug string) (*model.Store, error)
	CreateStore(ctx context.Context, s ticketsafi.StoreSubmission) (*model.Store, error)
	ManagedStore(ctx context.Context) (*model.Store, error)
	UpdateStore(ctx context.Context, s ticketsafi.StoreSubmission) (*model.Store, error)

	Wallet(ctx context.Context) (*model.Wallet, error)
	WalletHistory(ctx context.Context, page, pageSize int) (*model.TransactionPage, error)
	Withdraw(ctx context.Context, amount string) error
	ActivateWallet(ctx context.Context) error
	WalletLink(ctx context.Context) (string, error)
}

// Checkout starts purchases and reports on them.
type Checkout interface {
	Start(ctx context.Context, eventID string, flow *checkout.Flow) (*model.CheckoutAttempt, error)
	Status(ctx context.Context, id uuid.UUID) (*model.CheckoutAttempt, error)
}

type Options struct {
	API      API
	Checkout Checkout
	// Events caches public event listings. Nil disables caching.
	Events   *cache.Group
	Drafts   *forms.DraftStore
	Search   *search.Coalescer
	Mapper   *view.Mapper
	Location *time.Location
	// OAuth enables Google sign-in when set.
	OAuth *oauth2.Config
	// SecureCookies marks every cookie the server sets as Secure.
	SecureCookies bool
	Logger        *slog.Logger
}

type Handler struct {
	router   *chi.Mux
	api      API
	checkout Checkout
	events   *cache.Group
	drafts   *forms.DraftStore
	search   *search.Coalescer
	mapper   *view.Mapper
	loc      *time.Location
	oauth    *oauth2.Config
	secure   bool
	logger   *slog.Logger
	sessions *session.Loader
}

func NewHandler(opts Options) *Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	mapper := opts.Mapper
	if mapper == nil {
		mapper = view.NewMapper("", loc)
	}
	coalescer := opts.Search
	if coalescer == nil {
		coalescer = search.NewCoalescer(0)
	}
	drafts := opts.Drafts
	if drafts == nil {
		drafts = forms.NewDraftStore(cache.NewMemory(), draftCookieTTL)
	}

	h := &Handler{
		router:   router,
		api:      opts.API,
		checkout: opts.Checkout,
		events:   opts.Events,
		drafts:   drafts,
		search:   coalescer,
		mapper:   mapper,
		loc:      loc,
		oauth:    opts.OAuth,
		secure:   opts.SecureCookies,
		logger:   logger,
		sessions: session.NewLoader(opts.API, logger),
	}

	h.registerRoutes()
	return h
}

func (h *Handler) registerRoutes() {
	h.router.Route("/v1", func(r chi.Router) {
		r.Get("/health", h.HealthCheck)
	})
	h.router.Handle("/static/*", http.FileServerFS(staticFS))

	h.router.Group(func(r chi.Router) {
		r.Use(h.sessions.Middleware)

		r.Get("/", h.Home)
		r.Get("/events/live", h.LiveEvents)
		r.Get("/event/{id}", h.EventDetails)
		r.Post("/event/{id}/checkout", h.StartCheckout)
		r.Get("/checkout/{id}", h.CheckoutPage)
		r.Get("/checkout/{id}/status", h.CheckoutStatus)
		r.Get("/my-tickets", h.MyTickets)
		r.Get("/ticket/{id}", h.TicketDetails)
		r.Get("/ticket/{id}/qr.png", h.TicketQR)
		r.Get("/stores", h.Stores)
		r.Get("/stores/{slug}", h.StorePage)

		r.Get("/login", h.AuthSelect)
		r.Get("/auth/select", h.AuthSelect)
		r.Get("/login/{type}", h.LoginPage)
		r.Post("/login/{type}", h.Login)
		r.Get("/register/{type}", h.RegisterPage)
		r.Post("/register/{type}", h.Register)
		r.Get("/organizer/gate/{action}", h.GatePage)
		r.Post("/organizer/gate/{action}", h.Gate)
		r.Get("/activate/{uid}/{token}", h.Activate)
		r.Get("/forgot-password", h.ForgotPasswordPage)
		r.Post("/forgot-password", h.ForgotPassword)
		r.Get("/password-reset/confirm/{uid}/{token}", h.PasswordResetPage)
		r.Post("/password-reset/confirm/{uid}/{token}", h.PasswordReset)
		r.Post("/logout", h.Logout)
		r.Get("/auth/google", h.GoogleStart)
		r.Get("/auth/google/callback", h.GoogleCallback)

		r.Get("/scanner", h.ScannerPage)
		r.Post("/scanner", h.VerifyTicket)

		r.Route("/organizer", func(r chi.Router) {
			r.Get("/", h.Dashboard)
			r.Post("/wallet/activate", h.ActivateWallet)
			r.Get("/events", h.OrganizerEvents)
			r.Get("/events/{id}", h.EventAttendees)
			r.Get("/events/{id}/export", h.ExportAttendees)
			r.Get("/events/{id}/edit", h.EditEventPage)
			r.Post("/events/{id}/edit", h.EditEvent)
			r.Get("/create", h.CreateEventPage)
			r.Post("/create", h.CreateEvent)
			r.Get("/payouts", h.Payouts)
			r.Post("/payouts/withdraw", h.Withdraw)
			r.Get("/payouts/verify", h.VerifyIdentity)
			r.Get("/team", h.Team)
			r.Post("/team", h.CreateScanner)
			r.Get("/stores", h.OrganizerStores)
			r.Get("/store/create", h.CreateStorePage)
			r.Post("/store/create", h.CreateStore)
			r.Get("/store/{id}/edit", h.EditStorePage)
			r.Post("/store/{id}/edit", h.EditStore)
		})
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// log returns the handler logger tagged with the request id.
func (h *Handler) log(r *http.Request) *slog.Logger {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return h.logger.With("request_id", id)
	}
	return h.logger
}

// relayCookies passes API cookies on to the browser. The API's domain does
// not apply to this host, so it is dropped.
func (h *Handler) relayCookies(w http.ResponseWriter, cookies []*http.Cookie) {
	for _, c := range cookies {
		out := *c
		out.Domain = ""
		out.Raw = ""
		out.Unparsed = nil
		if out.Path == "" {
			out.Path = "/"
		}
		if h.secure {
			out.Secure = true
		}
		http.SetCookie(w, &out)
	}
}

func (h *Handler) setLocalCookie(w http.ResponseWriter, name, value, path string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearLocalCookie(w http.ResponseWriter, name, path string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// statusFor picks the response status for a failed API call.
func statusFor(err error) int {
	switch ticketsafi.KindOf(err) {
	case ticketsafi.KindUnauthorized:
		return http.StatusUnauthorized
	case ticketsafi.KindForbidden:
		return http.StatusForbidden
	case ticketsafi.KindNotFound:
		return http.StatusNotFound
	case ticketsafi.KindValidation, ticketsafi.KindConflict:
		return http.StatusUnprocessableEntity
	case ticketsafi.KindNetwork, ticketsafi.KindUnavailable, ticketsafi.KindServer, ticketsafi.KindDecode:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
