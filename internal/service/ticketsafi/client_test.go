package ticketsafi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketsafi/web/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return NewClient(Config{APIURL: ts.URL}), ts
}

func TestCurrentUser_ForwardsCookies(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/user/", r.URL.Path)
		auth, err := r.Cookie("ticketsafi-auth")
		if err != nil || auth.Value != "jwt-value" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Authentication credentials were not provided."}`))
			return
		}
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Empty(t, r.Header.Get("X-CSRFToken"), "safe methods carry no csrf header")
		json.NewEncoder(w).Encode(map[string]any{"pk": "u1", "username": "amina", "role": "ORGANIZER"})
	})

	_, err := client.CurrentUser(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindUnauthorized, KindOf(err))

	ctx := WithCookies(context.Background(), []*http.Cookie{{Name: "ticketsafi-auth", Value: "jwt-value"}})
	user, err := client.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "amina", user.Username)
	assert.Equal(t, model.RoleOrganizer, user.Role)
}

func TestLogin_SendsCSRFAndReturnsCookies(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "tok123", r.Header.Get("X-CSRFToken"))
		assert.NotEmpty(t, r.Header.Get("Referer"))

		var body LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "amina@example.com", body.Email)
		assert.Empty(t, body.Username)

		http.SetCookie(w, &http.Cookie{Name: "ticketsafi-auth", Value: "new-jwt", Path: "/", HttpOnly: true})
		w.Write([]byte(`{"user":{"pk":"u1"}}`))
	})

	ctx := WithCookies(context.Background(), []*http.Cookie{{Name: CSRFCookie, Value: "tok123"}})
	res, err := client.Login(ctx, LoginRequest{Email: "amina@example.com", Password: "secret"})
	require.NoError(t, err)
	require.Len(t, res.Cookies, 1)
	assert.Equal(t, "ticketsafi-auth", res.Cookies[0].Name)
	assert.Equal(t, "new-jwt", res.Cookies[0].Value)
}

func TestListEvents_QueryAndBareArray(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "jazz", q.Get("q"))
		assert.Equal(t, "CONCERT", q.Get("category"))
		assert.Equal(t, "1000", q.Get("min_price"))
		assert.Empty(t, q.Get("max_price"))
		w.Write([]byte(`[{"id":"e1","title":"Jazz Night","lowest_price":"1500.00","start_datetime":"2025-11-27T19:00:00Z"}]`))
	})

	events, err := client.ListEvents(context.Background(), EventFilter{Query: "jazz", Category: "CONCERT", PriceRange: "1000-max"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Jazz Night", events[0].Title)
	assert.Equal(t, 1500.0, events[0].LowestPrice.Float())
}

func TestListEvents_PaginatedEnvelope(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count":2,"next":null,"previous":null,"results":[{"id":"e1"},{"id":"e2"}]}`))
	})

	events, err := client.ListEvents(context.Background(), EventFilter{})
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestGetEvent_Brotli(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "br", r.Header.Get("Accept-Encoding"))
		var buf bytes.Buffer
		bw := brotli.NewWriter(&buf)
		bw.Write([]byte(`{"id":"e1","title":"Compressed","tiers":[{"id":"t1","name":"VIP","price":5000,"available_qty":3}]}`))
		bw.Close()
		w.Header().Set("Content-Encoding", "br")
		w.Write(buf.Bytes())
	})

	event, err := client.GetEvent(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "Compressed", event.Title)
	require.Len(t, event.Tiers, 1)
	assert.Equal(t, 5000.0, event.Tiers[0].Price.Float())
}

func TestInitiatePayment_ErrorMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"This ticket tier is sold out."}`))
	})

	_, err := client.InitiatePayment(context.Background(), model.PaymentRequest{TierID: "t1", PhoneNumber: "254712345678"})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, "This ticket tier is sold out.", MessageOr(err, "fallback"))
}

func TestGetEvent_InvalidJSON(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`invalid-json`))
	})

	_, err := client.GetEvent(context.Background(), "e1")
	require.Error(t, err)
	assert.Equal(t, KindDecode, KindOf(err))
	assert.Contains(t, err.Error(), "invalid character")
}

func TestCreateEvent_Multipart(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/organizer/events/create/", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "Launch Party", r.FormValue("title"))
		assert.Equal(t, "true", r.FormValue("is_offline_ready"))
		assert.Equal(t, "2025-12-01T18:00:00Z", r.FormValue("start_datetime"))

		var tiers []TierSubmission
		assert.NoError(t, json.Unmarshal([]byte(r.FormValue("tiers")), &tiers))
		if assert.Len(t, tiers, 1) {
			assert.Equal(t, 100, tiers[0].QuantityAllocated)
		}

		f, hdr, err := r.FormFile("poster_image")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "poster.png", hdr.Filename)
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)
		w.WriteHeader(http.StatusCreated)
	})

	start := time.Date(2025, 12, 1, 18, 0, 0, 0, time.UTC)
	err := client.CreateEvent(context.Background(), EventSubmission{
		Title:        "Launch Party",
		Start:        start,
		End:          start.Add(4 * time.Hour),
		OfflineReady: true,
		Poster:       &File{Name: "poster.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}},
		Tiers:        []TierSubmission{{Name: "GA", Price: 1000, QuantityAllocated: 100}},
	})
	assert.NoError(t, err)
}

func TestVerifyTicket_AlreadyUsed(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"ALREADY USED","attendee_name":"Wanjiru","tier_name":"VIP"}`))
	})

	res, err := client.VerifyTicket(context.Background(), "hash")
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	require.NotNil(t, res)
	assert.Equal(t, "Wanjiru", res.AttendeeName)
}

func TestCircuitBreaker_OpensOnServerErrors(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	settings := DefaultBreakerSettings("test")
	settings.ReadyToTrip = func(c gobreaker.Counts) bool { return c.TotalFailures >= 2 }
	client := NewClient(Config{APIURL: ts.URL, Breaker: settings})

	for i := 0; i < 2; i++ {
		_, err := client.Dashboard(context.Background())
		assert.Equal(t, KindServer, KindOf(err))
	}

	_, err := client.Dashboard(context.Background())
	assert.Equal(t, KindUnavailable, KindOf(err))
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits), "an open breaker must not reach the API")
}

func TestCircuitBreaker_IgnoresClientErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	for i := 0; i < 10; i++ {
		_, err := client.Dashboard(context.Background())
		assert.Equal(t, KindForbidden, KindOf(err))
	}
	assert.Equal(t, gobreaker.StateClosed, client.breaker.State())
}
