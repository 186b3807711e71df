package ticketsafi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/sony/gobreaker/v2"
)

type Config struct {
	APIURL  string
	Timeout time.Duration
	Logger  *slog.Logger
	// Breaker overrides the default circuit breaker settings.
	Breaker *gobreaker.Settings
}

// Client talks to the TicketSafi API on behalf of the browser whose cookies
// are carried in the request context (see WithCookies).
type Client struct {
	client  *http.Client
	baseURL string
	breaker *gobreaker.CircuitBreaker[*response]
	logger  *slog.Logger
}

func NewClient(cfg Config) *Client {
	base := strings.TrimRight(cfg.APIURL, "/")
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	settings := cfg.Breaker
	if settings == nil {
		settings = DefaultBreakerSettings("ticketsafi-api")
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		}
	}
	if settings.IsSuccessful == nil {
		settings.IsSuccessful = countsAsSuccess
	}

	return &Client{
		client: &http.Client{
			Transport: &CredentialsTransport{
				Referer: base + "/",
				Base:    http.DefaultTransport,
			},
			Timeout: timeout,
			// Redirects from the API are surfaced, not followed with
			// forwarded cookies.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		baseURL: base,
		breaker: gobreaker.NewCircuitBreaker[*response](*settings),
		logger:  logger,
	}
}

// BaseURL is the API root, used to resolve media paths and direct
// downloads.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// Cookies returns the Set-Cookie values of the response.
func (r *response) Cookies() []*http.Cookie {
	return (&http.Response{Header: r.header}).Cookies()
}

func (c *Client) call(ctx context.Context, r request) (*response, error) {
	resp, err := c.breaker.Execute(func() (*response, error) {
		return c.roundTrip(ctx, r)
	})
	if isBreakerRejection(err) {
		return nil, &Error{Kind: KindUnavailable, Message: "Service is temporarily unavailable", Err: err}
	}
	return resp, err
}

func (c *Client) roundTrip(ctx context.Context, r request) (*response, error) {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: "Could not reach the server", Err: err}
	}

	if resp.Header.Get("Content-Encoding") == "br" {
		resp.Body = &readCloserWrapper{Reader: brotli.NewReader(resp.Body), Closer: resp.Body}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Status: resp.StatusCode, Kind: KindNetwork, Message: "Could not read the server response", Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.DebugContext(ctx, "user is not logged in or session expired", "path", r.path)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, parseError(resp.StatusCode, data)
	}

	return &response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.call(ctx, request{method: http.MethodGet, path: path, query: query})
	if err != nil {
		return err
	}
	return decode(resp.body, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, query url.Values, in, out any) (*response, error) {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
	}
	resp, err := c.call(ctx, request{method: method, path: path, query: query, body: body, contentType: "application/json"})
	if err != nil {
		return nil, err
	}
	if out != nil {
		if err := decode(resp.body, out); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func (c *Client) sendMultipart(ctx context.Context, method, path string, form multipartEncoder, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := form.encode(w); err != nil {
		return fmt.Errorf("failed to encode form: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to encode form: %w", err)
	}

	resp, err := c.call(ctx, request{method: method, path: path, body: buf.Bytes(), contentType: w.FormDataContentType()})
	if err != nil {
		return err
	}
	if out != nil {
		return decode(resp.body, out)
	}
	return nil
}

func decode(data []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindDecode, Message: err.Error(), Err: err}
	}
	return nil
}

// decodeList accepts either a bare array or the paginated envelope.
func decodeList[T any](data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := decode(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var page struct {
		Results []T `json:"results"`
	}
	if err := decode(trimmed, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (c *Client) getList(ctx context.Context, path string, query url.Values) ([]byte, error) {
	resp, err := c.call(ctx, request{method: http.MethodGet, path: path, query: query})
	if err != nil {
		return nil, err
	}
	return resp.body, nil
}

type readCloserWrapper struct {
	io.Reader
	io.Closer
}

func (r *readCloserWrapper) Read(p []byte) (n int, err error) {
	return r.Reader.Read(p)
}

func (r *readCloserWrapper) Close() error {
	return r.Closer.Close()
}
