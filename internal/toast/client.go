// Package toast is a client for the Toast point-of-sale REST API.
//
// A Client is one session against the vendor. It owns the bearer token and
// the menu catalog fetched during the session and reuses both across calls:
//
//	c := toast.NewClient(toast.Credentials{...})
//	table, err := c.FetchOrders(ctx, toast.LastDays(time.Now(), 7), toast.DefaultPageSize)
//
// A Client is not safe for concurrent use. Callers that share one across
// goroutines must serialise access themselves.
//
// Public fetch operations never panic and return the documented empty value
// alongside a non-nil error on failure: a nil Catalog from FetchMenus, and an
// OrderTable with its columns but no rows from FetchOrders.
package toast

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	pathLogin  = "/authentication/v1/authentication/login"
	pathMenus  = "/menus/v2/menus"
	pathOrders = "/orders/v2/ordersBulk"

	// headerRestaurant scopes menus and orders requests to one restaurant.
	headerRestaurant = "Toast-Restaurant-External-ID"

	defaultHTTPTimeout = 30 * time.Second
)

// Credentials identify the API client and the restaurant it reads from.
// BaseURL may be a bare host ("ws-api.toasttab.com"); https is assumed then.
type Credentials struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	RestaurantID string
}

// Client is a single Toast API session.
type Client struct {
	creds   Credentials
	baseURL string
	http    *http.Client
	log     zerolog.Logger
	now     func() time.Time

	// token state; token == "" means no token has been obtained yet.
	token     string
	expiresAt time.Time

	// catalog is nil until the first successful FetchMenus.
	catalog Catalog
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default traced HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the logger used for failures and token refreshes.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithClock overrides time.Now for token expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient creates a session for creds. No request is made until the first
// Authenticate or fetch call.
func NewClient(creds Credentials, opts ...Option) *Client {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	}
	c := &Client{
		creds:   creds,
		baseURL: normalizeBaseURL(creds.BaseURL),
		http: &http.Client{
			Transport: otelhttp.NewTransport(transport),
			Timeout:   defaultHTTPTimeout,
		},
		log: log.With().Str("component", "toast").Logger(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Catalog returns the cached menu catalog, or nil when none was fetched yet.
func (c *Client) Catalog() Catalog { return c.catalog }

// normalizeBaseURL trims trailing slashes and prefixes https:// when the
// value carries no scheme.
func normalizeBaseURL(s string) string {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	if s != "" && !strings.Contains(s, "://") {
		s = "https://" + s
	}
	return s
}

// newAuthorizedGet builds a GET for path carrying the bearer token and the
// restaurant header.
func (c *Client) newAuthorizedGet(ctx context.Context, path, token string, query url.Values) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(headerRestaurant, c.creds.RestaurantID)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do sends req and returns the status code and the full body. Only transport
// faults are errors; status handling is left to the caller.
func (c *Client) do(req *http.Request, endpoint string) (int, []byte, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		apiRequests.WithLabelValues(endpoint, "error").Inc()
		return 0, nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	apiLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	apiRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}
