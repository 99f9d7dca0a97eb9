package toast

import (
	"errors"
	"fmt"
)

// ErrCatalogUnavailable is returned by FetchOrders when no catalog was cached
// and fetching one failed, so order lines cannot be enriched.
var ErrCatalogUnavailable = errors.New("menu catalog unavailable")

// errMissingAccessToken marks a 200 login response without a token.
var errMissingAccessToken = errors.New("login response has no access token")

// AuthenticationError is returned when the login endpoint answers with a
// non-200 status.
type AuthenticationError struct {
	StatusCode int
	Body       string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("toast authentication failed: status %d: %s", e.StatusCode, e.Body)
}

// RequestFailure is returned when the menus or orders endpoint answers with a
// non-200 status. Page is the orders page being fetched (0 for menus).
type RequestFailure struct {
	Endpoint   string
	Page       int
	StatusCode int
	Body       string
}

func (e *RequestFailure) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("toast request %s (page %d) failed: status %d: %s", e.Endpoint, e.Page, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("toast request %s failed: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}
