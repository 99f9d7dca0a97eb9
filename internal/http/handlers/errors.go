// Package handlers defines the error codes returned in API error envelopes.
//
// Codes are lowercase snake_case. Generic codes mirror HTTP status semantics;
// upstream_failed marks errors that originate from the Toast API rather than
// from the caller's input.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "upstream_failed",
//	  "message": "toast api request failed"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeUpstreamFailed = "upstream_failed"
)
