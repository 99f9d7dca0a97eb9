// Package services holds the report use cases that sit between the HTTP
// handlers and the Toast client. This file centralizes the service-level
// error values so handlers can translate them into status codes.
package services

import "errors"

var (
	// ErrUpstream wraps any failure reported by the Toast API client
	// (authentication, request failures, decode errors).
	ErrUpstream = errors.New("toast api request failed")

	// ErrInvalidRange is returned when a report's date bounds cannot be
	// parsed, are only half specified, or are inverted.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrInvalidPageSize is returned when a requested page size is outside
	// the vendor limit of 1..100.
	ErrInvalidPageSize = errors.New("page_size must be between 1 and 100")
)
