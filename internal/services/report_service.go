// Package services – ReportService
//
// ReportService turns HTTP-level report requests into Toast client calls. It
// resolves the requested date window, applies page-size defaults, reuses the
// cached menu catalog unless a refresh is asked for, and serialises access
// to the underlying client, which keeps a token and catalog cache of its own.
//
// Observability: public methods are OpenTelemetry-instrumented.

package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/toast-report/internal/toast"
)

const maxPageSize = 100

// ToastClient is the subset of *toast.Client the reports need.
type ToastClient interface {
	Catalog() toast.Catalog
	FetchMenus(ctx context.Context) (toast.Catalog, error)
	FetchOrders(ctx context.Context, rng toast.DateRange, pageSize int) (toast.OrderTable, error)
}

// OrdersQuery describes an order report request. Start and End must be
// given together; when both are empty the last Days days are used.
type OrdersQuery struct {
	Start    string
	End      string
	Days     int
	PageSize int
}

// ReportService builds the menu catalog and enriched order reports.
type ReportService struct {
	Client      ToastClient
	DefaultDays int
	PageSize    int

	// Now is the clock used for relative windows; time.Now when nil.
	Now func() time.Time

	mu sync.Mutex
}

// Menus returns the flattened catalog. The cached copy is served unless
// refresh is set or nothing has been fetched yet.
func (s *ReportService) Menus(ctx context.Context, refresh bool) (toast.Catalog, error) {
	tr := otel.Tracer("services/ReportService")
	ctx, span := tr.Start(ctx, "Menus",
		trace.WithAttributes(attribute.Bool("refresh", refresh)),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !refresh {
		if cached := s.Client.Catalog(); cached != nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return cached, nil
		}
	}
	catalog, err := s.Client.FetchMenus(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return catalog, nil
}

// Orders resolves q into a vendor date range and returns the enriched order
// table. The table always carries the column schema, even on error.
func (s *ReportService) Orders(ctx context.Context, q OrdersQuery) (toast.OrderTable, error) {
	tr := otel.Tracer("services/ReportService")
	ctx, span := tr.Start(ctx, "Orders",
		trace.WithAttributes(
			attribute.String("start", q.Start),
			attribute.String("end", q.End),
			attribute.Int("days", q.Days),
			attribute.Int("page_size", q.PageSize),
		),
	)
	defer span.End()

	pageSize := q.PageSize
	if pageSize == 0 {
		pageSize = s.PageSize
	}
	if pageSize < 0 || pageSize > maxPageSize {
		return toast.NewOrderTable(nil), ErrInvalidPageSize
	}

	rng, err := s.resolveRange(q)
	if err != nil {
		return toast.NewOrderTable(nil), err
	}
	span.SetAttributes(
		attribute.String("range.start", rng.Start),
		attribute.String("range.end", rng.End),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.Client.FetchOrders(ctx, rng, pageSize)
	if err != nil {
		span.RecordError(err)
		return table, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	span.SetAttributes(attribute.Int("rows", table.Len()))
	return table, nil
}

func (s *ReportService) resolveRange(q OrdersQuery) (toast.DateRange, error) {
	start, end := strings.TrimSpace(q.Start), strings.TrimSpace(q.End)
	if start != "" || end != "" {
		if start == "" || end == "" {
			return toast.DateRange{}, fmt.Errorf("%w: start and end must be given together", ErrInvalidRange)
		}
		from, err := parseBound(start)
		if err != nil {
			return toast.DateRange{}, fmt.Errorf("%w: start: %w", ErrInvalidRange, err)
		}
		to, err := parseBound(end)
		if err != nil {
			return toast.DateRange{}, fmt.Errorf("%w: end: %w", ErrInvalidRange, err)
		}
		if to.Before(from) {
			return toast.DateRange{}, fmt.Errorf("%w: end is before start", ErrInvalidRange)
		}
		return toast.NewDateRange(from, to), nil
	}

	days := q.Days
	if days == 0 {
		days = s.DefaultDays
	}
	if days < 1 {
		return toast.DateRange{}, fmt.Errorf("%w: days must be >= 1", ErrInvalidRange)
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return toast.LastDays(now(), days), nil
}

// boundLayouts are tried in order when parsing explicit range bounds.
var boundLayouts = []string{toast.TimestampLayout, time.RFC3339Nano, "2006-01-02"}

func parseBound(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range boundLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
