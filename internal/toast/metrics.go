package toast

import "github.com/prometheus/client_golang/prometheus"

var (
	// apiRequests counts vendor calls by endpoint and status ("error" for
	// transport faults).
	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toast_api_requests_total",
			Help: "Total number of requests sent to the Toast API.",
		},
		[]string{"endpoint", "status"},
	)

	apiLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "toast_api_request_duration_seconds",
			Help:    "Duration of Toast API requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	tokenRefreshes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "toast_token_refreshes_total",
			Help: "Number of access tokens obtained from the login endpoint.",
		},
	)

	orderPages = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "toast_order_pages_fetched_total",
			Help: "Number of ordersBulk pages fetched.",
		},
	)

	// nestedGroupsSkipped flags menu groups nested deeper than the single
	// level FlattenMenus unwraps. Their items are not in the catalog.
	nestedGroupsSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "toast_menu_nested_groups_skipped_total",
			Help: "Menu groups nested more than one level below a top-level group.",
		},
	)

	unmatchedLines = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "toast_order_lines_unmatched_total",
			Help: "Order lines with no matching catalog entry.",
		},
	)
)

func init() {
	prometheus.MustRegister(apiRequests, apiLatency, tokenRefreshes, orderPages, nestedGroupsSkipped, unmatchedLines)
}
