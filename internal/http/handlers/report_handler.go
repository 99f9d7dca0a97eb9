// Report HTTP handlers.
//
// This file exposes the read-only report endpoints:
//   - GET /menus   (flattened menu catalog)
//   - GET /orders  (approved order lines enriched with catalog data)
//
// Handlers are transport-thin: they parse query parameters, call the report
// service, and translate service errors into error envelopes.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/toast-report/internal/http/middleware"
	"github.com/tbourn/toast-report/internal/services"
	"github.com/tbourn/toast-report/internal/toast"
	"github.com/tbourn/toast-report/internal/utils"
)

// ReportService defines the report operations consumed by HTTP handlers.
//
// Implementations must be safe for concurrent use and honor the provided
// context for cancellation.
type ReportService interface {
	// Menus returns the flattened catalog, refetching when refresh is set.
	Menus(ctx context.Context, refresh bool) (toast.Catalog, error)
	// Orders returns the enriched order table for the query's window.
	Orders(ctx context.Context, q services.OrdersQuery) (toast.OrderTable, error)
}

// Handlers groups the report endpoints.
type Handlers struct {
	reports ReportService
}

// New constructs Handlers bound to the given report service.
func New(reports ReportService) *Handlers {
	return &Handlers{reports: reports}
}

//
// DTOs
//

// MenuCatalogResponse wraps the flattened catalog.
type MenuCatalogResponse struct {
	Items []toast.MenuItemRow `json:"items"`
	Count int                 `json:"count" example:"42"`
}

// OrderReportResponse is the enriched order table in column/row form.
type OrderReportResponse struct {
	Columns []string          `json:"columns" example:"item_guid,item_group_guid,item_name,item_price,order_guid,paid_date,restaurant_name,item_group_name"`
	Rows    []toast.OrderLine `json:"rows"`
	Count   int               `json:"count" example:"3"`
}

//
// Helpers
//

// intQuery parses an optional integer query parameter. Absent values yield 0;
// malformed values yield -1 so the service rejects them.
func intQuery(c *gin.Context, key string) int {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return 0
	}
	return utils.AtoiDefault(v, -1)
}

// writeServiceError maps service errors onto HTTP statuses and codes.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidRange), errors.Is(err, services.ErrInvalidPageSize):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		middleware.LoggerFrom(c).Warn().Err(err).Msg("toast request timed out")
		fail(c, http.StatusGatewayTimeout, ErrCodeUpstreamFailed, "toast api timed out")
	case errors.Is(err, services.ErrUpstream):
		middleware.LoggerFrom(c).Warn().Err(err).Msg("toast request failed")
		fail(c, http.StatusBadGateway, ErrCodeUpstreamFailed, services.ErrUpstream.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}

//
// Handlers
//

// ListMenus godoc
// @ID          listMenus
// @Summary     Flattened menu catalog
// @Description Returns every menu item with its restaurant and menu group. Sub-groups are unwrapped one level deep. The catalog is cached; pass refresh=true to refetch it.
// @Tags        Reports
// @Produce     json
//
// @Param       refresh  query  bool  false  "Refetch the catalog from Toast"  default(false)
//
// @Success     200  {object}  handlers.MenuCatalogResponse
// @Failure     502  {object}  handlers.ErrorResponse  "Toast request failed"
// @Router      /menus [get]
func (h *Handlers) ListMenus(c *gin.Context) {
	refresh := utils.BoolDefault(c.Query("refresh"), false)

	catalog, err := h.reports.Menus(c.Request.Context(), refresh)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if catalog == nil {
		catalog = toast.Catalog{}
	}
	ok(c, http.StatusOK, MenuCatalogResponse{Items: catalog, Count: len(catalog)})
}

// ListOrders godoc
// @ID          listOrders
// @Summary     Enriched approved orders
// @Description Pages through Toast orders in the window, keeps APPROVED orders, flattens them to one row per selection and left-joins the menu catalog on (item_guid, item_group_guid). Give start and end together, or days for a window ending now.
// @Tags        Reports
// @Produce     json
//
// @Param       start      query  string  false  "Window start (2016-01-01T14:13:12.000+0000, RFC3339 or 2006-01-02)"
// @Param       end        query  string  false  "Window end (same formats as start)"
// @Param       days       query  int     false  "Days back from now when start/end are omitted"  minimum(1)
// @Param       page_size  query  int     false  "Toast page size"  minimum(1) maximum(100) default(100)
//
// @Success     200  {object}  handlers.OrderReportResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     502  {object}  handlers.ErrorResponse  "Toast request failed"
// @Failure     504  {object}  handlers.ErrorResponse  "Toast request timed out"
// @Router      /orders [get]
func (h *Handlers) ListOrders(c *gin.Context) {
	q := services.OrdersQuery{
		Start:    c.Query("start"),
		End:      c.Query("end"),
		Days:     intQuery(c, "days"),
		PageSize: intQuery(c, "page_size"),
	}

	table, err := h.reports.Orders(c.Request.Context(), q)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	ok(c, http.StatusOK, OrderReportResponse{Columns: table.Columns, Rows: table.Rows, Count: table.Len()})
}
