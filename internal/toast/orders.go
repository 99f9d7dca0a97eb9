package toast

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// DefaultPageSize is the ordersBulk page size used when none is given.
	DefaultPageSize = 100

	// ApprovalApproved is the only approval status of a completed, paid order.
	ApprovalApproved = "APPROVED"
)

// Columns lists the OrderTable columns in order.
var Columns = []string{
	"item_guid",
	"item_group_guid",
	"item_name",
	"item_price",
	"order_guid",
	"paid_date",
	"restaurant_name",
	"item_group_name",
}

// Order is one element of the ordersBulk response.
type Order struct {
	GUID           string  `json:"guid"`
	ApprovalStatus string  `json:"approvalStatus"`
	PaidDate       *string `json:"paidDate"`
	Checks         []Check `json:"checks"`
}

// Check is a sub-bill of an order.
type Check struct {
	Selections []Selection `json:"selections"`
}

// Selection is one purchased line item. Item and ItemGroup are optional.
type Selection struct {
	DisplayName string     `json:"displayName"`
	Price       *float64   `json:"price"`
	Item        *Reference `json:"item"`
	ItemGroup   *Reference `json:"itemGroup"`
}

// Reference points at a menu entity by guid.
type Reference struct {
	GUID *string `json:"guid"`
}

// guid is nil-safe: an absent reference has an absent guid.
func (r *Reference) guid() *string {
	if r == nil {
		return nil
	}
	return r.GUID
}

// OrderLine is one purchased item of an approved order. RestaurantName and
// ItemGroupName are filled by JoinCatalog and stay nil when the line has no
// catalog match.
type OrderLine struct {
	ItemGUID       *string    `json:"item_guid"`
	ItemGroupGUID  *string    `json:"item_group_guid"`
	ItemName       string     `json:"item_name"`
	ItemPrice      *float64   `json:"item_price"`
	OrderGUID      string     `json:"order_guid"`
	PaidDate       *time.Time `json:"paid_date"`
	RestaurantName *string    `json:"restaurant_name"`
	ItemGroupName  *string    `json:"item_group_name"`
}

// OrderTable is the enriched result of FetchOrders.
type OrderTable struct {
	Columns []string    `json:"columns"`
	Rows    []OrderLine `json:"rows"`
}

// NewOrderTable wraps rows with the column schema. A nil rows yields an
// empty, non-nil row set.
func NewOrderTable(rows []OrderLine) OrderTable {
	if rows == nil {
		rows = []OrderLine{}
	}
	cols := make([]string, len(Columns))
	copy(cols, Columns)
	return OrderTable{Columns: cols, Rows: rows}
}

// Len returns the number of rows.
func (t OrderTable) Len() int { return len(t.Rows) }

// FlattenOrders emits one OrderLine per selection of every check of every
// APPROVED order (exact, case-sensitive match). Other orders are skipped.
func FlattenOrders(orders []Order) []OrderLine {
	lines := []OrderLine{}
	for _, order := range orders {
		if order.ApprovalStatus != ApprovalApproved {
			continue
		}
		paid := parsePaidDate(order.PaidDate)
		for _, check := range order.Checks {
			for _, sel := range check.Selections {
				lines = append(lines, OrderLine{
					ItemGUID:      sel.Item.guid(),
					ItemGroupGUID: sel.ItemGroup.guid(),
					ItemName:      sel.DisplayName,
					ItemPrice:     sel.Price,
					OrderGUID:     order.GUID,
					PaidDate:      paid,
				})
			}
		}
	}
	return lines
}

// paidDateLayouts are tried in order; the first is the vendor's own format.
var paidDateLayouts = []string{TimestampLayout, time.RFC3339Nano}

func parsePaidDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	for _, layout := range paidDateLayouts {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t
		}
	}
	return nil
}

type joinKey struct {
	item, group string
}

// JoinCatalog left-joins lines against catalog on (item guid, item group
// guid) and attaches the restaurant and item group names. Every line is kept;
// a line with several matching catalog rows appears once per match, and a
// line with an absent key or no match keeps nil names.
func JoinCatalog(lines []OrderLine, catalog Catalog) OrderTable {
	index := make(map[joinKey][]int, len(catalog))
	for i, row := range catalog {
		k := joinKey{row.ItemGUID, row.ItemGroupGUID}
		index[k] = append(index[k], i)
	}

	rows := make([]OrderLine, 0, len(lines))
	for _, line := range lines {
		var matches []int
		if line.ItemGUID != nil && line.ItemGroupGUID != nil {
			matches = index[joinKey{*line.ItemGUID, *line.ItemGroupGUID}]
		}
		if len(matches) == 0 {
			line.RestaurantName, line.ItemGroupName = nil, nil
			rows = append(rows, line)
			continue
		}
		for _, i := range matches {
			restaurant, group := catalog[i].RestaurantName, catalog[i].ItemGroupName
			out := line
			out.RestaurantName, out.ItemGroupName = &restaurant, &group
			rows = append(rows, out)
		}
	}
	return NewOrderTable(rows)
}

// FetchOrders pages through ordersBulk for rng, flattens the approved orders
// and enriches them from the cached catalog, fetching the catalog first if
// none is cached. A pageSize <= 0 means DefaultPageSize.
//
// Pagination stops at an empty page or at the first page shorter than
// pageSize; the vendor is assumed never to return a short page before the
// last one. On failure the returned table has columns and no rows.
func (c *Client) FetchOrders(ctx context.Context, rng DateRange, pageSize int) (OrderTable, error) {
	table, err := c.fetchOrders(ctx, rng, pageSize)
	if err != nil {
		c.log.Error().Err(err).Str("start", rng.Start).Str("end", rng.End).Msg("fetch orders failed")
		return NewOrderTable(nil), err
	}
	return table, nil
}

func (c *Client) fetchOrders(ctx context.Context, rng DateRange, pageSize int) (OrderTable, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	token, err := c.Authenticate(ctx)
	if err != nil {
		return OrderTable{}, err
	}

	orders, err := c.fetchOrderPages(ctx, token, rng, pageSize)
	if err != nil {
		return OrderTable{}, err
	}

	catalog := c.catalog
	if catalog == nil {
		if catalog, err = c.fetchMenus(ctx); err != nil {
			return OrderTable{}, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
		}
	}

	table := JoinCatalog(FlattenOrders(orders), catalog)
	unmatched := 0
	for _, row := range table.Rows {
		if row.RestaurantName == nil {
			unmatched++
		}
	}
	if unmatched > 0 {
		unmatchedLines.Add(float64(unmatched))
	}
	c.log.Info().
		Int("orders", len(orders)).
		Int("lines", table.Len()).
		Int("unmatched", unmatched).
		Msg("orders fetched")

	return table, nil
}

// fetchOrderPages requests pages strictly one after another. Any error,
// including cancellation, discards the pages collected so far.
func (c *Client) fetchOrderPages(ctx context.Context, token string, rng DateRange, pageSize int) ([]Order, error) {
	var all []Order
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		q := url.Values{}
		q.Set("startDate", rng.Start)
		q.Set("endDate", rng.End)
		q.Set("page", strconv.Itoa(page))
		q.Set("pageSize", strconv.Itoa(pageSize))

		req, err := c.newAuthorizedGet(ctx, pathOrders, token, q)
		if err != nil {
			return nil, err
		}
		status, body, err := c.do(req, "orders")
		if err != nil {
			return nil, fmt.Errorf("fetch orders page %d: %w", page, err)
		}
		if status != http.StatusOK {
			return nil, &RequestFailure{Endpoint: pathOrders, Page: page, StatusCode: status, Body: string(body)}
		}
		orderPages.Inc()

		batch, err := decodeOrderPage(body)
		if err != nil {
			return nil, fmt.Errorf("decode orders page %d: %w", page, err)
		}
		if len(batch) == 0 {
			break
		}
		all = append(all, batch...)
		if len(batch) < pageSize {
			break
		}
	}
	return all, nil
}

var errNotAnArray = errors.New("orders page is not a JSON array")

// decodeOrderPage treats an empty body or null as an empty page.
func decodeOrderPage(body []byte) ([]Order, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	if body[0] != '[' && !bytes.Equal(body, []byte("null")) {
		return nil, errNotAnArray
	}
	var batch []Order
	if err := json.Unmarshal(body, &batch); err != nil {
		return nil, err
	}
	return batch, nil
}
