package toast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// MenusResponse is the body of GET /menus/v2/menus, reduced to the fields the
// catalog uses.
type MenusResponse struct {
	Menus []Menu `json:"menus"`
}

// Menu is one menu. Each restaurant is configured with a single menu named
// after it, so Name doubles as the restaurant name.
type Menu struct {
	Name       string      `json:"name"`
	MenuGroups []MenuGroup `json:"menuGroups"`
}

// MenuGroup is an item group (a category such as "Dessert"). The vendor
// sometimes wraps items in a nested MenuGroups level instead of listing them
// in MenuItems.
type MenuGroup struct {
	GUID       string      `json:"guid"`
	Name       string      `json:"name"`
	MenuItems  []MenuItem  `json:"menuItems"`
	MenuGroups []MenuGroup `json:"menuGroups"`
}

// MenuItem is a sellable item.
type MenuItem struct {
	GUID  string   `json:"guid"`
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
}

// MenuItemRow is one (restaurant, item group, item) triple of the catalog.
type MenuItemRow struct {
	ItemGUID       string   `json:"item_guid"`
	ItemGroupGUID  string   `json:"item_group_guid"`
	ItemName       string   `json:"item_name"`
	RestaurantName string   `json:"restaurant_name"`
	ItemGroupName  string   `json:"item_group_name"`
	ItemPrice      *float64 `json:"item_price"`
}

// Catalog is the flattened menu of every restaurant in scope. Rows keep the
// order of the vendor response.
type Catalog []MenuItemRow

// FlattenMenus turns a menus response into catalog rows. For every top-level
// group it emits the group's own items, then the items of each group nested
// directly inside it under the nested group's guid and name. Nothing deeper
// is visited and rows are not deduplicated.
func FlattenMenus(resp MenusResponse) Catalog {
	catalog, _ := flattenMenus(resp)
	return catalog
}

// flattenMenus also reports how many groups sat below the unwrapped level.
func flattenMenus(resp MenusResponse) (Catalog, int) {
	catalog := Catalog{}
	skipped := 0
	for _, menu := range resp.Menus {
		for _, group := range menu.MenuGroups {
			catalog = appendGroup(catalog, menu.Name, group)
			for _, sub := range group.MenuGroups {
				catalog = appendGroup(catalog, menu.Name, sub)
				skipped += len(sub.MenuGroups)
			}
		}
	}
	return catalog, skipped
}

func appendGroup(catalog Catalog, restaurant string, group MenuGroup) Catalog {
	for _, item := range group.MenuItems {
		catalog = append(catalog, MenuItemRow{
			ItemGUID:       item.GUID,
			ItemGroupGUID:  group.GUID,
			ItemName:       item.Name,
			RestaurantName: restaurant,
			ItemGroupName:  group.Name,
			ItemPrice:      item.Price,
		})
	}
	return catalog
}

// FetchMenus downloads and flattens the menus of the restaurant and replaces
// the cached catalog with the result. It is also the explicit refresh. On
// failure the cached catalog is kept and a nil Catalog is returned.
func (c *Client) FetchMenus(ctx context.Context) (Catalog, error) {
	catalog, err := c.fetchMenus(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("fetch menus failed")
		return nil, err
	}
	return catalog, nil
}

func (c *Client) fetchMenus(ctx context.Context) (Catalog, error) {
	token, err := c.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	req, err := c.newAuthorizedGet(ctx, pathMenus, token, nil)
	if err != nil {
		return nil, err
	}
	status, body, err := c.do(req, "menus")
	if err != nil {
		return nil, fmt.Errorf("fetch menus: %w", err)
	}
	if status != http.StatusOK {
		return nil, &RequestFailure{Endpoint: pathMenus, StatusCode: status, Body: string(body)}
	}

	var resp MenusResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode menus: %w", err)
	}

	catalog, skipped := flattenMenus(resp)
	if skipped > 0 {
		nestedGroupsSkipped.Add(float64(skipped))
		c.log.Warn().Int("groups", skipped).Msg("menu groups nested too deep; their items are not in the catalog")
	}
	c.catalog = catalog
	c.log.Info().Int("items", len(catalog)).Int("menus", len(resp.Menus)).Msg("menu catalog loaded")

	return catalog, nil
}
