package erpnext

import (
	"context"
	"encoding/json"

	"github.com/kidusabdula/oskaz-storefront-api/internal/domain"
)

// Item is the subset of the ERPNext Item doctype the storefront reads.
type Item struct {
	Name          string  `json:"name"`
	ItemCode      string  `json:"item_code"`
	ItemName      string  `json:"item_name"`
	Description   string  `json:"description"`
	ItemGroup     string  `json:"item_group"`
	Image         string  `json:"image"`
	Disabled      int     `json:"disabled"`
	StockUOM      string  `json:"stock_uom"`
	WeightPerUnit float64 `json:"weight_per_unit"`
	WeightUOM     string  `json:"weight_uom"`
	MinOrderQty   float64 `json:"min_order_qty"`
}

// ItemPrice is a selling price list entry for an item.
type ItemPrice struct {
	PriceListRate float64 `json:"price_list_rate"`
	Currency      string  `json:"currency"`
}

// Bin is a warehouse stock record for an item.
type Bin struct {
	Warehouse string  `json:"warehouse"`
	ActualQty float64 `json:"actual_qty"`
}

// ItemGroup is the category record used for iconography.
type ItemGroup struct {
	Name            string `json:"name"`
	ItemGroupName   string `json:"item_group_name"`
	ParentItemGroup string `json:"parent_item_group"`
	Image           string `json:"image"`
}

// Customer is the subset of the ERPNext Customer doctype the storefront
// reads. Name is the ERP-internal identifier sales orders reference.
type Customer struct {
	Name         string `json:"name"`
	CustomerName string `json:"customer_name"`
}

// GetItem fetches a single item by item code. The item must exist; a
// missing item is a hard error (errors.ErrNotFound).
func (c *Client) GetItem(ctx context.Context, itemCode string) (*Item, error) {
	var item Item
	if err := c.GetDoc(ctx, "Item", itemCode, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItemPrice fetches the selling price for an item. Returns (nil, nil)
// when no price list entry exists.
func (c *Client) GetItemPrice(ctx context.Context, itemCode string) (*ItemPrice, error) {
	var prices []ItemPrice
	err := c.ListDocs(ctx, "Item Price", ListOptions{
		Fields:  []string{"price_list_rate", "currency"},
		Filters: [][3]any{{"item_code", "=", itemCode}, {"selling", "=", 1}},
		Limit:   1,
	}, &prices)
	if err != nil {
		return nil, err
	}
	if len(prices) == 0 {
		return nil, nil
	}
	return &prices[0], nil
}

// GetStock fetches the stock record for an item in one warehouse. Returns
// (nil, nil) when the item has no bin there.
func (c *Client) GetStock(ctx context.Context, itemCode, warehouse string) (*Bin, error) {
	var bins []Bin
	err := c.ListDocs(ctx, "Bin", ListOptions{
		Fields:  []string{"warehouse", "actual_qty"},
		Filters: [][3]any{{"item_code", "=", itemCode}, {"warehouse", "=", warehouse}},
		Limit:   1,
	}, &bins)
	if err != nil {
		return nil, err
	}
	if len(bins) == 0 {
		return nil, nil
	}
	return &bins[0], nil
}

// GetItemGroup fetches the item group record by name.
func (c *Client) GetItemGroup(ctx context.Context, name string) (*ItemGroup, error) {
	var group ItemGroup
	if err := c.GetDoc(ctx, "Item Group", name, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// GetItemTags fetches the tags linked to an item. No tags is an empty
// slice, not an error.
func (c *Client) GetItemTags(ctx context.Context, itemCode string) ([]string, error) {
	var links []struct {
		Tag string `json:"tag"`
	}
	err := c.ListDocs(ctx, "Tag Link", ListOptions{
		Fields:  []string{"tag"},
		Filters: [][3]any{{"document_type", "=", "Item"}, {"document_name", "=", itemCode}},
	}, &links)
	if err != nil {
		return nil, err
	}
	tags := make([]string, 0, len(links))
	for _, link := range links {
		tags = append(tags, link.Tag)
	}
	return tags, nil
}

// GetRelatedItems fetches up to four non-disabled items from the same item
// group, excluding the item itself.
func (c *Client) GetRelatedItems(ctx context.Context, itemGroup, selfItemCode string) ([]Item, error) {
	var items []Item
	err := c.ListDocs(ctx, "Item", ListOptions{
		Fields:  []string{"name", "item_code", "item_name", "item_group", "image"},
		Filters: [][3]any{{"item_group", "=", itemGroup}, {"name", "!=", selfItemCode}, {"disabled", "=", 0}},
		Limit:   4,
	}, &items)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FindCustomerByEmail looks up a customer by email, limited to one result.
// Returns (nil, nil) when no customer matches.
func (c *Client) FindCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	var customers []Customer
	err := c.ListDocs(ctx, "Customer", ListOptions{
		Fields:  []string{"name", "customer_name"},
		Filters: [][3]any{{"email_id", "=", email}},
		Limit:   1,
	}, &customers)
	if err != nil {
		return nil, err
	}
	if len(customers) == 0 {
		return nil, nil
	}
	return &customers[0], nil
}

// salesOrderRecord is the list-API row for a sales order. ERPNext returns
// the child item table as a JSON-encoded string in list responses, parsed
// on receipt.
type salesOrderRecord struct {
	Name            string          `json:"name"`
	Customer        string          `json:"customer"`
	CustomerName    string          `json:"customer_name"`
	TransactionDate string          `json:"transaction_date"`
	DeliveryDate    string          `json:"delivery_date"`
	GrandTotal      float64         `json:"grand_total"`
	Status          string          `json:"status"`
	Currency        string          `json:"currency"`
	Items           json.RawMessage `json:"items"`
	PerBilled       float64         `json:"per_billed"`
	PerDelivered    float64         `json:"per_delivered"`
}

// ListSalesOrders fetches up to 50 most-recent sales orders for a customer.
func (c *Client) ListSalesOrders(ctx context.Context, customer string) ([]domain.SalesOrder, error) {
	var records []salesOrderRecord
	err := c.ListDocs(ctx, "Sales Order", ListOptions{
		Fields: []string{
			"name", "customer", "customer_name", "transaction_date",
			"delivery_date", "grand_total", "status", "currency", "items",
			"per_billed", "per_delivered",
		},
		Filters: [][3]any{{"customer", "=", customer}},
		OrderBy: "transaction_date desc",
		Limit:   50,
	}, &records)
	if err != nil {
		return nil, err
	}

	orders := make([]domain.SalesOrder, 0, len(records))
	for _, record := range records {
		orders = append(orders, domain.SalesOrder{
			Name:            record.Name,
			Customer:        record.Customer,
			CustomerName:    record.CustomerName,
			TransactionDate: record.TransactionDate,
			DeliveryDate:    record.DeliveryDate,
			GrandTotal:      record.GrandTotal,
			Status:          record.Status,
			Currency:        record.Currency,
			Items:           parseOrderItems(record.Items, c),
			PerBilled:       record.PerBilled,
			PerDelivered:    record.PerDelivered,
		})
	}
	return orders, nil
}

// parseOrderItems decodes the JSON-encoded item table defensively: either a
// JSON string wrapping an array, or the array itself. Malformed data yields
// an empty list rather than failing the whole listing.
func parseOrderItems(raw json.RawMessage, c *Client) []domain.SalesOrderItem {
	if len(raw) == 0 {
		return nil
	}
	var items []domain.SalesOrderItem
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		if err := json.Unmarshal([]byte(encoded), &items); err != nil {
			c.logger.Warn("discarding malformed sales order item payload")
			return nil
		}
		return items
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		c.logger.Warn("discarding malformed sales order item payload")
		return nil
	}
	return items
}
