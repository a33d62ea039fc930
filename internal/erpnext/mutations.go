package erpnext

import (
	"context"
	"fmt"
)

// SalesOrderLine is one projected line of a sales order document.
type SalesOrderLine struct {
	ItemCode    string  `json:"item_code"`
	ItemName    string  `json:"item_name"`
	Warehouse   string  `json:"warehouse"`
	Description string  `json:"description"`
	Qty         float64 `json:"qty"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
}

// SalesOrderDoc is the minimal sales order document submitted to ERPNext.
type SalesOrderDoc struct {
	Customer     string           `json:"customer"`
	OrderType    string           `json:"order_type"`
	DeliveryDate string           `json:"delivery_date"`
	Items        []SalesOrderLine `json:"items"`
	Notes        string           `json:"notes"`
	Status       string           `json:"status"`
}

// CreatedSalesOrder is the identifying slice of the document ERPNext
// returns after insertion.
type CreatedSalesOrder struct {
	Name string `json:"name"`
}

// CreateCustomer creates a new customer keyed by email. ERPNext requires
// group and territory on insert; the storefront has nothing better than the
// defaults for a web shopper.
func (c *Client) CreateCustomer(ctx context.Context, email string) (*Customer, error) {
	doc := map[string]any{
		"customer_name":  email,
		"customer_type":  "Individual",
		"customer_group": "Individual",
		"territory":      "All Territories",
		"email_id":       email,
	}
	var created Customer
	if err := c.CreateDoc(ctx, "Customer", doc, &created); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return &created, nil
}

// CreateSalesOrder submits a sales order document and returns the created
// order's name.
func (c *Client) CreateSalesOrder(ctx context.Context, doc SalesOrderDoc) (*CreatedSalesOrder, error) {
	var created CreatedSalesOrder
	if err := c.CreateDoc(ctx, "Sales Order", doc, &created); err != nil {
		return nil, fmt.Errorf("failed to create sales order: %w", err)
	}
	if created.Name == "" {
		return nil, fmt.Errorf("sales order created without a name")
	}
	return &created, nil
}
