package domain

import "time"

// OrderSubmission is the transient payload handed to the checkout
// orchestrator. It is never persisted by the storefront.
type OrderSubmission struct {
	Email        string
	Items        []CartLineItem
	DeliveryDate *time.Time
	Notes        string
}

// ResolvedCustomer is the outcome of the lookup-or-create step. Name is the
// ERPNext-internal identifier required before a sales order can be created.
type ResolvedCustomer struct {
	Name         string
	CustomerName string
}

// SalesOrderItem is one line of an ERPNext sales order as the storefront
// reads it back.
type SalesOrderItem struct {
	ItemCode string  `json:"item_code"`
	ItemName string  `json:"item_name"`
	Qty      float64 `json:"qty"`
	Rate     float64 `json:"rate"`
	Amount   float64 `json:"amount"`
}

// SalesOrder is an ERPNext sales order record surfaced to the customer.
// Name doubles as the confirmation/tracking number.
type SalesOrder struct {
	Name            string           `json:"name"`
	Customer        string           `json:"customer"`
	CustomerName    string           `json:"customer_name"`
	TransactionDate string           `json:"transaction_date"`
	DeliveryDate    string           `json:"delivery_date"`
	GrandTotal      float64          `json:"grand_total"`
	Status          string           `json:"status"`
	Currency        string           `json:"currency"`
	Items           []SalesOrderItem `json:"items"`
	PerBilled       float64          `json:"per_billed"`
	PerDelivered    float64          `json:"per_delivered"`
}
