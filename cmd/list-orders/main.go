package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kidusabdula/oskaz-storefront-api/internal/config"
	"github.com/kidusabdula/oskaz-storefront-api/internal/erpnext"
)

func main() {
	// Load shared .env from repo root (works when run from cmd/list-orders/ too)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../../.env")

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: go run cmd/list-orders/main.go <customer-name>")
		os.Exit(1)
	}
	customer := os.Args[1]

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	erp := erpnext.NewClient(cfg.ERPNext, logger)

	fmt.Printf("📋 Listing sales orders for customer %q:\n\n", customer)

	orders, err := erp.ListSalesOrders(context.Background(), customer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list sales orders: %v\n", err)
		os.Exit(1)
	}

	for i, order := range orders {
		fmt.Printf("Order #%d:\n", i+1)
		fmt.Printf("  Name: %s\n", order.Name)
		fmt.Printf("  Customer: %s (%s)\n", order.CustomerName, order.Customer)
		fmt.Printf("  Status: %s\n", order.Status)
		fmt.Printf("  Grand Total: %.2f %s\n", order.GrandTotal, order.Currency)
		fmt.Printf("  Transaction Date: %s\n", order.TransactionDate)
		fmt.Printf("  Delivery Date: %s\n", order.DeliveryDate)
		fmt.Printf("  Billed: %.0f%%  Delivered: %.0f%%\n", order.PerBilled, order.PerDelivered)
		if len(order.Items) > 0 {
			fmt.Printf("  Items:\n")
			for _, item := range order.Items {
				fmt.Printf("    - %s x%.0f @ %.2f = %.2f\n", item.ItemCode, item.Qty, item.Rate, item.Amount)
			}
		}
		fmt.Println()
	}

	if len(orders) == 0 {
		fmt.Println("❌ No sales orders found for this customer.")
	} else {
		fmt.Printf("✅ Found %d order(s)\n", len(orders))
	}
}
