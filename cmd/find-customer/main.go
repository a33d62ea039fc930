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
	// Load shared .env from repo root (works when run from cmd/find-customer/ too)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../../.env")

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: go run cmd/find-customer/main.go <email>")
		os.Exit(1)
	}
	email := os.Args[1]

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

	fmt.Printf("🔍 Looking up customer by email %q...\n", email)

	customer, err := erp.FindCustomerByEmail(context.Background(), email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Lookup failed: %v\n", err)
		os.Exit(1)
	}

	if customer == nil {
		fmt.Println("❌ No customer found for this email.")
		fmt.Println("\nA customer record will be created automatically on first checkout.")
		return
	}

	fmt.Println("✅ Customer found:")
	fmt.Printf("  Name: %s\n", customer.Name)
	fmt.Printf("  Customer Name: %s\n", customer.CustomerName)
}
