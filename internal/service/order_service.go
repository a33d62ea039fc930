package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kidusabdula/oskaz-storefront-api/internal/domain"
	"github.com/kidusabdula/oskaz-storefront-api/internal/erpnext"
)

// OrderGateway is the slice of the ERPNext client the order listing needs.
type OrderGateway interface {
	FindCustomerByEmail(ctx context.Context, email string) (*erpnext.Customer, error)
	ListSalesOrders(ctx context.Context, customer string) ([]domain.SalesOrder, error)
}

const orderListTimeout = 10 * time.Second

type OrderService struct {
	erp    OrderGateway
	logger *zap.Logger
}

// NewOrderService creates a new order listing service
func NewOrderService(erp OrderGateway, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{erp: erp, logger: logger}
}

// ListOrders returns the customer's most recent sales orders (up to 50). A
// purchaser with no ERPNext customer record has no orders yet, which is an
// empty list, not an error.
func (s *OrderService) ListOrders(ctx context.Context, email string) ([]domain.SalesOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, orderListTimeout)
	defer cancel()

	customer, err := s.erp.FindCustomerByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.Name == "" {
		s.logger.Debug("No customer record for email, returning empty order list")
		return []domain.SalesOrder{}, nil
	}

	orders, err := s.erp.ListSalesOrders(ctx, customer.Name)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.SalesOrder{}
	}
	return orders, nil
}
