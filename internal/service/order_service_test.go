package service

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidusabdula/oskaz-storefront-api/internal/domain"
	"github.com/kidusabdula/oskaz-storefront-api/internal/erpnext"
)

// MockOrderGateway implements OrderGateway for testing
type MockOrderGateway struct {
	Customer    *erpnext.Customer
	CustomerErr error

	Orders    []domain.SalesOrder
	OrdersErr error
	ListCalls int
}

func (m *MockOrderGateway) FindCustomerByEmail(_ context.Context, _ string) (*erpnext.Customer, error) {
	return m.Customer, m.CustomerErr
}

func (m *MockOrderGateway) ListSalesOrders(_ context.Context, _ string) ([]domain.SalesOrder, error) {
	m.ListCalls++
	return m.Orders, m.OrdersErr
}

func TestListOrders(t *testing.T) {
	mock := &MockOrderGateway{
		Customer: &erpnext.Customer{Name: "CUST-042"},
		Orders: []domain.SalesOrder{
			{Name: "SAL-ORD-2026-0002", Status: "To Deliver and Bill", GrandTotal: 120.0},
			{Name: "SAL-ORD-2026-0001", Status: "Completed", GrandTotal: 23.5},
		},
	}
	svc := NewOrderService(mock, nil)

	orders, err := svc.ListOrders(context.Background(), "buyer@example.com")

	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "SAL-ORD-2026-0002", orders[0].Name)
}

func TestListOrders_NoCustomerMeansEmptyList(t *testing.T) {
	mock := &MockOrderGateway{Customer: nil}
	svc := NewOrderService(mock, nil)

	orders, err := svc.ListOrders(context.Background(), "new@example.com")

	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.NotNil(t, orders)
	assert.Zero(t, mock.ListCalls)
}

func TestListOrders_NilResultNormalizedToEmpty(t *testing.T) {
	mock := &MockOrderGateway{
		Customer: &erpnext.Customer{Name: "CUST-042"},
		Orders:   nil,
	}
	svc := NewOrderService(mock, nil)

	orders, err := svc.ListOrders(context.Background(), "buyer@example.com")

	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestListOrders_LookupFailureSurfaces(t *testing.T) {
	mock := &MockOrderGateway{CustomerErr: stderrors.New("erpnext unreachable")}
	svc := NewOrderService(mock, nil)

	orders, err := svc.ListOrders(context.Background(), "buyer@example.com")

	assert.Error(t, err)
	assert.Nil(t, orders)
}
