package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kidusabdula/oskaz-storefront-api/internal/cart"
	"github.com/kidusabdula/oskaz-storefront-api/internal/config"
	"github.com/kidusabdula/oskaz-storefront-api/internal/domain"
	"github.com/kidusabdula/oskaz-storefront-api/internal/erpnext"
	"github.com/kidusabdula/oskaz-storefront-api/pkg/errors"
)

// CheckoutGateway is the slice of the ERPNext client the checkout flow
// needs. Narrowed to an interface so tests can stand in fake collaborators.
type CheckoutGateway interface {
	FindCustomerByEmail(ctx context.Context, email string) (*erpnext.Customer, error)
	CreateCustomer(ctx context.Context, email string) (*erpnext.Customer, error)
	CreateSalesOrder(ctx context.Context, doc erpnext.SalesOrderDoc) (*erpnext.CreatedSalesOrder, error)
}

// checkoutState names the orchestrator's saga steps. The sequence is
// strictly ordered; any failure is terminal with no compensation.
type checkoutState string

const (
	stateValidatingInput   checkoutState = "validating_input"
	stateResolvingCustomer checkoutState = "resolving_customer"
	stateSubmittingOrder   checkoutState = "submitting_order"
	stateDone              checkoutState = "done"
	stateFailed            checkoutState = "failed"
)

// Every remote step gets its own deadline so a hung ERP call cannot hold
// the checkout open indefinitely.
const checkoutStepTimeout = 10 * time.Second

type CheckoutService struct {
	erp    CheckoutGateway
	carts  *cart.Store
	cfg    config.CheckoutConfig
	logger *zap.Logger
}

// NewCheckoutService creates a new checkout orchestrator
func NewCheckoutService(erp CheckoutGateway, carts *cart.Store, cfg config.CheckoutConfig, logger *zap.Logger) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		erp:    erp,
		carts:  carts,
		cfg:    cfg,
		logger: logger,
	}
}

// PlaceOrder converts a cart submission into a confirmed ERPNext sales
// order: validate input, resolve the customer (lookup, then create), project
// the cart lines, submit the order, then clear the cart. Re-invoking after a
// failure re-runs lookup-before-create but will always attempt a fresh sales
// order; there is no deduplication key.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sessionID string, sub domain.OrderSubmission) (*domain.SalesOrder, error) {
	state := stateValidatingInput
	s.logger.Info("Checkout started", zap.String("state", string(state)), zap.Int("item_count", len(sub.Items)))

	if sub.Email == "" {
		return nil, s.fail(state, &errors.ErrValidation{
			Message: "a verified email is required to place an order",
			Fields:  map[string]string{"email": "required"},
		})
	}
	if len(sub.Items) == 0 {
		return nil, s.fail(state, &errors.ErrValidation{
			Message: "cannot place an order with an empty cart",
			Fields:  map[string]string{"items": "required"},
		})
	}

	state = stateResolvingCustomer
	customer, err := s.resolveCustomer(ctx, sub.Email)
	if err != nil {
		return nil, s.fail(state, err)
	}
	s.logger.Info("Customer resolved", zap.String("customer", customer.Name))

	state = stateSubmittingOrder
	doc := erpnext.SalesOrderDoc{
		Customer:     customer.Name,
		OrderType:    "Sales",
		DeliveryDate: s.deliveryDate(sub.DeliveryDate),
		Items:        projectLines(sub.Items, s.cfg.DefaultWarehouse),
		Notes:        sub.Notes,
		Status:       "Draft",
	}

	stepCtx, cancel := context.WithTimeout(ctx, checkoutStepTimeout)
	defer cancel()
	created, err := s.erp.CreateSalesOrder(stepCtx, doc)
	if err != nil {
		// The customer record created above is NOT rolled back.
		return nil, s.fail(state, &errors.ErrOrderSubmission{Customer: customer.Name, Cause: err})
	}

	state = stateDone
	s.logger.Info("Checkout complete",
		zap.String("state", string(state)),
		zap.String("order", created.Name),
		zap.String("customer", customer.Name),
	)

	if sessionID != "" {
		s.carts.Clear(ctx, sessionID)
	}

	return &domain.SalesOrder{
		Name:         created.Name,
		Customer:     customer.Name,
		CustomerName: customer.CustomerName,
		Status:       "Draft",
		DeliveryDate: doc.DeliveryDate,
	}, nil
}

// resolveCustomer maps a purchaser email to an ERPNext customer identifier:
// lookup first, create on miss. An unusable identifier from either path is
// terminal; no sales order is attempted.
func (s *CheckoutService) resolveCustomer(ctx context.Context, email string) (*erpnext.Customer, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, checkoutStepTimeout)
	defer cancel()
	customer, err := s.erp.FindCustomerByEmail(lookupCtx, email)
	if err != nil {
		return nil, &errors.ErrCustomerResolution{Email: email, Cause: err}
	}
	if customer != nil && customer.Name != "" {
		return customer, nil
	}

	s.logger.Info("No existing customer, creating one", zap.String("email", email))
	createCtx, cancel := context.WithTimeout(ctx, checkoutStepTimeout)
	defer cancel()
	created, err := s.erp.CreateCustomer(createCtx, email)
	if err != nil {
		return nil, &errors.ErrCustomerResolution{Email: email, Cause: err}
	}
	if created == nil || created.Name == "" {
		return nil, &errors.ErrCustomerResolution{Email: email}
	}
	return created, nil
}

func (s *CheckoutService) deliveryDate(requested *time.Time) string {
	if requested != nil {
		return requested.Format("2006-01-02")
	}
	return time.Now().AddDate(0, 0, s.cfg.DeliveryLeadDays).Format("2006-01-02")
}

func (s *CheckoutService) fail(state checkoutState, err error) error {
	s.logger.Warn("Checkout failed",
		zap.String("state", string(state)),
		zap.String("terminal_state", string(stateFailed)),
		zap.Error(err),
	)
	return err
}

// projectLines maps cart line items to the ERPNext sales order item shape.
func projectLines(items []domain.CartLineItem, warehouse string) []erpnext.SalesOrderLine {
	lines := make([]erpnext.SalesOrderLine, 0, len(items))
	for _, item := range items {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		rate := item.Price
		if rate < 0 {
			rate = 0
		}
		amount, _ := decimal.NewFromFloat(rate).Mul(decimal.NewFromInt(int64(qty))).Float64()
		lines = append(lines, erpnext.SalesOrderLine{
			ItemCode:    item.ItemCode,
			ItemName:    item.Name,
			Warehouse:   warehouse,
			Description: "",
			Qty:         float64(qty),
			Rate:        rate,
			Amount:      amount,
		})
	}
	return lines
}
