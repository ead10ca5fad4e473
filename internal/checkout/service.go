package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/middas-stores/storefront-gateway/internal/cart"
	"github.com/middas-stores/storefront-gateway/internal/stores"
	"github.com/middas-stores/storefront-gateway/pkg/commerce"
	"github.com/middas-stores/storefront-gateway/pkg/enums"
	pkgerrors "github.com/middas-stores/storefront-gateway/pkg/errors"
	"github.com/middas-stores/storefront-gateway/pkg/logger"
	"github.com/middas-stores/storefront-gateway/pkg/metrics"
)

var (
	errMissingShippingMethod = pkgerrors.New(pkgerrors.CodeValidation, "shipping method is required")
	errUnknownShippingMethod = pkgerrors.New(pkgerrors.CodeValidation, "shipping method is not available")
	errMissingPaymentMethod  = pkgerrors.New(pkgerrors.CodeValidation, "payment method is required")
	errUnknownPaymentMethod  = pkgerrors.New(pkgerrors.CodeValidation, "payment method is not available")
)

type cartAccess interface {
	Get(ctx context.Context, sessionID string) (*cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type orderSubmitter interface {
	CreateOrder(ctx context.Context, req commerce.OrderRequest, bearer string) (*commerce.OrderResult, error)
}

// tokenSource yields the stored backend bearer token for a session, empty
// when the customer is a guest.
type tokenSource interface {
	Token(ctx context.Context, sessionID string) (string, error)
}

// SubmitInput is the confirmed checkout form.
type SubmitInput struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"omitempty,email"`
	Phone          string `json:"phone" validate:"required"`
	Address        string `json:"address" validate:"omitempty,max=300"`
	Notes          string `json:"notes" validate:"omitempty,max=1000"`
	ShippingMethod string `json:"shipping_method" validate:"omitempty,oneof=pickup delivery"`
	PaymentMethod  string `json:"payment_method" validate:"omitempty,oneof=transfer cash"`
}

// Result reports an acknowledged order back to the storefront.
type Result struct {
	OrderNumber    string                  `json:"order_number"`
	Mode           enums.OrderMode         `json:"mode"`
	ShippingMethod enums.ShippingMethod    `json:"shipping_method,omitempty"`
	PaymentMethod  enums.PaymentMethod     `json:"payment_method,omitempty"`
	ShippingCost   decimal.Decimal         `json:"shipping_cost"`
	Total          decimal.Decimal         `json:"total"`
	Transfer       *stores.TransferDetails `json:"transfer,omitempty"`
}

// Service submits exactly one order per confirmation. The backend call comes
// first; the cart is cleared only after the backend acknowledges the order,
// and any failure leaves the cart untouched.
type Service interface {
	Submit(ctx context.Context, sessionID string, input SubmitInput) (*Result, error)
}

type service struct {
	carts   cartAccess
	store   stores.Service
	orders  orderSubmitter
	tokens  tokenSource
	locker  InflightLocker
	metrics *metrics.StorefrontMetrics
	logg    *logger.Logger
}

// NewService wires the checkout composer. tokens may be nil when customer
// accounts are disabled.
func NewService(carts cartAccess, store stores.Service, orders orderSubmitter, tokens tokenSource, locker InflightLocker, m *metrics.StorefrontMetrics, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if store == nil {
		return nil, fmt.Errorf("store service required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order submitter required")
	}
	if locker == nil {
		return nil, fmt.Errorf("inflight locker required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		carts:   carts,
		store:   store,
		orders:  orders,
		tokens:  tokens,
		locker:  locker,
		metrics: m,
		logg:    logg,
	}, nil
}

func (s *service) Submit(ctx context.Context, sessionID string, input SubmitInput) (*Result, error) {
	settings := s.store.Settings()
	if !settings.AllowOrders {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "the store is not taking orders right now")
	}

	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}

	shippingMethod, err := resolveShippingMethod(settings, input.ShippingMethod)
	if err != nil {
		return nil, err
	}
	paymentMethod, err := resolvePaymentMethod(settings, input.PaymentMethod)
	if err != nil {
		return nil, err
	}

	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "the cart is empty")
	}

	acquired, err := s.locker.Acquire(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not reserve the checkout")
	}
	if !acquired {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "an order is already being submitted")
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), sessionID); err != nil {
			s.logg.Warn(ctx, "releasing checkout lock failed")
		}
	}()

	totalPrice := c.TotalPrice()
	shippingCost := ShippingCost(settings, shippingMethod, totalPrice)

	req := commerce.OrderRequest{
		Customer: commerce.OrderCustomer{
			Name:    name,
			Email:   strings.TrimSpace(input.Email),
			Phone:   phone,
			Address: strings.TrimSpace(input.Address),
		},
		Notes:          strings.TrimSpace(input.Notes),
		OrderMode:      string(settings.OrderMode),
		ShippingMethod: string(shippingMethod),
		PaymentMethod:  string(paymentMethod),
	}
	for _, line := range c.Items() {
		req.Items = append(req.Items, commerce.OrderItem{
			ProductID: line.ID,
			Quantity:  line.Quantity,
		})
	}

	bearer := ""
	if s.tokens != nil {
		if token, err := s.tokens.Token(ctx, sessionID); err == nil {
			bearer = token
		}
	}

	order, err := s.orders.CreateOrder(ctx, req, bearer)
	if err != nil {
		s.metrics.IncCheckout(false)
		return nil, err
	}

	// The order is placed; a disconnecting client must not strand a full
	// cart behind a submitted order.
	clearCtx := context.WithoutCancel(ctx)
	if err := s.carts.Clear(clearCtx, sessionID); err != nil {
		logCtx := s.logg.WithOrderNumber(s.logg.WithSessionID(clearCtx, sessionID), order.OrderNumber)
		s.logg.Error(logCtx, "clearing cart after acknowledged order failed", err)
	}
	s.metrics.IncCheckout(true)

	result := &Result{
		OrderNumber:    order.OrderNumber,
		Mode:           settings.OrderMode,
		ShippingMethod: shippingMethod,
		PaymentMethod:  paymentMethod,
		ShippingCost:   shippingCost,
		Total:          totalPrice.Add(shippingCost),
	}
	if paymentMethod == enums.PaymentMethodTransfer {
		if opt, ok := settings.PaymentOption(enums.PaymentMethodTransfer); ok {
			result.Transfer = opt.Transfer
		}
	}
	return result, nil
}
