package stores

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/middas-stores/storefront-gateway/pkg/enums"
)

// Business carries the store's public identity as shown by the storefront.
type Business struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Phone       string `json:"phone,omitempty"`
	WhatsApp    string `json:"whatsapp,omitempty"`
	Email       string `json:"email,omitempty"`
	Address     string `json:"address,omitempty"`
}

// ShippingOption is one fulfillment channel the store has enabled. Cost and
// FreeAbove only apply to delivery; FreeAbove zero means no free threshold.
type ShippingOption struct {
	Method    enums.ShippingMethod `json:"method"`
	Label     string               `json:"label"`
	Cost      decimal.Decimal      `json:"cost"`
	FreeAbove decimal.Decimal      `json:"freeAbove"`
}

// PaymentOption is one payment channel, with bank details when the method
// is a transfer.
type PaymentOption struct {
	Method   enums.PaymentMethod `json:"method"`
	Label    string              `json:"label"`
	Transfer *TransferDetails    `json:"transfer,omitempty"`
}

// TransferDetails are surfaced to the customer after a transfer order.
type TransferDetails struct {
	BankName string `json:"bankName,omitempty"`
	CBU      string `json:"cbu,omitempty"`
	Alias    string `json:"alias,omitempty"`
	Holder   string `json:"holder,omitempty"`
}

// Settings is the store-level configuration document. It is loaded once at
// startup and treated as read-only afterwards.
type Settings struct {
	Business        Business         `json:"business"`
	Currency        string           `json:"currency"`
	CurrencySymbol  string           `json:"currencySymbol"`
	OrderMode       enums.OrderMode  `json:"orderMethod"`
	ShowStock       bool             `json:"showStock"`
	ShowPrices      bool             `json:"showPrices"`
	AllowOrders     bool             `json:"allowOrders"`
	ShippingOptions []ShippingOption `json:"shippingOptions"`
	PaymentOptions  []PaymentOption  `json:"paymentOptions"`
}

// LoadSettings reads and validates the settings document at path.
func LoadSettings(path string) (*Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read store settings %s: %w", path, err)
	}

	var settings Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return nil, fmt.Errorf("parse store settings %s: %w", path, err)
	}
	if err := settings.validate(); err != nil {
		return nil, fmt.Errorf("invalid store settings %s: %w", path, err)
	}
	return &settings, nil
}

func (s *Settings) validate() error {
	if strings.TrimSpace(s.Business.Name) == "" {
		return fmt.Errorf("business name required")
	}
	if s.Currency == "" {
		return fmt.Errorf("currency required")
	}
	if !s.OrderMode.IsValid() {
		return fmt.Errorf("invalid order method %q", s.OrderMode)
	}

	seenShipping := map[enums.ShippingMethod]bool{}
	for _, opt := range s.ShippingOptions {
		if !opt.Method.IsValid() {
			return fmt.Errorf("invalid shipping method %q", opt.Method)
		}
		if seenShipping[opt.Method] {
			return fmt.Errorf("duplicate shipping method %q", opt.Method)
		}
		seenShipping[opt.Method] = true
		if opt.Cost.IsNegative() {
			return fmt.Errorf("shipping cost for %q cannot be negative", opt.Method)
		}
		if opt.FreeAbove.IsNegative() {
			return fmt.Errorf("free shipping threshold for %q cannot be negative", opt.Method)
		}
	}

	seenPayment := map[enums.PaymentMethod]bool{}
	for _, opt := range s.PaymentOptions {
		if !opt.Method.IsValid() {
			return fmt.Errorf("invalid payment method %q", opt.Method)
		}
		if seenPayment[opt.Method] {
			return fmt.Errorf("duplicate payment method %q", opt.Method)
		}
		seenPayment[opt.Method] = true
	}
	return nil
}

// ShippingOption returns the enabled option for the given method, if any.
func (s *Settings) ShippingOption(method enums.ShippingMethod) (ShippingOption, bool) {
	for _, opt := range s.ShippingOptions {
		if opt.Method == method {
			return opt, true
		}
	}
	return ShippingOption{}, false
}

// PaymentOption returns the enabled option for the given method, if any.
func (s *Settings) PaymentOption(method enums.PaymentMethod) (PaymentOption, bool) {
	for _, opt := range s.PaymentOptions {
		if opt.Method == method {
			return opt, true
		}
	}
	return PaymentOption{}, false
}
