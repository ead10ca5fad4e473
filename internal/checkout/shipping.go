package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/middas-stores/storefront-gateway/internal/stores"
	"github.com/middas-stores/storefront-gateway/pkg/enums"
)

// ShippingCost derives the display-only shipping charge. Only delivery
// carries a cost; a configured free-shipping threshold waives it once the
// cart total reaches the threshold.
func ShippingCost(settings *stores.Settings, method enums.ShippingMethod, totalPrice decimal.Decimal) decimal.Decimal {
	if method != enums.ShippingMethodDelivery {
		return decimal.Zero
	}
	opt, ok := settings.ShippingOption(enums.ShippingMethodDelivery)
	if !ok {
		return decimal.Zero
	}
	if opt.FreeAbove.IsPositive() && totalPrice.GreaterThanOrEqual(opt.FreeAbove) {
		return decimal.Zero
	}
	return opt.Cost
}

// resolveShippingMethod applies the store's fulfillment rules: nothing when
// no channel is enabled, auto-selection when exactly one is, an explicit
// choice among the enabled ones otherwise.
func resolveShippingMethod(settings *stores.Settings, requested string) (enums.ShippingMethod, error) {
	options := settings.ShippingOptions
	switch len(options) {
	case 0:
		return "", nil
	case 1:
		return options[0].Method, nil
	}

	if requested == "" {
		return "", errMissingShippingMethod
	}
	method, err := enums.ParseShippingMethod(requested)
	if err != nil {
		return "", errUnknownShippingMethod
	}
	if _, ok := settings.ShippingOption(method); !ok {
		return "", errUnknownShippingMethod
	}
	return method, nil
}

// resolvePaymentMethod mirrors the shipping rules for payment channels.
func resolvePaymentMethod(settings *stores.Settings, requested string) (enums.PaymentMethod, error) {
	options := settings.PaymentOptions
	switch len(options) {
	case 0:
		return "", nil
	case 1:
		return options[0].Method, nil
	}

	if requested == "" {
		return "", errMissingPaymentMethod
	}
	method, err := enums.ParsePaymentMethod(requested)
	if err != nil {
		return "", errUnknownPaymentMethod
	}
	if _, ok := settings.PaymentOption(method); !ok {
		return "", errUnknownPaymentMethod
	}
	return method, nil
}
