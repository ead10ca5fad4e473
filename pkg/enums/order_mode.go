package enums

import "fmt"

// OrderMode describes how a submitted order is handled by the commerce
// backend: a direct purchase or a quote request.
type OrderMode string

const (
	OrderModeDirect OrderMode = "direct"
	OrderModeQuote  OrderMode = "quote"
)

var validOrderModes = []OrderMode{
	OrderModeDirect,
	OrderModeQuote,
}

// IsValid reports whether the value matches the canonical order mode enum.
func (o OrderMode) IsValid() bool {
	for _, candidate := range validOrderModes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderMode converts the raw string to OrderMode.
func ParseOrderMode(value string) (OrderMode, error) {
	for _, candidate := range validOrderModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order mode %q", value)
}
