package stores

import (
	"fmt"

	"github.com/middas-stores/storefront-gateway/pkg/enums"
)

// Service exposes the store configuration to the rest of the gateway.
type Service interface {
	Settings() *Settings
	OrdersAllowed() bool
	OrderMode() enums.OrderMode
}

type service struct {
	settings *Settings
}

// NewService loads the settings document from path and wraps it.
func NewService(path string) (Service, error) {
	if path == "" {
		return nil, fmt.Errorf("store settings path required")
	}
	settings, err := LoadSettings(path)
	if err != nil {
		return nil, err
	}
	return &service{settings: settings}, nil
}

// NewServiceWithSettings wraps an already-validated settings document.
func NewServiceWithSettings(settings *Settings) (Service, error) {
	if settings == nil {
		return nil, fmt.Errorf("store settings required")
	}
	return &service{settings: settings}, nil
}

func (s *service) Settings() *Settings {
	return s.settings
}

func (s *service) OrdersAllowed() bool {
	return s.settings.AllowOrders
}

func (s *service) OrderMode() enums.OrderMode {
	return s.settings.OrderMode
}
