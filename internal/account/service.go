package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/middas-stores/storefront-gateway/pkg/commerce"
	pkgerrors "github.com/middas-stores/storefront-gateway/pkg/errors"
	"github.com/middas-stores/storefront-gateway/pkg/logger"
)

type authAPI interface {
	Login(ctx context.Context, req commerce.LoginRequest) (*commerce.AuthResult, error)
	Register(ctx context.Context, req commerce.RegisterRequest) (*commerce.AuthResult, error)
	Me(ctx context.Context, bearer string) (*commerce.Customer, error)
	CustomerOrders(ctx context.Context, bearer string) ([]commerce.CustomerOrder, error)
}

// LoginInput is the storefront login form.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterInput is the storefront signup form.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"omitempty,max=40"`
}

// Service proxies customer auth against the commerce backend, keeping the
// backend bearer token tied to the storefront session. A token the backend
// stops honoring is discarded silently; the customer just shows up logged
// out.
type Service interface {
	Login(ctx context.Context, sessionID string, input LoginInput) (*commerce.Customer, error)
	Register(ctx context.Context, sessionID string, input RegisterInput) (*commerce.Customer, error)
	Current(ctx context.Context, sessionID string) (*commerce.Customer, error)
	Orders(ctx context.Context, sessionID string) ([]commerce.CustomerOrder, error)
	Logout(ctx context.Context, sessionID string) error
	Token(ctx context.Context, sessionID string) (string, error)
}

type service struct {
	api    authAPI
	tokens TokenRepository
	logg   *logger.Logger
}

// NewService builds the account proxy.
func NewService(api authAPI, tokens TokenRepository, logg *logger.Logger) (Service, error) {
	if api == nil {
		return nil, fmt.Errorf("commerce api required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{api: api, tokens: tokens, logg: logg}, nil
}

func (s *service) Login(ctx context.Context, sessionID string, input LoginInput) (*commerce.Customer, error) {
	result, err := s.api.Login(ctx, commerce.LoginRequest{
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Password: input.Password,
	})
	if err != nil {
		return nil, err
	}
	return s.storeAuth(ctx, sessionID, result)
}

func (s *service) Register(ctx context.Context, sessionID string, input RegisterInput) (*commerce.Customer, error) {
	result, err := s.api.Register(ctx, commerce.RegisterRequest{
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Password: input.Password,
		Phone:    strings.TrimSpace(input.Phone),
	})
	if err != nil {
		return nil, err
	}
	return s.storeAuth(ctx, sessionID, result)
}

// Current returns the logged-in customer, or nil without error when the
// session has no valid token.
func (s *service) Current(ctx context.Context, sessionID string) (*commerce.Customer, error) {
	token, err := s.tokens.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}

	customer, err := s.api.Me(ctx, token)
	if err != nil {
		if s.discardIfRejected(ctx, sessionID, err) {
			return nil, nil
		}
		return nil, err
	}
	return customer, nil
}

func (s *service) Orders(ctx context.Context, sessionID string) ([]commerce.CustomerOrder, error) {
	token, err := s.tokens.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}

	orders, err := s.api.CustomerOrders(ctx, token)
	if err != nil {
		if s.discardIfRejected(ctx, sessionID, err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
		}
		return nil, err
	}
	return orders, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	return s.tokens.Delete(ctx, sessionID)
}

func (s *service) Token(ctx context.Context, sessionID string) (string, error) {
	return s.tokens.Load(ctx, sessionID)
}

func (s *service) storeAuth(ctx context.Context, sessionID string, result *commerce.AuthResult) (*commerce.Customer, error) {
	if result.Token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "the backend returned no session token")
	}
	if err := s.tokens.Save(ctx, sessionID, result.Token); err != nil {
		return nil, err
	}
	customer := result.Customer
	return &customer, nil
}

// discardIfRejected drops the stored token when the backend no longer honors
// it, and reports whether it did.
func (s *service) discardIfRejected(ctx context.Context, sessionID string, err error) bool {
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeUnauthorized {
		return false
	}
	if delErr := s.tokens.Delete(ctx, sessionID); delErr != nil {
		s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "discarding rejected auth token failed")
	}
	return true
}
