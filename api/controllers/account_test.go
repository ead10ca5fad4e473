package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	accountsvc "github.com/middas-stores/storefront-gateway/internal/account"
	"github.com/middas-stores/storefront-gateway/pkg/commerce"
	pkgerrors "github.com/middas-stores/storefront-gateway/pkg/errors"
)

type stubAccountService struct {
	customer  *commerce.Customer
	orders    []commerce.CustomerOrder
	err       error
	loggedOut bool
}

func (s *stubAccountService) Login(_ context.Context, _ string, _ accountsvc.LoginInput) (*commerce.Customer, error) {
	return s.customer, s.err
}

func (s *stubAccountService) Register(_ context.Context, _ string, _ accountsvc.RegisterInput) (*commerce.Customer, error) {
	return s.customer, s.err
}

func (s *stubAccountService) Current(_ context.Context, _ string) (*commerce.Customer, error) {
	return s.customer, s.err
}

func (s *stubAccountService) Orders(_ context.Context, _ string) ([]commerce.CustomerOrder, error) {
	return s.orders, s.err
}

func (s *stubAccountService) Logout(_ context.Context, _ string) error {
	s.loggedOut = true
	return s.err
}

func (s *stubAccountService) Token(_ context.Context, _ string) (string, error) {
	return "", nil
}

func TestAccountLoginSuccess(t *testing.T) {
	svc := &stubAccountService{customer: &commerce.Customer{ID: "cust-1", Name: "Juana"}}
	handler := AccountLogin(svc, nil)

	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/account/login",
		strings.NewReader(`{"email":"juana@example.com","password":"secreta"}`)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data struct {
			Customer commerce.Customer `json:"customer"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Customer.ID != "cust-1" {
		t.Fatalf("unexpected customer id %q", envelope.Data.Customer.ID)
	}
}

func TestAccountLoginRejectsInvalidEmail(t *testing.T) {
	handler := AccountLogin(&stubAccountService{}, nil)

	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/account/login",
		strings.NewReader(`{"email":"not-an-email","password":"secreta"}`)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAccountRegisterCreated(t *testing.T) {
	svc := &stubAccountService{customer: &commerce.Customer{ID: "cust-2"}}
	handler := AccountRegister(svc, nil)

	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/account/register",
		strings.NewReader(`{"name":"Pedro","email":"pedro@example.com","password":"secreta"}`)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAccountCurrentAnonymousIsNullCustomer(t *testing.T) {
	handler := AccountCurrent(&stubAccountService{}, nil)

	req := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/account", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			Customer *commerce.Customer `json:"customer"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Customer != nil {
		t.Fatal("expected null customer for anonymous session")
	}
}

func TestAccountOrdersUnauthorized(t *testing.T) {
	svc := &stubAccountService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")}
	handler := AccountOrders(svc, nil)

	req := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/account/orders", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAccountLogout(t *testing.T) {
	svc := &stubAccountService{}
	handler := AccountLogout(svc, nil)

	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/account/logout", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !svc.loggedOut {
		t.Fatal("expected logout to reach the service")
	}
}
