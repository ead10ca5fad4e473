package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	checkoutsvc "github.com/middas-stores/storefront-gateway/internal/checkout"
	pkgerrors "github.com/middas-stores/storefront-gateway/pkg/errors"
)

type stubCheckoutService struct {
	result      *checkoutsvc.Result
	err         error
	lastSession string
	lastInput   checkoutsvc.SubmitInput
}

func (s *stubCheckoutService) Submit(_ context.Context, sessionID string, input checkoutsvc.SubmitInput) (*checkoutsvc.Result, error) {
	s.lastSession = sessionID
	s.lastInput = input
	return s.result, s.err
}

func TestCheckoutSubmitSuccess(t *testing.T) {
	svc := &stubCheckoutService{result: &checkoutsvc.Result{OrderNumber: "1001", Mode: "direct"}}
	handler := CheckoutSubmit(svc, nil)

	body := `{"name":"Juana Molina","phone":"+54 11 5555-0000","shipping_method":"delivery","payment_method":"cash"}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data checkoutsvc.Result `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderNumber != "1001" {
		t.Fatalf("unexpected order number %q", envelope.Data.OrderNumber)
	}
	if svc.lastInput.Name != "Juana Molina" {
		t.Fatalf("unexpected input name %q", svc.lastInput.Name)
	}
	if svc.lastSession != "sess-1" {
		t.Fatalf("unexpected session %q", svc.lastSession)
	}
}

func TestCheckoutSubmitValidationRejectsMissingName(t *testing.T) {
	svc := &stubCheckoutService{result: &checkoutsvc.Result{OrderNumber: "1001"}}
	handler := CheckoutSubmit(svc, nil)

	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/checkout",
		strings.NewReader(`{"phone":"+54 11 5555-0000"}`)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutSubmitSurfacesBackendMessage(t *testing.T) {
	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeUpstream, "Sin stock")}
	handler := CheckoutSubmit(svc, nil)

	body := `{"name":"Juana Molina","phone":"+54 11 5555-0000"}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "Sin stock" {
		t.Fatalf("expected backend message verbatim, got %q", envelope.Error.Message)
	}
}

func TestCheckoutSubmitConflictWhileInFlight(t *testing.T) {
	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeConflict, "an order is already being submitted")}
	handler := CheckoutSubmit(svc, nil)

	body := `{"name":"Juana Molina","phone":"+54 11 5555-0000"}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}
