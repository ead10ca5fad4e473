package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/middas-stores/storefront-gateway/api/middleware"
	cartsvc "github.com/middas-stores/storefront-gateway/internal/cart"
	pkgerrors "github.com/middas-stores/storefront-gateway/pkg/errors"
)

type stubCartService struct {
	cart     *cartsvc.Cart
	accepted bool
	err      error

	lastSession string
	lastAdd     cartsvc.AddItemInput
	lastItemID  string
	lastQty     int
	cleared     bool
}

func (s *stubCartService) Get(_ context.Context, sessionID string) (*cartsvc.Cart, error) {
	s.lastSession = sessionID
	return s.cart, s.err
}

func (s *stubCartService) AddItem(_ context.Context, sessionID string, input cartsvc.AddItemInput) (*cartsvc.Cart, bool, error) {
	s.lastSession = sessionID
	s.lastAdd = input
	return s.cart, s.accepted, s.err
}

func (s *stubCartService) UpdateQuantity(_ context.Context, sessionID, itemID string, qty int) (*cartsvc.Cart, error) {
	s.lastSession = sessionID
	s.lastItemID = itemID
	s.lastQty = qty
	return s.cart, s.err
}

func (s *stubCartService) RemoveItem(_ context.Context, sessionID, itemID string) (*cartsvc.Cart, error) {
	s.lastSession = sessionID
	s.lastItemID = itemID
	return s.cart, s.err
}

func (s *stubCartService) Clear(_ context.Context, sessionID string) error {
	s.lastSession = sessionID
	s.cleared = true
	return s.err
}

func seededCart() *cartsvc.Cart {
	c := cartsvc.New([]cartsvc.LineItem{
		{ID: "p1", Name: "Yerba", Price: decimal.NewFromInt(100), Stock: 8, Quantity: 2},
		{ID: "p2", Name: "Azucar", Price: decimal.NewFromInt(50), Stock: 3, Quantity: 1},
	})
	return c
}

func withSession(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithSessionID(req.Context(), "sess-1"))
}

func TestCartGetReturnsView(t *testing.T) {
	svc := &stubCartService{cart: seededCart()}
	handler := CartGet(svc, nil)

	req := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TotalItems != 3 {
		t.Fatalf("expected total_items 3, got %d", envelope.Data.TotalItems)
	}
	if !envelope.Data.TotalPrice.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected total_price 250, got %s", envelope.Data.TotalPrice)
	}
	if svc.lastSession != "sess-1" {
		t.Fatalf("expected session forwarded, got %q", svc.lastSession)
	}
}

func TestCartGetMissingSession(t *testing.T) {
	handler := CartGet(&stubCartService{cart: seededCart()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}

func TestCartAddItemAccepted(t *testing.T) {
	svc := &stubCartService{cart: seededCart(), accepted: true}
	handler := CartAddItem(svc, nil, nil)

	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items",
		strings.NewReader(`{"product_id":"p1"}`)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data addItemResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Accepted {
		t.Fatal("expected accepted flag")
	}
	if svc.lastAdd.ProductID != "p1" {
		t.Fatalf("unexpected product id %q", svc.lastAdd.ProductID)
	}
}

func TestCartAddItemRefusedIsNotAnError(t *testing.T) {
	svc := &stubCartService{cart: seededCart(), accepted: false}
	handler := CartAddItem(svc, nil, nil)

	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items",
		strings.NewReader(`{"product_id":"p1"}`)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data addItemResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Accepted {
		t.Fatal("expected refusal")
	}
}

func TestCartAddItemRejectsMissingProductID(t *testing.T) {
	handler := CartAddItem(&stubCartService{cart: seededCart()}, nil, nil)

	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items",
		strings.NewReader(`{}`)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartUpdateItemRoutesQuantity(t *testing.T) {
	svc := &stubCartService{cart: seededCart()}

	router := chi.NewRouter()
	router.Patch("/api/v1/cart/items/{itemID}", CartUpdateItem(svc, nil, nil))

	req := withSession(httptest.NewRequest(http.MethodPatch, "/api/v1/cart/items/p2",
		strings.NewReader(`{"quantity":3}`)))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastItemID != "p2" || svc.lastQty != 3 {
		t.Fatalf("unexpected call: item=%q qty=%d", svc.lastItemID, svc.lastQty)
	}
}

func TestCartRemoveItem(t *testing.T) {
	svc := &stubCartService{cart: seededCart()}

	router := chi.NewRouter()
	router.Delete("/api/v1/cart/items/{itemID}", CartRemoveItem(svc, nil, nil))

	req := withSession(httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/p1", nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastItemID != "p1" {
		t.Fatalf("unexpected item id %q", svc.lastItemID)
	}
}

func TestCartClear(t *testing.T) {
	svc := &stubCartService{cart: seededCart()}
	handler := CartClear(svc, nil, nil)

	req := withSession(httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !svc.cleared {
		t.Fatal("expected clear to reach the service")
	}

	var envelope struct {
		Data cartView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Items) != 0 {
		t.Fatalf("expected empty cart view, got %d items", len(envelope.Data.Items))
	}
}

func TestCartErrorMapping(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := CartAddItem(svc, nil, nil)

	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items",
		strings.NewReader(`{"product_id":"ghost"}`)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
