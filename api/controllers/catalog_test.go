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

	catalogsvc "github.com/middas-stores/storefront-gateway/internal/catalog"
	pkgerrors "github.com/middas-stores/storefront-gateway/pkg/errors"
)

type stubCatalogService struct {
	products      []catalogsvc.ProductDTO
	categories    []catalogsvc.CategoryDTO
	variant       *catalogsvc.VariantDTO
	err           error
	lastGrouped   bool
	lastProductID string
}

func (s *stubCatalogService) Products(_ context.Context, grouped bool) ([]catalogsvc.ProductDTO, error) {
	s.lastGrouped = grouped
	return s.products, s.err
}

func (s *stubCatalogService) Categories(_ context.Context) ([]catalogsvc.CategoryDTO, error) {
	return s.categories, s.err
}

func (s *stubCatalogService) Product(_ context.Context, id string) (*catalogsvc.ProductDTO, error) {
	s.lastProductID = id
	if s.err != nil {
		return nil, s.err
	}
	if len(s.products) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &s.products[0], nil
}

func (s *stubCatalogService) Snapshot(_ context.Context, _, _ string) (*catalogsvc.Snapshot, error) {
	return nil, s.err
}

func (s *stubCatalogService) ResolveProductVariant(_ context.Context, _ string, _ map[string]string) (*catalogsvc.VariantDTO, error) {
	return s.variant, s.err
}

func (s *stubCatalogService) Refresh(_ context.Context) error {
	return s.err
}

func TestCatalogProductsGroupedQuery(t *testing.T) {
	svc := &stubCatalogService{products: []catalogsvc.ProductDTO{
		{ID: "p1", Name: "Yerba", Price: decimal.NewFromInt(1200), Stock: 8},
	}}
	handler := CatalogProducts(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products?grouped=true", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !svc.lastGrouped {
		t.Fatal("expected grouped listing requested")
	}

	var envelope struct {
		Data struct {
			Products []catalogsvc.ProductDTO `json:"products"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Products) != 1 || envelope.Data.Products[0].ID != "p1" {
		t.Fatalf("unexpected products payload: %+v", envelope.Data.Products)
	}
}

func TestCatalogProductsFlatByDefault(t *testing.T) {
	svc := &stubCatalogService{}
	handler := CatalogProducts(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastGrouped {
		t.Fatal("expected flat listing by default")
	}
}

func TestCatalogCategories(t *testing.T) {
	svc := &stubCatalogService{categories: []catalogsvc.CategoryDTO{{ID: "c1", Name: "Almacen"}}}
	handler := CatalogCategories(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/categories", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCatalogDependencyFailure(t *testing.T) {
	svc := &stubCatalogService{err: pkgerrors.New(pkgerrors.CodeDependency, "commerce backend unreachable")}
	handler := CatalogProducts(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestCatalogResolveVariant(t *testing.T) {
	svc := &stubCatalogService{variant: &catalogsvc.VariantDTO{ID: "v2", Name: "Remera M"}}
	handler := CatalogResolveVariant(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/resolve-variant",
		strings.NewReader(`{"product_id":"g1","selection":{"talle":"M"}}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data struct {
			Variant catalogsvc.VariantDTO `json:"variant"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Variant.ID != "v2" {
		t.Fatalf("unexpected variant %q", envelope.Data.Variant.ID)
	}
}

func TestCatalogResolveVariantRequiresBody(t *testing.T) {
	handler := CatalogResolveVariant(&stubCatalogService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/resolve-variant",
		strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCatalogProductByID(t *testing.T) {
	svc := &stubCatalogService{products: []catalogsvc.ProductDTO{
		{ID: "g1", Name: "Remera", Stock: 5},
	}}
	router := chi.NewRouter()
	router.Get("/api/v1/catalog/products/{productID}", CatalogProduct(svc, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products/g1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastProductID != "g1" {
		t.Fatalf("expected lookup for g1 got %q", svc.lastProductID)
	}

	var envelope struct {
		Data struct {
			Product catalogsvc.ProductDTO `json:"product"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Product.ID != "g1" {
		t.Fatalf("unexpected product %q", envelope.Data.Product.ID)
	}
}

func TestCatalogProductNotFound(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/api/v1/catalog/products/{productID}", CatalogProduct(&stubCatalogService{}, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products/missing", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
