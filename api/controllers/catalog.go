package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/middas-stores/storefront-gateway/api/responses"
	"github.com/middas-stores/storefront-gateway/api/validators"
	catalogsvc "github.com/middas-stores/storefront-gateway/internal/catalog"
	pkgerrors "github.com/middas-stores/storefront-gateway/pkg/errors"
	"github.com/middas-stores/storefront-gateway/pkg/logger"
)

// CatalogProducts lists the store catalog. `?grouped=true` folds variant
// families into grouped entries the way the storefront grid expects.
func CatalogProducts(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		grouped := r.URL.Query().Get("grouped") == "true"
		products, err := svc.Products(r.Context(), grouped)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"products": products})
	}
}

// CatalogProduct returns one grouped product with its variants, backing the
// product detail page.
func CatalogProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		product, err := svc.Product(r.Context(), chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"product": product})
	}
}

func CatalogCategories(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		categories, err := svc.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"categories": categories})
	}
}

type resolveVariantRequest struct {
	ProductID string            `json:"product_id" validate:"required"`
	Selection map[string]string `json:"selection" validate:"required"`
}

// CatalogResolveVariant resolves a grouped product's attribute selection to
// the single purchasable variant.
func CatalogResolveVariant(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload resolveVariantRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variant, err := svc.ResolveProductVariant(r.Context(), payload.ProductID, payload.Selection)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"variant": variant})
	}
}
