package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/middas-stores/storefront-gateway/pkg/commerce"
	pkgerrors "github.com/middas-stores/storefront-gateway/pkg/errors"
	"github.com/middas-stores/storefront-gateway/pkg/logger"
)

type commerceAPI interface {
	Products(ctx context.Context, grouped bool) ([]commerce.Product, error)
	Categories(ctx context.Context) ([]commerce.Category, error)
}

// cacheStore is the slice of the redis client the catalog uses. A nil cache
// disables caching; every read then goes upstream.
type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CatalogKey(parts ...string) string
}

// Service serves the store catalog with a short-lived cache in front of the
// commerce backend. Cached stock is a hint for the UI; the backend stays
// authoritative at order time.
type Service interface {
	Products(ctx context.Context, grouped bool) ([]ProductDTO, error)
	Categories(ctx context.Context) ([]CategoryDTO, error)
	Product(ctx context.Context, id string) (*ProductDTO, error)
	Snapshot(ctx context.Context, productID, variantID string) (*Snapshot, error)
	ResolveProductVariant(ctx context.Context, productID string, selection map[string]string) (*VariantDTO, error)
	Refresh(ctx context.Context) error
}

type service struct {
	api      commerceAPI
	cache    cacheStore
	cacheTTL time.Duration
	logg     *logger.Logger
}

// NewService builds a catalog service. cache may be nil.
func NewService(api commerceAPI, cache cacheStore, cacheTTL time.Duration, logg *logger.Logger) (Service, error) {
	if api == nil {
		return nil, fmt.Errorf("commerce api required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{api: api, cache: cache, cacheTTL: cacheTTL, logg: logg}, nil
}

func (s *service) Products(ctx context.Context, grouped bool) ([]ProductDTO, error) {
	products, err := s.fetchProducts(ctx, grouped)
	if err != nil {
		return nil, err
	}
	out := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, fromProduct(p))
	}
	return out, nil
}

func (s *service) Categories(ctx context.Context) ([]CategoryDTO, error) {
	key := ""
	if s.cache != nil {
		key = s.cache.CatalogKey("categories")
		var cached []commerce.Category
		if s.readCache(ctx, key, &cached) {
			return mapCategories(cached), nil
		}
	}

	categories, err := s.api.Categories(ctx)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, key, categories)
	return mapCategories(categories), nil
}

func (s *service) Product(ctx context.Context, id string) (*ProductDTO, error) {
	products, err := s.fetchProducts(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.ID == id {
			dto := fromProduct(p)
			return &dto, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

// Snapshot resolves the purchasable unit behind an add-to-cart request. For a
// grouped product the variant id is mandatory and becomes the cart line id.
func (s *service) Snapshot(ctx context.Context, productID, variantID string) (*Snapshot, error) {
	products, err := s.fetchProducts(ctx, true)
	if err != nil {
		return nil, err
	}

	for _, p := range products {
		if snap := snapshotFromProduct(p, productID, variantID); snap != nil {
			return snap, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func snapshotFromProduct(p commerce.Product, productID, variantID string) *Snapshot {
	category := ""
	if p.Category != nil {
		category = p.Category.Name
	}

	if p.ID == productID {
		if !p.IsGroup {
			return &Snapshot{
				ID:       p.ID,
				Name:     p.Name,
				Image:    imageURL(p.Image),
				Category: category,
				Price:    p.Price,
				Stock:    p.Stock,
			}
		}
		for _, v := range p.Variants {
			if v.ID == variantID {
				return variantSnapshot(p, v, category)
			}
		}
		return nil
	}

	// The UI may address a variant directly by its own id.
	for _, v := range p.Variants {
		if v.ID == productID {
			return variantSnapshot(p, v, category)
		}
	}
	return nil
}

func variantSnapshot(p commerce.Product, v commerce.ProductVariant, category string) *Snapshot {
	name := v.Name
	if name == "" {
		name = p.Name
	}
	image := v.Image
	if image == "" {
		image = imageURL(p.Image)
	}
	return &Snapshot{
		ID:       v.ID,
		Name:     name,
		Image:    image,
		Category: category,
		Price:    v.Price,
		Stock:    v.Stock,
	}
}

func (s *service) ResolveProductVariant(ctx context.Context, productID string, selection map[string]string) (*VariantDTO, error) {
	products, err := s.fetchProducts(ctx, true)
	if err != nil {
		return nil, err
	}

	for _, p := range products {
		if p.ID != productID {
			continue
		}
		if !p.IsGroup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product has no variants")
		}
		variant, err := ResolveVariant(p.Variants, selection)
		if err != nil {
			switch {
			case errors.Is(err, ErrNoVariantMatch):
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no variant matches the selection")
			case errors.Is(err, ErrAmbiguousVariant):
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "selection matches more than one variant")
			}
			return nil, err
		}
		return &VariantDTO{
			ID:         variant.ID,
			Name:       variant.Name,
			Price:      variant.Price,
			Stock:      variant.Stock,
			Image:      variant.Image,
			Attributes: variant.Attributes,
		}, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

// Refresh pre-warms both catalog caches, aggregating upstream failures.
func (s *service) Refresh(ctx context.Context) error {
	var errs error
	if _, err := s.Products(ctx, true); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("refresh products: %w", err))
	}
	if _, err := s.Categories(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("refresh categories: %w", err))
	}
	return errs
}

func (s *service) fetchProducts(ctx context.Context, grouped bool) ([]commerce.Product, error) {
	key := ""
	if s.cache != nil {
		mode := "flat"
		if grouped {
			mode = "grouped"
		}
		key = s.cache.CatalogKey("products", mode)
		var cached []commerce.Product
		if s.readCache(ctx, key, &cached) {
			return cached, nil
		}
	}

	products, err := s.api.Products(ctx, grouped)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, key, products)
	return products, nil
}

// readCache reports whether dest was populated from the cache. Cache errors
// only ever degrade to an upstream read.
func (s *service) readCache(ctx context.Context, key string, dest any) bool {
	if s.cache == nil || key == "" {
		return false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("discarding malformed catalog cache entry %s", key))
		return false
	}
	return true
}

func (s *service) writeCache(ctx context.Context, key string, value any) {
	if s.cache == nil || key == "" {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("catalog cache write failed for %s", key))
	}
}

func mapCategories(categories []commerce.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		out = append(out, fromCategory(c))
	}
	return out
}
