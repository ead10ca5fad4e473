package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/middas-stores/storefront-gateway/internal/catalog"
	pkgerrors "github.com/middas-stores/storefront-gateway/pkg/errors"
	"github.com/middas-stores/storefront-gateway/pkg/logger"
)

type catalogResolver interface {
	Snapshot(ctx context.Context, productID, variantID string) (*catalog.Snapshot, error)
}

// AddItemInput identifies the product to add. VariantID is set when the
// product is a grouped listing and the customer picked a variant.
type AddItemInput struct {
	ProductID string
	VariantID string
}

// Service applies cart mutations for a session: load, mutate in memory,
// persist, return the updated cart. A failed persist is logged and the
// computed state still returned; local storage trouble must not block the
// customer.
type Service interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (*Cart, bool, error)
	UpdateQuantity(ctx context.Context, sessionID, itemID string, qty int) (*Cart, error)
	RemoveItem(ctx context.Context, sessionID, itemID string) (*Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	repo    Repository
	catalog catalogResolver
	logg    *logger.Logger
}

// NewService builds a cart service over the given repository and catalog.
func NewService(repo Repository, resolver catalogResolver, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("catalog resolver required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, catalog: resolver, logg: logg}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	items, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return New(items), nil
}

func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*Cart, bool, error) {
	if strings.TrimSpace(input.ProductID) == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	snap, err := s.catalog.Snapshot(ctx, input.ProductID, input.VariantID)
	if err != nil {
		return nil, false, err
	}

	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}

	accepted := c.Add(ProductSnapshot{
		ID:       snap.ID,
		Name:     snap.Name,
		Image:    snap.Image,
		Category: snap.Category,
		Price:    snap.Price,
		Stock:    snap.Stock,
	})
	if accepted {
		s.persist(ctx, sessionID, c)
	}
	return c, accepted, nil
}

func (s *service) UpdateQuantity(ctx context.Context, sessionID, itemID string, qty int) (*Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	stock := 0
	found := false
	for _, line := range c.Items() {
		if line.ID == itemID {
			stock = line.Stock
			found = true
			break
		}
	}
	if !found {
		return c, nil
	}

	c.SetQuantity(itemID, qty, stock)
	s.persist(ctx, sessionID, c)
	return c, nil
}

func (s *service) RemoveItem(ctx context.Context, sessionID, itemID string) (*Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c.Quantity(itemID) == 0 {
		return c, nil
	}
	c.Remove(itemID)
	s.persist(ctx, sessionID, c)
	return c, nil
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	return s.repo.Delete(ctx, sessionID)
}

func (s *service) persist(ctx context.Context, sessionID string, c *Cart) {
	if err := s.repo.Save(ctx, sessionID, c.Items()); err != nil {
		ctx = s.logg.WithSessionID(ctx, sessionID)
		s.logg.Error(ctx, "persist cart failed, serving in-memory state", err)
	}
}
