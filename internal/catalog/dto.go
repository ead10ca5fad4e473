package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/middas-stores/storefront-gateway/pkg/commerce"
)

// ProductDTO is the gateway's catalog entry, flattened for the storefront UI.
type ProductDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Category    string          `json:"category,omitempty"`
	CategoryID  string          `json:"category_id,omitempty"`
	Stock       int             `json:"stock"`
	Featured    bool            `json:"featured,omitempty"`

	IsGroup         bool                `json:"is_group,omitempty"`
	VariantCount    int                 `json:"variant_count,omitempty"`
	PriceRange      *PriceRangeDTO      `json:"price_range,omitempty"`
	Attributes      []string            `json:"attributes,omitempty"`
	AttributeValues map[string][]string `json:"attribute_values,omitempty"`
	Variants        []VariantDTO        `json:"variants,omitempty"`
}

// PriceRangeDTO spans the cheapest and dearest variant of a grouped product.
type PriceRangeDTO struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

type VariantDTO struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Price      decimal.Decimal   `json:"price"`
	Stock      int               `json:"stock"`
	Image      string            `json:"image,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type CategoryDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Snapshot is the purchasable view of a product or variant handed to the
// cart: the id the backend expects on order items plus the price and stock
// hint current at add time.
type Snapshot struct {
	ID       string
	Name     string
	Image    string
	Category string
	Price    decimal.Decimal
	Stock    int
}

func fromProduct(p commerce.Product) ProductDTO {
	dto := ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       imageURL(p.Image),
		Stock:       p.Stock,
		Featured:    p.Featured,
		IsGroup:     p.IsGroup,
	}
	if p.Category != nil {
		dto.Category = p.Category.Name
		dto.CategoryID = p.Category.ID
	}
	if !p.IsGroup {
		return dto
	}

	dto.Attributes = p.Attributes
	dto.AttributeValues = p.AttributeValues
	dto.VariantCount = len(p.Variants)
	dto.Variants = make([]VariantDTO, 0, len(p.Variants))
	stock := 0
	for i, v := range p.Variants {
		dto.Variants = append(dto.Variants, VariantDTO{
			ID:         v.ID,
			Name:       v.Name,
			Price:      v.Price,
			Stock:      v.Stock,
			Image:      v.Image,
			Attributes: v.Attributes,
		})
		stock += v.Stock
		if i == 0 {
			dto.PriceRange = &PriceRangeDTO{Min: v.Price, Max: v.Price}
			continue
		}
		if v.Price.LessThan(dto.PriceRange.Min) {
			dto.PriceRange.Min = v.Price
		}
		if v.Price.GreaterThan(dto.PriceRange.Max) {
			dto.PriceRange.Max = v.Price
		}
	}
	dto.Stock = stock
	return dto
}

func fromCategory(c commerce.Category) CategoryDTO {
	return CategoryDTO{ID: c.ID, Name: c.Name}
}

func imageURL(img *commerce.ProductImage) string {
	if img == nil {
		return ""
	}
	if img.Thumbnails != nil && img.Thumbnails.Medium != "" {
		return img.Thumbnails.Medium
	}
	return img.URL
}
