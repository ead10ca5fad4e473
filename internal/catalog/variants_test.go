package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/middas-stores/storefront-gateway/pkg/commerce"
)

func shirtVariants() []commerce.ProductVariant {
	return []commerce.ProductVariant{
		{ID: "v1", Name: "Remera S Negra", Price: decimal.NewFromInt(900), Stock: 5,
			Attributes: map[string]string{"talle": "S", "color": "negro"}},
		{ID: "v2", Name: "Remera M Negra", Price: decimal.NewFromInt(900), Stock: 2,
			Attributes: map[string]string{"talle": "M", "color": "negro"}},
		{ID: "v3", Name: "Remera M Blanca", Price: decimal.NewFromInt(950), Stock: 0,
			Attributes: map[string]string{"talle": "M", "color": "blanco"}},
	}
}

func TestResolveVariantUniqueMatch(t *testing.T) {
	v, err := ResolveVariant(shirtVariants(), map[string]string{"talle": "M", "color": "blanco"})
	require.NoError(t, err)
	require.Equal(t, "v3", v.ID)
}

func TestResolveVariantPartialSelectionUnique(t *testing.T) {
	v, err := ResolveVariant(shirtVariants(), map[string]string{"talle": "S"})
	require.NoError(t, err)
	require.Equal(t, "v1", v.ID)
}

func TestResolveVariantAmbiguous(t *testing.T) {
	_, err := ResolveVariant(shirtVariants(), map[string]string{"talle": "M"})
	require.ErrorIs(t, err, ErrAmbiguousVariant)
}

func TestResolveVariantNoMatch(t *testing.T) {
	_, err := ResolveVariant(shirtVariants(), map[string]string{"color": "rojo"})
	require.ErrorIs(t, err, ErrNoVariantMatch)
}

func TestResolveVariantEmptySelectionAmbiguous(t *testing.T) {
	_, err := ResolveVariant(shirtVariants(), nil)
	require.ErrorIs(t, err, ErrAmbiguousVariant)
}

func TestResolveVariantSingleVariantEmptySelection(t *testing.T) {
	only := shirtVariants()[:1]
	v, err := ResolveVariant(only, nil)
	require.NoError(t, err)
	require.Equal(t, "v1", v.ID)
}

func TestResolveVariantNoVariants(t *testing.T) {
	_, err := ResolveVariant(nil, map[string]string{"talle": "S"})
	require.ErrorIs(t, err, ErrNoVariantMatch)
}
