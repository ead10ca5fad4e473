package catalog

import (
	"errors"

	"github.com/middas-stores/storefront-gateway/pkg/commerce"
)

// ErrNoVariantMatch reports that no variant satisfies the selection.
var ErrNoVariantMatch = errors.New("no variant matches the selection")

// ErrAmbiguousVariant reports that the selection narrows to more than one
// variant and needs further attributes.
var ErrAmbiguousVariant = errors.New("selection matches more than one variant")

// ResolveVariant returns the unique variant whose attribute map agrees with
// every key of the selection. It is a pure function: empty and ambiguous
// matches come back as distinct errors so the caller can prompt accordingly.
func ResolveVariant(variants []commerce.ProductVariant, selection map[string]string) (*commerce.ProductVariant, error) {
	var match *commerce.ProductVariant
	for i := range variants {
		if !matchesSelection(variants[i].Attributes, selection) {
			continue
		}
		if match != nil {
			return nil, ErrAmbiguousVariant
		}
		match = &variants[i]
	}
	if match == nil {
		return nil, ErrNoVariantMatch
	}
	return match, nil
}

func matchesSelection(attributes, selection map[string]string) bool {
	for key, want := range selection {
		if attributes[key] != want {
			return false
		}
	}
	return true
}
