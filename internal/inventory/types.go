package inventory

import (
	"encoding/json"
	"fmt"
)

// Variant statuses that carry a usable quantity.
const (
	StatusAvailable   = "Available"
	StatusBackordered = "Backordered"
)

// productEntry is element 0 of the inventory response array.
type productEntry struct {
	TotalInventory *int   `json:"totalInventory"`
	VariantMeta    string `json:"variantMeta"`
}

// Variant is one entry of the string-encoded variantMeta list.
type Variant struct {
	SKU       string           `json:"sku"`
	Inventory []InventoryEntry `json:"inventory"`
}

// InventoryEntry is a quantity tagged with a stock status.
type InventoryEntry struct {
	Status   string `json:"status"`
	Quantity int    `json:"quantity"`
}

// Reading is the normalized content of one inventory response.
type Reading struct {
	TotalQuantity        int
	MaxAvailableQuantity int
	VariantSKU           string
}

// ParseResponse decodes an inventory response body. A body that is not
// JSON wraps ErrUnreachable; JSON without an inventory reading wraps
// ErrMalformedResponse.
func ParseResponse(body []byte) (Reading, error) {
	var entries []productEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return Reading{}, fmt.Errorf("%w: decoding response: %w", ErrUnreachable, err)
	}
	if len(entries) == 0 {
		return Reading{}, fmt.Errorf("%w: empty inventory array", ErrMalformedResponse)
	}

	first := entries[0]
	if first.TotalInventory == nil {
		return Reading{}, fmt.Errorf("%w: missing totalInventory", ErrMalformedResponse)
	}

	var variants []Variant
	if first.VariantMeta != "" {
		if err := json.Unmarshal([]byte(first.VariantMeta), &variants); err != nil {
			return Reading{}, fmt.Errorf("%w: decoding variantMeta: %w", ErrMalformedResponse, err)
		}
	}

	qty, sku := MaxAvailable(variants)
	return Reading{
		TotalQuantity:        *first.TotalInventory,
		MaxAvailableQuantity: qty,
		VariantSKU:           sku,
	}, nil
}

// MaxAvailable returns the first positive Available quantity across all
// variants, in order. Only when no variant has one does it fall back to
// the first positive Backordered quantity. The SKU of the variant that
// supplied the quantity is returned with it; (0, "") means neither was
// found.
func MaxAvailable(variants []Variant) (int, string) {
	for _, status := range []string{StatusAvailable, StatusBackordered} {
		for _, v := range variants {
			for _, e := range v.Inventory {
				if e.Status == status && e.Quantity > 0 {
					return e.Quantity, v.SKU
				}
			}
		}
	}
	return 0, ""
}
