package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/domain"
)

// Variant is a purchasable weight tier with its sale and list price.
type Variant struct {
	Size          string          `json:"size"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	OriginalPrice decimal.Decimal `json:"original_price"`
}

var markup = decimal.NewFromFloat(1.10)

// Variants lists the priced weight tiers of p, smallest first. A product
// without tier prices is sold as 250g at its base price.
func Variants(p domain.Product) []Variant {
	var out []Variant
	for _, size := range domain.VariantOrder {
		price, ok := p.Prices[size]
		if !ok || !price.IsPositive() {
			continue
		}
		out = append(out, newVariant(size, price))
	}
	if len(out) == 0 {
		out = append(out, newVariant(domain.DefaultVariant, p.Price))
	}
	return out
}

func newVariant(size string, price decimal.Decimal) Variant {
	return Variant{
		Size:          size,
		SalePrice:     price,
		OriginalPrice: price.Mul(markup).Round(0),
	}
}
