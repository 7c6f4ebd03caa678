package domain

import "github.com/shopspring/decimal"

// VariantOrder lists the purchasable weight tiers from smallest to largest.
var VariantOrder = []string{"100g", "250g", "500g", "1kg"}

type Product struct {
	ID          string                     `json:"id"`
	Name        string                     `json:"name"`
	DisplayName string                     `json:"displayName,omitempty"`
	Category    string                     `json:"category"`
	Price       decimal.Decimal            `json:"price"`
	Prices      map[string]decimal.Decimal `json:"prices,omitempty"`
	Image       string                     `json:"image"`
	Description string                     `json:"description,omitempty"`
	Benefits    []string                   `json:"benefits,omitempty"`
	Offer       bool                       `json:"offer,omitempty"`
}

// PriceFor returns the price of the given variant, falling back to the base price.
func (p Product) PriceFor(variant string) decimal.Decimal {
	if price, ok := p.Prices[variant]; ok && price.IsPositive() {
		return price
	}
	return p.Price
}

// Category is a backend category. Subcategories are product names.
type Category struct {
	ID            string   `json:"id,omitempty"`
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories,omitempty"`
	Image         string   `json:"image,omitempty"`
	Color         string   `json:"color,omitempty"`
}

type Brand struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}
