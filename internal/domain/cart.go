package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultVariant is the weight tier used when a product carries no tiered prices.
const DefaultVariant = "250g"

type CartLine struct {
	ProductID   string          `json:"id"`
	Variant     string          `json:"variant"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"price"`
	Name        string          `json:"name,omitempty"`
	DisplayName string          `json:"displayName,omitempty"`
	Image       string          `json:"image,omitempty"`
	Category    string          `json:"category,omitempty"`
	AddedAt     *time.Time      `json:"added_at,omitempty"`
}

// LineKey identifies a cart line.
type LineKey struct {
	ProductID string
	Variant   string
}

func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Variant: l.Variant}
}

// Subtotal returns UnitPrice * Quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type WishlistEntry struct {
	ProductID string     `json:"product_id"`
	AddedAt   *time.Time `json:"added_at,omitempty"`
}
