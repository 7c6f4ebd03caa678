// Package checkout turns the cart into a backend order and a WhatsApp
// confirmation link for the store.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/domain"
)

// DefaultWhatsAppNumber is the store's order desk.
const DefaultWhatsAppNumber = "918778699084"

var (
	ErrNotAuthenticated = errors.New("sign in to place an order")
	ErrEmptyCart        = errors.New("cart is empty")
)

var (
	freeShippingAbove = decimal.NewFromInt(500)
	shippingFee       = decimal.NewFromInt(50)
)

type Cart interface {
	Lines() []domain.CartLine
	Total() decimal.Decimal
	Clear(ctx context.Context) error
}

type Session interface {
	IsAuthenticated() bool
	Token() string
	Identity() domain.Identity
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, token string, items []domain.OrderItem, total decimal.Decimal) (string, error)
}

type Receipt struct {
	OrderID     string             `json:"order_id"`
	Items       []domain.OrderItem `json:"items"`
	Subtotal    decimal.Decimal    `json:"subtotal"`
	Shipping    decimal.Decimal    `json:"shipping"`
	Total       decimal.Decimal    `json:"total"`
	WhatsAppURL string             `json:"whatsapp_url"`
}

type Service struct {
	cart     Cart
	session  Session
	orders   OrderCreator
	whatsapp string
	logger   *zap.Logger
}

func New(cart Cart, session Session, orders OrderCreator, whatsappNumber string, logger *zap.Logger) *Service {
	if whatsappNumber == "" {
		whatsappNumber = DefaultWhatsAppNumber
	}
	return &Service{
		cart:     cart,
		session:  session,
		orders:   orders,
		whatsapp: whatsappNumber,
		logger:   logger.With(zap.String("component", "checkout")),
	}
}

// Shipping is free for orders strictly above 500.
func Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(freeShippingAbove) {
		return decimal.Zero
	}
	return shippingFee
}

// Place submits the cart as an order. The cart is cleared only once the
// backend has accepted the order.
func (s *Service) Place(ctx context.Context) (Receipt, error) {
	if !s.session.IsAuthenticated() {
		return Receipt{}, ErrNotAuthenticated
	}
	lines := s.cart.Lines()
	if len(lines) == 0 {
		return Receipt{}, ErrEmptyCart
	}

	items := make([]domain.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, domain.OrderItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			Variant:   l.Variant,
			Quantity:  l.Quantity,
			Price:     l.UnitPrice,
		})
	}
	subtotal := s.cart.Total()
	shipping := Shipping(subtotal)
	total := subtotal.Add(shipping)

	orderID, err := s.orders.CreateOrder(ctx, s.session.Token(), items, total)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.cart.Clear(ctx); err != nil {
		s.logger.Warn("order placed but cart not cleared", zap.String("order_id", orderID), zap.Error(err))
	}
	s.logger.Info("order placed",
		zap.String("order_id", orderID),
		zap.Int("items", len(items)),
		zap.String("total", total.String()))

	return Receipt{
		OrderID:     orderID,
		Items:       items,
		Subtotal:    subtotal,
		Shipping:    shipping,
		Total:       total,
		WhatsAppURL: s.WhatsAppURL(orderID, s.session.Identity(), items, total),
	}, nil
}

// WhatsAppURL builds the prefilled chat link announcing an order.
func (s *Service) WhatsAppURL(orderID string, who domain.Identity, items []domain.OrderItem, total decimal.Decimal) string {
	msg := Message(orderID, who, items, total)
	text := strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
	return "https://wa.me/" + s.whatsapp + "?text=" + text
}

// Message is the plain text of the order confirmation chat.
func Message(orderID string, who domain.Identity, items []domain.OrderItem, total decimal.Decimal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*New Order: %s*\n\n", orderID)
	b.WriteString("Hello, I would like to confirm my order:\n")
	fmt.Fprintf(&b, "*Customer:* %s\n", who.DisplayName())
	fmt.Fprintf(&b, "*Phone:* %s\n", orNA(who.Phone))
	fmt.Fprintf(&b, "*Address:* %s, %s, %s - %s\n\n", who.Address, who.City, who.State, who.Pincode)
	b.WriteString("*Items:*\n")
	for _, it := range items {
		variant := it.Variant
		if variant == "" {
			variant = "Standard"
		}
		fmt.Fprintf(&b, "• %dx %s (%s)\n", it.Quantity, it.Name, variant)
	}
	fmt.Fprintf(&b, "*Total Value:* ₹%s\n\n", total.String())
	b.WriteString("Please confirm my order.")
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
