package tracking

import (
	"context"
	"fmt"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/domain"
)

type HistorySource interface {
	UserOrders(ctx context.Context, token string) ([]domain.Order, error)
}

type Session interface {
	Token() string
}

// OrderSummary is one row of the order history page.
type OrderSummary struct {
	Order  domain.Order `json:"order"`
	Status Status       `json:"status"`
}

type History struct {
	orders  HistorySource
	session Session
}

func NewHistory(orders HistorySource, session Session) *History {
	return &History{orders: orders, session: session}
}

// Orders lists the signed-in user's orders in the order the backend returns
// them, each with its tracking status.
func (h *History) Orders(ctx context.Context) ([]OrderSummary, error) {
	token := h.session.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	orders, err := h.orders.UserOrders(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	out := make([]OrderSummary, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderSummary{Order: o, Status: StatusOf(o)})
	}
	return out, nil
}
