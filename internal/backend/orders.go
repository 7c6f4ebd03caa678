package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/domain"
)

type orderItemPayload struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Variant  string      `json:"variant"`
	Quantity int         `json:"quantity"`
	Price    json.Number `json:"price"`
}

type createOrderPayload struct {
	Items       []orderItemPayload `json:"items"`
	TotalAmount json.Number        `json:"total_amount"`
}

// CreateOrder records an order and returns the id the backend assigned.
func (c *Client) CreateOrder(ctx context.Context, token string, items []domain.OrderItem, total decimal.Decimal) (string, error) {
	payload := createOrderPayload{
		Items:       make([]orderItemPayload, 0, len(items)),
		TotalAmount: json.Number(total.String()),
	}
	for _, it := range items {
		payload.Items = append(payload.Items, orderItemPayload{
			ID:       it.ProductID,
			Name:     it.Name,
			Variant:  it.Variant,
			Quantity: it.Quantity,
			Price:    json.Number(it.Price.String()),
		})
	}

	var resp struct {
		OrderID flexString `json:"order_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/orders", token, payload, &resp); err != nil {
		return "", fmt.Errorf("failed to create order: %w", err)
	}
	if resp.OrderID == "" {
		return "", fmt.Errorf("failed to create order: backend returned no order id")
	}
	return string(resp.OrderID), nil
}

// Order looks an order up by id. The endpoint needs no token.
func (c *Client) Order(ctx context.Context, orderID string) (domain.Order, error) {
	var resp struct {
		Order map[string]interface{} `json:"order"`
	}
	if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID), "", nil, &resp); err != nil {
		return domain.Order{}, fmt.Errorf("failed to fetch order %s: %w", orderID, err)
	}
	return orderFromMap(resp.Order), nil
}

func (c *Client) UserOrders(ctx context.Context, token string) ([]domain.Order, error) {
	var resp struct {
		Orders []map[string]interface{} `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/user/orders", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	out := make([]domain.Order, 0, len(resp.Orders))
	for _, raw := range resp.Orders {
		out = append(out, orderFromMap(raw))
	}
	return out, nil
}
