package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/domain"
)

func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var dtos []categoryDTO
	if err := c.do(ctx, http.MethodGet, "/categories", "", nil, &dtos); err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	out := make([]domain.Category, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var dtos []productDTO
	if err := c.do(ctx, http.MethodGet, "/products", "", nil, &dtos); err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	out := make([]domain.Product, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (c *Client) Brands(ctx context.Context) ([]domain.Brand, error) {
	var dtos []struct {
		Name  flexString `json:"name"`
		Image flexString `json:"image"`
	}
	if err := c.do(ctx, http.MethodGet, "/brands", "", nil, &dtos); err != nil {
		return nil, fmt.Errorf("failed to fetch brands: %w", err)
	}
	out := make([]domain.Brand, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, domain.Brand{Name: string(d.Name), Image: string(d.Image)})
	}
	return out, nil
}

// Subscribe adds email to the newsletter list.
func (c *Client) Subscribe(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	if err := c.do(ctx, http.MethodPost, "/subscribe", "", body, nil); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	return nil
}
