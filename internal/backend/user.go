package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/domain"
)

// Cart returns the account's cart history hydrated with product details.
func (c *Client) Cart(ctx context.Context, token string) ([]domain.CartLine, error) {
	var resp struct {
		Cart []cartItemDTO `json:"cart"`
	}
	if err := c.do(ctx, http.MethodGet, "/user/cart", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch cart history: %w", err)
	}
	out := make([]domain.CartLine, 0, len(resp.Cart))
	for _, item := range resp.Cart {
		out = append(out, item.toDomain())
	}
	return out, nil
}

func (c *Client) AddCartEvent(ctx context.Context, token, productID string) error {
	if err := c.do(ctx, http.MethodPost, "/user/cart/"+url.PathEscape(productID), token, nil, nil); err != nil {
		return fmt.Errorf("failed to record cart add: %w", err)
	}
	return nil
}

func (c *Client) RemoveCartEvent(ctx context.Context, token, productID string) error {
	if err := c.do(ctx, http.MethodDelete, "/user/cart/"+url.PathEscape(productID), token, nil, nil); err != nil {
		return fmt.Errorf("failed to record cart removal: %w", err)
	}
	return nil
}

func (c *Client) Wishlist(ctx context.Context, token string) ([]domain.WishlistEntry, error) {
	var resp struct {
		Wishlist []wishlistEntryDTO `json:"wishlist"`
	}
	if err := c.do(ctx, http.MethodGet, "/user/wishlist", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch wishlist: %w", err)
	}
	out := make([]domain.WishlistEntry, 0, len(resp.Wishlist))
	for _, e := range resp.Wishlist {
		if e.ProductID == "" {
			continue
		}
		out = append(out, domain.WishlistEntry{
			ProductID: string(e.ProductID),
			AddedAt:   parseAddedAt(e.AddedAt),
		})
	}
	return out, nil
}
