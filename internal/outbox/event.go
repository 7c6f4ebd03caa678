// Package outbox delivers best-effort notifications to remote collaborators.
// Events are sent once; failures are logged and never retried.
package outbox

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindCartAdd    Kind = "cart.add"
	KindCartRemove Kind = "cart.remove"
	KindLogout     Kind = "session.logout"
)

type Event struct {
	ID        uuid.UUID `json:"id"`
	Kind      Kind      `json:"kind"`
	ProductID string    `json:"product_id,omitempty"`
	Token     string    `json:"-"`
	At        time.Time `json:"at"`
}

func NewEvent(kind Kind, token, productID string) Event {
	return Event{
		ID:        uuid.New(),
		Kind:      kind,
		ProductID: productID,
		Token:     token,
		At:        time.Now().UTC(),
	}
}
