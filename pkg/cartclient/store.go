// Package cartclient implements the device-side cart: a guest cart persisted
// locally, a client for the server cart, and the sign-in reconciliation that
// folds the first into the second.
package cartclient

import (
	"context"

	"github.com/google/uuid"
)

// Line is one item reference plus quantity.
type Line struct {
	ItemID   uuid.UUID `json:"itemId"`
	Quantity int       `json:"quantity"`
}

// Snapshot is the full cart state, the shape shared by the wire protocol and
// the local document.
type Snapshot struct {
	Items []Line `json:"items"`
}

// ItemCount is the badge number: the sum of all quantities.
func (s Snapshot) ItemCount() int {
	count := 0
	for _, line := range s.Items {
		count += line.Quantity
	}
	return count
}

func (s Snapshot) quantityOf(itemID uuid.UUID) int {
	for _, line := range s.Items {
		if line.ItemID == itemID {
			return line.Quantity
		}
	}
	return 0
}

// Store is a cart state holder. Both the local guest cart and the server cart
// satisfy it; every mutation returns the resulting full snapshot.
type Store interface {
	Get(ctx context.Context) (Snapshot, error)
	AddItem(ctx context.Context, itemID uuid.UUID, quantity int) (Snapshot, error)
	SetQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (Snapshot, error)
	RemoveItem(ctx context.Context, itemID uuid.UUID) (Snapshot, error)
	Clear(ctx context.Context) (Snapshot, error)
}
