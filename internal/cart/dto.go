package cart

import "github.com/google/uuid"

// CartDTO is the wire shape of a cart: the full list of lines, echoed back by
// every read and mutation.
type CartDTO struct {
	Items []CartLineDTO `json:"items"`
}

// CartLineDTO is one item reference plus quantity.
type CartLineDTO struct {
	ItemID   uuid.UUID `json:"itemId"`
	Quantity int       `json:"quantity"`
}
