package cartclient

import (
	"context"
	"iter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MissingItemName labels a cart line whose item the catalog no longer knows.
const MissingItemName = "Item not found"

// DisplayItem is one renderable cart row: the stored line joined with the
// catalog's current view of the item. It is derived on demand and never
// persisted.
type DisplayItem struct {
	ItemID    uuid.UUID
	Name      string
	Price     decimal.Decimal
	Image     string
	Stock     int
	Quantity  int
	LineTotal decimal.Decimal
	// Missing marks a stale reference rendered as a removable placeholder.
	Missing bool
}

// Projector joins cart snapshots with the catalog.
type Projector struct {
	resolver Resolver
}

// NewProjector builds a projector over the given resolver.
func NewProjector(resolver Resolver) *Projector {
	return &Projector{resolver: resolver}
}

// Project resolves the snapshot's item references in one batch call and
// returns a lazy, one-shot sequence of display rows in cart order. Stale
// references become placeholder rows rather than disappearing, so the user
// can still remove them.
func (p *Projector) Project(ctx context.Context, snap Snapshot) (iter.Seq[DisplayItem], error) {
	ids := make([]uuid.UUID, 0, len(snap.Items))
	for _, line := range snap.Items {
		ids = append(ids, line.ItemID)
	}

	resolved := map[uuid.UUID]ResolvedItem{}
	if p.resolver != nil && len(ids) > 0 {
		var err error
		resolved, err = p.resolver.ResolveMany(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	lines := snap.Items
	return func(yield func(DisplayItem) bool) {
		for _, line := range lines {
			if !yield(displayRow(line, resolved)) {
				return
			}
		}
	}, nil
}

// Total sums price times quantity across rows. Missing rows contribute zero,
// so a stale reference never inflates the total.
func Total(rows []DisplayItem) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		if row.Missing {
			continue
		}
		total = total.Add(row.LineTotal)
	}
	return total
}

func displayRow(line Line, resolved map[uuid.UUID]ResolvedItem) DisplayItem {
	item, ok := resolved[line.ItemID]
	if !ok {
		return DisplayItem{
			ItemID:    line.ItemID,
			Name:      MissingItemName,
			Price:     decimal.Zero,
			Quantity:  line.Quantity,
			LineTotal: decimal.Zero,
			Missing:   true,
		}
	}
	return DisplayItem{
		ItemID:    line.ItemID,
		Name:      item.Name,
		Price:     item.Price,
		Image:     item.Image,
		Stock:     item.Stock,
		Quantity:  line.Quantity,
		LineTotal: item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
	}
}
