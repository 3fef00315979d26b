package cart

import (
	"context"

	"github.com/google/uuid"

	"github.com/shoplite/shoplite-backend/pkg/db/models"
	pkgerrors "github.com/shoplite/shoplite-backend/pkg/errors"
)

// Service is the server-authoritative cart store: one cart per identity,
// mutated only through these five operations. Item existence and stock are
// deliberately not checked here; stale references resolve to "not found" at
// read time in the catalog.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error)
	SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
}

// CartRepository is the persistence surface the service needs.
type CartRepository interface {
	FindOrCreateByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	Lines(ctx context.Context, cartID uuid.UUID) ([]models.CartLine, error)
	UpsertAdd(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error
	UpsertSet(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error
	DeleteLine(ctx context.Context, cartID, itemID uuid.UUID) error
	ClearLines(ctx context.Context, cartID uuid.UUID) error
}

type service struct {
	repo CartRepository
}

// NewService constructs the cart service.
func NewService(repo CartRepository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart repository is required")
	}
	return &service{repo: repo}, nil
}

// Get returns the identity's cart, creating an empty one if none exists.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.cartFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.snapshot(ctx, cart.ID)
}

// AddItem sums quantity into any existing line for the item.
func (s *service) AddItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error) {
	if err := validateItemID(itemID); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	cart, err := s.cartFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpsertAdd(ctx, cart.ID, itemID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart line")
	}
	return s.snapshot(ctx, cart.ID)
}

// SetQuantity sets the line's quantity directly; zero removes the line.
func (s *service) SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error) {
	if err := validateItemID(itemID); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, userID, itemID)
	}

	cart, err := s.cartFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpsertSet(ctx, cart.ID, itemID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set cart line quantity")
	}
	return s.snapshot(ctx, cart.ID)
}

// RemoveItem drops the line; removing an absent line is a no-op.
func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error) {
	if err := validateItemID(itemID); err != nil {
		return nil, err
	}

	cart, err := s.cartFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteLine(ctx, cart.ID, itemID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
	}
	return s.snapshot(ctx, cart.ID)
}

// Clear empties the cart, keeping the cart record.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.cartFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ClearLines(ctx, cart.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return s.snapshot(ctx, cart.ID)
}

func (s *service) cartFor(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	cart, err := s.repo.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

func (s *service) snapshot(ctx context.Context, cartID uuid.UUID) (*CartDTO, error) {
	lines, err := s.repo.Lines(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart lines")
	}
	dto := &CartDTO{Items: make([]CartLineDTO, 0, len(lines))}
	for _, line := range lines {
		dto.Items = append(dto.Items, CartLineDTO{ItemID: line.ItemID, Quantity: line.Quantity})
	}
	return dto, nil
}

func validateItemID(itemID uuid.UUID) error {
	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	return nil
}
