package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shoplite/shoplite-backend/internal/repo"
	"github.com/shoplite/shoplite-backend/pkg/db/models"
)

// Repository persists carts and their lines.
type Repository struct {
	repo.Base
}

// NewRepository constructs a cart repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindOrCreateByUser returns the user's cart, creating an empty one on first
// touch. Concurrent first touches race on the user_id unique index; the loser
// re-reads the winner's row.
func (r *Repository) FindOrCreateByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB(ctx).Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = models.Cart{UserID: userID}
	createErr := r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&cart).Error
	if createErr != nil {
		return nil, createErr
	}

	if err := r.DB(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// Lines returns every line of a cart.
func (r *Repository) Lines(ctx context.Context, cartID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := r.DB(ctx).Where("cart_id = ?", cartID).Order("created_at").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// UpsertAdd inserts the line or increments the existing quantity in a single
// atomic statement, so concurrent adds of the same item both land.
func (r *Repository) UpsertAdd(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error {
	line := models.CartLine{CartID: cartID, ItemID: itemID, Quantity: quantity}
	return r.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "item_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity": gorm.Expr("cart_lines.quantity + excluded.quantity"),
		}),
	}).Create(&line).Error
}

// UpsertSet inserts the line or replaces the existing quantity.
func (r *Repository) UpsertSet(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error {
	line := models.CartLine{CartID: cartID, ItemID: itemID, Quantity: quantity}
	return r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_id"}, {Name: "item_id"}},
		DoUpdates: clause.Assignments(map[string]any{"quantity": quantity}),
	}).Create(&line).Error
}

// DeleteLine removes the line if present; deleting an absent line is a no-op.
func (r *Repository) DeleteLine(ctx context.Context, cartID, itemID uuid.UUID) error {
	return r.DB(ctx).
		Where("cart_id = ? AND item_id = ?", cartID, itemID).
		Delete(&models.CartLine{}).Error
}

// ClearLines empties the cart, keeping the cart row itself.
func (r *Repository) ClearLines(ctx context.Context, cartID uuid.UUID) error {
	return r.DB(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartLine{}).Error
}
