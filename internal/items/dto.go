package items

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shoplite/shoplite-backend/pkg/db/models"
	"github.com/shoplite/shoplite-backend/pkg/enums"
)

// ItemDTO is the wire shape of a catalog item. Price is exposed in dollars,
// derived from the stored cent amount.
type ItemDTO struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Price       decimal.Decimal    `json:"price"`
	Category    enums.ItemCategory `json:"category"`
	Image       string             `json:"image"`
	Stock       int                `json:"stock"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// ItemListDTO wraps a filtered listing with its total match count.
type ItemListDTO struct {
	Items []ItemDTO `json:"items"`
	Total int64     `json:"total"`
}

// CreateItemInput carries a validated create request.
type CreateItemInput struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Image       string          `json:"image" validate:"omitempty,url"`
	Stock       int             `json:"stock" validate:"gte=0"`
}

// UpdateItemInput carries a validated update request. All fields are applied;
// partial updates are not supported.
type UpdateItemInput struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Image       string          `json:"image" validate:"omitempty,url"`
	Stock       int             `json:"stock" validate:"gte=0"`
}

func toItemDTO(item models.Item) ItemDTO {
	return ItemDTO{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       centsToDollars(item.PriceCents),
		Category:    item.Category,
		Image:       item.Image,
		Stock:       item.Stock,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func centsToDollars(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

func dollarsToCents(price decimal.Decimal) int64 {
	return price.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
