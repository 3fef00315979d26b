package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoplite/shoplite-backend/pkg/enums"
)

// DefaultItemImage is substituted when a listing carries no image URL.
const DefaultItemImage = "https://via.placeholder.com/300x200?text=No+Image"

// Item represents a catalog listing.
type Item struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Name        string             `gorm:"column:name;not null"`
	Description string             `gorm:"column:description;not null"`
	PriceCents  int64              `gorm:"column:price_cents;not null"`
	Category    enums.ItemCategory `gorm:"column:category;type:text;not null"`
	Image       string             `gorm:"column:image;not null"`
	Stock       int                `gorm:"column:stock;not null;default:0"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *Item) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.Image == "" {
		i.Image = DefaultItemImage
	}
	return nil
}
