package items

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoplite/shoplite-backend/internal/repo"
	"github.com/shoplite/shoplite-backend/pkg/db/models"
)

// Repository persists catalog items.
type Repository struct {
	repo.Base
}

// NewRepository constructs an item repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// List applies the filters and returns matching items plus the total match
// count. The ids path bypasses every other filter.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]models.Item, int64, error) {
	if len(filters.IDs) > 0 {
		items, err := r.FindByIDs(ctx, filters.IDs)
		if err != nil {
			return nil, 0, err
		}
		return items, int64(len(items)), nil
	}

	query := r.DB(ctx).Model(&models.Item{})
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.MinPrice != nil {
		query = query.Where("price_cents >= ?", dollarsToCents(*filters.MinPrice))
	}
	if filters.MaxPrice != nil {
		query = query.Where("price_cents <= ?", dollarsToCents(*filters.MaxPrice))
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Item
	if err := query.Order(filters.orderClause()).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// FindByID loads a single item.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.DB(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByIDs batch-loads items; unknown ids are absent from the result.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.Item
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Create inserts a new item row.
func (r *Repository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.DB(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Update saves the full item row.
func (r *Repository) Update(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.DB(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.Item{}).Error
}

// FindByName loads an item by exact name. Used by the seeder to stay
// idempotent.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Item, error) {
	var item models.Item
	if err := r.DB(ctx).First(&item, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
