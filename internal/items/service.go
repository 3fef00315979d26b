package items

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shoplite/shoplite-backend/pkg/db/models"
	"github.com/shoplite/shoplite-backend/pkg/enums"
	pkgerrors "github.com/shoplite/shoplite-backend/pkg/errors"
)

// Service is the catalog surface: browse/filter listings, single and batch
// lookup, and listing CRUD. The batch path doubles as the item reference
// resolver the cart view depends on.
type Service interface {
	List(ctx context.Context, filters ListFilters) (*ItemListDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error)
	Create(ctx context.Context, input CreateItemInput) (*ItemDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ItemRepository is the persistence surface the service needs.
type ItemRepository interface {
	List(ctx context.Context, filters ListFilters) ([]models.Item, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	Update(ctx context.Context, item *models.Item) (*models.Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo ItemRepository
}

// NewService constructs the catalog service.
func NewService(repo ItemRepository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "item repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) (*ItemListDTO, error) {
	items, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}
	dto := &ItemListDTO{Items: make([]ItemDTO, 0, len(items)), Total: total}
	for _, item := range items {
		dto.Items = append(dto.Items, toItemDTO(item))
	}
	return dto, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	dto := toItemDTO(*item)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input CreateItemInput) (*ItemDTO, error) {
	category, priceCents, err := validateListing(input.Category, input.Price, input.Stock)
	if err != nil {
		return nil, err
	}

	item := &models.Item{
		Name:        input.Name,
		Description: input.Description,
		PriceCents:  priceCents,
		Category:    category,
		Image:       input.Image,
		Stock:       input.Stock,
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item")
	}
	dto := toItemDTO(*created)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*ItemDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	category, priceCents, err := validateListing(input.Category, input.Price, input.Stock)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}

	item.Name = input.Name
	item.Description = input.Description
	item.PriceCents = priceCents
	item.Category = category
	item.Stock = input.Stock
	if input.Image != "" {
		item.Image = input.Image
	}

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item")
	}
	dto := toItemDTO(*updated)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete item")
	}
	return nil
}

func validateListing(rawCategory string, price decimal.Decimal, stock int) (enums.ItemCategory, int64, error) {
	category, err := enums.ParseItemCategory(rawCategory)
	if err != nil {
		return "", 0, pkgerrors.New(pkgerrors.CodeValidation, "unknown item category").WithDetails(rawCategory)
	}
	if price.IsNegative() {
		return "", 0, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if stock < 0 {
		return "", 0, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}
	return category, dollarsToCents(price), nil
}
