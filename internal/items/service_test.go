package items

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shoplite/shoplite-backend/pkg/db/models"
	"github.com/shoplite/shoplite-backend/pkg/enums"
	pkgerrors "github.com/shoplite/shoplite-backend/pkg/errors"
)

func TestCreateRejectsUnknownCategory(t *testing.T) {
	t.Parallel()

	svc := mustItemService(t, newStubItemRepo())
	_, err := svc.Create(context.Background(), CreateItemInput{
		Name:     "Widget",
		Price:    decimal.NewFromFloat(9.99),
		Category: "Gadgets",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	t.Parallel()

	svc := mustItemService(t, newStubItemRepo())
	_, err := svc.Create(context.Background(), CreateItemInput{
		Name:     "Widget",
		Price:    decimal.NewFromFloat(-1),
		Category: "Toys",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateStoresPriceAsCents(t *testing.T) {
	t.Parallel()

	repo := newStubItemRepo()
	svc := mustItemService(t, repo)

	dto, err := svc.Create(context.Background(), CreateItemInput{
		Name:     "Wireless Headphones",
		Price:    decimal.NewFromFloat(79.99),
		Category: "Electronics",
		Stock:    12,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	stored := repo.items[dto.ID]
	if stored.PriceCents != 7999 {
		t.Fatalf("expected 7999 cents, got %d", stored.PriceCents)
	}
	if !dto.Price.Equal(decimal.NewFromFloat(79.99)) {
		t.Fatalf("expected dto price 79.99, got %s", dto.Price)
	}
	if stored.Category != enums.ItemCategoryElectronics {
		t.Fatalf("unexpected category %s", stored.Category)
	}
}

func TestGetUnknownItemIsNotFound(t *testing.T) {
	t.Parallel()

	svc := mustItemService(t, newStubItemRepo())
	_, err := svc.Get(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateKeepsImageWhenOmitted(t *testing.T) {
	t.Parallel()

	repo := newStubItemRepo()
	svc := mustItemService(t, repo)

	created, err := svc.Create(context.Background(), CreateItemInput{
		Name:     "Novel",
		Price:    decimal.NewFromFloat(12.50),
		Category: "Books",
		Image:    "https://example.com/novel.jpg",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(context.Background(), created.ID, UpdateItemInput{
		Name:     "Novel, 2nd ed.",
		Price:    decimal.NewFromFloat(14.00),
		Category: "Books",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Image != "https://example.com/novel.jpg" {
		t.Fatalf("expected image kept, got %q", updated.Image)
	}
	if repo.items[created.ID].PriceCents != 1400 {
		t.Fatalf("expected 1400 cents, got %d", repo.items[created.ID].PriceCents)
	}
}

func TestDeleteUnknownItemIsNotFound(t *testing.T) {
	t.Parallel()

	svc := mustItemService(t, newStubItemRepo())
	err := svc.Delete(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func mustItemService(t *testing.T, repo ItemRepository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

type stubItemRepo struct {
	items map[uuid.UUID]*models.Item
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{items: map[uuid.UUID]*models.Item{}}
}

func (s *stubItemRepo) List(_ context.Context, _ ListFilters) ([]models.Item, int64, error) {
	out := make([]models.Item, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, *item)
	}
	return out, int64(len(out)), nil
}

func (s *stubItemRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Item, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *item
	return &clone, nil
}

func (s *stubItemRepo) Create(_ context.Context, item *models.Item) (*models.Item, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.Image == "" {
		item.Image = models.DefaultItemImage
	}
	clone := *item
	s.items[item.ID] = &clone
	return item, nil
}

func (s *stubItemRepo) Update(_ context.Context, item *models.Item) (*models.Item, error) {
	clone := *item
	s.items[item.ID] = &clone
	return item, nil
}

func (s *stubItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.items, id)
	return nil
}
