package items

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shoplite/shoplite-backend/pkg/db/models"
	"github.com/shoplite/shoplite-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s/items.db?_busy_timeout=5000", t.TempDir())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&models.Item{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedCatalog(t *testing.T, r *Repository) map[string]uuid.UUID {
	t.Helper()

	fixtures := []models.Item{
		{Name: "Wireless Headphones", Description: "Noise cancelling over-ear", PriceCents: 7999, Category: enums.ItemCategoryElectronics, Stock: 10},
		{Name: "Cotton T-Shirt", Description: "Plain white tee", PriceCents: 1299, Category: enums.ItemCategoryClothing, Stock: 40},
		{Name: "Go Programming Book", Description: "Learn backend development", PriceCents: 3500, Category: enums.ItemCategoryBooks, Stock: 5},
		{Name: "Yoga Mat", Description: "Non-slip exercise mat", PriceCents: 2499, Category: enums.ItemCategorySports, Stock: 15},
	}
	ids := make(map[string]uuid.UUID, len(fixtures))
	for i := range fixtures {
		created, err := r.Create(context.Background(), &fixtures[i])
		if err != nil {
			t.Fatalf("seed %q: %v", fixtures[i].Name, err)
		}
		ids[created.Name] = created.ID
	}
	return ids
}

func TestListFiltersByCategory(t *testing.T) {
	r := NewRepository(newTestDB(t))
	seedCatalog(t, r)

	category := enums.ItemCategoryElectronics
	items, total, err := r.List(context.Background(), ListFilters{Category: &category})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Name != "Wireless Headphones" {
		t.Fatalf("unexpected result: total=%d items=%+v", total, items)
	}
}

func TestListFiltersByPriceRange(t *testing.T) {
	r := NewRepository(newTestDB(t))
	seedCatalog(t, r)

	minPrice := decimal.NewFromFloat(20)
	maxPrice := decimal.NewFromFloat(40)
	items, total, err := r.List(context.Background(), ListFilters{MinPrice: &minPrice, MaxPrice: &maxPrice})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 matches, got %d: %+v", total, items)
	}
	for _, item := range items {
		if item.PriceCents < 2000 || item.PriceCents > 4000 {
			t.Fatalf("item %q out of range: %d cents", item.Name, item.PriceCents)
		}
	}
}

func TestListSearchIsCaseInsensitive(t *testing.T) {
	r := NewRepository(newTestDB(t))
	seedCatalog(t, r)

	items, total, err := r.List(context.Background(), ListFilters{Search: "BACKEND"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || items[0].Name != "Go Programming Book" {
		t.Fatalf("unexpected result: total=%d items=%+v", total, items)
	}
}

func TestListSortsByPriceAscending(t *testing.T) {
	r := NewRepository(newTestDB(t))
	seedCatalog(t, r)

	items, _, err := r.List(context.Background(), ListFilters{SortBy: "price", SortOrder: "asc"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].PriceCents > items[i].PriceCents {
			t.Fatalf("not sorted ascending: %+v", items)
		}
	}
}

func TestListUnknownSortFieldFallsBack(t *testing.T) {
	r := NewRepository(newTestDB(t))
	seedCatalog(t, r)

	if _, _, err := r.List(context.Background(), ListFilters{SortBy: "password_hash; DROP TABLE items"}); err != nil {
		t.Fatalf("list with unknown sort field: %v", err)
	}
}

func TestListByIDsIgnoresOtherFilters(t *testing.T) {
	r := NewRepository(newTestDB(t))
	ids := seedCatalog(t, r)

	category := enums.ItemCategoryToys // matches nothing seeded
	items, total, err := r.List(context.Background(), ListFilters{
		Category: &category,
		IDs:      []uuid.UUID{ids["Yoga Mat"], uuid.New()},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Name != "Yoga Mat" {
		t.Fatalf("unexpected result: total=%d items=%+v", total, items)
	}
}

func TestCreateAppliesPlaceholderImage(t *testing.T) {
	r := NewRepository(newTestDB(t))

	created, err := r.Create(context.Background(), &models.Item{
		Name:       "Bare Listing",
		PriceCents: 100,
		Category:   enums.ItemCategoryHome,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Image != models.DefaultItemImage {
		t.Fatalf("expected placeholder image, got %q", created.Image)
	}
}
