package cart

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shoplite/shoplite-backend/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s/cart.db?_busy_timeout=5000", t.TempDir())
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
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&models.Cart{}, &models.CartLine{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestFindOrCreateByUserIsIdempotent(t *testing.T) {
	r := NewRepository(newTestDB(t))
	userID := uuid.New()

	first, err := r.FindOrCreateByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := r.FindOrCreateByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same cart, got %s and %s", first.ID, second.ID)
	}
}

func TestUpsertAddSumsQuantities(t *testing.T) {
	r := NewRepository(newTestDB(t))
	cart, err := r.FindOrCreateByUser(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("cart: %v", err)
	}
	itemID := uuid.New()

	if err := r.UpsertAdd(context.Background(), cart.ID, itemID, 2); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := r.UpsertAdd(context.Background(), cart.ID, itemID, 3); err != nil {
		t.Fatalf("second add: %v", err)
	}

	lines, err := r.Lines(context.Background(), cart.ID)
	if err != nil {
		t.Fatalf("lines: %v", err)
	}
	if len(lines) != 1 || lines[0].Quantity != 5 {
		t.Fatalf("expected one line with quantity 5, got %+v", lines)
	}
}

func TestUpsertAddConcurrentSameItem(t *testing.T) {
	r := NewRepository(newTestDB(t))
	cart, err := r.FindOrCreateByUser(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("cart: %v", err)
	}
	itemID := uuid.New()

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- r.UpsertAdd(context.Background(), cart.ID, itemID, 1)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent add: %v", err)
		}
	}

	lines, err := r.Lines(context.Background(), cart.ID)
	if err != nil {
		t.Fatalf("lines: %v", err)
	}
	if len(lines) != 1 || lines[0].Quantity != workers {
		t.Fatalf("expected one line with quantity %d, got %+v", workers, lines)
	}
}

func TestUpsertSetReplacesQuantity(t *testing.T) {
	r := NewRepository(newTestDB(t))
	cart, err := r.FindOrCreateByUser(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("cart: %v", err)
	}
	itemID := uuid.New()

	if err := r.UpsertAdd(context.Background(), cart.ID, itemID, 4); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := r.UpsertSet(context.Background(), cart.ID, itemID, 1); err != nil {
		t.Fatalf("set: %v", err)
	}

	lines, err := r.Lines(context.Background(), cart.ID)
	if err != nil {
		t.Fatalf("lines: %v", err)
	}
	if len(lines) != 1 || lines[0].Quantity != 1 {
		t.Fatalf("expected quantity 1, got %+v", lines)
	}
}

func TestDeleteLineAbsentIsNoop(t *testing.T) {
	r := NewRepository(newTestDB(t))
	cart, err := r.FindOrCreateByUser(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("cart: %v", err)
	}
	if err := r.DeleteLine(context.Background(), cart.ID, uuid.New()); err != nil {
		t.Fatalf("delete absent: %v", err)
	}
}

func TestClearLinesEmptiesCart(t *testing.T) {
	r := NewRepository(newTestDB(t))
	cart, err := r.FindOrCreateByUser(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("cart: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := r.UpsertAdd(context.Background(), cart.ID, uuid.New(), 1); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if err := r.ClearLines(context.Background(), cart.ID); err != nil {
		t.Fatalf("clear: %v", err)
	}
	lines, err := r.Lines(context.Background(), cart.ID)
	if err != nil {
		t.Fatalf("lines: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected no lines, got %+v", lines)
	}
}
