package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/shoplite/shoplite-backend/internal/items"
	"github.com/shoplite/shoplite-backend/pkg/config"
	"github.com/shoplite/shoplite-backend/pkg/db"
	"github.com/shoplite/shoplite-backend/pkg/db/models"
	"github.com/shoplite/shoplite-backend/pkg/enums"
	"github.com/shoplite/shoplite-backend/pkg/logger"
	"github.com/shoplite/shoplite-backend/pkg/migrate"
)

var sampleItems = []models.Item{
	{
		Name:        "iPhone 15 Pro",
		Description: "Latest iPhone with advanced camera system and A17 Pro chip",
		PriceCents:  99900,
		Category:    enums.ItemCategoryElectronics,
		Image:       "https://images.unsplash.com/photo-1592750475338-74b7b21085ab?w=300&h=200&fit=crop",
		Stock:       50,
	},
	{
		Name:        "MacBook Air M2",
		Description: "Lightweight laptop with M2 chip for ultimate performance",
		PriceCents:  119900,
		Category:    enums.ItemCategoryElectronics,
		Image:       "https://images.unsplash.com/photo-1541807084-5c52b6b3adef?w=300&h=200&fit=crop",
		Stock:       30,
	},
	{
		Name:        "Nike Air Max 270",
		Description: "Comfortable running shoes with Max Air cushioning",
		PriceCents:  15000,
		Category:    enums.ItemCategoryClothing,
		Image:       "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=300&h=200&fit=crop",
		Stock:       100,
	},
	{
		Name:        "Levi's 501 Jeans",
		Description: "Classic straight-fit jeans in blue denim",
		PriceCents:  8900,
		Category:    enums.ItemCategoryClothing,
		Image:       "https://images.unsplash.com/photo-1542272604-787c3835535d?w=300&h=200&fit=crop",
		Stock:       75,
	},
	{
		Name:        "The Great Gatsby",
		Description: "Classic American novel by F. Scott Fitzgerald",
		PriceCents:  1200,
		Category:    enums.ItemCategoryBooks,
		Image:       "https://images.unsplash.com/photo-1544947950-fa07a98d237f?w=300&h=200&fit=crop",
		Stock:       200,
	},
	{
		Name:        "To Kill a Mockingbird",
		Description: "Harper Lee's masterpiece about justice and childhood",
		PriceCents:  1400,
		Category:    enums.ItemCategoryBooks,
		Image:       "https://images.unsplash.com/photo-1481627834876-b7833e8f5570?w=300&h=200&fit=crop",
		Stock:       150,
	},
	{
		Name:        "Coffee Maker",
		Description: "Programmable drip coffee maker with thermal carafe",
		PriceCents:  7900,
		Category:    enums.ItemCategoryHome,
		Image:       "https://images.unsplash.com/photo-1559056199-641a0ac8b55e?w=300&h=200&fit=crop",
		Stock:       40,
	},
	{
		Name:        "Throw Pillow Set",
		Description: "Set of 4 decorative throw pillows for living room",
		PriceCents:  4500,
		Category:    enums.ItemCategoryHome,
		Image:       "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=300&h=200&fit=crop",
		Stock:       60,
	},
	{
		Name:        "Yoga Mat",
		Description: "Non-slip yoga mat for home workouts",
		PriceCents:  3500,
		Category:    enums.ItemCategorySports,
		Image:       "https://images.unsplash.com/photo-1544367567-0f2fcb009e0b?w=300&h=200&fit=crop",
		Stock:       80,
	},
	{
		Name:        "Dumbbell Set",
		Description: "Adjustable dumbbell set for strength training",
		PriceCents:  19900,
		Category:    enums.ItemCategorySports,
		Image:       "https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b?w=300&h=200&fit=crop",
		Stock:       25,
	},
	{
		Name:        "Skincare Set",
		Description: "Complete skincare routine with cleanser, toner, and moisturizer",
		PriceCents:  8900,
		Category:    enums.ItemCategoryBeauty,
		Image:       "https://images.unsplash.com/photo-1556228720-195a672e8a03?w=300&h=200&fit=crop",
		Stock:       45,
	},
	{
		Name:        "LEGO Creator Set",
		Description: "Build and rebuild 3 different models with this creative set",
		PriceCents:  4900,
		Category:    enums.ItemCategoryToys,
		Image:       "https://images.unsplash.com/photo-1558618666-fcd25c85cd64?w=300&h=200&fit=crop",
		Stock:       90,
	},
}

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		requireResource(ctx, logg, "migrations", err)
	}

	repo := items.NewRepository(dbClient.DB())

	created := 0
	for i := range sampleItems {
		item := sampleItems[i]
		_, err := repo.FindByName(ctx, item.Name)
		if err == nil {
			continue // already seeded
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			requireResource(ctx, logg, "catalog lookup", err)
		}
		if _, err := repo.Create(ctx, &item); err != nil {
			requireResource(ctx, logg, "catalog insert", err)
		}
		created++
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"created": created,
		"total":   len(sampleItems),
	})
	logg.Info(ctx, "catalog seed complete")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
