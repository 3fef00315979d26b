package migrate

import "github.com/shoplite/shoplite-backend/pkg/db/models"

// AutoMigrateModels lists every model the sqlite dev/test path needs to build.
func AutoMigrateModels() []any {
	return []any{
		&models.User{},
		&models.Item{},
		&models.Cart{},
		&models.CartLine{},
	}
}
