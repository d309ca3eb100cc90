package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/bkoncius/Book-recommendation-app/internal/models"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Credential{},
		&models.Category{},
		&models.Book{},
		&models.Rating{},
		&models.Comment{},
		&models.Favorite{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
