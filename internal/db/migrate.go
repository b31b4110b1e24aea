package db

import (
	"fmt"

	"github.com/Mavegui/API-Investimentos/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the cotas table schema.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	if errMigrate := conn.AutoMigrate(&models.Cota{}); errMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errMigrate)
	}
	return nil
}
