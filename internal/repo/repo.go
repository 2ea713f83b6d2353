package repo

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/company/internal/models"
)

// ErrMissingReference is returned when a write points at a customer or
// product that does not exist.
var ErrMissingReference = errors.New("referenced row does not exist")

type GormRepo struct {
	DB *gorm.DB
}

// Migrate creates the customers, products and orders tables plus the
// order_products association table, with their foreign keys.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Order{}, "Products", &models.OrderProduct{}); err != nil {
		return fmt.Errorf("setup order_products: %w", err)
	}
	if err := db.AutoMigrate(&models.Customer{}, &models.Product{}, &models.Order{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func byID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

func notFoundOnZero(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
