package repo

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/company/internal/models"
)

func withOrderRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Customer").Preload("Products", byID)
}

func normalizeOrder(o *models.Order) {
	if o.Products == nil {
		o.Products = []models.Product{}
	}
}

func (r *GormRepo) ListOrders(ctx context.Context) ([]models.Order, error) {
	items := make([]models.Order, 0)
	if err := byID(withOrderRelations(r.DB.WithContext(ctx))).Find(&items).Error; err != nil {
		return nil, err
	}
	for i := range items {
		normalizeOrder(&items[i])
	}
	return items, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	return loadOrder(r.DB.WithContext(ctx), id)
}

func loadOrder(db *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	if err := withOrderRelations(db).First(&order, id).Error; err != nil {
		return nil, err
	}
	normalizeOrder(&order)
	return &order, nil
}

// CreateOrder inserts the order row and then its association rows, after
// checking that the customer and every product exist.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order, productIDs []uint) (*models.Order, error) {
	var out *models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkCustomer(tx, order.CustomerID); err != nil {
			return err
		}
		ids, err := checkProducts(tx, productIDs)
		if err != nil {
			return err
		}

		row := models.Order{Subtotal: order.Subtotal, CustomerID: order.CustomerID}
		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return err
		}
		if err := linkProducts(tx, row.ID, ids); err != nil {
			return err
		}

		out, err = loadOrder(tx, row.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateOrder overwrites subtotal and customer of the order. When
// replaceProducts is set the association rows are replaced by productIDs.
// A missing order is reported before any reference is checked.
func (r *GormRepo) UpdateOrder(ctx context.Context, id uint, order *models.Order, productIDs []uint, replaceProducts bool) (*models.Order, error) {
	var out *models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).Where("id = ?", id).Update("subtotal", order.Subtotal)
		if err := notFoundOnZero(res); err != nil {
			return err
		}

		if err := checkCustomer(tx, order.CustomerID); err != nil {
			return err
		}
		var customerID any
		if order.CustomerID != nil {
			customerID = *order.CustomerID
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", id).Update("customer_id", customerID).Error; err != nil {
			return err
		}

		if replaceProducts {
			ids, err := checkProducts(tx, productIDs)
			if err != nil {
				return err
			}
			if err := tx.Where("order_id = ?", id).Delete(&models.OrderProduct{}).Error; err != nil {
				return err
			}
			if err := linkProducts(tx, id, ids); err != nil {
				return err
			}
		}

		var err error
		out, err = loadOrder(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AddProduct links one product to an order. Linking a pair twice is a no-op.
func (r *GormRepo) AddProduct(ctx context.Context, orderID, productID uint) (*models.Order, error) {
	var out *models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Order{}, orderID).Error; err != nil {
			return fmt.Errorf("order %d: %w", orderID, err)
		}
		if err := tx.Select("id").First(&models.Product{}, productID).Error; err != nil {
			return fmt.Errorf("product %d: %w", productID, err)
		}

		link := models.OrderProduct{OrderID: orderID, ProductID: productID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return err
		}

		var err error
		out, err = loadOrder(tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) DeleteOrder(ctx context.Context, id uint) error {
	return r.ExecuteDelete(ctx, OrderDeletePlan(id))
}

func checkCustomer(tx *gorm.DB, id *uint) error {
	if id == nil {
		return nil
	}
	err := tx.Select("id").First(&models.Customer{}, *id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: customer %d", ErrMissingReference, *id)
	}
	return err
}

// checkProducts de-duplicates ids and verifies that each one exists.
func checkProducts(tx *gorm.DB, ids []uint) ([]uint, error) {
	ids = slices.Clone(ids)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	var found []uint
	if err := tx.Model(&models.Product{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		for _, id := range ids {
			if !slices.Contains(found, id) {
				return nil, fmt.Errorf("%w: product %d", ErrMissingReference, id)
			}
		}
	}
	return ids, nil
}

func linkProducts(tx *gorm.DB, orderID uint, productIDs []uint) error {
	if len(productIDs) == 0 {
		return nil
	}
	links := make([]models.OrderProduct, 0, len(productIDs))
	for _, pid := range productIDs {
		links = append(links, models.OrderProduct{OrderID: orderID, ProductID: pid})
	}
	return tx.Create(&links).Error
}
