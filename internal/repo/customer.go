package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/company/internal/models"
)

func (r *GormRepo) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	items := make([]models.Customer, 0)
	if err := byID(r.DB.WithContext(ctx)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *GormRepo) CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	customer.ID = 0
	if err := r.DB.WithContext(ctx).Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

func (r *GormRepo) UpdateCustomer(ctx context.Context, id uint, customer *models.Customer) (*models.Customer, error) {
	var out models.Customer
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Customer{}).Where("id = ?", id).Updates(map[string]any{
			"name": customer.Name,
		})
		if err := notFoundOnZero(res); err != nil {
			return err
		}
		return tx.First(&out, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *GormRepo) DeleteCustomer(ctx context.Context, id uint) error {
	return r.ExecuteDelete(ctx, CustomerDeletePlan(id))
}
