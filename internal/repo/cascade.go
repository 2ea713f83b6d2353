package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/company/internal/models"
	"github.com/Skotchmaster/company/pkg/logging"
)

// DeleteStep is one statement of a cascading delete.
type DeleteStep struct {
	Name string
	Exec func(tx *gorm.DB) *gorm.DB
}

// DeletePlan lists the statements that remove a root row together with the
// rows that reference it. Dependent rows come first; the last step deletes
// the root row itself and decides whether the root existed.
type DeletePlan struct {
	Entity string
	ID     uint
	Steps  []DeleteStep
}

func (p DeletePlan) StepNames() []string {
	names := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		names[i] = s.Name
	}
	return names
}

func OrderDeletePlan(id uint) DeletePlan {
	return DeletePlan{
		Entity: "order",
		ID:     id,
		Steps: []DeleteStep{
			{Name: "order_products.by_order", Exec: func(tx *gorm.DB) *gorm.DB {
				return tx.Where("order_id = ?", id).Delete(&models.OrderProduct{})
			}},
			{Name: "orders.by_id", Exec: func(tx *gorm.DB) *gorm.DB {
				return tx.Where("id = ?", id).Delete(&models.Order{})
			}},
		},
	}
}

func CustomerDeletePlan(id uint) DeletePlan {
	return DeletePlan{
		Entity: "customer",
		ID:     id,
		Steps: []DeleteStep{
			{Name: "order_products.by_customer", Exec: func(tx *gorm.DB) *gorm.DB {
				orders := tx.Model(&models.Order{}).Select("id").Where("customer_id = ?", id)
				return tx.Where("order_id IN (?)", orders).Delete(&models.OrderProduct{})
			}},
			{Name: "orders.by_customer", Exec: func(tx *gorm.DB) *gorm.DB {
				return tx.Where("customer_id = ?", id).Delete(&models.Order{})
			}},
			{Name: "customers.by_id", Exec: func(tx *gorm.DB) *gorm.DB {
				return tx.Where("id = ?", id).Delete(&models.Customer{})
			}},
		},
	}
}

func ProductDeletePlan(id uint) DeletePlan {
	return DeletePlan{
		Entity: "product",
		ID:     id,
		Steps: []DeleteStep{
			{Name: "order_products.by_product", Exec: func(tx *gorm.DB) *gorm.DB {
				return tx.Where("product_id = ?", id).Delete(&models.OrderProduct{})
			}},
			{Name: "products.by_id", Exec: func(tx *gorm.DB) *gorm.DB {
				return tx.Where("id = ?", id).Delete(&models.Product{})
			}},
		},
	}
}

// ExecuteDelete runs every step of the plan in one transaction. A zero row
// count on the final step rolls the whole plan back and returns
// gorm.ErrRecordNotFound.
func (r *GormRepo) ExecuteDelete(ctx context.Context, plan DeletePlan) error {
	if len(plan.Steps) == 0 {
		return errors.New("delete plan has no steps")
	}
	l := logging.FromContext(ctx).With("cascade", plan.Entity, "id", plan.ID)
	last := len(plan.Steps) - 1

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, step := range plan.Steps {
			res := step.Exec(tx)
			if res.Error != nil {
				return fmt.Errorf("%s: %w", step.Name, res.Error)
			}
			l.Debug("cascade step done", "step", step.Name, "rows", res.RowsAffected)

			if i == last && res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}
