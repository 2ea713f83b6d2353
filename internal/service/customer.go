package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/company/internal/events"
	"github.com/Skotchmaster/company/internal/models"
	"github.com/Skotchmaster/company/internal/repo"
	"github.com/Skotchmaster/company/internal/transport"
)

const entityCustomer = "customer"

type CustomerService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.Repo.ListCustomers(ctx)
}

func (s *CustomerService) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	customer, err := s.Repo.GetCustomer(ctx, id)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("customer %d", id))
	}
	return customer, nil
}

func (s *CustomerService) CreateCustomer(ctx context.Context, req transport.CustomerRequest) (*models.Customer, error) {
	name, err := requireName(req.Name)
	if err != nil {
		return nil, err
	}

	customer, err := s.Repo.CreateCustomer(ctx, &models.Customer{Name: name})
	if err != nil {
		return nil, err
	}
	publish(ctx, s.Events, entityCustomer, events.Created, customer.ID)
	return customer, nil
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, id uint, req transport.CustomerRequest) (*models.Customer, error) {
	name, err := requireName(req.Name)
	if err != nil {
		return nil, err
	}

	customer, err := s.Repo.UpdateCustomer(ctx, id, &models.Customer{Name: name})
	if err != nil {
		return nil, classify(err, fmt.Sprintf("customer %d", id))
	}
	publish(ctx, s.Events, entityCustomer, events.Updated, id)
	return customer, nil
}

// DeleteCustomer removes the customer together with its orders and their
// product links.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteCustomer(ctx, id); err != nil {
		return classify(err, fmt.Sprintf("customer %d", id))
	}
	publish(ctx, s.Events, entityCustomer, events.Deleted, id)
	return nil
}
