package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/company/internal/events"
	"github.com/Skotchmaster/company/internal/models"
	"github.com/Skotchmaster/company/internal/repo"
	"github.com/Skotchmaster/company/internal/transport"
)

const entityOrder = "order"

type OrderService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx)
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("order %d", id))
	}
	return order, nil
}

func validateOrder(req transport.OrderRequest) (*models.Order, []uint, error) {
	if req.Subtotal.IsNegative() {
		return nil, nil, fmt.Errorf("%w: subtotal must be >= 0", ErrValidation)
	}
	ids := req.ProductIDs()
	for _, id := range ids {
		if id == 0 {
			return nil, nil, fmt.Errorf("%w: product id required", ErrValidation)
		}
	}
	order := &models.Order{
		Subtotal:   models.Money(req.Subtotal),
		CustomerID: req.CustomerRef(),
	}
	return order, ids, nil
}

func (s *OrderService) CreateOrder(ctx context.Context, req transport.OrderRequest) (*models.Order, error) {
	order, productIDs, err := validateOrder(req)
	if err != nil {
		return nil, err
	}

	order, err = s.Repo.CreateOrder(ctx, order, productIDs)
	if err != nil {
		return nil, classify(err, "order")
	}
	publish(ctx, s.Events, entityOrder, events.Created, order.ID)
	return order, nil
}

// UpdateOrder replaces the product links only when the request carries a
// products array.
func (s *OrderService) UpdateOrder(ctx context.Context, id uint, req transport.OrderRequest) (*models.Order, error) {
	order, productIDs, err := validateOrder(req)
	if err != nil {
		return nil, err
	}

	order, err = s.Repo.UpdateOrder(ctx, id, order, productIDs, req.Products != nil)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("order %d", id))
	}
	publish(ctx, s.Events, entityOrder, events.Updated, id)
	return order, nil
}

func (s *OrderService) AddProduct(ctx context.Context, orderID, productID uint) (*models.Order, error) {
	if productID == 0 {
		return nil, fmt.Errorf("%w: product id required", ErrValidation)
	}

	order, err := s.Repo.AddProduct(ctx, orderID, productID)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("order %d or product %d", orderID, productID))
	}
	publish(ctx, s.Events, entityOrder, events.ProductAdded, orderID)
	return order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteOrder(ctx, id); err != nil {
		return classify(err, fmt.Sprintf("order %d", id))
	}
	publish(ctx, s.Events, entityOrder, events.Deleted, id)
	return nil
}
