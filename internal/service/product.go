package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/company/internal/events"
	"github.com/Skotchmaster/company/internal/models"
	"github.com/Skotchmaster/company/internal/repo"
	"github.com/Skotchmaster/company/internal/search"
	"github.com/Skotchmaster/company/internal/transport"
	"github.com/Skotchmaster/company/pkg/logging"
)

const (
	entityProduct = "product"

	DefaultSearchSize = 20
	MaxSearchSize     = 100
)

type ProductService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Index  search.Index
}

func (s *ProductService) index() search.Index {
	if s.Index == nil {
		return search.Disabled{}
	}
	return s.Index
}

func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx)
}

func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("product %d", id))
	}
	return product, nil
}

func validateProduct(req transport.ProductRequest) (*models.Product, error) {
	name, err := requireName(req.Name)
	if err != nil {
		return nil, err
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	return &models.Product{Name: name, Price: models.Money(req.Price)}, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, req transport.ProductRequest) (*models.Product, error) {
	product, err := validateProduct(req)
	if err != nil {
		return nil, err
	}

	product, err = s.Repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	s.reindex(ctx, *product)
	publish(ctx, s.Events, entityProduct, events.Created, product.ID)
	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id uint, req transport.ProductRequest) (*models.Product, error) {
	product, err := validateProduct(req)
	if err != nil {
		return nil, err
	}

	product, err = s.Repo.UpdateProduct(ctx, id, product)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("product %d", id))
	}
	s.reindex(ctx, *product)
	publish(ctx, s.Events, entityProduct, events.Updated, id)
	return product, nil
}

// DeleteProduct unlinks the product from every order before removing it.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return classify(err, fmt.Sprintf("product %d", id))
	}
	if err := s.index().DeleteProduct(ctx, id); err != nil {
		logging.FromContext(ctx).Warn("search_unindex_failed", "product_id", id, "error", err)
	}
	publish(ctx, s.Events, entityProduct, events.Deleted, id)
	return nil
}

func (s *ProductService) SearchProducts(ctx context.Context, query string, from, size int) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query required", ErrValidation)
	}
	if from < 0 || size < 0 {
		return nil, fmt.Errorf("%w: from and size must be >= 0", ErrValidation)
	}
	if size == 0 {
		size = DefaultSearchSize
	}
	size = min(size, MaxSearchSize)

	res, err := s.index().Search(ctx, query, from, size)
	if err != nil {
		if errors.Is(err, search.ErrDisabled) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, err
	}
	return res.Products, nil
}

func (s *ProductService) reindex(ctx context.Context, p models.Product) {
	if err := s.index().IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "product_id", p.ID, "error", err)
	}
}
