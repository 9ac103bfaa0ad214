package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ariefcatur/go-stock-orders/internal/domain"
)

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog.ListProducts: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("catalog.GetProduct: %w", err)
	}
	return &p, nil
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var created domain.Product
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.products.Add(ctx, domain.Product{
			Name:        in.Name,
			Description: in.Description,
			Price:       in.Price,
			Stock:       in.Stock,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("catalog.CreateProduct: %w", err)
	}

	s.log.Info("product created",
		zap.Int64("product_id", created.ID),
		zap.Int("stock", created.Stock))
	return &created, nil
}

// UpdateProduct changes name, description and price. Stock is left alone.
func (s *Service) UpdateProduct(ctx context.Context, id int64, in ProductDetailsInput) (*domain.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var updated domain.Product
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.products.UpdateDetails(ctx, domain.Product{
			ID:          id,
			Name:        in.Name,
			Description: in.Description,
			Price:       in.Price,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("catalog.UpdateProduct: %w", err)
	}
	return &updated, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.products.Remove(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("catalog.DeleteProduct: %w", err)
	}

	s.log.Info("product deleted", zap.Int64("product_id", id))
	return nil
}
