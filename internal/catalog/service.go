// Package catalog manages users and products. Product stock is only set at
// creation; afterwards it moves exclusively through order operations.
package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/ariefcatur/go-stock-orders/internal/domain"
)

type userRepo interface {
	FindByID(ctx context.Context, id int64) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Add(ctx context.Context, u domain.User) (domain.User, error)
	Update(ctx context.Context, u domain.User) (domain.User, error)
	Remove(ctx context.Context, id int64) error
}

type productRepo interface {
	FindByID(ctx context.Context, id int64) (domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Add(ctx context.Context, p domain.Product) (domain.Product, error)
	UpdateDetails(ctx context.Context, p domain.Product) (domain.Product, error)
	Remove(ctx context.Context, id int64) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Service struct {
	log      *zap.Logger
	users    userRepo
	products productRepo
	tx       txManager
}

func NewService(log *zap.Logger, users userRepo, products productRepo, tx txManager) *Service {
	return &Service{
		log:      log.With(zap.String("service", "catalog")),
		users:    users,
		products: products,
		tx:       tx,
	}
}
