// Package orders is the order transaction engine. Every change to an
// order's quantity is mirrored by the opposite change to its product's
// stock inside one unit of work, and validation always precedes mutation.
package orders

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-stock-orders/internal/domain"
)

const tracerName = "github.com/ariefcatur/go-stock-orders/internal/orders"

type userReader interface {
	FindByID(ctx context.Context, id int64) (domain.User, error)
}

type productStore interface {
	FindByID(ctx context.Context, id int64) (domain.Product, error)
	FindByIDForUpdate(ctx context.Context, id int64) (domain.Product, error)
	SetStock(ctx context.Context, id int64, stock int) (domain.Product, error)
}

type orderStore interface {
	FindByID(ctx context.Context, id int64) (domain.Order, error)
	FindByIDForUpdate(ctx context.Context, id int64) (domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	Add(ctx context.Context, o domain.Order) (domain.Order, error)
	Update(ctx context.Context, o domain.Order) (domain.Order, error)
	Remove(ctx context.Context, id int64) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Receipt is the committed order together with its user and product as
// they were read inside the transaction. Product.Stock is the balance after
// the operation.
type Receipt struct {
	Order   domain.Order
	User    domain.User
	Product domain.Product
	// PreviousQuantity is the quantity before an update; zero on create.
	PreviousQuantity int
}

type Service struct {
	log      *zap.Logger
	tracer   trace.Tracer
	users    userReader
	products productStore
	orders   orderStore
	tx       txManager
	now      func() time.Time
}

func NewService(log *zap.Logger, users userReader, products productStore, orders orderStore, tx txManager) *Service {
	return &Service{
		log:      log.With(zap.String("service", "orders")),
		tracer:   otel.Tracer(tracerName),
		users:    users,
		products: products,
		orders:   orders,
		tx:       tx,
		now:      time.Now,
	}
}

func (s *Service) GetAll(ctx context.Context) ([]domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "orders.GetAll")
	defer span.End()

	list, err := s.orders.List(ctx)
	if err != nil {
		return nil, fail(span, err)
	}
	if list == nil {
		list = []domain.Order{}
	}
	return list, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "orders.GetByID")
	defer span.End()

	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	return &o, nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
