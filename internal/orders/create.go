package orders

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-stock-orders/internal/domain"
)

// Create places an order and takes its quantity out of the product's stock.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "orders.Create")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("order.user_id", in.UserID),
		attribute.Int64("order.product_id", in.ProductID),
		attribute.Int("order.quantity", in.Quantity),
	)

	if err := in.Validate(); err != nil {
		return nil, fail(span, err)
	}

	var rc Receipt
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		user, err := s.users.FindByID(ctx, in.UserID)
		if err != nil {
			return err
		}
		product, err := s.products.FindByIDForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		stock, err := applyDelta(product, in.Quantity)
		if err != nil {
			return err
		}

		if product, err = s.products.SetStock(ctx, product.ID, stock); err != nil {
			return err
		}
		order, err := s.orders.Add(ctx, domain.Order{
			Name:          in.Name,
			Description:   in.Description,
			Address:       in.Address,
			PaymentMethod: in.PaymentMethod,
			Quantity:      in.Quantity,
			OrderDate:     s.now().UTC(),
			UserID:        user.ID,
			ProductID:     product.ID,
		})
		if err != nil {
			return err
		}

		rc = Receipt{Order: order, User: user, Product: product}
		return nil
	})
	if err != nil {
		return nil, fail(span, fmt.Errorf("orders.Create: %w", err))
	}

	span.SetAttributes(attribute.Int64("order.id", rc.Order.ID))
	s.log.Info("order placed",
		zap.Int64("order_id", rc.Order.ID),
		zap.Int64("product_id", rc.Product.ID),
		zap.Int("quantity", rc.Order.Quantity),
		zap.Int("stock", rc.Product.Stock))
	return &rc, nil
}
