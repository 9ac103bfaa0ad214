package orders

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Delete removes the order and releases its full quantity back to stock.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	rc, err := s.Cancel(ctx, id)
	return rc != nil, err
}

// Cancel is Delete returning what was removed, for after-commit
// notifications. The order's user and product must both still resolve.
func (s *Service) Cancel(ctx context.Context, id int64) (*Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "orders.Delete")
	defer span.End()
	span.SetAttributes(attribute.Int64("order.id", id))

	var rc Receipt
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		order, err := s.orders.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		user, err := s.users.FindByID(ctx, order.UserID)
		if err != nil {
			return err
		}
		product, err := s.products.FindByIDForUpdate(ctx, order.ProductID)
		if err != nil {
			return err
		}
		stock, err := applyDelta(product, -order.Quantity)
		if err != nil {
			return err
		}

		if product, err = s.products.SetStock(ctx, product.ID, stock); err != nil {
			return err
		}
		if err := s.orders.Remove(ctx, order.ID); err != nil {
			return err
		}

		rc = Receipt{Order: order, User: user, Product: product, PreviousQuantity: order.Quantity}
		return nil
	})
	if err != nil {
		return nil, fail(span, fmt.Errorf("orders.Delete: %w", err))
	}

	s.log.Info("order deleted",
		zap.Int64("order_id", id),
		zap.Int("released", rc.Order.Quantity),
		zap.Int("stock", rc.Product.Stock))
	return &rc, nil
}
