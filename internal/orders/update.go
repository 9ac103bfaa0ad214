package orders

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-stock-orders/internal/domain"
)

// Update replaces every mutable field and re-syncs stock by the quantity delta.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "orders.Update")
	defer span.End()
	span.SetAttributes(attribute.Int64("order.id", id))

	rc, err := s.mutate(ctx, id, in.Validate, in.apply)
	if err != nil {
		return nil, fail(span, fmt.Errorf("orders.Update: %w", err))
	}
	return rc, nil
}

// Patch changes only the supplied fields. The stock delta applies only when
// quantity is supplied. An empty patch writes nothing.
func (s *Service) Patch(ctx context.Context, id int64, in PatchInput) (*Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "orders.Patch")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("order.id", id),
		attribute.Bool("order.patch_empty", in.IsEmpty()),
	)

	var (
		rc  *Receipt
		err error
	)
	if in.IsEmpty() {
		rc, err = s.current(ctx, id)
	} else {
		rc, err = s.mutate(ctx, id, in.Validate, in.apply)
	}
	if err != nil {
		return nil, fail(span, fmt.Errorf("orders.Patch: %w", err))
	}
	return rc, nil
}

// mutate locks the order and then its product, validates the input, computes
// the stock delta, and writes both only after every check passed. A missing
// order, user or product is reported before an invalid input.
func (s *Service) mutate(ctx context.Context, id int64, validate func() error, change func(domain.Order) domain.Order) (*Receipt, error) {
	var rc Receipt
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		cur, err := s.orders.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		user, err := s.users.FindByID(ctx, cur.UserID)
		if err != nil {
			return err
		}
		product, err := s.products.FindByIDForUpdate(ctx, cur.ProductID)
		if err != nil {
			return err
		}
		if err := validate(); err != nil {
			return err
		}

		next := change(cur)
		delta := stockDelta(cur.Quantity, next.Quantity)
		stock, err := applyDelta(product, delta)
		if err != nil {
			return err
		}

		if delta != 0 {
			if product, err = s.products.SetStock(ctx, product.ID, stock); err != nil {
				return err
			}
		}
		if next != cur {
			if next, err = s.orders.Update(ctx, next); err != nil {
				return err
			}
		}

		rc = Receipt{Order: next, User: user, Product: product, PreviousQuantity: cur.Quantity}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order updated",
		zap.Int64("order_id", rc.Order.ID),
		zap.Int("previous_quantity", rc.PreviousQuantity),
		zap.Int("quantity", rc.Order.Quantity),
		zap.Int("stock", rc.Product.Stock))
	return &rc, nil
}

func (s *Service) current(ctx context.Context, id int64) (*Receipt, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, o.UserID)
	if err != nil {
		return nil, err
	}
	p, err := s.products.FindByID(ctx, o.ProductID)
	if err != nil {
		return nil, err
	}
	return &Receipt{Order: o, User: u, Product: p, PreviousQuantity: o.Quantity}, nil
}
