package orders

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ariefcatur/go-stock-orders/internal/domain"
)

const (
	userID    int64 = 1
	productID int64 = 10
)

var fixedNow = time.Date(2026, 5, 4, 9, 30, 0, 0, time.FixedZone("TRT", 3*60*60))

func newTestService(t *testing.T, stock int) (*Service, *memDB) {
	t.Helper()
	db := newMemDB()
	db.users[userID] = domain.User{ID: userID, Name: "Ayşe", LastName: "Yılmaz", Email: "ayse@example.com"}
	db.products[productID] = domain.Product{ID: productID, Name: "Lamp", Price: decimal.RequireFromString("12.50"), Stock: stock}

	svc := NewService(zap.NewNop(), memUsers{db}, memProducts{db}, memOrders{db}, db)
	svc.now = func() time.Time { return fixedNow }
	return svc, db
}

func createInput(qty int) CreateInput {
	return CreateInput{
		Name:          "Desk lamp",
		Address:       "Kadıköy, İstanbul",
		PaymentMethod: domain.PaymentCredit,
		Quantity:      qty,
		UserID:        userID,
		ProductID:     productID,
	}
}

func updateInput(qty int) UpdateInput {
	return UpdateInput{
		Name:          "Desk lamp",
		Address:       "Kadıköy, İstanbul",
		PaymentMethod: domain.PaymentCredit,
		Quantity:      qty,
	}
}

func stockOf(db *memDB) int { return db.products[productID].Stock }

func ptr[T any](v T) *T { return &v }

func TestCreate_TakesStock(t *testing.T) {
	svc, db := newTestService(t, 10)

	rc, err := svc.Create(context.Background(), createInput(5))
	require.NoError(t, err)

	assert.Equal(t, 5, stockOf(db))
	assert.Equal(t, 5, rc.Product.Stock)
	assert.Equal(t, 5, rc.Order.Quantity)
	assert.Equal(t, userID, rc.User.ID)
	assert.Equal(t, fixedNow.UTC(), rc.Order.OrderDate)
	assert.Equal(t, time.UTC, rc.Order.OrderDate.Location())
	assert.NotZero(t, rc.Order.ID)
}

func TestCreate_InsufficientStockLeavesLedger(t *testing.T) {
	svc, db := newTestService(t, 3)

	_, err := svc.Create(context.Background(), createInput(5))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var se *domain.InsufficientStockError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 5, se.Requested)
	assert.Equal(t, 3, se.Available)

	assert.Equal(t, 3, stockOf(db))
	assert.Empty(t, db.orders)
}

func TestCreate_ExactStockIsAllowed(t *testing.T) {
	svc, db := newTestService(t, 5)

	_, err := svc.Create(context.Background(), createInput(5))
	require.NoError(t, err)
	assert.Zero(t, stockOf(db))
}

func TestCreate_ValidationPrecedesTransaction(t *testing.T) {
	tests := []struct {
		name  string
		in    CreateInput
		field string
	}{
		{"zero quantity", createInput(0), "quantity"},
		{"negative quantity", createInput(-2), "quantity"},
		{"unknown payment", func() CreateInput { in := createInput(1); in.PaymentMethod = "Cash"; return in }(), "payment_method"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, db := newTestService(t, 10)

			_, err := svc.Create(context.Background(), tt.in)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Errors[0].Field)
			assert.Zero(t, db.txCalls)
			assert.Equal(t, 10, stockOf(db))
		})
	}
}

func TestCreate_MissingReferences(t *testing.T) {
	svc, db := newTestService(t, 10)

	in := createInput(1)
	in.UserID = 99
	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	in = createInput(1)
	in.ProductID = 99
	_, err = svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 10, stockOf(db))
	assert.Empty(t, db.orders)
}

func TestUpdate_StockDeltaSequence(t *testing.T) {
	svc, db := newTestService(t, 10)
	ctx := context.Background()

	rc, err := svc.Create(ctx, createInput(5))
	require.NoError(t, err)
	id := rc.Order.ID
	require.Equal(t, 5, stockOf(db))

	// +3 needs three units; five are available.
	rc, err = svc.Update(ctx, id, updateInput(8))
	require.NoError(t, err)
	assert.Equal(t, 2, stockOf(db))
	assert.Equal(t, 5, rc.PreviousQuantity)
	assert.Equal(t, 8, rc.Order.Quantity)

	// -6 always releases.
	_, err = svc.Update(ctx, id, updateInput(2))
	require.NoError(t, err)
	assert.Equal(t, 8, stockOf(db))
}

func TestUpdate_ReleaseFromScenarioA(t *testing.T) {
	svc, db := newTestService(t, 10)
	ctx := context.Background()

	rc, err := svc.Create(ctx, createInput(5))
	require.NoError(t, err)

	_, err = svc.Update(ctx, rc.Order.ID, updateInput(2))
	require.NoError(t, err)
	assert.Equal(t, 8, stockOf(db))
}

func TestUpdate_IncreaseBeyondStockFails(t *testing.T) {
	svc, db := newTestService(t, 6)
	ctx := context.Background()

	rc, err := svc.Create(ctx, createInput(5))
	require.NoError(t, err)

	in := updateInput(9)
	in.Address = "changed"
	_, err = svc.Update(ctx, rc.Order.ID, in)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 1, stockOf(db))
	assert.Equal(t, 5, db.orders[rc.Order.ID].Quantity)
	assert.Equal(t, "Kadıköy, İstanbul", db.orders[rc.Order.ID].Address)
}

func TestUpdate_SameQuantityLeavesStock(t *testing.T) {
	svc, db := newTestService(t, 10)
	ctx := context.Background()

	rc, err := svc.Create(ctx, createInput(4))
	require.NoError(t, err)
	writes := db.writes

	in := updateInput(4)
	in.PaymentMethod = domain.PaymentCoupon
	got, err := svc.Update(ctx, rc.Order.ID, in)
	require.NoError(t, err)

	assert.Equal(t, 6, stockOf(db))
	assert.Equal(t, domain.PaymentCoupon, got.Order.PaymentMethod)
	assert.Equal(t, writes+1, db.writes, "only the order row is written")
}

func TestUpdate_KeepsImmutableFields(t *testing.T) {
	svc, db := newTestService(t, 10)
	ctx := context.Background()

	rc, err := svc.Create(ctx, createInput(1))
	require.NoError(t, err)
	svc.now = func() time.Time { return fixedNow.Add(time.Hour) }

	got, err := svc.Update(ctx, rc.Order.ID, updateInput(2))
	require.NoError(t, err)
	assert.Equal(t, rc.Order.OrderDate, got.Order.OrderDate)
	assert.Equal(t, userID, db.orders[rc.Order.ID].UserID)
	assert.Equal(t, productID, db.orders[rc.Order.ID].ProductID)
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newTestService(t, 10)

	_, err := svc.Update(context.Background(), 404, updateInput(1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_Validation(t *testing.T) {
	svc, db := newTestService(t, 10)
	ctx := context.Background()

	rc, err := svc.Create(ctx, createInput(3))
	require.NoError(t, err)
	before, writes := db.orders[rc.Order.ID], db.writes

	_, err = svc.Update(ctx, rc.Order.ID, updateInput(0))
	assert.ErrorIs(t, err, domain.ErrValidation)

	bad := updateInput(2)
	bad.PaymentMethod = domain.PaymentMethod("Barter")
	_, err = svc.Update(ctx, rc.Order.ID, bad)
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Equal(t, before, db.orders[rc.Order.ID])
	assert.Equal(t, 7, stockOf(db))
	assert.Equal(t, writes, db.writes)
}

func TestUpdate_MissingOrderWinsOverInvalidInput(t *testing.T) {
	svc, _ := newTestService(t, 10)

	_, err := svc.Update(context.Background(), 404, updateInput(0))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrValidation)
}

func TestPatch_EmptyChangesNothing(t *testing.T) {
	svc, db := newTestService(t, 10)
	ctx := context.Background()

	rc, err := svc.Create(ctx, createInput(3))
	require.NoError(t, err)
	before, writes := db.orders[rc.Order.ID], db.writes

	got, err := svc.Patch(ctx, rc.Order.ID, PatchInput{})
	require.NoError(t, err)

	assert.Equal(t, before, got.Order)
	assert.Equal(t, before, db.orders[rc.Order.ID])
	assert.Equal(t, 7, stockOf(db))
	assert.Equal(t, writes, db.writes)
}

func TestPatch_EmptyOnMissingOrder(t *testing.T) {
	svc, _ := newTestService(t, 10)

	_, err := svc.Patch(context.Background(), 404, PatchInput{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPatch_FieldsWithoutQuantityKeepStock(t *testing.T) {
	svc, db := newTestService(t, 10)
	ctx := context.Background()

	rc, err := svc.Create(ctx, createInput(3))
	require.NoError(t, err)

	got, err := svc.Patch(ctx, rc.Order.ID, PatchInput{
		Address:       ptr("Beşiktaş, İstanbul"),
		PaymentMethod: ptr(domain.PaymentOnArrival),
	})
	require.NoError(t, err)

	assert.Equal(t, "Beşiktaş, İstanbul", got.Order.Address)
	assert.Equal(t, domain.PaymentOnArrival, got.Order.PaymentMethod)
	assert.Equal(t, "Desk lamp", got.Order.Name)
	assert.Equal(t, 3, got.Order.Quantity)
	assert.Equal(t, 7, stockOf(db))
}

func TestPatch_QuantityAppliesDelta(t *testing.T) {
	svc, db := newTestService(t, 10)
	ctx := context.Background()

	rc, err := svc.Create(ctx, createInput(3))
	require.NoError(t, err)

	_, err = svc.Patch(ctx, rc.Order.ID, PatchInput{Quantity: ptr(10)})
	require.NoError(t, err)
	assert.Zero(t, stockOf(db))

	_, err = svc.Patch(ctx, rc.Order.ID, PatchInput{Quantity: ptr(11)})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 10, db.orders[rc.Order.ID].Quantity)
}

func TestPatch_Validation(t *testing.T) {
	svc, db := newTestService(t, 10)
	ctx := context.Background()

	rc, err := svc.Create(ctx, createInput(3))
	require.NoError(t, err)
	before, writes := db.orders[rc.Order.ID], db.writes

	_, err = svc.Patch(ctx, rc.Order.ID, PatchInput{Quantity: ptr(0)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Patch(ctx, rc.Order.ID, PatchInput{PaymentMethod: ptr(domain.PaymentMethod("Barter"))})
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Equal(t, before, db.orders[rc.Order.ID])
	assert.Equal(t, 7, stockOf(db))
	assert.Equal(t, writes, db.writes)
}

func TestPatch_MissingOrderWinsOverInvalidInput(t *testing.T) {
	svc, _ := newTestService(t, 10)

	_, err := svc.Patch(context.Background(), 404, PatchInput{Quantity: ptr(0)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrValidation)
}

func TestDelete_ReleasesStock(t *testing.T) {
	svc, db := newTestService(t, 10)
	ctx := context.Background()

	rc, err := svc.Create(ctx, createInput(5))
	require.NoError(t, err)

	ok, err := svc.Delete(ctx, rc.Order.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 10, stockOf(db))

	_, err = svc.GetByID(ctx, rc.Order.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_NotFound(t *testing.T) {
	svc, _ := newTestService(t, 10)

	ok, err := svc.Delete(context.Background(), 404)
	assert.False(t, ok)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_BrokenReferenceStopsDeletion(t *testing.T) {
	svc, db := newTestService(t, 10)
	ctx := context.Background()

	rc, err := svc.Create(ctx, createInput(2))
	require.NoError(t, err)
	delete(db.users, userID)

	ok, err := svc.Delete(ctx, rc.Order.ID)
	assert.False(t, ok)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, db.orders, rc.Order.ID)
	assert.Equal(t, 8, stockOf(db))
}

func TestCancel_ReturnsRemovedOrder(t *testing.T) {
	svc, _ := newTestService(t, 10)
	ctx := context.Background()

	placed, err := svc.Create(ctx, createInput(4))
	require.NoError(t, err)

	rc, err := svc.Cancel(ctx, placed.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.Order.ID, rc.Order.ID)
	assert.Equal(t, 4, rc.Order.Quantity)
	assert.Equal(t, 10, rc.Product.Stock)
	assert.Equal(t, "ayse@example.com", rc.User.Email)
}

func TestCreateThenDelete_RoundTrip(t *testing.T) {
	for _, qty := range []int{1, 3, 7, 10} {
		svc, db := newTestService(t, 10)
		ctx := context.Background()

		rc, err := svc.Create(ctx, createInput(qty))
		require.NoError(t, err)
		_, err = svc.Delete(ctx, rc.Order.ID)
		require.NoError(t, err)

		assert.Equal(t, 10, stockOf(db), "qty=%d", qty)
	}
}

func TestGetAll_NeverNil(t *testing.T) {
	svc, _ := newTestService(t, 10)

	list, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestConcurrentCreates_OnlyOneWins(t *testing.T) {
	svc, db := newTestService(t, 5)

	var (
		g          errgroup.Group
		successes  atomic.Int32
		outOfStock atomic.Int32
	)
	for range 2 {
		g.Go(func() error {
			_, err := svc.Create(context.Background(), createInput(5))
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock), errors.Is(err, domain.ErrConflict):
				outOfStock.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.EqualValues(t, 1, successes.Load())
	assert.EqualValues(t, 1, outOfStock.Load())
	assert.Zero(t, stockOf(db))
	assert.Len(t, db.orders, 1)
}

func TestConcurrentMixedOperations_StockBalances(t *testing.T) {
	svc, db := newTestService(t, 20)
	ctx := context.Background()

	var g errgroup.Group
	for i := range 40 {
		g.Go(func() error {
			rc, err := svc.Create(ctx, createInput(1+i%4))
			if errors.Is(err, domain.ErrInsufficientStock) {
				return nil
			}
			if err != nil {
				return err
			}
			if i%3 == 0 {
				_, err = svc.Delete(ctx, rc.Order.ID)
				return err
			}
			if i%3 == 1 {
				_, err = svc.Patch(ctx, rc.Order.ID, PatchInput{Quantity: ptr(1)})
			}
			return err
		})
	}
	require.NoError(t, g.Wait())

	held := 0
	for _, o := range db.orders {
		assert.GreaterOrEqual(t, o.Quantity, 1)
		held += o.Quantity
	}
	assert.GreaterOrEqual(t, stockOf(db), 0)
	assert.Equal(t, 20, stockOf(db)+held)
}
