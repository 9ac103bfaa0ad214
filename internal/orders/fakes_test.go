package orders

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/ariefcatur/go-stock-orders/internal/domain"
)

// memDB holds one lock for the whole store: a transaction owns every row it
// reads, which is at least as strict as per-row FOR UPDATE.
type memDB struct {
	mu       sync.Mutex
	users    map[int64]domain.User
	products map[int64]domain.Product
	orders   map[int64]domain.Order
	nextID   int64
	writes   int
	txCalls  int
}

func newMemDB() *memDB {
	return &memDB{
		users:    map[int64]domain.User{},
		products: map[int64]domain.Product{},
		orders:   map[int64]domain.Order{},
	}
}

func (db *memDB) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.txCalls++

	products, orders, nextID, writes := maps.Clone(db.products), maps.Clone(db.orders), db.nextID, db.writes
	if err := fn(ctx); err != nil {
		db.products, db.orders, db.nextID, db.writes = products, orders, nextID, writes
		return err
	}
	return nil
}

type memUsers struct{ db *memDB }

func (r memUsers) FindByID(_ context.Context, id int64) (domain.User, error) {
	u, ok := r.db.users[id]
	if !ok {
		return domain.User{}, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return u, nil
}

type memProducts struct{ db *memDB }

func (r memProducts) FindByID(_ context.Context, id int64) (domain.Product, error) {
	p, ok := r.db.products[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

func (r memProducts) FindByIDForUpdate(ctx context.Context, id int64) (domain.Product, error) {
	return r.FindByID(ctx, id)
}

var errNegativeStock = errors.New("memdb: negative stock")

func (r memProducts) SetStock(ctx context.Context, id int64, stock int) (domain.Product, error) {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if stock < 0 {
		return domain.Product{}, errNegativeStock
	}
	p.Stock = stock
	r.db.products[id] = p
	r.db.writes++
	return p, nil
}

type memOrders struct{ db *memDB }

func (r memOrders) FindByID(_ context.Context, id int64) (domain.Order, error) {
	o, ok := r.db.orders[id]
	if !ok {
		return domain.Order{}, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
	}
	return o, nil
}

func (r memOrders) FindByIDForUpdate(ctx context.Context, id int64) (domain.Order, error) {
	return r.FindByID(ctx, id)
}

func (r memOrders) List(context.Context) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(r.db.orders))
	for _, o := range r.db.orders {
		out = append(out, o)
	}
	return out, nil
}

func (r memOrders) Add(_ context.Context, o domain.Order) (domain.Order, error) {
	r.db.nextID++
	o.ID = r.db.nextID
	r.db.orders[o.ID] = o
	r.db.writes++
	return o, nil
}

func (r memOrders) Update(ctx context.Context, o domain.Order) (domain.Order, error) {
	if _, err := r.FindByID(ctx, o.ID); err != nil {
		return domain.Order{}, err
	}
	r.db.orders[o.ID] = o
	r.db.writes++
	return o, nil
}

func (r memOrders) Remove(ctx context.Context, id int64) error {
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	delete(r.db.orders, id)
	r.db.writes++
	return nil
}
