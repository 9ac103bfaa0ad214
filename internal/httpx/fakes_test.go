package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-stock-orders/internal/domain"
	"github.com/ariefcatur/go-stock-orders/internal/orders"
)

type fakeOrders struct {
	order   domain.Order
	onGet   func()
	getErr  error
	mutErr  error
	getHits int
	created int
	patched orders.PatchInput
}

func (f *fakeOrders) GetAll(context.Context) ([]domain.Order, error) {
	return []domain.Order{f.order}, nil
}

func (f *fakeOrders) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	f.getHits++
	if f.getErr != nil {
		return nil, f.getErr
	}
	o := f.order
	o.ID = id
	if f.onGet != nil {
		hook := f.onGet
		f.onGet = nil
		hook()
	}
	return &o, nil
}

func (f *fakeOrders) receipt(o domain.Order) (*orders.Receipt, error) {
	if f.mutErr != nil {
		return nil, f.mutErr
	}
	return &orders.Receipt{Order: o, User: domain.User{ID: o.UserID}, Product: domain.Product{ID: o.ProductID}}, nil
}

func (f *fakeOrders) Create(_ context.Context, in orders.CreateInput) (*orders.Receipt, error) {
	f.created++
	return f.receipt(domain.Order{ID: 42, Name: in.Name, Quantity: in.Quantity, UserID: in.UserID, ProductID: in.ProductID, PaymentMethod: in.PaymentMethod})
}

func (f *fakeOrders) Update(_ context.Context, id int64, in orders.UpdateInput) (*orders.Receipt, error) {
	o := f.order
	o.ID, o.Quantity = id, in.Quantity
	return f.receipt(o)
}

func (f *fakeOrders) Patch(_ context.Context, id int64, in orders.PatchInput) (*orders.Receipt, error) {
	f.patched = in
	o := f.order
	o.ID = id
	return f.receipt(o)
}

func (f *fakeOrders) Cancel(_ context.Context, id int64) (*orders.Receipt, error) {
	o := f.order
	o.ID = id
	return f.receipt(o)
}

type memCache struct {
	mu          sync.Mutex
	items       map[int64]domain.Order
	tombstones  map[int64]bool
	invalidated []int64
}

func newMemCache() *memCache {
	return &memCache{items: map[int64]domain.Order{}, tombstones: map[int64]bool{}}
}

func (c *memCache) Get(_ context.Context, id int64) (domain.Order, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.items[id]
	return o, ok, nil
}

func (c *memCache) Fill(_ context.Context, o domain.Order) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[o.ID]; ok || c.tombstones[o.ID] {
		return false, nil
	}
	c.items[o.ID] = o
	return true, nil
}

func (c *memCache) Set(_ context.Context, o domain.Order) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[o.ID] = o
	delete(c.tombstones, o.ID)
	return nil
}

func (c *memCache) Invalidate(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
	c.tombstones[id] = true
	c.invalidated = append(c.invalidated, id)
	return nil
}

type memIdem map[string]int64

func (m memIdem) Lookup(_ context.Context, key string) (int64, bool, error) {
	id, ok := m[key]
	return id, ok, nil
}

func (m memIdem) Remember(_ context.Context, key string, orderID int64) error {
	m[key] = orderID
	return nil
}

type published struct {
	eventType string
	orderID   int64
}

type recordingPublisher struct {
	events []published
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, rc orders.Receipt) error {
	p.events = append(p.events, published{eventType: eventType, orderID: rc.Order.ID})
	return p.err
}

type fakeAudit struct {
	table, entity string
	start, end    time.Time
	err           error
}

func (f *fakeAudit) List(context.Context) ([]domain.AuditLog, error) {
	return []domain.AuditLog{}, f.err
}

func (f *fakeAudit) ByTable(_ context.Context, table string) ([]domain.AuditLog, error) {
	f.table = table
	return []domain.AuditLog{{TableName: table, Action: domain.AuditAdded}}, f.err
}

func (f *fakeAudit) ByEntity(_ context.Context, table, entityID string) ([]domain.AuditLog, error) {
	f.table, f.entity = table, entityID
	return []domain.AuditLog{{TableName: table, EntityID: entityID}}, f.err
}

func (f *fakeAudit) ByDateRange(_ context.Context, start, end time.Time) ([]domain.AuditLog, error) {
	f.start, f.end = start, end
	return []domain.AuditLog{}, f.err
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func testRouter(h Handlers) http.Handler {
	return NewRouter(zap.NewNop(), 5*time.Second, h)
}
