package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-stock-orders/internal/domain"
	"github.com/ariefcatur/go-stock-orders/internal/orders"
)

type orderService interface {
	GetAll(ctx context.Context) ([]domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	Create(ctx context.Context, in orders.CreateInput) (*orders.Receipt, error)
	Update(ctx context.Context, id int64, in orders.UpdateInput) (*orders.Receipt, error)
	Patch(ctx context.Context, id int64, in orders.PatchInput) (*orders.Receipt, error)
	Cancel(ctx context.Context, id int64) (*orders.Receipt, error)
}

type orderCache interface {
	Get(ctx context.Context, id int64) (domain.Order, bool, error)
	Set(ctx context.Context, o domain.Order) error
	Fill(ctx context.Context, o domain.Order) (bool, error)
	Invalidate(ctx context.Context, id int64) error
}

type idempotencyStore interface {
	Lookup(ctx context.Context, key string) (int64, bool, error)
	Remember(ctx context.Context, key string, orderID int64) error
}

type eventPublisher interface {
	Publish(ctx context.Context, eventType string, rc orders.Receipt) error
}

const headerIdempotencyKey = "Idempotency-Key"

// OrdersHandler exposes the order engine. Cache, idempotency and events are
// best effort: once the engine has committed, their failures are only logged.
type OrdersHandler struct {
	svc    orderService
	cache  orderCache
	idem   idempotencyStore
	events eventPublisher
	log    *zap.Logger
}

func NewOrdersHandler(svc orderService, cache orderCache, idem idempotencyStore, events eventPublisher, log *zap.Logger) *OrdersHandler {
	return &OrdersHandler{svc: svc, cache: cache, idem: idem, events: events, log: log}
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Patch("/{id}", h.patch)
	r.Delete("/{id}", h.delete)
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.GetAll(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	ok(w, http.StatusOK, "Orders listed", list)
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	ctx := r.Context()

	// 1) try the cache
	if o, hit, err := h.cache.Get(ctx, id); err != nil {
		h.log.Warn("order cache read failed", zap.Int64("order_id", id), zap.Error(err))
	} else if hit {
		ok(w, http.StatusOK, "Order found", o)
		return
	}

	// 2) fall back to the DB; Fill never replaces a value written by a
	// mutation that committed while this read was in flight.
	o, err := h.svc.GetByID(ctx, id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if _, err := h.cache.Fill(ctx, *o); err != nil {
		h.log.Warn("order cache write failed", zap.Int64("order_id", id), zap.Error(err))
	}
	ok(w, http.StatusOK, "Order found", o)
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var in orders.CreateInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.log, err)
		return
	}
	ctx := r.Context()

	// Fast-path idempotency via Redis; a replay returns the order already placed.
	key := strings.TrimSpace(r.Header.Get(headerIdempotencyKey))
	if key != "" {
		if id, found, err := h.idem.Lookup(ctx, key); err != nil {
			h.log.Warn("idempotency lookup failed", zap.String("key", key), zap.Error(err))
		} else if found {
			o, err := h.svc.GetByID(ctx, id)
			if err != nil {
				writeError(w, h.log, err)
				return
			}
			ok(w, http.StatusOK, "Order already created", o)
			return
		}
	}

	rc, err := h.svc.Create(ctx, in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	if key != "" {
		if err := h.idem.Remember(ctx, key, rc.Order.ID); err != nil {
			h.log.Warn("idempotency store failed", zap.String("key", key), zap.Error(err))
		}
	}
	h.refresh(ctx, rc.Order)
	h.publish(ctx, orders.EventOrderPlaced, rc)

	ok(w, http.StatusCreated, "Order created", rc.Order)
}

func (h *OrdersHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	var in orders.UpdateInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.log, err)
		return
	}
	rc, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	h.refresh(r.Context(), rc.Order)
	h.publish(r.Context(), orders.EventOrderUpdated, rc)
	ok(w, http.StatusOK, "Order updated", rc.Order)
}

func (h *OrdersHandler) patch(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	var in orders.PatchInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.log, err)
		return
	}
	rc, err := h.svc.Patch(r.Context(), id, in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if !in.IsEmpty() {
		h.refresh(r.Context(), rc.Order)
		h.publish(r.Context(), orders.EventOrderUpdated, rc)
	}
	ok(w, http.StatusOK, "Order updated (patch)", rc.Order)
}

func (h *OrdersHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	rc, err := h.svc.Cancel(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	h.invalidate(r.Context(), id)
	h.publish(r.Context(), orders.EventOrderCancelled, rc)
	ok(w, http.StatusOK, "Order deleted", true)
}

// refresh writes the committed order over any cached copy.
func (h *OrdersHandler) refresh(ctx context.Context, o domain.Order) {
	if err := h.cache.Set(ctx, o); err != nil {
		h.log.Warn("order cache write failed", zap.Int64("order_id", o.ID), zap.Error(err))
	}
}

func (h *OrdersHandler) invalidate(ctx context.Context, id int64) {
	if err := h.cache.Invalidate(ctx, id); err != nil {
		h.log.Warn("order cache invalidate failed", zap.Int64("order_id", id), zap.Error(err))
	}
}

func (h *OrdersHandler) publish(ctx context.Context, eventType string, rc *orders.Receipt) {
	if err := h.events.Publish(ctx, eventType, *rc); err != nil {
		h.log.Error("publish order event failed",
			zap.String("event_type", eventType),
			zap.Int64("order_id", rc.Order.ID),
			zap.Error(err),
		)
	}
}
