package httpx

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-stock-orders/internal/catalog"
	"github.com/ariefcatur/go-stock-orders/internal/domain"
)

type productService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, in catalog.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, in catalog.ProductDetailsInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// ProductsHandler never writes stock; stock only moves through orders.
type ProductsHandler struct {
	svc productService
	log *zap.Logger
}

func NewProductsHandler(svc productService, log *zap.Logger) *ProductsHandler {
	return &ProductsHandler{svc: svc, log: log}
}

func (h *ProductsHandler) Register(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	ok(w, http.StatusOK, "Products listed", products)
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	p, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	ok(w, http.StatusOK, "Product found", p)
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.log, err)
		return
	}
	p, err := h.svc.CreateProduct(r.Context(), in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	ok(w, http.StatusCreated, "Product created", p)
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	var in catalog.ProductDetailsInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.log, err)
		return
	}
	p, err := h.svc.UpdateProduct(r.Context(), id, in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	ok(w, http.StatusOK, "Product updated", p)
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, h.log, err)
		return
	}
	ok(w, http.StatusOK, "Product deleted", true)
}
