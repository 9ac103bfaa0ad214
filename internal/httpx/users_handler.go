package httpx

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-stock-orders/internal/catalog"
	"github.com/ariefcatur/go-stock-orders/internal/domain"
)

type userService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	CreateUser(ctx context.Context, in catalog.UserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, in catalog.UserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type UsersHandler struct {
	svc userService
	log *zap.Logger
}

func NewUsersHandler(svc userService, log *zap.Logger) *UsersHandler {
	return &UsersHandler{svc: svc, log: log}
}

func (h *UsersHandler) Register(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *UsersHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	ok(w, http.StatusOK, "Users listed", users)
}

func (h *UsersHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	u, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	ok(w, http.StatusOK, "User found", u)
}

func (h *UsersHandler) create(w http.ResponseWriter, r *http.Request) {
	var in catalog.UserInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.log, err)
		return
	}
	u, err := h.svc.CreateUser(r.Context(), in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	ok(w, http.StatusCreated, "User created", u)
}

func (h *UsersHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	var in catalog.UserInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.log, err)
		return
	}
	u, err := h.svc.UpdateUser(r.Context(), id, in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	ok(w, http.StatusOK, "User updated", u)
}

func (h *UsersHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if err := h.svc.DeleteUser(r.Context(), id); err != nil {
		writeError(w, h.log, err)
		return
	}
	ok(w, http.StatusOK, "User deleted", true)
}
