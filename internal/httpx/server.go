package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Handlers is every resource mounted under /api/v1.
type Handlers struct {
	Users    *UsersHandler
	Products *ProductsHandler
	Orders   *OrdersHandler
	Audit    *AuditHandler
}

func NewRouter(log *zap.Logger, timeout time.Duration, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(log), middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		if h.Users != nil {
			r.Route("/users", h.Users.Register)
		}
		if h.Products != nil {
			r.Route("/products", h.Products.Register)
		}
		if h.Orders != nil {
			r.Route("/orders", h.Orders.Register)
		}
		if h.Audit != nil {
			r.Route("/audit-logs", h.Audit.Register)
		}
	})
	return r
}

// Instrument wraps h with an otelhttp server span per request.
func Instrument(h http.Handler, serviceName string, tp trace.TracerProvider) http.Handler {
	return otelhttp.NewHandler(h, serviceName, otelhttp.WithTracerProvider(tp))
}
