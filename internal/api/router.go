package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"zimmetd/internal/version"
	"zimmetd/pkg/db"
)

// Routes constructs the chi router containing all API endpoints.
func (a *API) Routes(allowedOrigins []string) (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(a.config.RequestTimeout))

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Actor-Id", "X-Actor-Name"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           int((10 * time.Minute).Seconds()),
	}))

	r.Use(httprate.Limit(100, time.Minute))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if a.store.DB != nil {
			if err := db.Ping(req.Context(), a.store.DB); err != nil {
				respondError(w, http.StatusServiceUnavailable, err)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	r.Method("GET", "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/assignments", func(r chi.Router) {
			r.Post("/", a.handleCreateAssignment)
			r.Get("/", a.handleListAssignments)
			r.Get("/{id}", a.handleGetAssignment)
			r.Patch("/{id}", a.handleUpdateAssignment)
			r.Delete("/{id}", a.handleDeleteAssignment)
			r.Post("/{id}/return", a.handleReturnAssignment)
			r.Get("/{id}/form", a.handleFormDownload)
		})
		r.Post("/returns", a.handleReturnMultiple)

		r.Route("/items", func(r chi.Router) {
			r.Post("/", a.handleCreateItem)
			r.Get("/", a.handleListItems)
			r.Get("/{id}", a.handleGetItem)
			r.Patch("/{id}", a.handleUpdateItem)
			r.Delete("/{id}", a.handleDeleteItem)
		})

		r.Route("/personnel", func(r chi.Router) {
			r.Post("/", a.handleCreatePersonnel)
			r.Get("/", a.handleListPersonnel)
			r.Get("/{id}", a.handleGetPersonnel)
			r.Patch("/{id}", a.handleUpdatePersonnel)
			r.Delete("/{id}", a.handleDeletePersonnel)
		})

		r.Route("/companies", func(r chi.Router) {
			r.Post("/", a.handleCreateCompany)
			r.Get("/", a.handleListCompanies)
			r.Get("/{id}", a.handleGetCompany)
			r.Delete("/{id}", a.handleDeleteCompany)
		})

		r.Route("/receipts", func(r chi.Router) {
			r.Get("/{id}", a.handleGetReceipt)
			r.Get("/{id}/document", a.handleReceiptDocument)
		})

		r.Get("/reports/inventory", a.handleInventoryReport)
		r.Get("/audit", a.handleListAudit)
		r.Post("/forms/presign", a.handleFormPresign)
	})

	return otelhttp.NewHandler(r, version.Name), nil
}
