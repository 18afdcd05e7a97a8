package rest

import (
	"log/slog"

	"github.com/frahmantamala/expense-tracker/internal/auth"
	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/summary"
	"github.com/frahmantamala/expense-tracker/internal/transport/middleware"
	"github.com/frahmantamala/expense-tracker/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups everything the router mounts. Nil handlers leave their routes
// unregistered.
type Handlers struct {
	Health   *HealthHandler
	Auth     *auth.Handler
	Category *category.Handler
	Expense  *expense.Handler
	Summary  *summary.Handler
	OpenAPI  []byte
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, logger *slog.Logger) {
	if h.Health == nil {
		h.Health = NewHealthHandler(nil)
	}

	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	if h.OpenAPI != nil {
		router.Get("/openapi.yml", swagger.SpecHandler(h.OpenAPI))
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health.healthCheckHandler)
		r.Get("/ping", h.Health.pingHandler)

		if h.Category != nil {
			r.Get("/categories", h.Category.GetCategories)
		}

		if h.Auth == nil {
			return
		}

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.Expense != nil {
				pr.Route("/expenses", func(er chi.Router) {
					er.Get("/", h.Expense.ListExpenses)
					er.Post("/", h.Expense.CreateExpense)
					er.Get("/years", h.Expense.ListYears)
					er.Get("/{id}", h.Expense.GetExpense)
					er.Put("/{id}", h.Expense.UpdateExpense)
					er.Delete("/{id}", h.Expense.DeleteExpense)
				})
			}

			if h.Summary != nil {
				pr.Get("/dashboard", h.Summary.GetDashboard)
				pr.Get("/reports/monthly", h.Summary.GetMonthlyReport)
			}
		})
	})
}
