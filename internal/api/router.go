// Package api wires the HTTP surface: routing, middleware and handlers.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kabucount/kabucount/internal/api/handlers"
	custommiddleware "github.com/kabucount/kabucount/internal/api/middleware"
	"github.com/kabucount/kabucount/internal/config"
	"github.com/kabucount/kabucount/internal/service"
)

// Services bundles the service dependencies the router hands to handlers.
type Services struct {
	System       *service.SystemService
	Transactions *service.TransactionService
	Positions    *service.PositionService
	Funds        *service.FundService
	Groups       *service.FundingGroupService
	Tax          *service.TaxService
	History      *service.HistoryService
}

// NewRouter creates and configures the HTTP router
func NewRouter(services Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		systemHandler := handlers.NewSystemHandler(services.System)
		r.Get("/health", systemHandler.Health)

		r.Route("/transactions", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(services.Transactions)
			r.Get("/", transactionHandler.List)
			r.Post("/", transactionHandler.Create)
			r.Post("/round-yield", transactionHandler.RoundTripYield)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", transactionHandler.Get)
				r.Put("/", transactionHandler.Update)
				r.Patch("/", transactionHandler.Update)
				r.Delete("/", transactionHandler.Delete)
			})
		})

		positionHandler := handlers.NewPositionHandler(services.Positions)
		r.Get("/positions", positionHandler.List)

		r.Route("/funds", func(r chi.Router) {
			fundHandler := handlers.NewFundHandler(services.Funds, services.History)
			r.Get("/", fundHandler.Snapshots)
			r.Get("/history", fundHandler.History)
		})

		r.Route("/funding-groups", func(r chi.Router) {
			groupHandler := handlers.NewFundingGroupHandler(services.Groups)
			r.Get("/", groupHandler.List)
			r.Post("/", groupHandler.Create)

			r.Route("/adjustments/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Delete("/", groupHandler.DeleteAdjustment)
			})

			r.Route("/{name}", func(r chi.Router) {
				r.Get("/", groupHandler.Get)
				r.Put("/", groupHandler.Update)
				r.Patch("/", groupHandler.Update)
				r.Delete("/", groupHandler.Delete)
				r.Get("/adjustments", groupHandler.ListAdjustments)
				r.Post("/adjustments", groupHandler.CreateAdjustment)
			})
		})

		r.Route("/tax/settlements", func(r chi.Router) {
			taxHandler := handlers.NewTaxHandler(services.Tax)
			r.Get("/", taxHandler.List)
			r.Post("/", taxHandler.Create)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", taxHandler.Get)
				r.Put("/", taxHandler.Update)
				r.Patch("/", taxHandler.Update)
				r.Delete("/", taxHandler.Delete)
			})
		})
	})

	return r
}
