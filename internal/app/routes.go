// Package app собирает приложение: HTTP-сервер, маршруты и зависимости.
package app

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/clueapp/subscription-api/internal/http/handlers/account/login"
	"github.com/clueapp/subscription-api/internal/http/handlers/account/profile"
	"github.com/clueapp/subscription-api/internal/http/handlers/account/refresh"
	"github.com/clueapp/subscription-api/internal/http/handlers/account/register"
	"github.com/clueapp/subscription-api/internal/http/handlers/health"
	"github.com/clueapp/subscription-api/internal/http/handlers/subscription/active"
	"github.com/clueapp/subscription-api/internal/http/handlers/subscription/cancel"
	"github.com/clueapp/subscription-api/internal/http/handlers/subscription/history"
	"github.com/clueapp/subscription-api/internal/http/handlers/subscription/plans"
	"github.com/clueapp/subscription-api/internal/http/handlers/subscription/subscribe"
	"github.com/clueapp/subscription-api/internal/http/handlers/subscription/upgrade"
	"github.com/clueapp/subscription-api/internal/http/middlewarectx"
	authservice "github.com/clueapp/subscription-api/internal/services/auth"
	catalogservice "github.com/clueapp/subscription-api/internal/services/catalog"
	ledgerservice "github.com/clueapp/subscription-api/internal/services/ledger"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.AuthService,
	catalogService *catalogservice.CatalogService,
	ledgerService *ledgerservice.LedgerService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	plansHandler := plans.New(logger, catalogService)
	profileHandler := profile.New(logger, authService)

	// Открытые конечные точки
	r.Post("/account/register/", register.New(logger, authService).ServeHTTP)
	r.Post("/account/login/", login.New(logger, authService).ServeHTTP)
	r.Post("/account/login/refresh/", refresh.New(logger, authService).ServeHTTP)
	r.Get("/subscription/plans/", plansHandler.List)

	// Группа с JWT аутентификацией
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(authService, logger))
		r.Use(middlewarectx.RateLimitMiddleware(logger))

		r.Get("/account/", profileHandler.ServeHTTP)
		r.Put("/account/", profileHandler.ServeHTTP)

		r.Post("/subscription/subscribe/{plan_id}/", subscribe.New(logger, ledgerService).ServeHTTP)
		r.Post("/subscription/upgrade/{new_plan_id}/", upgrade.New(logger, ledgerService).ServeHTTP)
		r.Post("/subscription/cancel/", cancel.New(logger, ledgerService).ServeHTTP)
		r.Get("/subscription/active/", active.New(logger, ledgerService).ServeHTTP)
		r.Get("/subscription/history/", history.New(logger, ledgerService).ServeHTTP)

		// Создание планов — административная операция
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireAdmin(logger))
			r.Post("/subscription/plans/", plansHandler.Create)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
