package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/escolalib/biblio-api/internal/api/middleware"
)

// Handlers bundles the handler set the router mounts.
type Handlers struct {
	Auth         *AuthHandler
	Book         *BookHandler
	Loan         *LoanHandler
	Notification *NotificationHandler
	Asset        *AssetHandler
	Class        *ClassSectorHandler
	User         *UserHandler
	Dashboard    *DashboardHandler
}

// NewRouter builds the HTTP routing tree. Auth endpoints and the health
// check are public; everything else sits behind JWT authentication.
func NewRouter(h Handlers, authMiddleware *middleware.AuthMiddleware) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.TraceMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		// Auth endpoints
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/refresh", h.Auth.Refresh)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Book catalog
			r.Get("/books", h.Book.List)
			r.Post("/books", h.Book.Create)
			r.Get("/books/{id}", h.Book.Get)
			r.Put("/books/{id}", h.Book.Update)
			r.Delete("/books/{id}", h.Book.Delete)

			// Loan ledger
			r.Post("/loans", h.Loan.Checkout)
			r.Post("/loans/{id}/return", h.Loan.Return)
			r.Get("/loans", h.Loan.List)

			// Notifications
			r.Get("/notifications", h.Notification.List)
			r.Post("/notifications/derive", h.Notification.Derive)
			r.Post("/notifications/{id}/read", h.Notification.MarkRead)
			r.Get("/notifications/ws", h.Notification.Serve)

			// Digital assets
			r.Get("/assets", h.Asset.List)
			r.Post("/assets", h.Asset.Create)
			r.Put("/assets/{id}", h.Asset.Update)
			r.Delete("/assets/{id}", h.Asset.Delete)

			// Classes and sectors
			r.Get("/classes", h.Class.List)
			r.Post("/classes", h.Class.Create)
			r.Put("/classes/{id}", h.Class.Update)
			r.Delete("/classes/{id}", h.Class.Delete)

			// Members
			r.Get("/users", h.User.List)
			r.Get("/users/{id}", h.User.Get)
			r.Put("/users/{id}", h.User.Update)
			r.Delete("/users/{id}", h.User.Delete)

			// Dashboard
			r.Get("/dashboard", h.Dashboard.Stats)
		})
	})

	return r
}
