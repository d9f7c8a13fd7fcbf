package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/GlebRadaev/ledger/docs"
	adminhandlers "github.com/GlebRadaev/ledger/internal/handlers/admin"
	authhandlers "github.com/GlebRadaev/ledger/internal/handlers/auth"
	usershandlers "github.com/GlebRadaev/ledger/internal/handlers/users"
	webhookshandlers "github.com/GlebRadaev/ledger/internal/handlers/webhooks"
	"github.com/GlebRadaev/ledger/internal/service"
	"github.com/GlebRadaev/ledger/pkg/auth"
)

//go:generate mockgen -source=handlers.go -destination=mock_handlers.go -package=handlers

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
}

type UserHandler interface {
	Me(w http.ResponseWriter, r *http.Request)
	Accounts(w http.ResponseWriter, r *http.Request)
	Payments(w http.ResponseWriter, r *http.Request)
}

type AdminHandler interface {
	ListUsers(w http.ResponseWriter, r *http.Request)
	CreateUser(w http.ResponseWriter, r *http.Request)
	GetUser(w http.ResponseWriter, r *http.Request)
	UpdateUser(w http.ResponseWriter, r *http.Request)
	DeleteUser(w http.ResponseWriter, r *http.Request)
	GetPayment(w http.ResponseWriter, r *http.Request)
	AuditAccount(w http.ResponseWriter, r *http.Request)
}

type WebhookHandler interface {
	Payment(w http.ResponseWriter, r *http.Request)
}

type Middleware interface {
	Authenticate(next http.Handler) http.Handler
	RequireAdmin(next http.Handler) http.Handler
}

type Handlers struct {
	AuthHandler    AuthHandler
	UserHandler    UserHandler
	AdminHandler   AdminHandler
	WebhookHandler WebhookHandler
	Middleware     Middleware
	Metrics        http.Handler
}

func New(s *service.Services, metrics http.Handler) *Handlers {
	return &Handlers{
		AuthHandler:    authhandlers.New(s.AuthService),
		UserHandler:    usershandlers.New(s.UserService),
		AdminHandler:   adminhandlers.New(s.UserService, s.WebhookService),
		WebhookHandler: webhookshandlers.New(s.WebhookService),
		Middleware:     auth.NewMiddleware(s.Tokens, s.AuthService),
		Metrics:        metrics,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusTemporaryRedirect)
	})
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	r.Post("/auth/login", h.AuthHandler.Login)
	r.Post("/webhooks/payment", h.WebhookHandler.Payment)

	r.Group(func(r chi.Router) {
		r.Use(h.Middleware.Authenticate)

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", h.UserHandler.Me)
			r.Get("/accounts", h.UserHandler.Accounts)
			r.Get("/payments", h.UserHandler.Payments)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.Middleware.RequireAdmin)
			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.AdminHandler.ListUsers)
				r.Post("/", h.AdminHandler.CreateUser)
				r.Get("/{id}", h.AdminHandler.GetUser)
				r.Put("/{id}", h.AdminHandler.UpdateUser)
				r.Delete("/{id}", h.AdminHandler.DeleteUser)
			})
			r.Get("/payments/{transaction_id}", h.AdminHandler.GetPayment)
			r.Get("/accounts/{id}/audit", h.AdminHandler.AuditAccount)
		})
	})

	return r
}
