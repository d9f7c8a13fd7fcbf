package service

import (
	"context"

	"github.com/GlebRadaev/ledger/internal/config"
	"github.com/GlebRadaev/ledger/internal/handlers/admin"
	"github.com/GlebRadaev/ledger/internal/handlers/auth"
	"github.com/GlebRadaev/ledger/internal/handlers/users"
	"github.com/GlebRadaev/ledger/internal/handlers/webhooks"
	"github.com/GlebRadaev/ledger/internal/pg"
	"github.com/GlebRadaev/ledger/internal/repo"
	"github.com/GlebRadaev/ledger/internal/service/authservice"
	"github.com/GlebRadaev/ledger/internal/service/userservice"
	"github.com/GlebRadaev/ledger/internal/service/webhookservice"
	pkgauth "github.com/GlebRadaev/ledger/pkg/auth"
	"github.com/GlebRadaev/ledger/pkg/signature"
)

type AuthService interface {
	auth.Service
	pkgauth.AdminChecker
}

type UserService interface {
	users.Service
	admin.UserService
}

type WebhookService interface {
	webhooks.Service
	admin.LedgerService
}

type Seeder interface {
	Seed(ctx context.Context) error
}

type Services struct {
	AuthService    AuthService
	UserService    UserService
	WebhookService WebhookService
	Seeder         Seeder
	Tokens         pkgauth.JWTServiceInterface
}

func New(cfg *config.Config, repo *repo.Repositories, txManager pg.TXManager, recorder webhookservice.Recorder) *Services {
	hashService := pkgauth.NewHashService(0)
	jwtService := pkgauth.NewJWTService(cfg.JWTSecret)

	userService := userservice.New(repo.UserRepo, repo.LedgerRepo, hashService, txManager)

	return &Services{
		AuthService:    authservice.New(repo.UserRepo, hashService, jwtService, cfg.TokenTTL),
		UserService:    userService,
		WebhookService: webhookservice.New(repo.LedgerRepo, txManager, signature.New(cfg.WebhookSecret), recorder),
		Seeder:         userService,
		Tokens:         jwtService,
	}
}
