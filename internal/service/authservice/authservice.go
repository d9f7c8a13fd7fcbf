package authservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/GlebRadaev/ledger/internal/domain"
	"github.com/GlebRadaev/ledger/pkg/auth"
)

//go:generate mockgen -source=authservice.go -destination=mock_authservice.go -package=authservice

type Repo interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int) (*domain.User, error)
}

type Service struct {
	userRepo    Repo
	hashService auth.HashServiceInterface
	jwtService  auth.JWTServiceInterface
	tokenTTL    time.Duration
}

func New(repo Repo, hashService auth.HashServiceInterface, jwtService auth.JWTServiceInterface, tokenTTL time.Duration) *Service {
	return &Service{
		userRepo:    repo,
		hashService: hashService,
		jwtService:  jwtService,
		tokenTTL:    tokenTTL,
	}
}

var ErrInvalidCredentials = errors.New("invalid credentials")

func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		zap.L().Error("can't find user", zap.Error(err))
		return nil, err
	}
	if user == nil || !s.hashService.ComparePassword(user.PasswordHash, password) {
		zap.L().Info("invalid credentials", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}
	zap.L().Info("user successfully authenticated", zap.String("email", email))
	return user, nil
}

func (s *Service) GenerateToken(userID int) (string, error) {
	token, err := s.jwtService.GenerateJWT(userID, time.Now().Add(s.tokenTTL))
	if err != nil {
		zap.L().Error("can't generate token", zap.Error(err))
		return "", err
	}
	return token, nil
}

// IsAdmin reports whether the token owner still exists and holds admin rights.
func (s *Service) IsAdmin(ctx context.Context, userID int) (bool, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}
	return user.IsAdmin, nil
}
