package userservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/ledger/internal/domain"
	"github.com/GlebRadaev/ledger/internal/pg"
	"github.com/GlebRadaev/ledger/pkg/auth"
)

//go:generate mockgen -source=userservice.go -destination=mock_userservice.go -package=userservice

type UserRepo interface {
	FindByID(ctx context.Context, id int) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id int) error
}

type AccountRepo interface {
	CreateAccount(ctx context.Context, accountID, userID int, initialBalance decimal.Decimal) (*domain.Account, error)
	ListAccountsByUser(ctx context.Context, userID int) ([]domain.Account, error)
	ListPaymentsByUser(ctx context.Context, userID int) ([]domain.Payment, error)
}

type Service struct {
	userRepo    UserRepo
	accountRepo AccountRepo
	hashService auth.HashServiceInterface
	txManager   pg.TXManager
}

func New(userRepo UserRepo, accountRepo AccountRepo, hashService auth.HashServiceInterface, txManager pg.TXManager) *Service {
	return &Service{
		userRepo:    userRepo,
		accountRepo: accountRepo,
		hashService: hashService,
		txManager:   txManager,
	}
}

var (
	ErrEmailExists  = errors.New("email already exists")
	ErrUserNotFound = errors.New("user not found")
)

type CreateUserInput struct {
	Email    string
	Password string
	FullName *string
	IsAdmin  bool
}

// UpdateUserInput leaves a field unchanged when it is nil.
type UpdateUserInput struct {
	Password *string
	FullName *string
	IsAdmin  *bool
}

func (s *Service) GetUser(ctx context.Context, id int) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		zap.L().Error("failed to get user", zap.Error(err))
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		zap.L().Error("failed to list users", zap.Error(err))
		return nil, err
	}
	return users, nil
}

func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	hash, err := s.hashService.HashPassword(in.Password)
	if err != nil {
		zap.L().Error("can't hash password", zap.Error(err))
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, &domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		IsAdmin:      in.IsAdmin,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			zap.L().Info("email already exists", zap.String("email", in.Email))
			return nil, ErrEmailExists
		}
		return nil, err
	}
	zap.L().Info("user created", zap.Int("userID", user.ID), zap.Bool("isAdmin", user.IsAdmin))
	return user, nil
}

func (s *Service) GetUserWithAccounts(ctx context.Context, id int) (*domain.UserWithAccounts, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListAccountsByUser(ctx, id)
	if err != nil {
		zap.L().Error("failed to list accounts", zap.Error(err))
		return nil, err
	}
	return &domain.UserWithAccounts{User: *user, Accounts: accounts}, nil
}

func (s *Service) UpdateUser(ctx context.Context, id int, in UpdateUserInput) (*domain.User, error) {
	var updated *domain.User
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		user, err := s.GetUser(ctx, id)
		if err != nil {
			return err
		}
		if in.Password != nil && *in.Password != "" {
			hash, err := s.hashService.HashPassword(*in.Password)
			if err != nil {
				return err
			}
			user.PasswordHash = hash
		}
		if in.FullName != nil {
			user.FullName = in.FullName
		}
		if in.IsAdmin != nil {
			user.IsAdmin = *in.IsAdmin
		}

		updated, err = s.userRepo.Update(ctx, user)
		if errors.Is(err, domain.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			zap.L().Error("failed to update user", zap.Int("userID", id), zap.Error(err))
		}
		return nil, err
	}
	return updated, nil
}

// DeleteUser removes the user; accounts and payments go with it.
func (s *Service) DeleteUser(ctx context.Context, id int) error {
	err := s.userRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrUserNotFound
		}
		zap.L().Error("failed to delete user", zap.Int("userID", id), zap.Error(err))
		return err
	}
	zap.L().Info("user deleted", zap.Int("userID", id))
	return nil
}

func (s *Service) ListAccounts(ctx context.Context, userID int) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByUser(ctx, userID)
	if err != nil {
		zap.L().Error("failed to list accounts", zap.Error(err))
		return nil, err
	}
	return accounts, nil
}

func (s *Service) ListPayments(ctx context.Context, userID int) ([]domain.Payment, error) {
	payments, err := s.accountRepo.ListPaymentsByUser(ctx, userID)
	if err != nil {
		zap.L().Error("failed to list payments", zap.Error(err))
		return nil, err
	}
	return payments, nil
}

type seedUser struct {
	email    string
	fullName string
	isAdmin  bool
	balance  int64
}

var seedUsers = []seedUser{
	{email: "testuser@example.com", fullName: "Test User", balance: 100},
	{email: "testadmin@example.com", fullName: "Test Admin", isAdmin: true, balance: 500},
}

const seedPassword = "123"

// Seed creates the demo user and admin with one account each, keyed by the
// user id. It does nothing when any user exists.
func (s *Service) Seed(ctx context.Context) error {
	return s.txManager.Begin(ctx, func(ctx context.Context) error {
		count, err := s.userRepo.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			zap.L().Info("data already initialized", zap.Int("users", count))
			return nil
		}

		for _, su := range seedUsers {
			fullName := su.fullName
			user, err := s.CreateUser(ctx, CreateUserInput{
				Email:    su.email,
				Password: seedPassword,
				FullName: &fullName,
				IsAdmin:  su.isAdmin,
			})
			if err != nil {
				return fmt.Errorf("seed user %s: %w", su.email, err)
			}
			if _, err := s.accountRepo.CreateAccount(ctx, user.ID, user.ID, decimal.NewFromInt(su.balance)); err != nil {
				return fmt.Errorf("seed account for %s: %w", su.email, err)
			}
		}
		zap.L().Info("test data initialized")
		return nil
	})
}
