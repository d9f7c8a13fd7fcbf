package userrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/ledger/internal/domain"
	"github.com/GlebRadaev/ledger/internal/pg"
)

const userColumns = "id, email, password_hash, full_name, is_admin, created_at, updated_at"

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.IsAdmin, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (repo *Repository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(repo.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find user by email", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (repo *Repository) FindByID(ctx context.Context, id int) (*domain.User, error) {
	user, err := scanUser(repo.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find user", zap.Int("userID", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (repo *Repository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := repo.db.Query(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		zap.L().Error("can't list users", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			zap.L().Error("can't scan user row", zap.Error(err))
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (repo *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := repo.db.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		zap.L().Error("can't count users", zap.Error(err))
		return 0, err
	}
	return n, nil
}

func (repo *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (email, password_hash, full_name, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := repo.db.QueryRow(ctx, query, user.Email, user.PasswordHash, user.FullName, user.IsAdmin).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if pg.IsUniqueViolation(err) {
			return nil, fmt.Errorf("email %s: %w", user.Email, domain.ErrConflict)
		}
		zap.L().Error("can't save user", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (repo *Repository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		UPDATE users
		SET password_hash = $1, full_name = $2, is_admin = $3, updated_at = now()
		WHERE id = $4
		RETURNING updated_at
	`
	err := repo.db.QueryRow(ctx, query, user.PasswordHash, user.FullName, user.IsAdmin, user.ID).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", user.ID, domain.ErrNotFound)
		}
		zap.L().Error("failed to update user", zap.Error(err))
		return nil, err
	}
	return user, nil
}

// Delete removes the user; accounts and payments go with it through
// ON DELETE CASCADE.
func (repo *Repository) Delete(ctx context.Context, id int) error {
	tag, err := repo.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		zap.L().Error("failed to delete user", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
