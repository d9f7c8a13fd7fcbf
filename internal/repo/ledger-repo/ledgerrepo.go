package ledgerrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/ledger/internal/domain"
	"github.com/GlebRadaev/ledger/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) FindAccount(ctx context.Context, accountID int) (*domain.Account, error) {
	query := `
        SELECT id, user_id, balance, created_at
        FROM accounts
        WHERE id = $1
    `
	var account domain.Account
	err := r.db.QueryRow(ctx, query, accountID).Scan(&account.ID, &account.UserID, &account.Balance, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find account", zap.Int("accountID", accountID), zap.Error(err))
		return nil, err
	}
	return &account, nil
}

// CreateAccount inserts a new account. When the id is already taken,
// including by a concurrent transaction that commits first, it returns
// domain.ErrConflict instead of aborting the surrounding transaction.
func (r *Repository) CreateAccount(ctx context.Context, accountID, userID int, initialBalance decimal.Decimal) (*domain.Account, error) {
	query := `
        INSERT INTO accounts (id, user_id, balance)
        VALUES ($1, $2, $3)
        ON CONFLICT (id) DO NOTHING
        RETURNING id, user_id, balance, created_at
    `
	var account domain.Account
	err := r.db.QueryRow(ctx, query, accountID, userID, initialBalance).Scan(&account.ID, &account.UserID, &account.Balance, &account.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, fmt.Errorf("account %d: %w", accountID, domain.ErrConflict)
		case pg.IsForeignKeyViolation(err):
			return nil, fmt.Errorf("user %d: %w", userID, domain.ErrForeignKey)
		}
		zap.L().Error("can't create account", zap.Int("accountID", accountID), zap.Error(err))
		return nil, err
	}
	return &account, nil
}

// ApplyCredit adds delta to the balance in a single statement so concurrent
// credits to the same account serialize on the row lock.
func (r *Repository) ApplyCredit(ctx context.Context, accountID int, delta decimal.Decimal) (*domain.Account, error) {
	query := `
        UPDATE accounts
        SET balance = balance + $1
        WHERE id = $2
        RETURNING id, user_id, balance, created_at
    `
	var account domain.Account
	err := r.db.QueryRow(ctx, query, delta, accountID).Scan(&account.ID, &account.UserID, &account.Balance, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account %d: %w", accountID, domain.ErrNotFound)
		}
		zap.L().Error("can't apply credit", zap.Int("accountID", accountID), zap.Error(err))
		return nil, err
	}
	return &account, nil
}

func (r *Repository) FindPaymentByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	query := `
        SELECT id, transaction_id, account_id, user_id, amount, created_at
        FROM payments
        WHERE transaction_id = $1
    `
	var p domain.Payment
	err := r.db.QueryRow(ctx, query, transactionID).Scan(&p.ID, &p.TransactionID, &p.AccountID, &p.UserID, &p.Amount, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find payment", zap.String("transactionID", transactionID), zap.Error(err))
		return nil, err
	}
	return &p, nil
}

// InsertPayment relies on the unique index over transaction_id to reject
// re-deliveries; a prior SELECT would race with concurrent identical inserts.
func (r *Repository) InsertPayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	query := `
        INSERT INTO payments (transaction_id, account_id, user_id, amount)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query, payment.TransactionID, payment.AccountID, payment.UserID, payment.Amount).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		switch {
		case pg.IsUniqueViolation(err):
			return nil, fmt.Errorf("transaction %s: %w", payment.TransactionID, domain.ErrDuplicate)
		case pg.IsForeignKeyViolation(err):
			return nil, fmt.Errorf("%s: %w", pg.ConstraintName(err), domain.ErrForeignKey)
		}
		zap.L().Error("can't save payment", zap.String("transactionID", payment.TransactionID), zap.Error(err))
		return nil, err
	}
	return payment, nil
}

func (r *Repository) ListAccountsByUser(ctx context.Context, userID int) ([]domain.Account, error) {
	query := `
        SELECT id, user_id, balance, created_at
        FROM accounts
        WHERE user_id = $1
        ORDER BY id
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get accounts", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(&account.ID, &account.UserID, &account.Balance, &account.CreatedAt); err != nil {
			zap.L().Error("can't scan account row", zap.Error(err))
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		zap.L().Error("can't iterate account rows", zap.Error(err))
		return nil, err
	}
	return accounts, nil
}

func (r *Repository) ListPaymentsByUser(ctx context.Context, userID int) ([]domain.Payment, error) {
	query := `
        SELECT id, transaction_id, account_id, user_id, amount, created_at
        FROM payments
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get payments", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.TransactionID, &p.AccountID, &p.UserID, &p.Amount, &p.CreatedAt); err != nil {
			zap.L().Error("can't scan payment row", zap.Error(err))
			return nil, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		zap.L().Error("can't iterate payment rows", zap.Error(err))
		return nil, err
	}
	return payments, nil
}

// SumPayments totals every accepted payment for the account. Together with
// the initial balance it must reproduce the stored balance.
func (r *Repository) SumPayments(ctx context.Context, accountID int) (decimal.Decimal, error) {
	query := `
        SELECT COALESCE(SUM(amount), 0)
        FROM payments
        WHERE account_id = $1
    `
	var total decimal.Decimal
	if err := r.db.QueryRow(ctx, query, accountID).Scan(&total); err != nil {
		zap.L().Error("can't sum payments", zap.Int("accountID", accountID), zap.Error(err))
		return decimal.Zero, err
	}
	return total, nil
}
