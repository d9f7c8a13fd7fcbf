package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

//go:generate mockgen -source=txmanager.go -destination=mock_txmanager.go -package=pg

type TransactionalFn func(ctx context.Context) error

type TXManager interface {
	Begin(ctx context.Context, fn TransactionalFn) error
}

type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Manager struct {
	pool Beginner
}

func NewTXManager(pool Beginner) *Manager {
	return &Manager{pool: pool}
}

// Begin runs fn inside a single transaction. A nested call joins the
// transaction already carried by ctx. Any error from fn, or a panic,
// rolls back everything fn did.
func (m *Manager) Begin(ctx context.Context, fn TransactionalFn) (err error) {
	if _, ok := TxFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("can't begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			zap.L().Error("failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("can't commit transaction: %w", err)
	}
	return nil
}
