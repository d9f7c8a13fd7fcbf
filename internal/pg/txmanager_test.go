package pg

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Manager, *DB, pgxmock.PgxPoolIface) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	return NewTXManager(mockPool), New(mockPool), mockPool
}

func TestManager_Begin(t *testing.T) {
	const query = `UPDATE accounts SET balance = balance + $1 WHERE id = $2`

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		fn        func(db *DB) TransactionalFn
		expectErr error
	}{
		{
			name: "Commits when fn succeeds",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(query)).
					WithArgs(100, 1).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectCommit()
			},
			fn: func(db *DB) TransactionalFn {
				return func(ctx context.Context) error {
					_, err := db.Exec(ctx, query, 100, 1)
					return err
				}
			},
		},
		{
			name: "Rolls back when fn fails",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(query)).
					WithArgs(100, 1).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectRollback()
			},
			fn: func(db *DB) TransactionalFn {
				return func(ctx context.Context) error {
					if _, err := db.Exec(ctx, query, 100, 1); err != nil {
						return err
					}
					return errTest
				}
			},
			expectErr: errTest,
		},
		{
			name: "Begin failure is returned",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin().WillReturnError(errTest)
			},
			fn: func(db *DB) TransactionalFn {
				return func(ctx context.Context) error { return nil }
			},
			expectErr: errTest,
		},
		{
			name: "Commit failure is returned",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(errTest)
			},
			fn: func(db *DB) TransactionalFn {
				return func(ctx context.Context) error { return nil }
			},
			expectErr: errTest,
		},
		{
			name: "Nested Begin joins the outer transaction",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(query)).
					WithArgs(100, 1).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectCommit()
			},
			fn: func(db *DB) TransactionalFn {
				return nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager, db, mock := NewMock(t)
			tt.mockSetup(mock)

			fn := tt.fn(db)
			if fn == nil {
				fn = func(ctx context.Context) error {
					return manager.Begin(ctx, func(ctx context.Context) error {
						_, err := db.Exec(ctx, query, 100, 1)
						return err
					})
				}
			}

			err := manager.Begin(context.Background(), fn)
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestManager_BeginRollsBackOnPanic(t *testing.T) {
	manager, _, mock := NewMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = manager.Begin(context.Background(), func(ctx context.Context) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestManager_BeginPassesTxInContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	beginner := NewMockBeginner(ctrl)
	manager := NewTXManager(beginner)

	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()
	mockPool.ExpectBegin()
	tx, err := mockPool.Begin(context.Background())
	require.NoError(t, err)

	beginner.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	mockPool.ExpectCommit()

	err = manager.Begin(context.Background(), func(ctx context.Context) error {
		got, ok := TxFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, tx, got)
		return nil
	})
	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

var errTest = errors.New("test error")
