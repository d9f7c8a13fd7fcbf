package pg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "payments_transaction_id_key"}
	foreignKey := &pgconn.PgError{Code: "23503", ConstraintName: "payments_user_id_fkey"}

	tests := []struct {
		name       string
		err        error
		unique     bool
		foreignKey bool
		constraint string
	}{
		{
			name:       "Unique violation",
			err:        unique,
			unique:     true,
			constraint: "payments_transaction_id_key",
		},
		{
			name:       "Wrapped unique violation",
			err:        fmt.Errorf("insert payment: %w", unique),
			unique:     true,
			constraint: "payments_transaction_id_key",
		},
		{
			name:       "Foreign key violation",
			err:        foreignKey,
			foreignKey: true,
			constraint: "payments_user_id_fkey",
		},
		{
			name: "Plain error",
			err:  errors.New("connection reset"),
		},
		{
			name: "Nil error",
			err:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, IsUniqueViolation(tt.err))
			assert.Equal(t, tt.foreignKey, IsForeignKeyViolation(tt.err))
			assert.Equal(t, tt.constraint, ConstraintName(tt.err))
		})
	}
}
