package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           int        `db:"id"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	FullName     *string    `db:"full_name"`
	IsAdmin      bool       `db:"is_admin"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at"`
}

type Account struct {
	ID        int             `db:"id"`
	UserID    int             `db:"user_id"`
	Balance   decimal.Decimal `db:"balance"`
	CreatedAt time.Time       `db:"created_at"`
}

type Payment struct {
	ID            int             `db:"id"`
	TransactionID string          `db:"transaction_id"`
	AccountID     int             `db:"account_id"`
	UserID        int             `db:"user_id"`
	Amount        decimal.Decimal `db:"amount"`
	CreatedAt     time.Time       `db:"created_at"`
}

// Notification is an inbound payment event asserting a credit to an account.
type Notification struct {
	TransactionID string
	AccountID     int
	UserID        int
	Amount        int64
	Signature     string
}

type UserWithAccounts struct {
	User
	Accounts []Account
}

// AccountAudit compares a stored balance against the payments applied to it.
// Opening is whatever the balance held before the first recorded payment.
type AccountAudit struct {
	Account       Account
	PaymentsTotal decimal.Decimal
	Opening       decimal.Decimal
}
