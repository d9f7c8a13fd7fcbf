package webhookservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/ledger/internal/domain"
	"github.com/GlebRadaev/ledger/internal/metrics"
	"github.com/GlebRadaev/ledger/internal/pg"
)

//go:generate mockgen -source=webhookservice.go -destination=mock_webhookservice.go -package=webhookservice

type LedgerRepo interface {
	FindAccount(ctx context.Context, accountID int) (*domain.Account, error)
	CreateAccount(ctx context.Context, accountID, userID int, initialBalance decimal.Decimal) (*domain.Account, error)
	ApplyCredit(ctx context.Context, accountID int, delta decimal.Decimal) (*domain.Account, error)
	InsertPayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	FindPaymentByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error)
	SumPayments(ctx context.Context, accountID int) (decimal.Decimal, error)
}

type Verifier interface {
	Verify(transactionID string, accountID, userID int, amount int64, provided string) bool
}

type Recorder interface {
	Observe(outcome string, d time.Duration)
}

type Service struct {
	ledgerRepo LedgerRepo
	txManager  pg.TXManager
	verifier   Verifier
	recorder   Recorder
}

func New(ledgerRepo LedgerRepo, txManager pg.TXManager, verifier Verifier, recorder Recorder) *Service {
	return &Service{
		ledgerRepo: ledgerRepo,
		txManager:  txManager,
		verifier:   verifier,
		recorder:   recorder,
	}
}

var (
	ErrInvalidSignature     = errors.New("invalid signature")
	ErrDuplicateTransaction = errors.New("transaction already processed")
	ErrRejected             = errors.New("notification rejected")
	ErrStore                = errors.New("ledger store failure")
)

// Process verifies n and applies it to the ledger exactly once. The account
// lookup or creation, the credit and the payment insert share one
// transaction; the unique index on transaction_id is the last gate, so a
// re-delivery rolls back its own credit and reports ErrDuplicateTransaction.
//
// ErrInvalidSignature, ErrDuplicateTransaction and ErrRejected are terminal.
// Anything else wraps ErrStore and may be retried by the sender.
func (s *Service) Process(ctx context.Context, n domain.Notification) (payment *domain.Payment, err error) {
	start := time.Now()
	defer func() {
		s.recorder.Observe(outcome(err), time.Since(start))
	}()

	if !s.verifier.Verify(n.TransactionID, n.AccountID, n.UserID, n.Amount, n.Signature) {
		zap.L().Info("invalid signature", zap.String("transactionID", n.TransactionID))
		return nil, ErrInvalidSignature
	}

	amount := decimal.NewFromInt(n.Amount)
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		if err := s.credit(ctx, n.AccountID, n.UserID, amount); err != nil {
			return err
		}

		p, err := s.ledgerRepo.InsertPayment(ctx, &domain.Payment{
			TransactionID: n.TransactionID,
			AccountID:     n.AccountID,
			UserID:        n.UserID,
			Amount:        amount,
		})
		if err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return ErrDuplicateTransaction
			}
			return err
		}
		payment = p
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateTransaction):
			zap.L().Info("duplicate transaction", zap.String("transactionID", n.TransactionID))
			return nil, ErrDuplicateTransaction
		case errors.Is(err, domain.ErrForeignKey):
			zap.L().Info("notification rejected", zap.String("transactionID", n.TransactionID), zap.Error(err))
			return nil, fmt.Errorf("%w: %w", ErrRejected, err)
		}
		zap.L().Error("can't process notification", zap.String("transactionID", n.TransactionID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}

	zap.L().Info("payment processed",
		zap.String("transactionID", payment.TransactionID),
		zap.Int("accountID", payment.AccountID),
		zap.String("amount", payment.Amount.String()),
	)
	return payment, nil
}

// credit adds amount to the account, creating it with amount as its opening
// balance when it does not exist yet.
func (s *Service) credit(ctx context.Context, accountID, userID int, amount decimal.Decimal) error {
	account, err := s.ledgerRepo.FindAccount(ctx, accountID)
	if err != nil {
		return err
	}

	if account == nil {
		_, err = s.ledgerRepo.CreateAccount(ctx, accountID, userID, amount)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return err
		}

		// Lost the race to a concurrent first delivery; its row is committed now.
		zap.L().Debug("account created concurrently", zap.Int("accountID", accountID))
		account, err = s.ledgerRepo.FindAccount(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return fmt.Errorf("account %d: %w", accountID, domain.ErrNotFound)
		}
	}

	_, err = s.ledgerRepo.ApplyCredit(ctx, accountID, amount)
	if errors.Is(err, domain.ErrNotFound) {
		zap.L().Warn("account vanished before credit, recreating", zap.Int("accountID", accountID))
		_, err = s.ledgerRepo.CreateAccount(ctx, accountID, userID, amount)
	}
	return err
}

func (s *Service) GetPayment(ctx context.Context, transactionID string) (*domain.Payment, error) {
	payment, err := s.ledgerRepo.FindPaymentByTransactionID(ctx, transactionID)
	if err != nil {
		zap.L().Error("failed to get payment", zap.Error(err))
		return nil, err
	}
	if payment == nil {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, domain.ErrNotFound)
	}
	return payment, nil
}

// Reconcile replays the payment history of an account against its balance.
func (s *Service) Reconcile(ctx context.Context, accountID int) (*domain.AccountAudit, error) {
	var audit domain.AccountAudit
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		account, err := s.ledgerRepo.FindAccount(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return fmt.Errorf("account %d: %w", accountID, domain.ErrNotFound)
		}
		total, err := s.ledgerRepo.SumPayments(ctx, accountID)
		if err != nil {
			return err
		}
		audit = domain.AccountAudit{
			Account:       *account,
			PaymentsTotal: total,
			Opening:       account.Balance.Sub(total),
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			zap.L().Error("failed to reconcile account", zap.Int("accountID", accountID), zap.Error(err))
		}
		return nil, err
	}
	return &audit, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrInvalidSignature):
		return metrics.OutcomeInvalidSignature
	case errors.Is(err, ErrDuplicateTransaction):
		return metrics.OutcomeDuplicate
	case errors.Is(err, ErrRejected):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}
