package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/ledger/internal/domain"
)

type AccountResponseDTO struct {
	ID      int         `json:"id" example:"1"`
	Balance json.Number `json:"balance" swaggertype:"number" example:"200.00"`
}

type PaymentResponseDTO struct {
	ID            int         `json:"id" example:"1"`
	TransactionID string      `json:"transaction_id" example:"5eae174f-7cd0-472c-bd36-35660f00132b"`
	Amount        json.Number `json:"amount" swaggertype:"number" example:"100.00"`
	AccountID     int         `json:"account_id" example:"1"`
	UserID        int         `json:"user_id" example:"1"`
	CreatedAt     time.Time   `json:"created_at" example:"2024-12-09T16:09:57Z"`
}

type AccountAuditResponseDTO struct {
	AccountID     int         `json:"account_id" example:"1"`
	UserID        int         `json:"user_id" example:"1"`
	Balance       json.Number `json:"balance" swaggertype:"number" example:"200.00"`
	PaymentsTotal json.Number `json:"payments_total" swaggertype:"number" example:"100.00"`
	Opening       json.Number `json:"opening_balance" swaggertype:"number" example:"100.00"`
}

// Money renders an amount with two fractional digits as a JSON number.
func Money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func NewAccountsResponse(accounts []domain.Account) []AccountResponseDTO {
	resp := make([]AccountResponseDTO, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, AccountResponseDTO{ID: a.ID, Balance: Money(a.Balance)})
	}
	return resp
}

func NewPaymentResponse(p domain.Payment) PaymentResponseDTO {
	return PaymentResponseDTO{
		ID:            p.ID,
		TransactionID: p.TransactionID,
		Amount:        Money(p.Amount),
		AccountID:     p.AccountID,
		UserID:        p.UserID,
		CreatedAt:     p.CreatedAt,
	}
}

func NewPaymentsResponse(payments []domain.Payment) []PaymentResponseDTO {
	resp := make([]PaymentResponseDTO, 0, len(payments))
	for _, p := range payments {
		resp = append(resp, NewPaymentResponse(p))
	}
	return resp
}

func NewAccountAuditResponse(a domain.AccountAudit) AccountAuditResponseDTO {
	return AccountAuditResponseDTO{
		AccountID:     a.Account.ID,
		UserID:        a.Account.UserID,
		Balance:       Money(a.Account.Balance),
		PaymentsTotal: Money(a.PaymentsTotal),
		Opening:       Money(a.Opening),
	}
}
