package dto

import "github.com/GlebRadaev/ledger/internal/domain"

// PaymentWebhookRequestDTO uses pointers so a zero value still counts as present.
type PaymentWebhookRequestDTO struct {
	TransactionID *string `json:"transaction_id" validate:"required" example:"5eae174f-7cd0-472c-bd36-35660f00132b"`
	AccountID     *int    `json:"account_id" validate:"required" example:"1"`
	UserID        *int    `json:"user_id" validate:"required" example:"1"`
	Amount        *int64  `json:"amount" validate:"required" example:"100"`
	Signature     *string `json:"signature" validate:"required" example:"7b47e41efe564a062029da3367bde8844bea0fb049f894687cee5d57f2858bc8"`
}

type WebhookResponseDTO struct {
	Message string `json:"message" example:"Payment processed successfully"`
}

// Notification must only be called after validation.
func (r PaymentWebhookRequestDTO) Notification() domain.Notification {
	return domain.Notification{
		TransactionID: *r.TransactionID,
		AccountID:     *r.AccountID,
		UserID:        *r.UserID,
		Amount:        *r.Amount,
		Signature:     *r.Signature,
	}
}
