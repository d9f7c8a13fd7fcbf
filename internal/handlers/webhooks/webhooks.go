package webhooks

import (
	"context"
	"errors"
	"net/http"

	"github.com/GlebRadaev/ledger/internal/domain"
	"github.com/GlebRadaev/ledger/internal/dto"
	"github.com/GlebRadaev/ledger/internal/service/webhookservice"
	"github.com/GlebRadaev/ledger/pkg/utils"
	"github.com/GlebRadaev/ledger/pkg/validate"
)

//go:generate mockgen -source=webhooks.go -destination=mock_webhooks.go -package=webhooks

type Service interface {
	Process(ctx context.Context, n domain.Notification) (*domain.Payment, error)
}

type WebhookHandler struct {
	webhookService Service
}

func New(webhookService Service) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
	}
}

// Payment godoc
//
//	@Summary		Payment notification
//	@Description	Credits the account once per transaction_id. Duplicates and bad signatures are final; retry only on 5xx.
//	@Tags			Webhooks
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.PaymentWebhookRequestDTO	true	"Signed notification"
//	@Success		200		{object}	dto.WebhookResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid signature or Transaction already processed"
//	@Failure		422		{object}	utils.Response	"Missing field or Unknown user"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/webhooks/payment [post]
func (h *WebhookHandler) Payment(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentWebhookRequestDTO
	if err := validate.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, validate.ErrMalformed) {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		utils.RespondWithError(w, http.StatusUnprocessableEntity, validate.Message(err))
		return
	}

	_, err := h.webhookService.Process(r.Context(), req.Notification())
	if err != nil {
		switch {
		case errors.Is(err, webhookservice.ErrInvalidSignature):
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid signature")
		case errors.Is(err, webhookservice.ErrDuplicateTransaction):
			utils.RespondWithError(w, http.StatusBadRequest, "Transaction already processed")
		case errors.Is(err, webhookservice.ErrRejected):
			utils.RespondWithError(w, http.StatusUnprocessableEntity, "Unknown user")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.WebhookResponseDTO{
		Message: "Payment processed successfully",
	})
}
