package users

import (
	"context"
	"errors"
	"net/http"

	"github.com/GlebRadaev/ledger/internal/domain"
	"github.com/GlebRadaev/ledger/internal/dto"
	"github.com/GlebRadaev/ledger/internal/service/userservice"
	"github.com/GlebRadaev/ledger/pkg/auth"
	"github.com/GlebRadaev/ledger/pkg/utils"
)

//go:generate mockgen -source=users.go -destination=mock_users.go -package=users

type Service interface {
	GetUser(ctx context.Context, id int) (*domain.User, error)
	ListAccounts(ctx context.Context, userID int) ([]domain.Account, error)
	ListPayments(ctx context.Context, userID int) ([]domain.Payment, error)
}

type UserHandler struct {
	userService Service
}

func New(userService Service) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Me godoc
//
//	@Summary		Current user
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	dto.UserResponseDTO
//	@Failure		401	{object}	utils.Response	"Could not validate credentials"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/users/me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, userservice.ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewUserResponse(*user))
}

// Accounts godoc
//
//	@Summary		Accounts of the current user
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		dto.AccountResponseDTO
//	@Failure		401	{object}	utils.Response	"Could not validate credentials"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/users/accounts [get]
func (h *UserHandler) Accounts(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	accounts, err := h.userService.ListAccounts(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewAccountsResponse(accounts))
}

// Payments godoc
//
//	@Summary		Payments of the current user
//	@Description	Newest first.
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		dto.PaymentResponseDTO
//	@Failure		401	{object}	utils.Response	"Could not validate credentials"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/users/payments [get]
func (h *UserHandler) Payments(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	payments, err := h.userService.ListPayments(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewPaymentsResponse(payments))
}
