package admin

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GlebRadaev/ledger/internal/domain"
	"github.com/GlebRadaev/ledger/internal/dto"
	"github.com/GlebRadaev/ledger/internal/service/userservice"
	"github.com/GlebRadaev/ledger/pkg/utils"
	"github.com/GlebRadaev/ledger/pkg/validate"
)

//go:generate mockgen -source=admin.go -destination=mock_admin.go -package=admin

type UserService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, in userservice.CreateUserInput) (*domain.User, error)
	GetUserWithAccounts(ctx context.Context, id int) (*domain.UserWithAccounts, error)
	UpdateUser(ctx context.Context, id int, in userservice.UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id int) error
}

type LedgerService interface {
	GetPayment(ctx context.Context, transactionID string) (*domain.Payment, error)
	Reconcile(ctx context.Context, accountID int) (*domain.AccountAudit, error)
}

type AdminHandler struct {
	userService   UserService
	ledgerService LedgerService
}

func New(userService UserService, ledgerService LedgerService) *AdminHandler {
	return &AdminHandler{
		userService:   userService,
		ledgerService: ledgerService,
	}
}

func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	return id, err == nil && id > 0
}

// ListUsers godoc
//
//	@Summary	List all users
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		dto.UserResponseDTO
//	@Failure	401	{object}	utils.Response	"Could not validate credentials"
//	@Failure	403	{object}	utils.Response	"Insufficient permissions"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	resp := make([]dto.UserResponseDTO, 0, len(users))
	for _, u := range users {
		resp = append(resp, dto.NewUserResponse(u))
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// CreateUser godoc
//
//	@Summary	Create a user
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		dto.CreateUserRequestDTO	true	"New user"
//	@Success	201		{object}	dto.UserResponseDTO
//	@Failure	400		{object}	utils.Response	"Email already exists"
//	@Failure	422		{object}	utils.Response	"Validation error"
//	@Failure	500		{object}	utils.Response	"Internal server error"
//	@Router		/admin/users [post]
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequestDTO
	if err := validate.DecodeJSON(r.Body, &req); err != nil {
		respondDecodeError(w, err)
		return
	}

	user, err := h.userService.CreateUser(r.Context(), userservice.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		if errors.Is(err, userservice.ErrEmailExists) {
			utils.RespondWithError(w, http.StatusBadRequest, "Email already exists")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewUserResponse(*user))
}

// GetUser godoc
//
//	@Summary	Get a user with accounts
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"User id"
//	@Success	200	{object}	dto.UserWithAccountsResponseDTO
//	@Failure	404	{object}	utils.Response	"User not found"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/admin/users/{id} [get]
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	user, err := h.userService.GetUserWithAccounts(r.Context(), id)
	if err != nil {
		respondUserError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewUserWithAccountsResponse(*user))
}

// UpdateUser godoc
//
//	@Summary		Update a user
//	@Description	Omitted fields keep their value. Email cannot be changed.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int							true	"User id"
//	@Param			request	body		dto.UpdateUserRequestDTO	true	"Changes"
//	@Success		200		{object}	dto.UserResponseDTO
//	@Failure		404		{object}	utils.Response	"User not found"
//	@Failure		422		{object}	utils.Response	"Validation error"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	var req dto.UpdateUserRequestDTO
	if err := validate.DecodeJSON(r.Body, &req); err != nil {
		respondDecodeError(w, err)
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), id, userservice.UpdateUserInput{
		Password: req.Password,
		FullName: req.FullName,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		respondUserError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewUserResponse(*user))
}

// DeleteUser godoc
//
//	@Summary		Delete a user
//	@Description	Accounts and payments of the user are deleted too.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Param			id	path	int	true	"User id"
//	@Success		204
//	@Failure		404	{object}	utils.Response	"User not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if err := h.userService.DeleteUser(r.Context(), id); err != nil {
		respondUserError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPayment godoc
//
//	@Summary	Look up a payment by transaction id
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		transaction_id	path		string	true	"Transaction id"
//	@Success	200				{object}	dto.PaymentResponseDTO
//	@Failure	404				{object}	utils.Response	"Payment not found"
//	@Failure	500				{object}	utils.Response	"Internal server error"
//	@Router		/admin/payments/{transaction_id} [get]
func (h *AdminHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := h.ledgerService.GetPayment(r.Context(), chi.URLParam(r, "transaction_id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Payment not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewPaymentResponse(*payment))
}

// AuditAccount godoc
//
//	@Summary		Reconcile an account against its payments
//	@Description	opening_balance is the part of the balance not explained by recorded payments.
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int	true	"Account id"
//	@Success		200	{object}	dto.AccountAuditResponseDTO
//	@Failure		404	{object}	utils.Response	"Account not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/admin/accounts/{id}/audit [get]
func (h *AdminHandler) AuditAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Account not found")
		return
	}
	audit, err := h.ledgerService.Reconcile(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Account not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewAccountAuditResponse(*audit))
}

func respondDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, validate.ErrMalformed) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	utils.RespondWithError(w, http.StatusUnprocessableEntity, validate.Message(err))
}

func respondUserError(w http.ResponseWriter, err error) {
	if errors.Is(err, userservice.ErrUserNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
}
