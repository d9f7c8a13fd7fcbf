package auth

import (
	"context"
	"errors"
	"mime"
	"net/http"

	"github.com/GlebRadaev/ledger/internal/domain"
	"github.com/GlebRadaev/ledger/internal/dto"
	"github.com/GlebRadaev/ledger/internal/service/authservice"
	"github.com/GlebRadaev/ledger/pkg/utils"
	"github.com/GlebRadaev/ledger/pkg/validate"
)

//go:generate mockgen -source=auth.go -destination=mock_auth.go -package=auth

type Service interface {
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GenerateToken(userID int) (string, error)
}

type AuthHandler struct {
	authService Service
}

func New(authService Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login godoc
//
//	@Summary		Authenticate user
//	@Description	Exchange email and password for a bearer token. Accepts an OAuth2 password form or JSON.
//	@Tags			Auth
//	@Accept			x-www-form-urlencoded,json
//	@Produce		json
//	@Param			request	body		dto.LoginRequestDTO	true	"Credentials"
//	@Success		200		{object}	dto.TokenResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"Incorrect email or password"
//	@Failure		422		{object}	utils.Response	"Missing credentials"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLogin(r)
	if err != nil {
		if errors.Is(err, validate.ErrMalformed) {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		utils.RespondWithError(w, http.StatusUnprocessableEntity, validate.Message(err))
		return
	}

	user, err := h.authService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidCredentials) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			utils.RespondWithError(w, http.StatusUnauthorized, "Incorrect email or password")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	token, err := h.authService.GenerateToken(user.ID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.TokenResponseDTO{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func decodeLogin(r *http.Request) (*dto.LoginRequestDTO, error) {
	var req dto.LoginRequestDTO
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, errors.Join(validate.ErrMalformed, err)
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
		if err := validate.Struct(&req); err != nil {
			return nil, err
		}
	default:
		if err := validate.DecodeJSON(r.Body, &req); err != nil {
			return nil, err
		}
	}
	return &req, nil
}
