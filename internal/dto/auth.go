package dto

type LoginRequestDTO struct {
	Username string `json:"username" validate:"required" example:"testuser@example.com"`
	Password string `json:"password" validate:"required" example:"123"`
}

type TokenResponseDTO struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"bearer"`
}
