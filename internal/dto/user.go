package dto

import (
	"time"

	"github.com/GlebRadaev/ledger/internal/domain"
)

type UserResponseDTO struct {
	ID        int        `json:"id" example:"1"`
	Email     string     `json:"email" example:"testuser@example.com"`
	FullName  *string    `json:"full_name" example:"Test User"`
	IsAdmin   bool       `json:"is_admin" example:"false"`
	CreatedAt time.Time  `json:"created_at" example:"2024-12-09T16:09:57Z"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type UserWithAccountsResponseDTO struct {
	UserResponseDTO
	Accounts []AccountResponseDTO `json:"accounts"`
}

type CreateUserRequestDTO struct {
	Email    string  `json:"email" validate:"required,email" example:"new@example.com"`
	Password string  `json:"password" validate:"required" example:"secret"`
	FullName *string `json:"full_name" example:"New User"`
	IsAdmin  bool    `json:"is_admin" example:"false"`
}

// UpdateUserRequestDTO keeps a field unchanged when it is omitted.
// Email is accepted for compatibility but never changed.
type UpdateUserRequestDTO struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password"`
	FullName *string `json:"full_name"`
	IsAdmin  *bool   `json:"is_admin"`
}

func NewUserResponse(u domain.User) UserResponseDTO {
	return UserResponseDTO{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func NewUserWithAccountsResponse(u domain.UserWithAccounts) UserWithAccountsResponseDTO {
	return UserWithAccountsResponseDTO{
		UserResponseDTO: NewUserResponse(u.User),
		Accounts:        NewAccountsResponse(u.Accounts),
	}
}
