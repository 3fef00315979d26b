package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/shoplite/shoplite-backend/pkg/db/models"
)

// RegisterInput carries a validated registration request.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name" validate:"required,max=100"`
}

// LoginInput carries a validated login request.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserDTO is the public shape of an account. The password hash never leaves
// the service.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionDTO is the login/register response: the bearer token plus the user
// it authenticates.
type SessionDTO struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

func toUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}
