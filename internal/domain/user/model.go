package user

import (
	"strings"
	"time"

	"github.com/suryacity/hms/internal/platform/apperr"
	"github.com/suryacity/hms/internal/platform/auth"
)

var validRoles = map[string]bool{
	auth.RoleAdmin:     true,
	auth.RoleReception: true,
	auth.RoleBilling:   true,
}

type User struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type CreateInput struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

func (in *CreateInput) Validate() error {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" {
		return apperr.Validationf("username is required")
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return apperr.Validationf("a valid email is required")
	}
	if in.FullName == "" {
		return apperr.Validationf("full_name is required")
	}
	if !validRoles[in.Role] {
		return apperr.Validationf("invalid role: %s", in.Role)
	}
	if len(in.Password) < 8 {
		return apperr.Validationf("password must be at least 8 characters")
	}
	return nil
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
