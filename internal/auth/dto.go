// AngelaMos | 2026
// dto.go

package auth

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/cosmos-explorer/internal/user"
)

type RegisterRequest struct {
	Username        string `json:"username"        validate:"required,min=3,max=30,username"`
	Email           string `json:"email"           validate:"required,email,max=255"`
	Password        string `json:"password"        validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	FirstName       string `json:"firstName"       validate:"omitempty,max=50"`
	LastName        string `json:"lastName"        validate:"omitempty,max=50"`
}

// LoginRequest accepts either a username or an email in the username
// field; the service folds case before lookup.
type LoginRequest struct {
	Username   string `json:"username"   validate:"required,max=255"`
	Password   string `json:"password"   validate:"required,max=128"`
	RememberMe bool   `json:"rememberMe"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password"        validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type TokenResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type AuthResponse struct {
	User         user.UserResponse `json:"user"`
	Token        string            `json:"token"`
	RefreshToken string            `json:"refreshToken"`
	ExpiresAt    time.Time         `json:"expiresAt"`
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// RegisterValidations installs the custom username rule: letters,
// digits, and underscores only. Case is accepted here and folded by
// the service, so "StarGazer" and "stargazer" are the same account.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
}
