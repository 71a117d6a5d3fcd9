// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/cosmos-explorer/internal/config"
	"github.com/carterperez-dev/cosmos-explorer/internal/core"
	"github.com/carterperez-dev/cosmos-explorer/internal/mailer"
	"github.com/carterperez-dev/cosmos-explorer/internal/middleware"
	"github.com/carterperez-dev/cosmos-explorer/internal/user"
)

const emailTimeout = 10 * time.Second

// UserStore is the slice of the user repository the auth workflow
// needs; user.Repository satisfies it.
type UserStore interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id string) (*user.User, error)
	GetByLogin(ctx context.Context, login string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByVerificationTokenHash(
		ctx context.Context,
		tokenHash string,
	) (*user.User, error)
	GetByResetTokenHash(ctx context.Context, tokenHash string) (*user.User, error)
	LookupTaken(
		ctx context.Context,
		username, email string,
	) (usernameTaken, emailTaken bool, err error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetResetToken(
		ctx context.Context,
		id, tokenHash string,
		expires time.Time,
	) error
	ResetPassword(ctx context.Context, id, passwordHash string) error
	MarkVerified(ctx context.Context, id string) error
	RecordLogin(ctx context.Context, id, ip, userAgent string) error
}

type Service struct {
	users  UserStore
	jwt    *JWTManager
	mail   mailer.Notifier
	tokens config.TokensConfig
	logger *slog.Logger
}

func NewService(
	users UserStore,
	jwtManager *JWTManager,
	mail mailer.Notifier,
	tokens config.TokensConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:  users,
		jwt:    jwtManager,
		mail:   mail,
		tokens: tokens,
		logger: logger,
	}
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*AuthResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	usernameTaken, emailTaken, err := s.users.LookupTaken(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("lookup taken: %w", err)
	}
	if usernameTaken {
		return nil, core.DuplicateError("username")
	}
	if emailTaken {
		return nil, core.DuplicateError("email")
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	rawToken, err := core.GenerateOneTimeToken()
	if err != nil {
		return nil, fmt.Errorf("generate verification token: %w", err)
	}

	tokenHash := core.HashToken(rawToken)
	expires := time.Now().Add(s.tokens.VerificationExpire)

	u := &user.User{
		ID:                    uuid.New().String(),
		Username:              username,
		Email:                 email,
		PasswordHash:          passwordHash,
		FirstName:             strings.TrimSpace(req.FirstName),
		LastName:              strings.TrimSpace(req.LastName),
		Role:                  user.RoleUser,
		Status:                user.StatusActive,
		Preferences:           user.DefaultPreferences(),
		VerificationTokenHash: &tokenHash,
		VerificationExpires:   &expires,
	}

	if err := s.users.Create(ctx, u); err != nil {
		// a concurrent registration can slip past LookupTaken; the
		// unique indexes are the source of truth
		switch {
		case errors.Is(err, core.ErrDuplicateUsername):
			return nil, core.DuplicateError("username")
		case errors.Is(err, core.ErrDuplicateEmail):
			return nil, core.DuplicateError("email")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.sendAsync("verification email", func(ctx context.Context) error {
		return s.mail.SendVerificationEmail(ctx, u.Email, u.Username, rawToken)
	})

	return s.buildAuthResponse(u, false)
}

// Login authenticates by username or email. Unknown accounts, wrong
// passwords, and suspended accounts all produce the same error so the
// response cannot be used to enumerate accounts.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
	ip, userAgent string,
) (*AuthResponse, error) {
	login := strings.ToLower(strings.TrimSpace(req.Username))

	u, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, core.InvalidCredentialsError()
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&u.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid || u.IsSuspended() {
		return nil, core.InvalidCredentialsError()
	}

	if newHash != "" {
		//nolint:errcheck // best-effort rehash upgrade
		_ = s.users.UpdatePassword(ctx, u.ID, newHash)
	}

	if err := s.users.RecordLogin(ctx, u.ID, ip, userAgent); err != nil {
		s.logger.Warn("record login failed", "user_id", u.ID, "error", err)
	}

	return s.buildAuthResponse(u, req.RememberMe)
}

// Refresh exchanges a valid refresh token for a fresh session and
// refresh pair, re-checking the account on every rotation.
func (s *Service) Refresh(
	ctx context.Context,
	refreshToken string,
) (*TokenResponse, error) {
	claims, err := s.jwt.VerifyRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.TokenInvalidError()
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if u.IsSuspended() {
		return nil, core.SuspendedError()
	}

	sessionClaims := middleware.SessionClaims{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
	}

	token, err := s.jwt.CreateSessionToken(sessionClaims, false)
	if err != nil {
		return nil, fmt.Errorf("create session token: %w", err)
	}

	newRefresh, err := s.jwt.CreateRefreshToken(sessionClaims)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	return &TokenResponse{
		Token:        token,
		RefreshToken: newRefresh,
		ExpiresAt:    time.Now().Add(s.jwt.SessionDuration(false)),
	}, nil
}

func (s *Service) ChangePassword(
	ctx context.Context,
	userID string,
	req ChangePasswordRequest,
) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	valid, _, err := core.VerifyPasswordWithRehash(
		req.CurrentPassword,
		u.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return core.NewAppError(
			core.ErrInvalidCredentials,
			"current password is incorrect",
			http.StatusUnauthorized,
			"INVALID_CREDENTIALS",
		)
	}

	newHash, err := core.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, newHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.sendAsync("password changed email", func(ctx context.Context) error {
		return s.mail.SendPasswordChangedEmail(ctx, u.Email, u.Username)
	})

	return nil
}

// ForgotPassword always reports success so the endpoint cannot confirm
// whether an email is registered.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get user: %w", err)
	}

	rawToken, err := core.GenerateOneTimeToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	tokenHash := core.HashToken(rawToken)
	expires := time.Now().Add(s.tokens.ResetExpire)

	if err := s.users.SetResetToken(ctx, u.ID, tokenHash, expires); err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}

	s.sendAsync("password reset email", func(ctx context.Context) error {
		return s.mail.SendPasswordResetEmail(ctx, u.Email, u.Username, rawToken)
	})

	return nil
}

// ResetPassword consumes the one-time token: the repository clears it
// in the same statement that sets the new hash.
func (s *Service) ResetPassword(
	ctx context.Context,
	rawToken string,
	req ResetPasswordRequest,
) error {
	tokenHash := core.HashToken(rawToken)

	u, err := s.users.GetByResetTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.OneTimeTokenError()
		}
		return fmt.Errorf("get user by reset token: %w", err)
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.ResetPassword(ctx, u.ID, passwordHash); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	s.sendAsync("password changed email", func(ctx context.Context) error {
		return s.mail.SendPasswordChangedEmail(ctx, u.Email, u.Username)
	})

	return nil
}

func (s *Service) VerifyEmail(ctx context.Context, rawToken string) error {
	tokenHash := core.HashToken(rawToken)

	u, err := s.users.GetByVerificationTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.OneTimeTokenError()
		}
		return fmt.Errorf("get user by verification token: %w", err)
	}

	if err := s.users.MarkVerified(ctx, u.ID); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}

	return nil
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*user.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *Service) buildAuthResponse(
	u *user.User,
	rememberMe bool,
) (*AuthResponse, error) {
	claims := middleware.SessionClaims{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
	}

	token, err := s.jwt.CreateSessionToken(claims, rememberMe)
	if err != nil {
		return nil, fmt.Errorf("create session token: %w", err)
	}

	refreshToken, err := s.jwt.CreateRefreshToken(claims)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	return &AuthResponse{
		User:         user.ToUserResponse(u),
		Token:        token,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(s.jwt.SessionDuration(rememberMe)),
	}, nil
}

// sendAsync delivers an email off the request path; failures are logged
// and never surfaced to the caller.
func (s *Service) sendAsync(what string, send func(context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(
			context.Background(),
			emailTimeout,
		)
		defer cancel()

		if err := send(ctx); err != nil {
			s.logger.Warn("email delivery failed", "email", what, "error", err)
		}
	}()
}
