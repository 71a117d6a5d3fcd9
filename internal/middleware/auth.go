// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/carterperez-dev/cosmos-explorer/internal/core"
)

type contextKey string

const (
	UserKey   contextKey = "current_user"
	ClaimsKey contextKey = "jwt_claims"
)

// SessionClaims is the decoded payload of a session token.
type SessionClaims struct {
	UserID   string
	Username string
	Role     string
}

type TokenVerifier interface {
	VerifySessionToken(
		ctx context.Context,
		token string,
	) (*SessionClaims, error)
}

// CurrentUser is the sanitized identity attached to the request context.
// It never carries the password hash or any one-time token material.
type CurrentUser struct {
	ID         string
	Username   string
	Email      string
	Role       string
	IsVerified bool
}

// UserResolver turns verified claims into a live account. It returns
// core.ErrNotFound when the account is gone (or soft-deleted) and
// core.ErrAccountSuspended when the account may no longer authenticate.
type UserResolver interface {
	ResolveSession(ctx context.Context, userID string) (*CurrentUser, error)
}

// Authenticator resolves the caller's identity before protected
// handlers run. Token sources are tried in order: Authorization header,
// token cookie, token query parameter.
func Authenticator(
	verifier TokenVerifier,
	resolver UserResolver,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing authentication token"),
				)
				return
			}

			claims, err := verifier.VerifySessionToken(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			usr, err := resolver.ResolveSession(r.Context(), claims.UserID)
			if err != nil {
				switch {
				case errors.Is(err, core.ErrNotFound):
					core.JSONError(
						w,
						core.UnauthorizedError("account no longer exists"),
					)
				case errors.Is(err, core.ErrAccountSuspended):
					core.JSONError(w, core.SuspendedError())
				default:
					core.InternalServerError(w, err)
				}
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, UserKey, usr)
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches an identity when a valid token is present but
// never rejects; public mission reads use it for personalization.
func OptionalAuth(
	verifier TokenVerifier,
	resolver UserResolver,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := ExtractToken(r); token != "" {
				claims, err := verifier.VerifySessionToken(r.Context(), token)
				if err == nil {
					usr, resolveErr := resolver.ResolveSession(
						r.Context(),
						claims.UserID,
					)
					if resolveErr == nil {
						ctx := r.Context()
						ctx = context.WithValue(ctx, UserKey, usr)
						ctx = context.WithValue(ctx, ClaimsKey, claims)
						r = r.WithContext(ctx)
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			usr := GetUser(r.Context())

			if usr == nil {
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
				return
			}

			if _, ok := roleSet[usr.Role]; !ok {
				core.JSONError(
					w,
					core.ForbiddenError("insufficient permissions"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole("admin")(next)
}

// ExtractToken checks the Authorization header first, then the token
// cookie, then the token query parameter.
func ExtractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := r.Cookie("token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return r.URL.Query().Get("token")
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

func GetUser(ctx context.Context) *CurrentUser {
	if usr, ok := ctx.Value(UserKey).(*CurrentUser); ok {
		return usr
	}
	return nil
}

func GetUserID(ctx context.Context) string {
	if usr := GetUser(ctx); usr != nil {
		return usr.ID
	}
	return ""
}

func GetUserRole(ctx context.Context) string {
	if usr := GetUser(ctx); usr != nil {
		return usr.Role
	}
	return ""
}

func GetClaims(ctx context.Context) *SessionClaims {
	if claims, ok := ctx.Value(ClaimsKey).(*SessionClaims); ok {
		return claims
	}
	return nil
}

func IsAuthenticated(ctx context.Context) bool {
	return GetUser(ctx) != nil
}

func IsAdmin(ctx context.Context) bool {
	return GetUserRole(ctx) == "admin"
}
