// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/cosmos-explorer/internal/core"
	"github.com/carterperez-dev/cosmos-explorer/internal/middleware"
)

const (
	leaderboardCacheTTL = 60 * time.Second
	leaderboardLimit    = 20
)

type Service struct {
	repo      Repository
	favorites FavoritesRepository
	redis     *redis.Client
	logger    *slog.Logger
}

func NewService(
	repo Repository,
	favorites FavoritesRepository,
	redisClient *redis.Client,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		favorites: favorites,
		redis:     redisClient,
		logger:    logger,
	}
}

// ResolveSession loads the account behind verified claims and gates on
// account status. Suspended accounts keep their data but cannot act.
func (s *Service) ResolveSession(
	ctx context.Context,
	userID string,
) (*middleware.CurrentUser, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if u.IsSuspended() {
		return nil, core.ErrAccountSuspended
	}

	return &middleware.CurrentUser{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		IsVerified: u.IsVerified,
	}, nil
}

func (s *Service) GetProfile(
	ctx context.Context,
	userID string,
) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateProfile(
	ctx context.Context,
	userID string,
	req UpdateProfileRequest,
) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Avatar != nil {
		u.Avatar = req.Avatar
	}
	if req.Preferences != nil {
		if req.Preferences.Theme != nil {
			u.Preferences.Theme = *req.Preferences.Theme
		}
		if req.Preferences.Notifications != nil {
			u.Preferences.Notifications = *req.Preferences.Notifications
		}
		if req.Preferences.Newsletter != nil {
			u.Preferences.Newsletter = *req.Preferences.Newsletter
		}
	}

	if err := s.repo.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// DeleteAccount requires the caller to re-confirm their password before
// the soft delete goes through.
func (s *Service) DeleteAccount(
	ctx context.Context,
	userID, password string,
) error {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	valid, _, err := core.VerifyPasswordTimingSafe(password, &u.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return core.InvalidCredentialsError()
	}

	return s.repo.SoftDelete(ctx, userID)
}

func (s *Service) ListFavorites(
	ctx context.Context,
	userID string,
) ([]Favorite, error) {
	return s.favorites.List(ctx, userID)
}

// AddFavorite rejects a mission that is already favorited; clients
// that want flip semantics use ToggleFavorite instead.
func (s *Service) AddFavorite(
	ctx context.Context,
	userID string,
	missionID int64,
) ([]Favorite, error) {
	if err := s.favorites.Add(ctx, userID, missionID); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.NewAppError(
				core.ErrDuplicateKey,
				"mission already in favorites",
				http.StatusBadRequest,
				"ALREADY_FAVORITED",
			)
		}
		return nil, err
	}

	return s.favorites.List(ctx, userID)
}

func (s *Service) IsFavorite(
	ctx context.Context,
	userID string,
	missionID int64,
) (bool, error) {
	return s.favorites.IsFavorite(ctx, userID, missionID)
}

func (s *Service) RemoveFavorite(
	ctx context.Context,
	userID string,
	missionID int64,
) ([]Favorite, error) {
	err := s.favorites.Remove(ctx, userID, missionID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	return s.favorites.List(ctx, userID)
}

// ToggleFavorite flips membership: favorited missions are removed,
// everything else is added. A concurrent request racing the membership
// check is absorbed rather than surfaced, so the operation stays
// idempotent per final state.
func (s *Service) ToggleFavorite(
	ctx context.Context,
	userID string,
	missionID int64,
) (*ToggleFavoriteResponse, error) {
	favorited, err := s.favorites.IsFavorite(ctx, userID, missionID)
	if err != nil {
		return nil, err
	}

	if favorited {
		err = s.favorites.Remove(ctx, userID, missionID)
		if err != nil && !errors.Is(err, core.ErrNotFound) {
			return nil, err
		}
	} else {
		err = s.favorites.Add(ctx, userID, missionID)
		if err != nil && !errors.Is(err, core.ErrDuplicateKey) {
			return nil, err
		}
	}

	favorites, err := s.favorites.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ToggleFavoriteResponse{
		IsFavorite: !favorited,
		Favorites:  favorites,
	}, nil
}

// Leaderboard serves from a short-lived Redis cache; the query scans
// the users table, so a 60 second window keeps it off the hot path.
func (s *Service) Leaderboard(
	ctx context.Context,
	kind string,
) (*LeaderboardResponse, error) {
	if kind != "quiz" {
		kind = "game"
	}

	cacheKey := "leaderboard:" + kind

	if s.redis != nil {
		cached, err := s.redis.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var resp LeaderboardResponse
			if unmarshalErr := json.Unmarshal(cached, &resp); unmarshalErr == nil {
				return &resp, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("leaderboard cache read failed", "error", err)
		}
	}

	entries, err := s.repo.Leaderboard(ctx, kind, leaderboardLimit)
	if err != nil {
		return nil, err
	}

	resp := &LeaderboardResponse{Type: kind, Entries: entries}

	if s.redis != nil {
		data, marshalErr := json.Marshal(resp)
		if marshalErr == nil {
			if err := s.redis.Set(
				ctx,
				cacheKey,
				data,
				leaderboardCacheTTL,
			).Err(); err != nil {
				s.logger.Warn("leaderboard cache write failed", "error", err)
			}
		}
	}

	return resp, nil
}

func (s *Service) LoginHistory(
	ctx context.Context,
	userID string,
) ([]LoginEntry, error) {
	return s.repo.ListLoginHistory(ctx, userID)
}
