// AngelaMos | 2026
// service.go

package mission

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/cosmos-explorer/internal/core"
	"github.com/carterperez-dev/cosmos-explorer/internal/user"
)

const (
	defaultListLimit = 50
	popularLimit     = 10
)

// FavoriteToggler lets the mission endpoints flip and read a user's
// favorite without owning the favorites data; user.Service satisfies it.
type FavoriteToggler interface {
	ToggleFavorite(
		ctx context.Context,
		userID string,
		missionID int64,
	) (*user.ToggleFavoriteResponse, error)
	IsFavorite(
		ctx context.Context,
		userID string,
		missionID int64,
	) (bool, error)
}

type Service struct {
	repo      Repository
	favorites FavoriteToggler
	logger    *slog.Logger
}

func NewService(
	repo Repository,
	favorites FavoriteToggler,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		favorites: favorites,
		logger:    logger,
	}
}

func (s *Service) Create(
	ctx context.Context,
	req CreateMissionRequest,
) (*Mission, error) {
	m := &Mission{
		ID:               uuid.New().String(),
		MissionID:        req.MissionID,
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Image:            req.Image,
		BannerImage:      req.BannerImage,
		Category:         req.Category,
		Status:           req.Status,
		LaunchDate:       req.LaunchDate,
		Target:           strings.TrimSpace(req.Target),
		Featured:         req.Featured,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("mission id")
		}
		return nil, err
	}

	return m, nil
}

// Get returns the mission and counts the view. The counter update is
// best-effort; a failed bump never blocks the read.
func (s *Service) Get(ctx context.Context, missionID int64) (*Mission, error) {
	m, err := s.repo.GetByMissionID(ctx, missionID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.IncrementViews(ctx, missionID); err != nil {
		s.logger.Warn("view count update failed",
			"mission_id", missionID,
			"error", err,
		)
	} else {
		m.Views++
	}

	return m, nil
}

func (s *Service) List(ctx context.Context) ([]Mission, error) {
	return s.repo.List(ctx, defaultListLimit)
}

func (s *Service) ListByCategory(
	ctx context.Context,
	category string,
) ([]Mission, error) {
	return s.repo.ListByCategory(ctx, category)
}

func (s *Service) ListFeatured(ctx context.Context) ([]Mission, error) {
	return s.repo.ListFeatured(ctx)
}

func (s *Service) ListPopular(ctx context.Context) ([]Mission, error) {
	return s.repo.ListPopular(ctx, popularLimit)
}

func (s *Service) Search(
	ctx context.Context,
	searchTerm string,
) ([]Mission, error) {
	return s.repo.Search(ctx, strings.TrimSpace(searchTerm))
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func (s *Service) Update(
	ctx context.Context,
	missionID int64,
	req UpdateMissionRequest,
) (*Mission, error) {
	m, err := s.repo.GetByMissionID(ctx, missionID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		m.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.ShortDescription != nil {
		m.ShortDescription = *req.ShortDescription
	}
	if req.Image != nil {
		m.Image = req.Image
	}
	if req.BannerImage != nil {
		m.BannerImage = req.BannerImage
	}
	if req.Category != nil {
		m.Category = *req.Category
	}
	if req.Status != nil {
		m.Status = *req.Status
	}
	if req.LaunchDate != nil {
		m.LaunchDate = req.LaunchDate
	}
	if req.Target != nil {
		m.Target = strings.TrimSpace(*req.Target)
	}
	if req.Featured != nil {
		m.Featured = *req.Featured
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

func (s *Service) Delete(ctx context.Context, missionID int64) error {
	return s.repo.Delete(ctx, missionID)
}

// IsFavorite reports whether the user has favorited the mission.
func (s *Service) IsFavorite(
	ctx context.Context,
	userID string,
	missionID int64,
) (bool, error) {
	return s.favorites.IsFavorite(ctx, userID, missionID)
}

// ToggleFavorite verifies the mission exists, then delegates the flip.
func (s *Service) ToggleFavorite(
	ctx context.Context,
	userID string,
	missionID int64,
) (*user.ToggleFavoriteResponse, error) {
	if _, err := s.repo.GetByMissionID(ctx, missionID); err != nil {
		return nil, err
	}

	return s.favorites.ToggleFavorite(ctx, userID, missionID)
}
