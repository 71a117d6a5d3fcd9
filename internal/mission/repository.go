// AngelaMos | 2026
// repository.go

package mission

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/cosmos-explorer/internal/core"
)

type Repository interface {
	Create(ctx context.Context, m *Mission) error
	GetByMissionID(ctx context.Context, missionID int64) (*Mission, error)
	List(ctx context.Context, limit int) ([]Mission, error)
	ListByCategory(ctx context.Context, category string) ([]Mission, error)
	ListFeatured(ctx context.Context) ([]Mission, error)
	ListPopular(ctx context.Context, limit int) ([]Mission, error)
	Search(ctx context.Context, query string) ([]Mission, error)
	Categories(ctx context.Context) ([]string, error)
	IncrementViews(ctx context.Context, missionID int64) error
	Update(ctx context.Context, m *Mission) error
	Delete(ctx context.Context, missionID int64) error
}

const missionColumns = `
	id, mission_id, title, description, short_description, image,
	banner_image, category, status, launch_date, target, featured,
	views, favorite_count, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, m *Mission) error {
	query := `
		INSERT INTO missions (
			id, mission_id, title, description, short_description,
			image, banner_image, category, status, launch_date, target,
			featured
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		RETURNING created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query,
		m.ID,
		m.MissionID,
		m.Title,
		m.Description,
		m.ShortDescription,
		m.Image,
		m.BannerImage,
		m.Category,
		m.Status,
		m.LaunchDate,
		m.Target,
		m.Featured,
	)
	if err := row.Scan(&m.CreatedAt, &m.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("create mission: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create mission: %w", err)
	}

	return nil
}

func (r *repository) GetByMissionID(
	ctx context.Context,
	missionID int64,
) (*Mission, error) {
	query := `SELECT ` + missionColumns + `
		FROM missions
		WHERE mission_id = $1`

	var m Mission
	err := r.db.GetContext(ctx, &m, query, missionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get mission: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get mission: %w", err)
	}

	return &m, nil
}

func (r *repository) List(ctx context.Context, limit int) ([]Mission, error) {
	query := `SELECT ` + missionColumns + `
		FROM missions
		ORDER BY launch_date DESC NULLS LAST, mission_id DESC
		LIMIT $1`

	return r.selectMissions(ctx, query, limit)
}

func (r *repository) ListByCategory(
	ctx context.Context,
	category string,
) ([]Mission, error) {
	query := `SELECT ` + missionColumns + `
		FROM missions
		WHERE category = $1
		ORDER BY launch_date DESC NULLS LAST, mission_id DESC`

	return r.selectMissions(ctx, query, category)
}

func (r *repository) ListFeatured(ctx context.Context) ([]Mission, error) {
	query := `SELECT ` + missionColumns + `
		FROM missions
		WHERE featured = TRUE
		ORDER BY launch_date DESC NULLS LAST, mission_id DESC`

	return r.selectMissions(ctx, query)
}

func (r *repository) ListPopular(
	ctx context.Context,
	limit int,
) ([]Mission, error) {
	query := `SELECT ` + missionColumns + `
		FROM missions
		ORDER BY views DESC, favorite_count DESC, mission_id DESC
		LIMIT $1`

	return r.selectMissions(ctx, query, limit)
}

func (r *repository) Search(
	ctx context.Context,
	searchTerm string,
) ([]Mission, error) {
	query := `SELECT ` + missionColumns + `
		FROM missions
		WHERE title ILIKE $1 OR description ILIKE $1 OR target ILIKE $1
		ORDER BY launch_date DESC NULLS LAST, mission_id DESC`

	return r.selectMissions(ctx, query, "%"+searchTerm+"%")
}

func (r *repository) Categories(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT category
		FROM missions
		ORDER BY category`

	var categories []string
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

func (r *repository) IncrementViews(
	ctx context.Context,
	missionID int64,
) error {
	query := `
		UPDATE missions
		SET views = views + 1
		WHERE mission_id = $1`

	if _, err := r.db.ExecContext(ctx, query, missionID); err != nil {
		return fmt.Errorf("increment views: %w", err)
	}

	return nil
}

func (r *repository) Update(ctx context.Context, m *Mission) error {
	query := `
		UPDATE missions
		SET title = $2, description = $3, short_description = $4,
			image = $5, banner_image = $6, category = $7, status = $8,
			launch_date = $9, target = $10, featured = $11,
			updated_at = NOW()
		WHERE mission_id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &m.UpdatedAt, query,
		m.MissionID,
		m.Title,
		m.Description,
		m.ShortDescription,
		m.Image,
		m.BannerImage,
		m.Category,
		m.Status,
		m.LaunchDate,
		m.Target,
		m.Featured,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update mission: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update mission: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, missionID int64) error {
	query := `DELETE FROM missions WHERE mission_id = $1`

	result, err := r.db.ExecContext(ctx, query, missionID)
	if err != nil {
		return fmt.Errorf("delete mission: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete mission: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete mission: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) selectMissions(
	ctx context.Context,
	query string,
	args ...any,
) ([]Mission, error) {
	var missions []Mission
	if err := r.db.SelectContext(ctx, &missions, query, args...); err != nil {
		return nil, fmt.Errorf("select missions: %w", err)
	}

	return missions, nil
}
