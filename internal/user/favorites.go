// AngelaMos | 2026
// favorites.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/cosmos-explorer/internal/core"
)

type FavoritesRepository interface {
	List(ctx context.Context, userID string) ([]Favorite, error)
	IsFavorite(ctx context.Context, userID string, missionID int64) (bool, error)
	Add(ctx context.Context, userID string, missionID int64) error
	Remove(ctx context.Context, userID string, missionID int64) error
}

type favoritesRepository struct {
	db *sqlx.DB
}

func NewFavoritesRepository(db *sqlx.DB) FavoritesRepository {
	return &favoritesRepository{db: db}
}

func (r *favoritesRepository) List(
	ctx context.Context,
	userID string,
) ([]Favorite, error) {
	query := `
		SELECT mission_id, added_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY added_at DESC, mission_id DESC`

	var favorites []Favorite
	if err := r.db.SelectContext(ctx, &favorites, query, userID); err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	return favorites, nil
}

func (r *favoritesRepository) IsFavorite(
	ctx context.Context,
	userID string,
	missionID int64,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM favorites
			WHERE user_id = $1 AND mission_id = $2
		)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userID, missionID)
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}

	return exists, nil
}

// Add inserts the favorite and bumps the mission's counter in one
// transaction. The composite primary key rejects duplicates, which the
// caller treats as already-favorited.
func (r *favoritesRepository) Add(
	ctx context.Context,
	userID string,
	missionID int64,
) error {
	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		insert := `
			INSERT INTO favorites (user_id, mission_id)
			VALUES ($1, $2)`

		if _, err := tx.ExecContext(ctx, insert, userID, missionID); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return core.ErrDuplicateKey
			}
			return fmt.Errorf("insert favorite: %w", err)
		}

		bump := `
			UPDATE missions
			SET favorite_count = favorite_count + 1
			WHERE mission_id = $1`

		if _, err := tx.ExecContext(ctx, bump, missionID); err != nil {
			return fmt.Errorf("increment favorite count: %w", err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return err
		}
		return fmt.Errorf("add favorite: %w", err)
	}

	return nil
}

// Remove deletes the favorite and decrements the counter, floored at
// zero. Removing something not favorited returns ErrNotFound.
func (r *favoritesRepository) Remove(
	ctx context.Context,
	userID string,
	missionID int64,
) error {
	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		del := `
			DELETE FROM favorites
			WHERE user_id = $1 AND mission_id = $2`

		result, err := tx.ExecContext(ctx, del, userID, missionID)
		if err != nil {
			return fmt.Errorf("delete favorite: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete favorite: %w", err)
		}
		if rows == 0 {
			return core.ErrNotFound
		}

		drop := `
			UPDATE missions
			SET favorite_count = GREATEST(favorite_count - 1, 0)
			WHERE mission_id = $1`

		if _, err := tx.ExecContext(ctx, drop, missionID); err != nil {
			return fmt.Errorf("decrement favorite count: %w", err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return err
		}
		if errors.Is(err, sql.ErrNoRows) {
			return core.ErrNotFound
		}
		return fmt.Errorf("remove favorite: %w", err)
	}

	return nil
}
