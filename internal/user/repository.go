// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/cosmos-explorer/internal/core"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByLogin(ctx context.Context, login string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByVerificationTokenHash(
		ctx context.Context,
		tokenHash string,
	) (*User, error)
	GetByResetTokenHash(ctx context.Context, tokenHash string) (*User, error)
	LookupTaken(
		ctx context.Context,
		username, email string,
	) (usernameTaken, emailTaken bool, err error)
	UpdateProfile(ctx context.Context, u *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetResetToken(
		ctx context.Context,
		id, tokenHash string,
		expires time.Time,
	) error
	ResetPassword(ctx context.Context, id, passwordHash string) error
	MarkVerified(ctx context.Context, id string) error
	RecordLogin(ctx context.Context, id, ip, userAgent string) error
	ListLoginHistory(ctx context.Context, id string) ([]LoginEntry, error)
	UpdateGameStats(ctx context.Context, u *User) error
	UpdateQuizStats(ctx context.Context, u *User) error
	Leaderboard(
		ctx context.Context,
		kind string,
		limit int,
	) ([]LeaderboardEntry, error)
	SoftDelete(ctx context.Context, id string) error
}

const userColumns = `
	id, username, email, password_hash, first_name, last_name, avatar,
	role, status, is_verified,
	verification_token_hash, verification_expires,
	reset_token_hash, reset_expires,
	preferences,
	game_total_score, game_high_score, games_played, game_achievements,
	quiz_total_score, quiz_high_score, quizzes_taken, quiz_average_score,
	quiz_achievements,
	last_login, created_at, updated_at, deleted_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (
			id, username, email, password_hash, first_name, last_name,
			avatar, role, status, preferences,
			verification_token_hash, verification_expires,
			game_achievements, quiz_achievements
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, '[]', '[]'
		)
		RETURNING created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query,
		u.ID,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.Avatar,
		u.Role,
		u.Status,
		u.Preferences,
		u.VerificationTokenHash,
		u.VerificationExpires,
	)
	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		return fmt.Errorf("create user: %w", translateDuplicateError(err))
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE id = $1 AND deleted_at IS NULL`

	return r.getOne(ctx, query, id)
}

// GetByLogin matches either username or email in a single query; both
// columns are stored lowercased so the caller folds case first.
func (r *repository) GetByLogin(
	ctx context.Context,
	login string,
) (*User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE (username = $1 OR email = $1) AND deleted_at IS NULL`

	return r.getOne(ctx, query, login)
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE email = $1 AND deleted_at IS NULL`

	return r.getOne(ctx, query, email)
}

func (r *repository) GetByVerificationTokenHash(
	ctx context.Context,
	tokenHash string,
) (*User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE verification_token_hash = $1
			AND verification_expires > NOW()
			AND deleted_at IS NULL`

	return r.getOne(ctx, query, tokenHash)
}

func (r *repository) GetByResetTokenHash(
	ctx context.Context,
	tokenHash string,
) (*User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE reset_token_hash = $1
			AND reset_expires > NOW()
			AND deleted_at IS NULL`

	return r.getOne(ctx, query, tokenHash)
}

func (r *repository) getOne(
	ctx context.Context,
	query string,
	args ...any,
) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &u, nil
}

// LookupTaken answers both existence questions in one round trip.
func (r *repository) LookupTaken(
	ctx context.Context,
	username, email string,
) (bool, bool, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE username = $1) > 0 AS username_taken,
			COUNT(*) FILTER (WHERE email = $2) > 0 AS email_taken
		FROM users
		WHERE (username = $1 OR email = $2) AND deleted_at IS NULL`

	var result struct {
		UsernameTaken bool `db:"username_taken"`
		EmailTaken    bool `db:"email_taken"`
	}

	if err := r.db.GetContext(ctx, &result, query, username, email); err != nil {
		return false, false, fmt.Errorf("lookup taken: %w", err)
	}

	return result.UsernameTaken, result.EmailTaken, nil
}

func (r *repository) UpdateProfile(ctx context.Context, u *User) error {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, avatar = $4, preferences = $5,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &u.UpdatedAt, query,
		u.ID,
		u.FirstName,
		u.LastName,
		u.Avatar,
		u.Preferences,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update profile: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	return nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.execExpectingRow(ctx, "update password", query, id, passwordHash)
}

func (r *repository) SetResetToken(
	ctx context.Context,
	id, tokenHash string,
	expires time.Time,
) error {
	query := `
		UPDATE users
		SET reset_token_hash = $2, reset_expires = $3, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.execExpectingRow(
		ctx,
		"set reset token",
		query,
		id,
		tokenHash,
		expires,
	)
}

// ResetPassword replaces the hash and clears the reset token in one
// statement, which is what makes the token single-use.
func (r *repository) ResetPassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2,
			reset_token_hash = NULL,
			reset_expires = NULL,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.execExpectingRow(ctx, "reset password", query, id, passwordHash)
}

func (r *repository) MarkVerified(ctx context.Context, id string) error {
	query := `
		UPDATE users
		SET is_verified = TRUE,
			verification_token_hash = NULL,
			verification_expires = NULL,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.execExpectingRow(ctx, "mark verified", query, id)
}

// RecordLogin appends an audit entry, evicts the oldest entries past
// the cap, and bumps last_login, all in one transaction.
func (r *repository) RecordLogin(
	ctx context.Context,
	id, ip, userAgent string,
) error {
	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		insert := `
			INSERT INTO login_history (user_id, ip, user_agent)
			VALUES ($1, $2, $3)`

		if _, err := tx.ExecContext(ctx, insert, id, ip, userAgent); err != nil {
			return fmt.Errorf("insert login history: %w", err)
		}

		newestFirst := `
			SELECT id FROM login_history
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC`

		var entryIDs []int64
		if err := tx.SelectContext(ctx, &entryIDs, newestFirst, id); err != nil {
			return fmt.Errorf("list login history ids: %w", err)
		}

		if evict := evictOldest(entryIDs, loginHistoryLimit); len(evict) > 0 {
			query, args, err := sqlx.In(
				`DELETE FROM login_history WHERE id IN (?)`,
				evict,
			)
			if err != nil {
				return fmt.Errorf("build trim query: %w", err)
			}

			if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
				return fmt.Errorf("trim login history: %w", err)
			}
		}

		update := `
			UPDATE users
			SET last_login = NOW(), updated_at = NOW()
			WHERE id = $1 AND deleted_at IS NULL`

		if _, err := tx.ExecContext(ctx, update, id); err != nil {
			return fmt.Errorf("update last login: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("record login: %w", err)
	}

	return nil
}

// evictOldest returns the ids past the newest keep entries. Input is
// ordered newest first, so the tail is the FIFO overflow.
func evictOldest(ids []int64, keep int) []int64 {
	if len(ids) <= keep {
		return nil
	}
	return ids[keep:]
}

func (r *repository) ListLoginHistory(
	ctx context.Context,
	id string,
) ([]LoginEntry, error) {
	query := `
		SELECT ip, user_agent, created_at
		FROM login_history
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	var entries []LoginEntry
	if err := r.db.SelectContext(ctx, &entries, query, id); err != nil {
		return nil, fmt.Errorf("list login history: %w", err)
	}

	return entries, nil
}

func (r *repository) UpdateGameStats(ctx context.Context, u *User) error {
	query := `
		UPDATE users
		SET game_total_score = $2,
			game_high_score = $3,
			games_played = $4,
			game_achievements = $5,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.execExpectingRow(ctx, "update game stats", query,
		u.ID,
		u.GameStats.TotalScore,
		u.GameStats.HighScore,
		u.GameStats.GamesPlayed,
		u.GameStats.Achievements,
	)
}

func (r *repository) UpdateQuizStats(ctx context.Context, u *User) error {
	query := `
		UPDATE users
		SET quiz_total_score = $2,
			quiz_high_score = $3,
			quizzes_taken = $4,
			quiz_average_score = $5,
			quiz_achievements = $6,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.execExpectingRow(ctx, "update quiz stats", query,
		u.ID,
		u.QuizStats.TotalScore,
		u.QuizStats.HighScore,
		u.QuizStats.QuizzesTaken,
		u.QuizStats.AverageScore,
		u.QuizStats.Achievements,
	)
}

func (r *repository) Leaderboard(
	ctx context.Context,
	kind string,
	limit int,
) ([]LeaderboardEntry, error) {
	var query string

	switch kind {
	case "quiz":
		query = `
			SELECT username, quiz_high_score AS high_score,
				quizzes_taken AS played
			FROM users
			WHERE deleted_at IS NULL AND status = 'active'
				AND quizzes_taken > 0
			ORDER BY quiz_high_score DESC, quizzes_taken DESC
			LIMIT $1`
	default:
		query = `
			SELECT username, game_high_score AS high_score,
				games_played AS played
			FROM users
			WHERE deleted_at IS NULL AND status = 'active'
				AND games_played > 0
			ORDER BY game_high_score DESC, games_played DESC
			LIMIT $1`
	}

	var entries []LeaderboardEntry
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}

	return entries, nil
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	query := `
		UPDATE users
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.execExpectingRow(ctx, "delete user", query, id)
}

func (r *repository) execExpectingRow(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

// translateDuplicateError maps a unique violation onto the field-level
// sentinel using the violated index name.
func translateDuplicateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}

	switch pgErr.ConstraintName {
	case "users_username_key":
		return core.ErrDuplicateUsername
	case "users_email_key":
		return core.ErrDuplicateEmail
	default:
		return core.ErrDuplicateKey
	}
}
