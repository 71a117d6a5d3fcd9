// AngelaMos | 2026
// entity.go

package user

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type User struct {
	ID           string  `db:"id"`
	Username     string  `db:"username"`
	Email        string  `db:"email"`
	PasswordHash string  `db:"password_hash"`
	FirstName    string  `db:"first_name"`
	LastName     string  `db:"last_name"`
	Avatar       *string `db:"avatar"`
	Role         string  `db:"role"`
	Status       string  `db:"status"`

	IsVerified            bool       `db:"is_verified"`
	VerificationTokenHash *string    `db:"verification_token_hash"`
	VerificationExpires   *time.Time `db:"verification_expires"`
	ResetTokenHash        *string    `db:"reset_token_hash"`
	ResetExpires          *time.Time `db:"reset_expires"`

	Preferences Preferences `db:"preferences"`

	GameStats
	QuizStats

	LastLogin *time.Time `db:"last_login"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsSuspended() bool {
	return u.Status == StatusSuspended
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// GameStats counters only ever grow; HighScore is the max score seen.
type GameStats struct {
	TotalScore   int64           `db:"game_total_score"   json:"totalScore"`
	HighScore    int64           `db:"game_high_score"    json:"highScore"`
	GamesPlayed  int64           `db:"games_played"       json:"gamesPlayed"`
	Achievements AchievementList `db:"game_achievements"  json:"achievements"`
}

// QuizStats.HighScore and AverageScore are percentages (0-100).
// AverageScore is recomputed on every save; the rest only grow.
type QuizStats struct {
	TotalScore   int64           `db:"quiz_total_score"   json:"totalScore"`
	HighScore    int64           `db:"quiz_high_score"    json:"highScore"`
	QuizzesTaken int64           `db:"quizzes_taken"      json:"quizzesTaken"`
	AverageScore int64           `db:"quiz_average_score" json:"averageScore"`
	Achievements AchievementList `db:"quiz_achievements"  json:"achievements"`
}

const (
	AchievementFirstGame  = "first_game"
	AchievementScore1000  = "score_1000"
	AchievementScore5000  = "score_5000"
	AchievementScore10000 = "score_10000"

	AchievementFirstQuiz    = "first_quiz"
	AchievementPerfectScore = "perfect_score"
	AchievementQuizMaster   = "quiz_master"
	AchievementQuizChampion = "quiz_champion"
)

// AchievementList is stored as a JSONB array.
type AchievementList []string

func (a AchievementList) Contains(name string) bool {
	for _, existing := range a {
		if existing == name {
			return true
		}
	}
	return false
}

// Grant appends the achievement if absent and reports whether it was new.
func (a *AchievementList) Grant(name string) bool {
	if a.Contains(name) {
		return false
	}
	*a = append(*a, name)
	return true
}

func (a AchievementList) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal achievements: %w", err)
	}
	return string(data), nil
}

func (a *AchievementList) Scan(src any) error {
	return scanJSON(src, a, "achievements")
}

type Preferences struct {
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
	Newsletter    bool   `json:"newsletter"`
}

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemeAuto  = "auto"
)

func DefaultPreferences() Preferences {
	return Preferences{
		Theme:         ThemeAuto,
		Notifications: true,
		Newsletter:    false,
	}
}

func (p Preferences) Value() (driver.Value, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal preferences: %w", err)
	}
	return string(data), nil
}

func (p *Preferences) Scan(src any) error {
	return scanJSON(src, p, "preferences")
}

func scanJSON(src, dest any, what string) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("scan %s: unsupported type %T", what, src)
	}
}

// Favorite is one entry in a user's favorites list; MissionID refers to
// the mission's stable public integer id, not its row id.
type Favorite struct {
	MissionID int64     `db:"mission_id" json:"missionId"`
	AddedAt   time.Time `db:"added_at"   json:"addedAt"`
}

type LoginEntry struct {
	IP        string    `db:"ip"         json:"ip"`
	UserAgent string    `db:"user_agent" json:"userAgent"`
	Timestamp time.Time `db:"created_at" json:"timestamp"`
}

const loginHistoryLimit = 10
