// AngelaMos | 2026
// dto.go

package user

import (
	"strings"
	"time"
)

type UpdateProfileRequest struct {
	FirstName   *string            `json:"firstName,omitempty"   validate:"omitempty,max=50"`
	LastName    *string            `json:"lastName,omitempty"    validate:"omitempty,max=50"`
	Avatar      *string            `json:"avatar,omitempty"      validate:"omitempty,max=500"`
	Preferences *PreferencesUpdate `json:"preferences,omitempty"`
}

type PreferencesUpdate struct {
	Theme         *string `json:"theme,omitempty" validate:"omitempty,oneof=light dark auto"`
	Notifications *bool   `json:"notifications,omitempty"`
	Newsletter    *bool   `json:"newsletter,omitempty"`
}

type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}

type AddFavoriteRequest struct {
	MissionID int64 `json:"missionId" validate:"required,gt=0"`
}

type ToggleFavoriteRequest struct {
	MissionID int64 `json:"missionId" validate:"required,gt=0"`
}

// UserResponse is the sanitized client view; password hash and token
// material never appear here.
type UserResponse struct {
	ID          string      `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	FirstName   string      `json:"firstName,omitempty"`
	LastName    string      `json:"lastName,omitempty"`
	Avatar      *string     `json:"avatar,omitempty"`
	Role        string      `json:"role"`
	IsVerified  bool        `json:"isVerified"`
	FirstLetter string      `json:"firstLetter"`
	Preferences Preferences `json:"preferences"`
	GameStats   GameStats   `json:"gameStats"`
	QuizStats   QuizStats   `json:"quizStats"`
	LastLogin   *time.Time  `json:"lastLogin,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type FavoritesResponse struct {
	Count     int        `json:"count"`
	Favorites []Favorite `json:"favorites"`
}

type ToggleFavoriteResponse struct {
	IsFavorite bool       `json:"isFavorite"`
	Favorites  []Favorite `json:"favorites"`
}

type LeaderboardEntry struct {
	Username  string `db:"username"   json:"username"`
	HighScore int64  `db:"high_score" json:"highScore"`
	Played    int64  `db:"played"     json:"played"`
}

type LeaderboardResponse struct {
	Type    string             `json:"type"`
	Entries []LeaderboardEntry `json:"entries"`
}

func ToUserResponse(u *User) UserResponse {
	firstLetter := ""
	if u.Username != "" {
		firstLetter = strings.ToUpper(u.Username[:1])
	}

	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Avatar:      u.Avatar,
		Role:        u.Role,
		IsVerified:  u.IsVerified,
		FirstLetter: firstLetter,
		Preferences: u.Preferences,
		GameStats:   u.GameStats,
		QuizStats:   u.QuizStats,
		LastLogin:   u.LastLogin,
		CreatedAt:   u.CreatedAt,
	}
}
