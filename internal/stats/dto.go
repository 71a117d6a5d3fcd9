// AngelaMos | 2026
// dto.go

package stats

import (
	"github.com/carterperez-dev/cosmos-explorer/internal/user"
)

type SaveGameScoreRequest struct {
	Score int64 `json:"score" validate:"gte=0"`
}

type SaveQuizScoreRequest struct {
	Score          int64 `json:"score"          validate:"gte=0"`
	TotalQuestions int64 `json:"totalQuestions" validate:"required,gt=0,gtefield=Score"`
}

type GameStatsResponse struct {
	Stats           user.GameStats `json:"stats"`
	NewAchievements []string       `json:"newAchievements,omitempty"`
}

type QuizStatsResponse struct {
	Percentage      int64          `json:"percentage"`
	Stats           user.QuizStats `json:"stats"`
	NewAchievements []string       `json:"newAchievements,omitempty"`
}
