// AngelaMos | 2026
// service.go

package stats

import (
	"context"
	"fmt"
	"math"

	"github.com/carterperez-dev/cosmos-explorer/internal/user"
)

// UserStore is the slice of the user repository the score endpoints
// need; user.Repository satisfies it.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
	UpdateGameStats(ctx context.Context, u *user.User) error
	UpdateQuizStats(ctx context.Context, u *user.User) error
}

type Service struct {
	users UserStore
}

func NewService(users UserStore) *Service {
	return &Service{users: users}
}

// SaveGameScore folds a finished game into the user's stats and grants
// any newly earned achievements.
func (s *Service) SaveGameScore(
	ctx context.Context,
	userID string,
	score int64,
) (*GameStatsResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	u.GameStats.TotalScore += score
	u.GameStats.GamesPlayed++
	if score > u.GameStats.HighScore {
		u.GameStats.HighScore = score
	}

	newAchievements := grantGameAchievements(&u.GameStats, score)

	if err := s.users.UpdateGameStats(ctx, u); err != nil {
		return nil, fmt.Errorf("update game stats: %w", err)
	}

	return &GameStatsResponse{
		Stats:           u.GameStats,
		NewAchievements: newAchievements,
	}, nil
}

func (s *Service) GetGameStats(
	ctx context.Context,
	userID string,
) (*user.GameStats, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &u.GameStats, nil
}

// SaveQuizScore records a quiz result. The high score is tracked as a
// percentage; the total and running average accumulate raw correct
// answers.
func (s *Service) SaveQuizScore(
	ctx context.Context,
	userID string,
	correct, total int64,
) (*QuizStatsResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	percentage := int64(math.Round(float64(correct) * 100 / float64(total)))

	u.QuizStats.TotalScore += correct
	u.QuizStats.QuizzesTaken++
	if percentage > u.QuizStats.HighScore {
		u.QuizStats.HighScore = percentage
	}
	u.QuizStats.AverageScore = int64(math.Round(
		float64(u.QuizStats.TotalScore) / float64(u.QuizStats.QuizzesTaken),
	))

	newAchievements := grantQuizAchievements(&u.QuizStats, correct, total)

	if err := s.users.UpdateQuizStats(ctx, u); err != nil {
		return nil, fmt.Errorf("update quiz stats: %w", err)
	}

	return &QuizStatsResponse{
		Percentage:      percentage,
		Stats:           u.QuizStats,
		NewAchievements: newAchievements,
	}, nil
}

func (s *Service) GetQuizStats(
	ctx context.Context,
	userID string,
) (*user.QuizStats, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &u.QuizStats, nil
}

func grantGameAchievements(gs *user.GameStats, score int64) []string {
	var earned []string

	grant := func(name string, condition bool) {
		if condition && gs.Achievements.Grant(name) {
			earned = append(earned, name)
		}
	}

	grant(user.AchievementFirstGame, gs.GamesPlayed >= 1)
	grant(user.AchievementScore1000, score >= 1000)
	grant(user.AchievementScore5000, score >= 5000)
	grant(user.AchievementScore10000, score >= 10000)

	return earned
}

func grantQuizAchievements(qs *user.QuizStats, correct, total int64) []string {
	var earned []string

	grant := func(name string, condition bool) {
		if condition && qs.Achievements.Grant(name) {
			earned = append(earned, name)
		}
	}

	grant(user.AchievementFirstQuiz, qs.QuizzesTaken >= 1)
	// every answer right, not a rounded-up 100%
	grant(user.AchievementPerfectScore, correct == total)
	grant(user.AchievementQuizMaster, qs.QuizzesTaken >= 10)
	grant(
		user.AchievementQuizChampion,
		qs.HighScore == 100 && qs.QuizzesTaken >= 5,
	)

	return earned
}
