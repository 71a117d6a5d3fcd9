// AngelaMos | 2026
// service_test.go

package stats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/cosmos-explorer/internal/core"
	"github.com/carterperez-dev/cosmos-explorer/internal/user"
)

type fakeUserStore struct {
	users map[string]*user.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*user.User)}
}

func (f *fakeUserStore) GetByID(
	_ context.Context,
	id string,
) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserStore) UpdateGameStats(_ context.Context, u *user.User) error {
	stored, ok := f.users[u.ID]
	if !ok {
		return core.ErrNotFound
	}
	stored.GameStats = u.GameStats
	return nil
}

func (f *fakeUserStore) UpdateQuizStats(_ context.Context, u *user.User) error {
	stored, ok := f.users[u.ID]
	if !ok {
		return core.ErrNotFound
	}
	stored.QuizStats = u.QuizStats
	return nil
}

func newTestService() (*Service, *fakeUserStore) {
	store := newFakeUserStore()
	store.users["user-1"] = &user.User{ID: "user-1", Username: "stargazer"}
	return NewService(store), store
}

func TestSaveGameScore_FirstGame(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.SaveGameScore(context.Background(), "user-1", 250)
	require.NoError(t, err)

	assert.Equal(t, int64(250), resp.Stats.TotalScore)
	assert.Equal(t, int64(250), resp.Stats.HighScore)
	assert.Equal(t, int64(1), resp.Stats.GamesPlayed)
	assert.Equal(t, []string{user.AchievementFirstGame}, resp.NewAchievements)
}

func TestSaveGameScore_Accumulates(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	_, err := svc.SaveGameScore(ctx, "user-1", 300)
	require.NoError(t, err)
	resp, err := svc.SaveGameScore(ctx, "user-1", 100)
	require.NoError(t, err)

	assert.Equal(t, int64(400), resp.Stats.TotalScore)
	assert.Equal(t, int64(300), resp.Stats.HighScore, "lower score keeps high score")
	assert.Equal(t, int64(2), resp.Stats.GamesPlayed)
	assert.Empty(t, resp.NewAchievements, "first_game is not granted twice")

	stored := store.users["user-1"]
	assert.Equal(t, int64(400), stored.GameStats.TotalScore)
}

func TestSaveGameScore_ScoreThresholds(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.SaveGameScore(context.Background(), "user-1", 12000)
	require.NoError(t, err)

	// a single big game unlocks every threshold at once
	assert.ElementsMatch(t, []string{
		user.AchievementFirstGame,
		user.AchievementScore1000,
		user.AchievementScore5000,
		user.AchievementScore10000,
	}, resp.NewAchievements)
}

func TestSaveQuizScore_Percentage(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.SaveQuizScore(context.Background(), "user-1", 7, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(70), resp.Percentage)
	assert.Equal(t, int64(70), resp.Stats.HighScore)
	assert.Equal(t, int64(7), resp.Stats.TotalScore, "total accumulates raw answers")
	assert.Equal(t, int64(7), resp.Stats.AverageScore)
	assert.Equal(t, []string{user.AchievementFirstQuiz}, resp.NewAchievements)
}

func TestSaveQuizScore_AverageRecomputed(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.SaveQuizScore(ctx, "user-1", 6, 10)
	require.NoError(t, err)
	resp, err := svc.SaveQuizScore(ctx, "user-1", 10, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(2), resp.Stats.QuizzesTaken)
	assert.Equal(t, int64(16), resp.Stats.TotalScore)
	assert.Equal(t, int64(8), resp.Stats.AverageScore)
	assert.Equal(t, int64(100), resp.Stats.HighScore)
	assert.Contains(t, resp.NewAchievements, user.AchievementPerfectScore)
}

// 199/200 rounds to a 100% high score but is not a perfect quiz.
func TestSaveQuizScore_NearPerfectIsNotPerfect(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.SaveQuizScore(context.Background(), "user-1", 199, 200)
	require.NoError(t, err)

	assert.Equal(t, int64(100), resp.Percentage)
	assert.Equal(t, int64(100), resp.Stats.HighScore)
	assert.Equal(t, int64(199), resp.Stats.TotalScore)
	assert.NotContains(t, resp.NewAchievements, user.AchievementPerfectScore)
}

func TestSaveQuizScore_QuizMaster(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	var last *QuizStatsResponse
	for i := 0; i < 10; i++ {
		var err error
		last, err = svc.SaveQuizScore(ctx, "user-1", 5, 10)
		require.NoError(t, err)
	}

	assert.Equal(t, int64(10), last.Stats.QuizzesTaken)
	assert.Contains(t, last.NewAchievements, user.AchievementQuizMaster)
}

// quiz_champion needs a perfect high score and at least five quizzes.
func TestSaveQuizScore_QuizChampion(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		resp, err := svc.SaveQuizScore(ctx, "user-1", 10, 10)
		require.NoError(t, err)
		assert.NotContains(
			t,
			resp.NewAchievements,
			user.AchievementQuizChampion,
		)
	}

	resp, err := svc.SaveQuizScore(ctx, "user-1", 10, 10)
	require.NoError(t, err)
	assert.Contains(t, resp.NewAchievements, user.AchievementQuizChampion)
}

func TestSaveScore_UnknownUser(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SaveGameScore(context.Background(), "nobody", 100)
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.SaveQuizScore(context.Background(), "nobody", 5, 10)
	assert.ErrorIs(t, err, core.ErrNotFound)
}
