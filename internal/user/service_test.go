// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/cosmos-explorer/internal/core"
)

type fakeRepo struct {
	users map[string]*User

	leaderboard []LeaderboardEntry
	deleted     []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]*User)}
}

func (f *fakeRepo) Create(_ context.Context, u *User) error {
	clone := *u
	f.users[u.ID] = &clone
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := f.users[id]
	if !ok || u.IsDeleted() {
		return nil, core.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeRepo) GetByLogin(_ context.Context, _ string) (*User, error) {
	return nil, core.ErrNotFound
}

func (f *fakeRepo) GetByEmail(_ context.Context, _ string) (*User, error) {
	return nil, core.ErrNotFound
}

func (f *fakeRepo) GetByVerificationTokenHash(
	_ context.Context,
	_ string,
) (*User, error) {
	return nil, core.ErrNotFound
}

func (f *fakeRepo) GetByResetTokenHash(
	_ context.Context,
	_ string,
) (*User, error) {
	return nil, core.ErrNotFound
}

func (f *fakeRepo) LookupTaken(
	_ context.Context,
	_, _ string,
) (bool, bool, error) {
	return false, false, nil
}

func (f *fakeRepo) UpdateProfile(_ context.Context, u *User) error {
	stored, ok := f.users[u.ID]
	if !ok {
		return core.ErrNotFound
	}
	*stored = *u
	return nil
}

func (f *fakeRepo) UpdatePassword(_ context.Context, _, _ string) error {
	return nil
}

func (f *fakeRepo) SetResetToken(
	_ context.Context,
	_, _ string,
	_ time.Time,
) error {
	return nil
}

func (f *fakeRepo) ResetPassword(_ context.Context, _, _ string) error {
	return nil
}

func (f *fakeRepo) MarkVerified(_ context.Context, _ string) error {
	return nil
}

func (f *fakeRepo) RecordLogin(_ context.Context, _, _, _ string) error {
	return nil
}

func (f *fakeRepo) ListLoginHistory(
	_ context.Context,
	_ string,
) ([]LoginEntry, error) {
	return nil, nil
}

func (f *fakeRepo) UpdateGameStats(_ context.Context, _ *User) error {
	return nil
}

func (f *fakeRepo) UpdateQuizStats(_ context.Context, _ *User) error {
	return nil
}

func (f *fakeRepo) Leaderboard(
	_ context.Context,
	_ string,
	_ int,
) ([]LeaderboardEntry, error) {
	return f.leaderboard, nil
}

func (f *fakeRepo) SoftDelete(_ context.Context, id string) error {
	u, ok := f.users[id]
	if !ok || u.IsDeleted() {
		return core.ErrNotFound
	}
	now := time.Now()
	u.DeletedAt = &now
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeFavorites struct {
	byUser map[string]map[int64]time.Time
}

func newFakeFavorites() *fakeFavorites {
	return &fakeFavorites{byUser: make(map[string]map[int64]time.Time)}
}

func (f *fakeFavorites) List(
	_ context.Context,
	userID string,
) ([]Favorite, error) {
	var out []Favorite
	for missionID, addedAt := range f.byUser[userID] {
		out = append(out, Favorite{MissionID: missionID, AddedAt: addedAt})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].MissionID < out[j].MissionID
	})
	return out, nil
}

func (f *fakeFavorites) IsFavorite(
	_ context.Context,
	userID string,
	missionID int64,
) (bool, error) {
	_, ok := f.byUser[userID][missionID]
	return ok, nil
}

func (f *fakeFavorites) Add(
	_ context.Context,
	userID string,
	missionID int64,
) error {
	if f.byUser[userID] == nil {
		f.byUser[userID] = make(map[int64]time.Time)
	}
	if _, ok := f.byUser[userID][missionID]; ok {
		return core.ErrDuplicateKey
	}
	f.byUser[userID][missionID] = time.Now()
	return nil
}

func (f *fakeFavorites) Remove(
	_ context.Context,
	userID string,
	missionID int64,
) error {
	if _, ok := f.byUser[userID][missionID]; !ok {
		return core.ErrNotFound
	}
	delete(f.byUser[userID], missionID)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeRepo, *fakeFavorites) {
	t.Helper()

	repo := newFakeRepo()
	favorites := newFakeFavorites()
	svc := NewService(repo, favorites, nil, slog.Default())
	return svc, repo, favorites
}

func seedUser(repo *fakeRepo, id string) *User {
	u := &User{
		ID:           id,
		Username:     "stargazer",
		Email:        "stargazer@example.com",
		PasswordHash: "hash",
		Role:         RoleUser,
		Status:       StatusActive,
		Preferences:  DefaultPreferences(),
	}
	repo.users[id] = u
	return u
}

func TestToggleFavorite_Alternates(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedUser(repo, "user-1")
	ctx := context.Background()

	resp, err := svc.ToggleFavorite(ctx, "user-1", 42)
	require.NoError(t, err)
	assert.True(t, resp.IsFavorite)
	require.Len(t, resp.Favorites, 1)
	assert.Equal(t, int64(42), resp.Favorites[0].MissionID)

	resp, err = svc.ToggleFavorite(ctx, "user-1", 42)
	require.NoError(t, err)
	assert.False(t, resp.IsFavorite)
	assert.Empty(t, resp.Favorites)

	resp, err = svc.ToggleFavorite(ctx, "user-1", 42)
	require.NoError(t, err)
	assert.True(t, resp.IsFavorite)
}

func TestToggleFavorite_IndependentMissions(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedUser(repo, "user-1")
	ctx := context.Background()

	_, err := svc.ToggleFavorite(ctx, "user-1", 1)
	require.NoError(t, err)
	resp, err := svc.ToggleFavorite(ctx, "user-1", 2)
	require.NoError(t, err)
	require.Len(t, resp.Favorites, 2)

	resp, err = svc.ToggleFavorite(ctx, "user-1", 1)
	require.NoError(t, err)
	assert.False(t, resp.IsFavorite)
	require.Len(t, resp.Favorites, 1)
	assert.Equal(t, int64(2), resp.Favorites[0].MissionID)
}

// Explicit add of an existing favorite is a 400; only toggle flips.
func TestAddFavorite_DuplicateRejected(t *testing.T) {
	svc, repo, favorites := newTestService(t)
	seedUser(repo, "user-1")
	ctx := context.Background()

	list, err := svc.AddFavorite(ctx, "user-1", 7)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.AddFavorite(ctx, "user-1", 7)
	require.Error(t, err)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "ALREADY_FAVORITED", appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)

	assert.Len(t, favorites.byUser["user-1"], 1, "list is unchanged")
}

func TestRemoveFavorite_MissingAbsorbed(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedUser(repo, "user-1")

	favorites, err := svc.RemoveFavorite(context.Background(), "user-1", 99)
	require.NoError(t, err)
	assert.Empty(t, favorites)
}

func TestResolveSession(t *testing.T) {
	svc, repo, _ := newTestService(t)
	u := seedUser(repo, "user-1")
	ctx := context.Background()

	current, err := svc.ResolveSession(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, u.Username, current.Username)

	repo.users["user-1"].Status = StatusSuspended
	_, err = svc.ResolveSession(ctx, "user-1")
	assert.ErrorIs(t, err, core.ErrAccountSuspended)

	_, err = svc.ResolveSession(ctx, "nobody")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedUser(repo, "user-1")

	theme := ThemeDark
	first := "Ada"
	updated, err := svc.UpdateProfile(context.Background(), "user-1",
		UpdateProfileRequest{
			FirstName:   &first,
			Preferences: &PreferencesUpdate{Theme: &theme},
		})
	require.NoError(t, err)

	assert.Equal(t, "Ada", updated.FirstName)
	assert.Equal(t, ThemeDark, updated.Preferences.Theme)
	// untouched fields keep their defaults
	assert.True(t, updated.Preferences.Notifications)
}

func TestDeleteAccount(t *testing.T) {
	svc, repo, _ := newTestService(t)
	u := seedUser(repo, "user-1")

	hash, err := core.HashPassword("orbital-mechanics-1")
	require.NoError(t, err)
	u.PasswordHash = hash

	err = svc.DeleteAccount(context.Background(), "user-1", "wrong")
	require.Error(t, err)
	assert.Empty(t, repo.deleted)

	err = svc.DeleteAccount(context.Background(), "user-1", "orbital-mechanics-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"user-1"}, repo.deleted)
}

func TestLeaderboard_WithoutCache(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.leaderboard = []LeaderboardEntry{
		{Username: "stargazer", HighScore: 9000, Played: 12},
	}

	resp, err := svc.Leaderboard(context.Background(), "game")
	require.NoError(t, err)
	assert.Equal(t, "game", resp.Type)
	require.Len(t, resp.Entries, 1)

	// unknown kinds fall back to the game board
	resp, err = svc.Leaderboard(context.Background(), "bogus")
	require.NoError(t, err)
	assert.Equal(t, "game", resp.Type)
}
