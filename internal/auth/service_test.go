// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/cosmos-explorer/internal/config"
	"github.com/carterperez-dev/cosmos-explorer/internal/core"
	"github.com/carterperez-dev/cosmos-explorer/internal/user"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*user.User

	logins []string
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*user.User)}
}

func (f *fakeUserStore) Create(_ context.Context, u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.Username == u.Username {
			return core.ErrDuplicateUsername
		}
		if existing.Email == u.Email {
			return core.ErrDuplicateEmail
		}
	}

	clone := *u
	f.users[u.ID] = &clone
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok || u.IsDeleted() {
		return nil, core.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserStore) GetByLogin(
	_ context.Context,
	login string,
) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if (u.Username == login || u.Email == login) && !u.IsDeleted() {
			clone := *u
			return &clone, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeUserStore) GetByEmail(
	ctx context.Context,
	email string,
) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email && !u.IsDeleted() {
			clone := *u
			return &clone, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeUserStore) GetByVerificationTokenHash(
	_ context.Context,
	tokenHash string,
) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.VerificationTokenHash != nil &&
			*u.VerificationTokenHash == tokenHash &&
			u.VerificationExpires != nil &&
			u.VerificationExpires.After(time.Now()) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeUserStore) GetByResetTokenHash(
	_ context.Context,
	tokenHash string,
) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.ResetTokenHash != nil &&
			*u.ResetTokenHash == tokenHash &&
			u.ResetExpires != nil &&
			u.ResetExpires.After(time.Now()) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeUserStore) LookupTaken(
	_ context.Context,
	username, email string,
) (bool, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var usernameTaken, emailTaken bool
	for _, u := range f.users {
		if u.Username == username {
			usernameTaken = true
		}
		if u.Email == email {
			emailTaken = true
		}
	}
	return usernameTaken, emailTaken, nil
}

func (f *fakeUserStore) UpdatePassword(
	_ context.Context,
	id, passwordHash string,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserStore) SetResetToken(
	_ context.Context,
	id, tokenHash string,
	expires time.Time,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.ResetTokenHash = &tokenHash
	u.ResetExpires = &expires
	return nil
}

func (f *fakeUserStore) ResetPassword(
	_ context.Context,
	id, passwordHash string,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetTokenHash = nil
	u.ResetExpires = nil
	return nil
}

func (f *fakeUserStore) MarkVerified(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.IsVerified = true
	u.VerificationTokenHash = nil
	u.VerificationExpires = nil
	return nil
}

func (f *fakeUserStore) RecordLogin(
	_ context.Context,
	id, _, _ string,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.logins = append(f.logins, id)
	return nil
}

func (f *fakeUserStore) get(id string) *user.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *f.users[id]
	return &clone
}

type sentMail struct {
	kind  string
	to    string
	token string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
}

func (f *fakeNotifier) SendVerificationEmail(
	_ context.Context,
	to, _, token string,
) error {
	f.record(sentMail{kind: "verification", to: to, token: token})
	return nil
}

func (f *fakeNotifier) SendPasswordResetEmail(
	_ context.Context,
	to, _, token string,
) error {
	f.record(sentMail{kind: "reset", to: to, token: token})
	return nil
}

func (f *fakeNotifier) SendPasswordChangedEmail(
	_ context.Context,
	to, _ string,
) error {
	f.record(sentMail{kind: "changed", to: to})
	return nil
}

func (f *fakeNotifier) record(m sentMail) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, m)
}

func (f *fakeNotifier) last() (sentMail, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return sentMail{}, false
	}
	return f.sent[len(f.sent)-1], true
}

func newTestService(t *testing.T) (*Service, *fakeUserStore, *fakeNotifier) {
	t.Helper()

	store := newFakeUserStore()
	mail := &fakeNotifier{}
	jwtManager := newTestJWTManager(t, defaultJWTConfig())

	svc := NewService(store, jwtManager, mail, config.TokensConfig{
		VerificationExpire: 24 * time.Hour,
		ResetExpire:        time.Hour,
	}, slog.Default())

	return svc, store, mail
}

func registerTestUser(t *testing.T, svc *Service) *AuthResponse {
	t.Helper()

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Username:        "stargazer",
		Email:           "stargazer@example.com",
		Password:        "orbital-mechanics-1",
		ConfirmPassword: "orbital-mechanics-1",
		FirstName:       "Ada",
	})
	require.NoError(t, err)
	return resp
}

func TestRegister(t *testing.T) {
	svc, store, mail := newTestService(t)

	resp := registerTestUser(t, svc)

	assert.Equal(t, "stargazer", resp.User.Username)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.False(t, resp.User.IsVerified)

	stored := store.get(resp.User.ID)
	assert.NotEqual(t, "orbital-mechanics-1", stored.PasswordHash)
	require.NotNil(t, stored.VerificationTokenHash)

	assert.Eventually(t, func() bool {
		m, ok := mail.last()
		return ok && m.kind == "verification" &&
			m.to == "stargazer@example.com"
	}, time.Second, 10*time.Millisecond)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _, _ := newTestService(t)
	registerTestUser(t, svc)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username:        "stargazer",
		Email:           "other@example.com",
		Password:        "orbital-mechanics-1",
		ConfirmPassword: "orbital-mechanics-1",
	})
	require.Error(t, err)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "DUPLICATE_USERNAME", appErr.Code)
}

func TestRegister_FoldsCase(t *testing.T) {
	svc, _, _ := newTestService(t)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Username:        "StarGazer",
		Email:           "Star.Gazer@Example.com",
		Password:        "orbital-mechanics-1",
		ConfirmPassword: "orbital-mechanics-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "stargazer", resp.User.Username)
	assert.Equal(t, "star.gazer@example.com", resp.User.Email)
}

// A differently-cased username is the same account after folding.
func TestRegister_DuplicateUsernameDifferentCase(t *testing.T) {
	svc, _, _ := newTestService(t)
	registerTestUser(t, svc)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username:        "StarGazer",
		Email:           "other@example.com",
		Password:        "orbital-mechanics-1",
		ConfirmPassword: "orbital-mechanics-1",
	})
	require.Error(t, err)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "DUPLICATE_USERNAME", appErr.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	registerTestUser(t, svc)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username:        "othername",
		Email:           "stargazer@example.com",
		Password:        "orbital-mechanics-1",
		ConfirmPassword: "orbital-mechanics-1",
	})
	require.Error(t, err)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "DUPLICATE_EMAIL", appErr.Code)
}

func TestLogin(t *testing.T) {
	svc, store, _ := newTestService(t)
	registered := registerTestUser(t, svc)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Username: "stargazer",
		Password: "orbital-mechanics-1",
	}, "203.0.113.9", "test-agent")
	require.NoError(t, err)

	assert.Equal(t, registered.User.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, []string{registered.User.ID}, store.logins)
}

func TestLogin_ByEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	registerTestUser(t, svc)

	_, err := svc.Login(context.Background(), LoginRequest{
		Username: "STARGAZER@example.com",
		Password: "orbital-mechanics-1",
	}, "", "")
	require.NoError(t, err)
}

func TestLogin_RememberMeExtendsExpiry(t *testing.T) {
	svc, _, _ := newTestService(t)
	registerTestUser(t, svc)

	short, err := svc.Login(context.Background(), LoginRequest{
		Username: "stargazer",
		Password: "orbital-mechanics-1",
	}, "", "")
	require.NoError(t, err)

	long, err := svc.Login(context.Background(), LoginRequest{
		Username:   "stargazer",
		Password:   "orbital-mechanics-1",
		RememberMe: true,
	}, "", "")
	require.NoError(t, err)

	assert.True(t, long.ExpiresAt.After(short.ExpiresAt.Add(20*24*time.Hour)))
}

// All login failure modes must be indistinguishable to the client.
func TestLogin_UniformFailures(t *testing.T) {
	svc, store, _ := newTestService(t)
	registered := registerTestUser(t, svc)

	_, unknownErr := svc.Login(context.Background(), LoginRequest{
		Username: "nobody",
		Password: "orbital-mechanics-1",
	}, "", "")
	require.Error(t, unknownErr)

	_, wrongErr := svc.Login(context.Background(), LoginRequest{
		Username: "stargazer",
		Password: "wrong-password",
	}, "", "")
	require.Error(t, wrongErr)

	store.mu.Lock()
	store.users[registered.User.ID].Status = user.StatusSuspended
	store.mu.Unlock()

	_, suspendedErr := svc.Login(context.Background(), LoginRequest{
		Username: "stargazer",
		Password: "orbital-mechanics-1",
	}, "", "")
	require.Error(t, suspendedErr)

	for _, err := range []error{unknownErr, wrongErr, suspendedErr} {
		appErr, ok := core.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "INVALID_CREDENTIALS", appErr.Code)
		assert.Equal(t, "invalid username or password", appErr.Message)
	}
}

func TestForgotPassword_UnknownEmailSilent(t *testing.T) {
	svc, _, mail := newTestService(t)

	err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	require.NoError(t, err)

	_, ok := mail.last()
	assert.False(t, ok)
}

func TestForgotAndResetPassword(t *testing.T) {
	svc, store, mail := newTestService(t)
	registered := registerTestUser(t, svc)

	require.NoError(
		t,
		svc.ForgotPassword(context.Background(), "stargazer@example.com"),
	)

	stored := store.get(registered.User.ID)
	require.NotNil(t, stored.ResetTokenHash)
	require.NotNil(t, stored.ResetExpires)
	assert.WithinDuration(t, time.Now().Add(time.Hour), *stored.ResetExpires, time.Minute)

	var rawToken string
	require.Eventually(t, func() bool {
		m, ok := mail.last()
		if ok && m.kind == "reset" {
			rawToken = m.token
			return true
		}
		return false
	}, time.Second, 10*time.Millisecond)

	// only the digest is stored
	assert.Equal(t, core.HashToken(rawToken), *stored.ResetTokenHash)

	err := svc.ResetPassword(context.Background(), rawToken, ResetPasswordRequest{
		Password:        "new-trajectory-42",
		ConfirmPassword: "new-trajectory-42",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{
		Username: "stargazer",
		Password: "new-trajectory-42",
	}, "", "")
	require.NoError(t, err)

	// the token is single-use
	err = svc.ResetPassword(context.Background(), rawToken, ResetPasswordRequest{
		Password:        "another-pass-123",
		ConfirmPassword: "another-pass-123",
	})
	require.Error(t, err)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "TOKEN_INVALID_OR_EXPIRED", appErr.Code)
}

func TestVerifyEmail(t *testing.T) {
	svc, store, mail := newTestService(t)
	registered := registerTestUser(t, svc)

	var rawToken string
	require.Eventually(t, func() bool {
		m, ok := mail.last()
		if ok && m.kind == "verification" {
			rawToken = m.token
			return true
		}
		return false
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, svc.VerifyEmail(context.Background(), rawToken))

	stored := store.get(registered.User.ID)
	assert.True(t, stored.IsVerified)
	assert.Nil(t, stored.VerificationTokenHash)

	err := svc.VerifyEmail(context.Background(), rawToken)
	require.Error(t, err)
}

func TestVerifyEmail_BadToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.VerifyEmail(context.Background(), "bogus")
	require.Error(t, err)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "TOKEN_INVALID_OR_EXPIRED", appErr.Code)
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	registered := registerTestUser(t, svc)

	err := svc.ChangePassword(context.Background(), registered.User.ID,
		ChangePasswordRequest{
			CurrentPassword: "wrong-password",
			NewPassword:     "new-trajectory-42",
			ConfirmPassword: "new-trajectory-42",
		})
	require.Error(t, err)

	err = svc.ChangePassword(context.Background(), registered.User.ID,
		ChangePasswordRequest{
			CurrentPassword: "orbital-mechanics-1",
			NewPassword:     "new-trajectory-42",
			ConfirmPassword: "new-trajectory-42",
		})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{
		Username: "stargazer",
		Password: "new-trajectory-42",
	}, "", "")
	require.NoError(t, err)
}

func TestRefresh(t *testing.T) {
	svc, store, _ := newTestService(t)
	registered := registerTestUser(t, svc)

	resp, err := svc.Refresh(context.Background(), registered.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.RefreshToken)

	store.mu.Lock()
	store.users[registered.User.ID].Status = user.StatusSuspended
	store.mu.Unlock()

	_, err = svc.Refresh(context.Background(), registered.RefreshToken)
	require.Error(t, err)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "ACCOUNT_SUSPENDED", appErr.Code)
}

func TestRefresh_SessionTokenRejected(t *testing.T) {
	svc, _, _ := newTestService(t)
	registered := registerTestUser(t, svc)

	_, err := svc.Refresh(context.Background(), registered.Token)
	require.Error(t, err)
}
