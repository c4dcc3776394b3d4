package session_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"frontend/internal/app/session"
	"frontend/internal/mocks"
	"frontend/internal/providers/api"
	"frontend/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) (session.Service, session.Repository, *mocks.MockAuthClient) {
	t.Helper()
	repo := session.NewMemoryRepository(time.Hour)
	client := mocks.NewMockAuthClient()
	return session.NewService(repo, client, utils.NewEventBus(), zap.NewNop()), repo, client
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "hong",
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestEnsureCreatesAndReloads(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	s, created, err := svc.Ensure(ctx, "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Len(t, s.Key, 64)
	assert.False(t, s.IsAuthenticated())

	again, created, err := svc.Ensure(ctx, s.Key)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, s.Key, again.Key)

	fresh, created, err := svc.Ensure(ctx, "unknown")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, "unknown", fresh.Key)
}

func TestLoginStoresUserAndTokenExpiry(t *testing.T) {
	svc, repo, client := newService(t)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	client.Responses["/auth/login"] = map[string]string{
		"token":    signedToken(t, exp),
		"username": "hong",
		"fullName": "홍길동",
	}

	s, _, err := svc.Ensure(ctx, "")
	require.NoError(t, err)
	anonymousKey := s.Key
	require.NoError(t, svc.Login(ctx, s, session.LoginRequest{Username: "hong", Password: "pw"}))

	assert.NotEqual(t, anonymousKey, s.Key)
	_, err = repo.Get(ctx, anonymousKey)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	stored, err := repo.Get(ctx, s.Key)
	require.NoError(t, err)
	assert.True(t, stored.IsAuthenticated())
	assert.Equal(t, "hong", stored.Username())
	assert.Equal(t, "홍길동", stored.Viewer().DisplayName)
	require.NotNil(t, stored.ExpiresAt)
	assert.True(t, exp.Equal(*stored.ExpiresAt))
}

func TestExpiredTokenIsDroppedOnEnsure(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()
	past := time.Now().Add(-time.Minute)
	require.NoError(t, repo.Create(ctx, &session.Session{
		Key:       "k",
		User:      &session.User{Username: "hong"},
		Token:     "opaque",
		ExpiresAt: &past,
	}))

	s, created, err := svc.Ensure(ctx, "k")
	require.NoError(t, err)
	assert.False(t, created)
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User)
}

func TestLoginFailureKeepsSessionAnonymous(t *testing.T) {
	svc, _, client := newService(t)
	ctx := context.Background()
	client.PostFunc = func(ctx context.Context, path string, body, out interface{}) error {
		return &api.Error{Status: http.StatusUnauthorized, Message: "아이디 또는 비밀번호가 올바르지 않습니다"}
	}

	s, _, err := svc.Ensure(ctx, "")
	require.NoError(t, err)
	err = svc.Login(ctx, s, session.LoginRequest{Username: "hong", Password: "bad"})

	assert.Equal(t, "아이디 또는 비밀번호가 올바르지 않습니다", api.ServerMessage(err))
	assert.False(t, s.IsAuthenticated())
}

func TestRegisterWithoutTokenLogsIn(t *testing.T) {
	svc, _, client := newService(t)
	ctx := context.Background()
	client.Responses["/auth/register"] = map[string]string{"username": "kim"}
	client.Responses["/auth/login"] = map[string]string{"token": "opaque", "username": "kim"}

	s, _, err := svc.Ensure(ctx, "")
	require.NoError(t, err)
	require.NoError(t, svc.Register(ctx, s, session.RegisterRequest{Username: "kim", Email: "kim@example.com", Password: "pw12"}))

	assert.Equal(t, []string{"/auth/register", "/auth/login"}, client.Paths)
	assert.True(t, s.IsAuthenticated())
	assert.Nil(t, s.ExpiresAt)
}

func TestLogoutClearsSessionEvenWhenBackendFails(t *testing.T) {
	svc, repo, client := newService(t)
	ctx := context.Background()
	var sentToken string
	client.PostFunc = func(ctx context.Context, path string, body, out interface{}) error {
		sentToken = api.TokenFromContext(ctx)
		return &api.Error{Status: http.StatusInternalServerError}
	}
	s := &session.Session{Key: "k", User: &session.User{Username: "hong"}, Token: "tok"}
	require.NoError(t, repo.Create(ctx, s))

	require.NoError(t, svc.Logout(ctx, s))

	assert.Equal(t, "tok", sentToken)
	stored, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, stored.IsAuthenticated())
	assert.Empty(t, stored.Token)
}

func TestFlashIsReadOnce(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()
	s, _, err := svc.Ensure(ctx, "")
	require.NoError(t, err)

	require.NoError(t, svc.SetFlash(ctx, s, "삭제되었습니다."))
	stored, _ := repo.Get(ctx, s.Key)
	assert.Equal(t, "삭제되었습니다.", svc.TakeFlash(ctx, stored))

	stored, _ = repo.Get(ctx, s.Key)
	assert.Empty(t, svc.TakeFlash(ctx, stored))
}

func TestRememberTotal(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()
	s, _, err := svc.Ensure(ctx, "")
	require.NoError(t, err)

	require.NoError(t, svc.RememberTotal(ctx, s, "all", 4))

	stored, _ := repo.Get(ctx, s.Key)
	total, ok := stored.KnownTotal("all")
	assert.True(t, ok)
	assert.Equal(t, 4, total)
	_, ok = stored.KnownTotal("search:x")
	assert.False(t, ok)
}

func TestRegisterRotatesSessionKey(t *testing.T) {
	svc, repo, client := newService(t)
	ctx := context.Background()
	client.Responses["/auth/register"] = map[string]string{"token": "opaque", "username": "kim"}

	s, _, err := svc.Ensure(ctx, "")
	require.NoError(t, err)
	require.NoError(t, svc.RememberTotal(ctx, s, "all", 2))
	anonymousKey := s.Key

	require.NoError(t, svc.Register(ctx, s, session.RegisterRequest{Username: "kim", Email: "kim@example.com", Password: "pw12"}))

	assert.NotEqual(t, anonymousKey, s.Key)
	stored, err := repo.Get(ctx, s.Key)
	require.NoError(t, err)
	assert.Equal(t, "kim", stored.Username())
	total, ok := stored.KnownTotal("all")
	assert.True(t, ok)
	assert.Equal(t, 2, total)

	again, created, err := svc.Ensure(ctx, anonymousKey)
	require.NoError(t, err)
	assert.True(t, created)
	assert.False(t, again.IsAuthenticated())
}

func TestInterleavedWritesKeepEachOther(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()
	s, _, err := svc.Ensure(ctx, "")
	require.NoError(t, err)

	a, _, err := svc.Ensure(ctx, s.Key)
	require.NoError(t, err)
	b, _, err := svc.Ensure(ctx, s.Key)
	require.NoError(t, err)

	require.NoError(t, svc.SetFlash(ctx, a, "작성되었습니다."))
	require.NoError(t, svc.RememberTotal(ctx, b, "all", 3))

	stored, err := repo.Get(ctx, s.Key)
	require.NoError(t, err)
	assert.Equal(t, "작성되었습니다.", stored.Flash)
	assert.Equal(t, 3, stored.ListTotals["all"])
}

func TestLoginSurvivesConcurrentListRequest(t *testing.T) {
	svc, repo, client := newService(t)
	ctx := context.Background()
	client.Responses["/auth/login"] = map[string]string{"token": "tok", "username": "hong"}

	s, _, err := svc.Ensure(ctx, "")
	require.NoError(t, err)
	a, _, err := svc.Ensure(ctx, s.Key)
	require.NoError(t, err)
	b, _, err := svc.Ensure(ctx, s.Key)
	require.NoError(t, err)

	require.NoError(t, svc.Login(ctx, a, session.LoginRequest{Username: "hong", Password: "pw"}))
	err = svc.RememberTotal(ctx, b, "all", 3)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	stored, err := repo.Get(ctx, a.Key)
	require.NoError(t, err)
	assert.True(t, stored.IsAuthenticated())
	assert.Equal(t, "hong", stored.Username())

	_, err = repo.Get(ctx, s.Key)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestRememberTotalKeepsOneSearch(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()
	s, _, err := svc.Ensure(ctx, "")
	require.NoError(t, err)

	require.NoError(t, svc.RememberTotal(ctx, s, "all", 5))
	require.NoError(t, svc.RememberTotal(ctx, s, "search:칸반", 2))
	require.NoError(t, svc.RememberTotal(ctx, s, "user:hong", 1))
	require.NoError(t, svc.RememberTotal(ctx, s, "search:보드", 3))

	stored, err := repo.Get(ctx, s.Key)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"all": 5, "user:hong": 1, "search:보드": 3}, stored.ListTotals)
	assert.Equal(t, stored.ListTotals, s.ListTotals)
}
