package auth

import (
	"context"
	"testing"
	"time"

	"libraryapi/internal/platform/crypto"
	"libraryapi/internal/session"
	"libraryapi/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory fakes keyed the way the Postgres repos are.

type fakeUserRepo struct {
	byUsername map[string]user.User
	byID       map[string]user.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	f.byUsername[u.Username] = *u
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

type fakeSessionRepo struct {
	byHash map[string]session.Session
	nextID int
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *session.Session) error {
	f.nextID++
	s.ID = "sess-" + string(rune('0'+f.nextID))
	f.byHash[s.RefreshTokenHash] = *s
	return nil
}

func (f *fakeSessionRepo) GetByTokenHash(ctx context.Context, hash string) (session.Session, error) {
	s, ok := f.byHash[hash]
	if !ok || s.ExpiresAt.Before(time.Now()) {
		return session.Session{}, session.ErrNotFound
	}
	return s, nil
}

func (f *fakeSessionRepo) DeleteByTokenHash(ctx context.Context, hash string) error {
	if _, ok := f.byHash[hash]; !ok {
		return session.ErrNotFound
	}
	delete(f.byHash, hash)
	return nil
}

func (f *fakeSessionRepo) CleanupExpired(ctx context.Context) error { return nil }

type fakeBlacklistRepo struct {
	revoked map[string]bool
}

func (f *fakeBlacklistRepo) AddToken(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	f.revoked[jti] = true
	return nil
}

func (f *fakeBlacklistRepo) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	return f.revoked[jti], nil
}

func (f *fakeBlacklistRepo) CleanupExpired(ctx context.Context) error { return nil }

func newTestAuth(t *testing.T) (*Service, *fakeUserRepo, *fakeSessionRepo, *fakeBlacklistRepo) {
	t.Helper()
	users := &fakeUserRepo{byUsername: map[string]user.User{}, byID: map[string]user.User{}}
	sessions := &fakeSessionRepo{byHash: map[string]session.Session{}}
	blacklist := &fakeBlacklistRepo{revoked: map[string]bool{}}

	svc := NewService("test-secret", user.NewService(users), session.NewService(sessions, blacklist))
	return svc, users, sessions, blacklist
}

func seedUser(t *testing.T, repo *fakeUserRepo, username, password string, active bool) user.User {
	t.Helper()
	hash, err := crypto.HashPassword(password)
	require.NoError(t, err)

	u := user.User{
		ID:       "user-" + username,
		Username: username,
		Email:    username + "@example.com",
		Password: hash,
		Role:     user.RoleMember,
		Active:   active,
	}
	repo.byUsername[username] = u
	repo.byID[u.ID] = u
	return u
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success issues token pair", func(t *testing.T) {
		svc, users, sessions, _ := newTestAuth(t)
		u := seedUser(t, users, "alice", "Str0ngPass!", true)

		access, refresh, expiresIn, err := svc.Login(ctx, "alice", "Str0ngPass!", "ua", "127.0.0.1")
		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, int(accessTokenTTL.Seconds()), expiresIn)

		claims, err := crypto.ParseToken("test-secret", access)
		require.NoError(t, err)
		assert.Equal(t, u.ID, claims.Sub)
		assert.Equal(t, "member", claims.Role)

		// The stored session holds the hash, not the token.
		assert.Len(t, sessions.byHash, 1)
		_, raw := sessions.byHash[refresh]
		assert.False(t, raw)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, users, _, _ := newTestAuth(t)
		seedUser(t, users, "alice", "Str0ngPass!", true)

		_, _, _, err := svc.Login(ctx, "alice", "wrong", "ua", "127.0.0.1")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _, _, _ := newTestAuth(t)

		_, _, _, err := svc.Login(ctx, "nobody", "Str0ngPass!", "ua", "127.0.0.1")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("inactive account", func(t *testing.T) {
		svc, users, _, _ := newTestAuth(t)
		seedUser(t, users, "alice", "Str0ngPass!", false)

		_, _, _, err := svc.Login(ctx, "alice", "Str0ngPass!", "ua", "127.0.0.1")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestService_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("rotation invalidates the old token", func(t *testing.T) {
		svc, users, _, _ := newTestAuth(t)
		seedUser(t, users, "alice", "Str0ngPass!", true)

		_, refresh, _, err := svc.Login(ctx, "alice", "Str0ngPass!", "ua", "127.0.0.1")
		require.NoError(t, err)

		access2, refresh2, _, err := svc.RefreshToken(ctx, refresh)
		require.NoError(t, err)
		assert.NotEmpty(t, access2)
		assert.NotEqual(t, refresh, refresh2)

		// Replaying the consumed token must fail.
		_, _, _, err = svc.RefreshToken(ctx, refresh)
		assert.ErrorIs(t, err, ErrUnauthorized)

		// The rotated token still works.
		_, _, _, err = svc.RefreshToken(ctx, refresh2)
		assert.NoError(t, err)
	})

	t.Run("unknown token", func(t *testing.T) {
		svc, _, _, _ := newTestAuth(t)

		_, _, _, err := svc.RefreshToken(ctx, "never-issued")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("deactivated user cannot refresh", func(t *testing.T) {
		svc, users, _, _ := newTestAuth(t)
		u := seedUser(t, users, "alice", "Str0ngPass!", true)

		_, refresh, _, err := svc.Login(ctx, "alice", "Str0ngPass!", "ua", "127.0.0.1")
		require.NoError(t, err)

		u.Active = false
		users.byID[u.ID] = u

		_, _, _, err = svc.RefreshToken(ctx, refresh)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestService_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("blacklists the access token", func(t *testing.T) {
		svc, users, _, blacklist := newTestAuth(t)
		u := seedUser(t, users, "alice", "Str0ngPass!", true)

		access, _, _, err := svc.Login(ctx, "alice", "Str0ngPass!", "ua", "127.0.0.1")
		require.NoError(t, err)

		require.NoError(t, svc.Logout(ctx, access, u.ID))

		claims, err := crypto.ParseToken("test-secret", access)
		require.NoError(t, err)
		revoked, err := blacklist.IsBlacklisted(ctx, claims.ID)
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("garbage token", func(t *testing.T) {
		svc, _, _, _ := newTestAuth(t)

		err := svc.Logout(ctx, "not.a.token", "u1")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}
