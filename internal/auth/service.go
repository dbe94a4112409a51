package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"libraryapi/internal/platform/crypto"
	"libraryapi/internal/session"
	"libraryapi/internal/user"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour
)

type Service struct {
	secret         string
	userService    *user.Service
	sessionService *session.Service
}

func NewService(secret string, userService *user.Service, sessionService *session.Service) *Service {
	return &Service{
		secret:         secret,
		userService:    userService,
		sessionService: sessionService,
	}
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func newRefreshToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// Login verifies credentials and issues an access/refresh token pair.
// Inactive accounts are rejected the same way as bad credentials.
func (s *Service) Login(ctx context.Context, username, password, userAgent, ipAddress string) (string, string, int, error) {
	u, err := s.userService.GetByUsername(ctx, username)
	if err != nil || !u.Active || !crypto.VerifyPassword(u.Password, password) {
		return "", "", 0, ErrUnauthorized
	}

	accessToken, _, err := crypto.GenerateToken(s.secret, u.ID, string(u.Role), accessTokenTTL)
	if err != nil {
		return "", "", 0, err
	}

	refreshToken, err := newRefreshToken()
	if err != nil {
		return "", "", 0, err
	}

	sess := &session.Session{
		UserID:           u.ID,
		RefreshTokenHash: hashToken(refreshToken),
		UserAgent:        userAgent,
		IPAddress:        ipAddress,
		ExpiresAt:        time.Now().Add(refreshTokenTTL),
	}

	if err := s.sessionService.Create(ctx, sess); err != nil {
		return "", "", 0, err
	}

	return accessToken, refreshToken, int(accessTokenTTL.Seconds()), nil
}

// RefreshToken rotates the refresh token: the presented token's session is
// deleted and a fresh one created, so a stolen token is single-use.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (string, string, int, error) {
	tokenHash := hashToken(refreshToken)
	sess, err := s.sessionService.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return "", "", 0, ErrUnauthorized
	}

	u, err := s.userService.GetByID(ctx, sess.UserID)
	if err != nil || !u.Active {
		return "", "", 0, ErrUnauthorized
	}

	if err := s.sessionService.DeleteByTokenHash(ctx, tokenHash); err != nil {
		return "", "", 0, err
	}

	accessToken, _, err := crypto.GenerateToken(s.secret, u.ID, string(u.Role), accessTokenTTL)
	if err != nil {
		return "", "", 0, err
	}

	newRefresh, err := newRefreshToken()
	if err != nil {
		return "", "", 0, err
	}

	newSess := sess
	newSess.ID = ""
	newSess.RefreshTokenHash = hashToken(newRefresh)
	newSess.ExpiresAt = time.Now().Add(refreshTokenTTL)

	if err := s.sessionService.Create(ctx, &newSess); err != nil {
		return "", "", 0, err
	}

	return accessToken, newRefresh, int(accessTokenTTL.Seconds()), nil
}

// Logout blacklists the access token until its natural expiry.
func (s *Service) Logout(ctx context.Context, token string, userID string) error {
	claims, err := crypto.ParseToken(s.secret, token)
	if err != nil {
		return ErrUnauthorized
	}

	expiresAt := time.Now().Add(24 * time.Hour)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return s.sessionService.AddToBlacklist(ctx, claims.ID, userID, expiresAt)
}
