package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"calchat/internal/database"
)

// SessionDuration is how long session tokens are valid.
const SessionDuration = 30 * 24 * time.Hour

var ErrInvalidSession = errors.New("invalid or expired session")

// Service handles Google OAuth login and session tokens. Session tokens are
// random and stored hashed; the Google OAuth token for each user is kept in
// the database and refreshed on demand.
type Service struct {
	db     *database.DB
	config *oauth2.Config
}

// NewService creates a new authentication service.
func NewService(db *database.DB, oauthConfig *oauth2.Config) *Service {
	return &Service{db: db, config: oauthConfig}
}

// GetAuthURL returns the Google OAuth authorization URL.
func (s *Service) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// GetOAuthConfig exposes the OAuth config for calendar gateway construction.
func (s *Service) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// ExchangeCodeAndLogin exchanges an authorization code, resolves the Google
// user, stores their calendar token, and opens a session. Returns the user
// and the plaintext session token for the client to hold.
func (s *Service) ExchangeCodeAndLogin(ctx context.Context, code, deviceInfo string) (*database.User, string, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("failed to exchange code for token: %w", err)
	}

	googleUser, err := s.getGoogleUserInfo(ctx, token)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch user info: %w", err)
	}

	user, err := s.db.UpsertUser(googleUser.Id, googleUser.Email, googleUser.Name)
	if err != nil {
		return nil, "", err
	}

	if err := s.db.StoreGoogleToken(user.ID, token); err != nil {
		return nil, "", err
	}

	sessionToken, err := s.createSession(user.ID, deviceInfo)
	if err != nil {
		return nil, "", err
	}

	return user, sessionToken, nil
}

// ValidateSession resolves a plaintext session token to its user.
func (s *Service) ValidateSession(token string) (*database.User, error) {
	user, err := s.db.GetSessionUser(hashToken(token))
	if err == sql.ErrNoRows {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Logout removes the session for a plaintext token.
func (s *Service) Logout(token string) error {
	return s.db.DeleteSession(hashToken(token))
}

// GoogleToken returns a valid OAuth token for the user, refreshing and
// persisting it when the stored one has expired.
func (s *Service) GoogleToken(ctx context.Context, userID int64) (*oauth2.Token, error) {
	token, err := s.db.GetGoogleToken(userID)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, fmt.Errorf("no google token stored for user %d", userID)
	}

	if !token.Valid() && token.RefreshToken != "" {
		fresh, err := s.config.TokenSource(ctx, token).Token()
		if err != nil {
			// A refresh token Google rejects will never work again; drop it
			// so the user is asked to reconnect instead of failing forever.
			_ = s.db.DeleteGoogleToken(userID)
			return nil, fmt.Errorf("failed to refresh google token: %w", err)
		}
		token = fresh
		if err := s.db.StoreGoogleToken(userID, fresh); err != nil {
			return nil, err
		}
	}

	return token, nil
}

func (s *Service) getGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*goauth2.Userinfo, error) {
	httpClient := s.config.Client(ctx, token)
	svc, err := goauth2.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}
	return svc.Userinfo.Get().Context(ctx).Do()
}

func (s *Service) createSession(userID int64, deviceInfo string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	expiresAt := time.Now().Add(SessionDuration)
	if err := s.db.CreateSession(userID, hashToken(token), deviceInfo, expiresAt); err != nil {
		return "", err
	}
	return token, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
