package server

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"calchat/internal/auth"
	"calchat/internal/chat"
	"calchat/internal/database"
)

func newTestServer(t *testing.T) (*Server, *database.DB) {
	t.Helper()

	db := database.NewTestDB(t)
	oauthCfg := &oauth2.Config{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		RedirectURL:  "http://localhost:8080/oauth/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.example.com/auth",
			TokenURL: "https://accounts.example.com/token",
		},
	}

	s := New(ServerConfig{
		DB:             db,
		AuthService:    auth.NewService(db, oauthCfg),
		Port:           0,
		Timezone:       "UTC",
		Location:       time.UTC,
		ListPageSize:   20,
		CancelPageSize: 50,
	})
	return s, db
}

// openSession stores a session row directly and returns the plaintext token.
func openSession(t *testing.T, db *database.DB, userID int64) string {
	t.Helper()

	token := "test-session-token"
	sum := sha256.Sum256([]byte(token))
	require.NoError(t, db.CreateSession(userID, hex.EncodeToString(sum[:]), "test", time.Now().Add(time.Hour)))
	return token
}

func TestHealthCheck(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestAuthURL(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/auth/url", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["url"], "https://accounts.example.com/auth")
	assert.Contains(t, body["url"], "state="+body["state"])
	assert.NotEmpty(t, body["state"])
}

func TestChatEndpointAuth(t *testing.T) {
	s, db := newTestServer(t)

	t.Run("rejects anonymous requests", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message":"hi"}`))
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "You must be signed in")
	})

	t.Run("rejects a stale token", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message":"hi"}`))
		req.Header.Set("Authorization", "Bearer stale")
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid session without a calendar token degrades gracefully", func(t *testing.T) {
		user := database.CreateTestUser(t, db)
		token := openSession(t, db, user.ID)

		req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message":"show my events"}`))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp chat.TurnResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Reply, "Google Calendar is not connected")
	})
}

func TestChatEndpointValidation(t *testing.T) {
	s, db := newTestServer(t)
	user := database.CreateTestUser(t, db)
	token := openSession(t, db, user.ID)

	t.Run("malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{`))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid JSON")
	})

	t.Run("empty message", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message":""}`))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "message is required")
	})
}

func TestAuthStatus(t *testing.T) {
	s, db := newTestServer(t)
	user := database.CreateTestUser(t, db)
	token := openSession(t, db, user.ID)

	req := httptest.NewRequest("GET", "/api/auth/status", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, user.Email, body["email"])
}

func TestLogout(t *testing.T) {
	s, db := newTestServer(t)
	user := database.CreateTestUser(t, db)
	token := openSession(t, db, user.ID)

	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The session is gone now.
	req = httptest.NewRequest("GET", "/api/auth/status", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOAuthCallbackValidation(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/oauth/callback", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing authorization code")
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest("OPTIONS", "/api/chat", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}
