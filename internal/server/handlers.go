package server

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"calchat/internal/auth"
	"calchat/internal/gcal"
)

// Health Check

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
	})
}

// Auth API

func (s *Server) handleAuthURL(w http.ResponseWriter, r *http.Request) {
	state, err := randomState()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate state")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"url":   s.authService.GetAuthURL(state),
		"state": state,
	})
}

func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		respondError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	user, sessionToken, err := s.authService.ExchangeCodeAndLogin(r.Context(), code, r.UserAgent())
	if err != nil {
		s.logger.Error("oauth exchange failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to complete sign-in")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"token": sessionToken,
		"user": map[string]any{
			"email": user.Email,
			"name":  user.Name,
		},
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("Authorization")
	if parts := strings.SplitN(token, " ", 2); len(parts) == 2 {
		token = strings.TrimSpace(parts[1])
	}
	if token == "" {
		respondError(w, http.StatusBadRequest, "missing session token")
		return
	}

	if err := s.authService.Logout(token); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	respondJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"email":         user.Email,
		"name":          user.Name,
	})
}

// Calendar connectivity probe: lists a handful of upcoming events to verify
// the delegated token still works.

func (s *Server) handleCalendarStatus(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	gateway, err := s.gatewayForUser(r, user.ID)
	if err != nil {
		s.logger.Error("calendar status: gateway unavailable", "user_id", user.ID, "error", err)
		respondError(w, http.StatusServiceUnavailable, "Google Calendar not connected")
		return
	}

	events, err := gateway.ListUpcoming(r.Context(), 10)
	if err != nil {
		s.logger.Error("calendar status: list failed", "user_id", user.ID, "error", err)
		respondError(w, http.StatusBadGateway, "failed to reach Google Calendar")
		return
	}

	summaries := make([]string, 0, len(events))
	for _, e := range events {
		summaries = append(summaries, e.Summary)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"connected":  true,
		"eventCount": len(events),
		"events":     summaries,
	})
}

// gatewayForUser builds a calendar gateway from the user's stored OAuth
// token, refreshing it if needed.
func (s *Server) gatewayForUser(r *http.Request, userID int64) (*gcal.Gateway, error) {
	token, err := s.authService.GoogleToken(r.Context(), userID)
	if err != nil {
		return nil, err
	}
	return gcal.NewGateway(r.Context(), s.authService.GetOAuthConfig(), token)
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Printf("Error encoding JSON response: %v\n", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func randomState() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}
