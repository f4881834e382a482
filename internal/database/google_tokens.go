package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// StoreGoogleToken saves (or replaces) a user's OAuth token.
func (d *DB) StoreGoogleToken(userID int64, token *oauth2.Token) error {
	if token == nil {
		return fmt.Errorf("token is required")
	}

	tokenJSON, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	_, err = d.Exec(`
		INSERT INTO google_tokens (user_id, token_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET token_json = excluded.token_json, updated_at = excluded.updated_at
	`, userID, string(tokenJSON), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to store google token: %w", err)
	}
	return nil
}

// GetGoogleToken loads a user's OAuth token, or nil when none is stored.
func (d *DB) GetGoogleToken(userID int64) (*oauth2.Token, error) {
	var tokenJSON string
	err := d.QueryRow(`
		SELECT token_json FROM google_tokens WHERE user_id = ?
	`, userID).Scan(&tokenJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load google token: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal([]byte(tokenJSON), &token); err != nil {
		return nil, fmt.Errorf("failed to unmarshal google token: %w", err)
	}
	return &token, nil
}

// DeleteGoogleToken removes a user's OAuth token (disconnect).
func (d *DB) DeleteGoogleToken(userID int64) error {
	_, err := d.Exec(`DELETE FROM google_tokens WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete google token: %w", err)
	}
	return nil
}
