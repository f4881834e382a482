package database

import (
	"database/sql"
	"fmt"
	"time"
)

// CreateSession stores a new session token hash for a user.
func (d *DB) CreateSession(userID int64, tokenHash, deviceInfo string, expiresAt time.Time) error {
	_, err := d.Exec(`
		INSERT INTO sessions (user_id, token_hash, device_info, expires_at)
		VALUES (?, ?, ?, ?)
	`, userID, tokenHash, deviceInfo, expiresAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSessionUser resolves a token hash to its user, rejecting expired
// sessions.
func (d *DB) GetSessionUser(tokenHash string) (*User, error) {
	row := d.QueryRow(`
		SELECT u.id, u.google_id, u.email, u.name, u.created_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token_hash = ? AND s.expires_at > ?
	`, tokenHash, time.Now().UTC())

	user, err := d.scanUser(row)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

// DeleteSession removes a session by token hash (logout).
func (d *DB) DeleteSession(tokenHash string) error {
	_, err := d.Exec(`DELETE FROM sessions WHERE token_hash = ?`, tokenHash)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes sessions past their expiry.
func (d *DB) CleanupExpiredSessions() error {
	_, err := d.Exec(`DELETE FROM sessions WHERE expires_at <= ?`, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return nil
}
