package database

import (
	"database/sql"
	"fmt"
	"time"
)

// User is an authenticated calendar owner.
type User struct {
	ID        int64     `json:"id"`
	GoogleID  string    `json:"google_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// UpsertUser creates or refreshes a user record keyed by Google ID.
func (d *DB) UpsertUser(googleID, email, name string) (*User, error) {
	if googleID == "" {
		return nil, fmt.Errorf("google id is required")
	}

	_, err := d.Exec(`
		INSERT INTO users (google_id, email, name)
		VALUES (?, ?, ?)
		ON CONFLICT(google_id) DO UPDATE SET email = excluded.email, name = excluded.name
	`, googleID, email, name)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return d.GetUserByGoogleID(googleID)
}

// GetUserByGoogleID fetches a user by Google account ID.
func (d *DB) GetUserByGoogleID(googleID string) (*User, error) {
	return d.scanUser(d.QueryRow(`
		SELECT id, google_id, email, name, created_at FROM users WHERE google_id = ?
	`, googleID))
}

func (d *DB) scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.GoogleID, &u.Email, &u.Name, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}
