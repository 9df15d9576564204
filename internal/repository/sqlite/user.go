package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/repro-api/internal/model"
	"github.com/sakif/repro-api/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// Upsert inserts or updates a user keyed by (provider, provider_user_id).
//
// First login → INSERT with both timestamps set to now. Subsequent logins →
// UPDATE the profile fields (name, email, nickname, avatar) in case they
// changed at the provider, refresh updated_at, and keep created_at. The
// caller's User is updated to the stored record either way.
func (db *DB) Upsert(ctx context.Context, user *model.User) error {
	var (
		existingID string
		createdAt  time.Time
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, created_at FROM users WHERE provider = ? AND provider_user_id = ?`,
		user.Provider, user.ProviderUserID,
	).Scan(&existingID, &createdAt)

	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: looking up user %s:%s: %w", user.Provider, user.ProviderUserID, err)
	}

	now := time.Now().UTC()

	if existingID != "" {
		user.ID = existingID
		user.CreatedAt = createdAt
		user.UpdatedAt = now
		_, err = db.conn.ExecContext(ctx,
			`UPDATE users SET name = ?, email = ?, nickname = ?, avatar_url = ?, updated_at = ?
			 WHERE id = ?`,
			user.Name,
			user.Email,
			user.Nickname,
			user.AvatarURL,
			user.UpdatedAt,
			user.ID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
		}
		return nil
	}

	user.CreatedAt = now
	user.UpdatedAt = now

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO users (id, provider, provider_user_id, name, email, nickname, avatar_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Provider,
		user.ProviderUserID,
		user.Name,
		user.Email,
		user.Nickname,
		user.AvatarURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user %s: %w", user.ID, err)
	}

	return nil
}

// GetByID retrieves a user by their canonical ID.
// Returns sql.ErrNoRows wrapped when no such user exists.
func (db *DB) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, provider, provider_user_id, name, email, nickname, avatar_url, created_at, updated_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(
		&u.ID,
		&u.Provider,
		&u.ProviderUserID,
		&u.Name,
		&u.Email,
		&u.Nickname,
		&u.AvatarURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}

	return &u, nil
}
