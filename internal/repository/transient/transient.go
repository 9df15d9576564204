// Package transient implements the user repository without any storage.
//
// This is the default store: every login re-derives the canonical user from
// the incoming profile, so "find or create" degenerates to stamping the
// resolution time. Both timestamps are fresh on every call — a returning
// user looks newly created, which is the documented behavior of the
// storage-free deployment. Swap in the sqlite store for real persistence.
package transient

import (
	"context"
	"time"

	"github.com/sakif/repro-api/internal/model"
	"github.com/sakif/repro-api/internal/repository"
)

// compile-time check that *Store implements repository.UserRepository
var _ repository.UserRepository = (*Store)(nil)

// Store derives users per call and remembers nothing.
type Store struct{}

// New returns the stateless user store.
func New() *Store {
	return &Store{}
}

// Upsert stamps both timestamps with the resolution time. The identity
// fields are already set by the caller and pass through untouched.
func (s *Store) Upsert(_ context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}
