// Package repository declares the storage capabilities consumed by the
// service layer. Concrete implementations live in subpackages; the service
// only ever sees these interfaces, so storage can change without touching
// the auth flow.
package repository

import (
	"context"

	"github.com/sakif/repro-api/internal/model"
)

// UserRepository is the find-or-create capability for canonical users.
//
// Upsert receives a User whose identity fields (ID, Provider,
// ProviderUserID, profile data) are already resolved. The implementation
// owns the timestamps: a transient store stamps resolution time on every
// call, a persistent store preserves CreatedAt and refreshes the profile
// fields. On return the User reflects the stored record.
type UserRepository interface {
	Upsert(ctx context.Context, user *model.User) error
}
