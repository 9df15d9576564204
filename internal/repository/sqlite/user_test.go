package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/sakif/repro-api/internal/model"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(\":memory:\") error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUpsertInsertsNewUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := model.NewUserFromProfile(model.OAuthProfile{
		Provider:       "github",
		ProviderUserID: "42",
		Name:           "The Octocat",
		Email:          "octo@example.com",
		Nickname:       "octocat",
		AvatarURL:      "https://example.com/a.png",
	})

	if err := db.Upsert(ctx, user); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if user.ID != "github:42" {
		t.Errorf("ID = %q, want %q", user.ID, "github:42")
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Errorf("timestamps not stamped: created=%v updated=%v", user.CreatedAt, user.UpdatedAt)
	}
	if !user.CreatedAt.Equal(user.UpdatedAt) {
		t.Errorf("first insert: CreatedAt %v != UpdatedAt %v", user.CreatedAt, user.UpdatedAt)
	}

	got, err := db.GetByID(ctx, "github:42")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "The Octocat" || got.Email != "octo@example.com" || got.Nickname != "octocat" {
		t.Errorf("stored user = %+v", got)
	}
}

func TestUpsertSecondLoginKeepsIdentityAndCreatedAt(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := model.NewUserFromProfile(model.OAuthProfile{
		Provider:       "github",
		ProviderUserID: "42",
		Name:           "The Octocat",
	})
	if err := db.Upsert(ctx, first); err != nil {
		t.Fatalf("first Upsert() error = %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	// Same provider identity comes back with refreshed profile fields.
	second := model.NewUserFromProfile(model.OAuthProfile{
		Provider:       "github",
		ProviderUserID: "42",
		Name:           "Octo Renamed",
		Email:          "new@example.com",
	})
	if err := db.Upsert(ctx, second); err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("ID changed across logins: %q vs %q", second.ID, first.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt not preserved: first %v, second %v", first.CreatedAt, second.CreatedAt)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Errorf("UpdatedAt not refreshed: first %v, second %v", first.UpdatedAt, second.UpdatedAt)
	}

	got, err := db.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "Octo Renamed" || got.Email != "new@example.com" {
		t.Errorf("profile fields not refreshed: %+v", got)
	}
}

func TestUpsertDistinctProvidersAreDistinctUsers(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	a := model.NewUserFromProfile(model.OAuthProfile{Provider: "github", ProviderUserID: "42"})
	b := model.NewUserFromProfile(model.OAuthProfile{Provider: "gitlab", ProviderUserID: "42"})

	if err := db.Upsert(ctx, a); err != nil {
		t.Fatalf("Upsert(a) error = %v", err)
	}
	if err := db.Upsert(ctx, b); err != nil {
		t.Fatalf("Upsert(b) error = %v", err)
	}

	if a.ID == b.ID {
		t.Errorf("same ID %q for different providers", a.ID)
	}
	if _, err := db.GetByID(ctx, a.ID); err != nil {
		t.Errorf("GetByID(%q) error = %v", a.ID, err)
	}
	if _, err := db.GetByID(ctx, b.ID); err != nil {
		t.Errorf("GetByID(%q) error = %v", b.ID, err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByID(context.Background(), "github:missing")
	if err == nil {
		t.Fatal("GetByID() on empty table returned nil error")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("error = %v, want wrapped sql.ErrNoRows", err)
	}
}
