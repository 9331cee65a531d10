package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"pet-sync/internal/domain/pets"

	"github.com/google/uuid"
)

// Requiere una base real: PETSYNC_TEST_DSN=postgres://... go test ./...
func openTestDB(t *testing.T) *PetsRepo {
	t.Helper()
	dsn := os.Getenv("PETSYNC_TEST_DSN")
	if dsn == "" {
		t.Skip("PETSYNC_TEST_DSN not set")
	}

	db, err := Open(dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return NewPetsRepo(db)
}

func TestPetsRepo_CreateAndList(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	owner := "owner-" + uuid.NewString()
	now := time.Now().UTC().Truncate(time.Microsecond)

	p := pets.Pet{ID: uuid.NewString(), OwnerUserID: owner, Name: "Rex", Breed: "labrador", Age: 3, CreatedAt: now}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.Create(ctx, p); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Rex" || got.Age != 3 || !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected pet %#v", got)
	}

	items, err := repo.ListByOwner(ctx, owner)
	if err != nil || len(items) != 1 {
		t.Fatalf("expected 1 pet, got %d err=%v", len(items), err)
	}

	if _, err := repo.GetByID(ctx, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
