package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "store.db")
	repo, err := NewRepository(dbPath, NewLocalPaths(filepath.Join(t.TempDir(), "storage")))
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	return repo
}

func TestCreateAccount(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	t.Run("FirstCreateSucceeds", func(t *testing.T) {
		account, err := repo.CreateAccount(ctx, "alice@example.com", "secret")
		if err != nil {
			t.Fatalf("Failed to create account: %v", err)
		}
		if account.ID == "" {
			t.Error("Expected a generated identifier")
		}
		if account.Email != "alice@example.com" {
			t.Errorf("Expected email alice@example.com, got %s", account.Email)
		}
		if account.Credential != "secret" {
			t.Errorf("Expected credential stored as given, got %s", account.Credential)
		}
	})

	t.Run("DuplicateEmailFails", func(t *testing.T) {
		_, err := repo.CreateAccount(ctx, "alice@example.com", "different")
		if !errors.Is(err, ErrDuplicateEmail) {
			t.Fatalf("Expected ErrDuplicateEmail, got %v", err)
		}
	})

	t.Run("IdentifiersAreUnique", func(t *testing.T) {
		a, err := repo.CreateAccount(ctx, "bob@example.com", "pw")
		if err != nil {
			t.Fatalf("Failed to create account: %v", err)
		}
		b, err := repo.CreateAccount(ctx, "carol@example.com", "pw")
		if err != nil {
			t.Fatalf("Failed to create account: %v", err)
		}
		if a.ID == b.ID {
			t.Errorf("Expected distinct identifiers, both were %s", a.ID)
		}
	})
}

func TestCreateAccountConcurrentDuplicates(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	const attempts = 10
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.CreateAccount(ctx, "race@example.com", "pw")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, ErrDuplicateEmail) {
			t.Errorf("Expected ErrDuplicateEmail for losers, got %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("Expected exactly one successful creation, got %d", succeeded)
	}
}

func TestCreateFileReference(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	owner, err := repo.CreateAccount(ctx, "owner@example.com", "pw")
	if err != nil {
		t.Fatalf("Failed to create owner account: %v", err)
	}

	t.Run("CreateSucceeds", func(t *testing.T) {
		ref, err := repo.CreateFileReference(ctx, "report.pdf", owner.ID)
		if err != nil {
			t.Fatalf("Failed to create file reference: %v", err)
		}
		if ref.ID == "" {
			t.Error("Expected a generated identifier")
		}
		if ref.OwnerID != owner.ID {
			t.Errorf("Expected owner %s, got %s", owner.ID, ref.OwnerID)
		}
		if ref.StoragePath == "" {
			t.Error("Expected a derived storage path")
		}
	})

	t.Run("StoragePathIsDeterministic", func(t *testing.T) {
		first, err := repo.CreateFileReference(ctx, "report.pdf", owner.ID)
		if err != nil {
			t.Fatalf("Failed to create file reference: %v", err)
		}
		second, err := repo.CreateFileReference(ctx, "report.pdf", owner.ID)
		if err != nil {
			t.Fatalf("Failed to create file reference: %v", err)
		}
		if first.StoragePath != second.StoragePath {
			t.Errorf("Expected identical paths for identical names, got %s and %s",
				first.StoragePath, second.StoragePath)
		}
	})

	t.Run("UnknownOwnerFails", func(t *testing.T) {
		_, err := repo.CreateFileReference(ctx, "report.pdf", "no-such-account")
		if !errors.Is(err, ErrUnknownOwner) {
			t.Fatalf("Expected ErrUnknownOwner, got %v", err)
		}
	})
}

func TestNewRepositoryBadPath(t *testing.T) {
	_, err := NewRepository(filepath.Join(t.TempDir(), "missing", "store.db"), NewLocalPaths(t.TempDir()))
	if err == nil {
		t.Fatal("Expected an error for an unwritable database path")
	}
}
