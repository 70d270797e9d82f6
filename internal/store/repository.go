package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/filecrate/filecrate/pkg/types"
)

var (
	// ErrDuplicateEmail is returned when an account with the same
	// email already exists.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrUnknownOwner is returned when a file reference names an
	// owner account that does not exist.
	ErrUnknownOwner = errors.New("owner account does not exist")
)

// Repository persists accounts and file references in SQLite.
type Repository struct {
	db    *sql.DB
	paths PathResolver
}

// NewRepository opens (or creates) the database at dbPath and ensures
// the schema exists.
func NewRepository(dbPath string, paths PathResolver) (*Repository, error) {
	// Pragmas go on the DSN so every pooled connection gets them.
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := &Repository{db: db, paths: paths}
	if err := repo.initTables(); err != nil {
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	return repo, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Ping reports whether the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) initTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		credential TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS file_refs (
		id TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		storage_path TEXT NOT NULL,
		owner_id TEXT NOT NULL REFERENCES accounts(id),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_file_refs_owner ON file_refs(owner_id);
	`

	_, err := r.db.Exec(schema)
	return err
}

// CreateAccount inserts a new account. Email uniqueness rides on the
// UNIQUE constraint: the insert itself is the check, so two concurrent
// creations with the same email cannot both succeed.
func (r *Repository) CreateAccount(ctx context.Context, email, credential string) (*types.Account, error) {
	account := &types.Account{
		ID:         uuid.New().String(),
		Email:      email,
		Credential: credential,
		CreatedAt:  time.Now().UTC(),
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO accounts (id, email, credential, created_at) VALUES (?, ?, ?, ?)",
		account.ID, account.Email, account.Credential, account.CreatedAt,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("inserting account: %w", err)
	}

	return account, nil
}

// CreateFileReference validates the owner and inserts a new file
// reference with a storage path derived from the display name. The
// foreign key backstops the existence check against a concurrent
// owner insert race.
func (r *Repository) CreateFileReference(ctx context.Context, displayName, ownerID string) (*types.FileReference, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM accounts WHERE id = ?)", ownerID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking owner: %w", err)
	}
	if !exists {
		return nil, ErrUnknownOwner
	}

	ref := &types.FileReference{
		ID:          uuid.New().String(),
		DisplayName: displayName,
		StoragePath: r.paths.Resolve(displayName),
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO file_refs (id, display_name, storage_path, owner_id, created_at) VALUES (?, ?, ?, ?, ?)",
		ref.ID, ref.DisplayName, ref.StoragePath, ref.OwnerID, ref.CreatedAt,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return nil, ErrUnknownOwner
		}
		return nil, fmt.Errorf("inserting file reference: %w", err)
	}

	if presigner, ok := r.paths.(UploadPresigner); ok {
		url, err := presigner.PresignUpload(displayName)
		if err != nil {
			return nil, fmt.Errorf("presigning upload: %w", err)
		}
		ref.UploadURL = url
	}

	return ref, nil
}

// isConstraintViolation checks if the error is a SQLite constraint
// violation (UNIQUE or FOREIGN KEY).
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "FOREIGN KEY constraint failed") ||
		strings.Contains(errStr, "constraint failed")
}
