package types

import "time"

// Account represents a registered user identity owned by the store.
type Account struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Credential string    `json:"credential"`
	CreatedAt  time.Time `json:"created_at"`
}

// FileReference represents a record pointing at a stored file. The
// storage path is derived from the display name, so identical names
// always map to the same path.
type FileReference struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	StoragePath string    `json:"storage_path"`
	OwnerID     string    `json:"owner_id"`
	UploadURL   string    `json:"upload_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateAccountRequest is the payload for POST /api/accounts.
type CreateAccountRequest struct {
	Email      string `json:"email" binding:"required"`
	Credential string `json:"credential" binding:"required"`
}

// CreateFileReferenceRequest is the payload for POST /api/files.
type CreateFileReferenceRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
	OwnerID     string `json:"owner_id" binding:"required"`
}

// Error codes returned in ErrorResponse.Code. The set is part of the
// wire contract; callers switch on Code, not on the message text.
const (
	CodeDuplicateEmail = "duplicate_email"
	CodeUnknownOwner   = "unknown_owner"
	CodeInvalidRequest = "invalid_request"
	CodeInternal       = "internal"
	CodeRelayFailure   = "relay_failure"
)

// ErrorResponse is the JSON body every failed request carries.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HealthResponse reports service liveness. The gateway additionally
// reports whether the store answered its own probe.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Store    string `json:"store,omitempty"`
}
