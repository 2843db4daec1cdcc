package ledger

import (
	"strings"

	"github.com/google/uuid"

	"github.com/pocketledger/backend/internal/domain/shared"
)

// Attachment is a file stored alongside a transaction (receipt, note).
// The binary lives in object storage under StorageKey; the row only keeps
// metadata.
type Attachment struct {
	shared.BaseEntity
	UserID        uuid.UUID
	TransactionID uuid.UUID
	FileName      string
	ContentType   string
	SizeBytes     int64
	StorageKey    string
}

// NewAttachment creates attachment metadata for a stored object
func NewAttachment(userID, transactionID uuid.UUID, fileName, contentType string, sizeBytes int64, storageKey string) (*Attachment, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "File name cannot be empty")
	}
	if sizeBytes <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "File size must be positive")
	}
	if storageKey == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Storage key cannot be empty")
	}
	return &Attachment{
		BaseEntity:    shared.NewBaseEntity(),
		UserID:        userID,
		TransactionID: transactionID,
		FileName:      fileName,
		ContentType:   contentType,
		SizeBytes:     sizeBytes,
		StorageKey:    storageKey,
	}, nil
}
