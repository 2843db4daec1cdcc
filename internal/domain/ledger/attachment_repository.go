package ledger

import (
	"context"

	"github.com/google/uuid"
)

// AttachmentRepository defines the interface for attachment metadata persistence
type AttachmentRepository interface {
	// Create creates attachment metadata
	Create(ctx context.Context, attachment *Attachment) error

	// FindByID finds an attachment by ID. Callers check ownership.
	FindByID(ctx context.Context, id uuid.UUID) (*Attachment, error)

	// ListByTransaction lists the attachments of a transaction
	ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*Attachment, error)

	// Delete removes an attachment
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByTransaction removes all attachments of a transaction
	DeleteByTransaction(ctx context.Context, transactionID uuid.UUID) error
}
