package ledger

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/pocketledger/backend/internal/domain/ledger"
	"github.com/pocketledger/backend/internal/domain/shared"
)

// downloadURLExpiry bounds how long a presigned attachment URL stays valid
const downloadURLExpiry = 15 * time.Minute

// maxAttachmentSize bounds uploaded attachment size (10 MiB)
const maxAttachmentSize = 10 << 20

// AttachmentService stores transaction attachments in object storage and
// tracks their metadata in the ledger.
type AttachmentService struct {
	scope   LedgerScope
	storage ObjectStorage
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(scope LedgerScope, storage ObjectStorage) *AttachmentService {
	return &AttachmentService{
		scope:   scope,
		storage: storage,
	}
}

// AttachmentResponse represents attachment metadata in API responses
type AttachmentResponse struct {
	ID            uuid.UUID `json:"id"`
	TransactionID uuid.UUID `json:"transaction_id"`
	FileName      string    `json:"file_name"`
	ContentType   string    `json:"content_type"`
	SizeBytes     int64     `json:"size_bytes"`
	CreatedAt     time.Time `json:"created_at"`
}

// UploadAttachmentRequest carries an uploaded file
type UploadAttachmentRequest struct {
	FileName    string
	ContentType string
	SizeBytes   int64
	Body        io.Reader
}

// Upload stores a file for a transaction
func (s *AttachmentService) Upload(ctx context.Context, userID, transactionID uuid.UUID, req UploadAttachmentRequest) (*AttachmentResponse, error) {
	if req.SizeBytes > maxAttachmentSize {
		return nil, shared.NewDomainError("INVALID_INPUT", "Attachment exceeds the maximum allowed size")
	}

	var attachment *ledger.Attachment
	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		tx, err := repos.Transactions().FindByID(ctx, transactionID)
		if err != nil {
			return err
		}
		if !tx.IsOwnedBy(userID) {
			return shared.ErrForbidden
		}

		key := fmt.Sprintf("attachments/%s/%s/%s", userID, transactionID, uuid.New())
		created, err := ledger.NewAttachment(userID, transactionID, req.FileName, req.ContentType, req.SizeBytes, key)
		if err != nil {
			return err
		}

		if err := s.storage.Put(ctx, key, req.Body, req.SizeBytes, req.ContentType); err != nil {
			return err
		}
		if err := repos.Attachments().Create(ctx, created); err != nil {
			// Best effort cleanup of the orphaned object.
			_ = s.storage.Delete(ctx, key)
			return err
		}
		attachment = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toAttachmentResponse(attachment), nil
}

// List lists the attachments of a transaction
func (s *AttachmentService) List(ctx context.Context, userID, transactionID uuid.UUID) ([]AttachmentResponse, error) {
	var attachments []*ledger.Attachment
	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		tx, err := repos.Transactions().FindByID(ctx, transactionID)
		if err != nil {
			return err
		}
		if !tx.IsOwnedBy(userID) {
			return shared.ErrForbidden
		}
		attachments, err = repos.Attachments().ListByTransaction(ctx, transactionID)
		return err
	})
	if err != nil {
		return nil, err
	}

	responses := make([]AttachmentResponse, len(attachments))
	for i, a := range attachments {
		responses[i] = *toAttachmentResponse(a)
	}
	return responses, nil
}

// DownloadURL returns a temporary download URL for an attachment
func (s *AttachmentService) DownloadURL(ctx context.Context, userID, id uuid.UUID) (string, error) {
	var key string
	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		found, err := repos.Attachments().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if found.UserID != userID {
			return shared.ErrForbidden
		}
		key = found.StorageKey
		return nil
	})
	if err != nil {
		return "", err
	}
	return s.storage.PresignGet(ctx, key, downloadURLExpiry)
}

// Delete removes an attachment and its stored object
func (s *AttachmentService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		found, err := repos.Attachments().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if found.UserID != userID {
			return shared.ErrForbidden
		}

		if err := s.storage.Delete(ctx, found.StorageKey); err != nil {
			return err
		}
		return repos.Attachments().Delete(ctx, id)
	})
}

func toAttachmentResponse(a *ledger.Attachment) *AttachmentResponse {
	return &AttachmentResponse{
		ID:            a.ID,
		TransactionID: a.TransactionID,
		FileName:      a.FileName,
		ContentType:   a.ContentType,
		SizeBytes:     a.SizeBytes,
		CreatedAt:     a.CreatedAt,
	}
}
