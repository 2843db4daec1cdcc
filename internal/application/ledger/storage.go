package ledger

import (
	"context"
	"io"
	"time"
)

// ObjectStorage abstracts the blob store holding attachment files
type ObjectStorage interface {
	// Put stores an object under the given key
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// PresignGet returns a temporary download URL for an object
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
}
