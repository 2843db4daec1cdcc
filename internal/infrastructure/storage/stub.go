// Package storage provides object storage implementations for attachment files.
package storage

import (
	"context"
	"errors"
	"io"
	"time"

	appledger "github.com/pocketledger/backend/internal/application/ledger"
)

// StubObjectStorage is a placeholder implementation of ObjectStorage.
// It discards uploaded bodies and returns synthetic download URLs.
// Use this for development until a real S3 backend is configured.
type StubObjectStorage struct {
	// BaseURL is the base URL for generating download URLs.
	// Defaults to "https://storage.example.com" if not set.
	BaseURL string
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.example.com",
	}
}

// Ensure StubObjectStorage implements the application storage port
var _ appledger.ObjectStorage = (*StubObjectStorage)(nil)

// Put drains the body and discards it
func (s *StubObjectStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	_, err := io.Copy(io.Discard, body)
	return err
}

// PresignGet generates a synthetic download URL
func (s *StubObjectStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiry)
	return s.BaseURL + "/download/" + key + "?expires=" + expiresAt.Format(time.RFC3339), nil
}

// Delete is a no-op stub that always succeeds
func (s *StubObjectStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	return nil
}
