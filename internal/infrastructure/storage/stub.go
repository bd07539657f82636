// Package storage provides object storage implementations for payment proof files.
package storage

import (
	"bytes"
	"context"
	"errors"
	"sync"

	paymentapp "github.com/titipin/backend/internal/application/payment"
)

// StubObjectStorage is an in-memory implementation of ObjectStorageService.
// Use it in development when no S3-compatible backend is configured; uploaded
// proofs live only for the lifetime of the process.
type StubObjectStorage struct {
	// BaseURL is the base URL used for generated object URLs.
	// Defaults to "https://storage.example.com" if not set.
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

// Ensure StubObjectStorage implements ObjectStorageService
var _ paymentapp.ObjectStorageService = (*StubObjectStorage)(nil)

// PutObject stores the document in memory and returns a fake URL.
func (s *StubObjectStorage) PutObject(ctx context.Context, storageKey, contentType string, body *bytes.Reader) (string, error) {
	if storageKey == "" {
		return "", errors.New("storage key is required")
	}
	if body == nil {
		return "", errors.New("body is required")
	}

	data := make([]byte, body.Len())
	if _, err := body.Read(data); err != nil && body.Len() > 0 {
		return "", err
	}

	s.mu.Lock()
	s.objects[storageKey] = data
	s.mu.Unlock()

	return s.BaseURL + "/" + storageKey, nil
}

// DeleteObject removes a stored document.
func (s *StubObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	delete(s.objects, storageKey)
	s.mu.Unlock()

	return nil
}

// ObjectExists reports whether a document was stored under the key.
func (s *StubObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[storageKey]
	return ok, nil
}

// Object returns the stored bytes for a key (for testing).
func (s *StubObjectStorage) Object(storageKey string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[storageKey]
	return data, ok
}
