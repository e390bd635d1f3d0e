package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/vfw-cli/internal/core/ports/driven"
)

// Ensure BlobStore implements the interface.
var _ driven.BlobStore = (*BlobStore)(nil)

// blobScheme prefixes URLs handed out by the memory blob store.
const blobScheme = "blob:memory/"

// BlobStore keeps audio bytes in memory and hands out opaque URLs.
type BlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewBlobStore creates a new in-memory blob store.
func NewBlobStore() *BlobStore {
	return &BlobStore{
		blobs: make(map[string][]byte),
	}
}

// CreateURL stores a copy of data and returns its URL.
func (s *BlobStore) CreateURL(data []byte, _ string) (string, error) {
	url := blobScheme + uuid.NewString()
	buf := make([]byte, len(data))
	copy(buf, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[url] = buf
	return url, nil
}

// Revoke forgets a URL.
func (s *BlobStore) Revoke(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, url)
	return nil
}

// Retain forgets every URL not in keep.
func (s *BlobStore) Retain(keep []string) error {
	kept := make(map[string]bool, len(keep))
	for _, url := range keep {
		kept[url] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for url := range s.blobs {
		if !kept[url] {
			delete(s.blobs, url)
		}
	}
	return nil
}

// Lookup returns the bytes behind a URL.
func (s *BlobStore) Lookup(url string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[url]
	return data, ok
}

// Len returns the number of live URLs.
func (s *BlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
