package ipfs

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"sync"
)

// MemoryStore is a thread-safe, in-memory Store for testing and development.
// CIDs are derived from the content's SHA-256, so identical bytes map to the
// same CID and the store deduplicates naturally.
type MemoryStore struct {
	mu       sync.RWMutex
	blobs    map[string][]byte
	maxBytes int64
}

// NewMemoryStore returns a ready-to-use MemoryStore with the given upload
// size limit.
func NewMemoryStore(maxBytes int64) *MemoryStore {
	return &MemoryStore{
		blobs:    make(map[string][]byte),
		maxBytes: maxBytes,
	}
}

func (s *MemoryStore) Store(_ context.Context, filename string, content io.Reader) (string, error) {
	if filename == "" {
		return "", ErrMissingFileName
	}

	data, err := io.ReadAll(io.LimitReader(content, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrFileTooLarge
	}

	cid := fmt.Sprintf("%x", sha256.Sum256(data))

	s.mu.Lock()
	s.blobs[cid] = data
	s.mu.Unlock()

	return cid, nil
}

func (s *MemoryStore) Fetch(_ context.Context, cid string) ([]byte, error) {
	s.mu.RLock()
	data, ok := s.blobs[cid]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrContentUnavailable
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *MemoryStore) PublicURL(cid string) string {
	return "memory://" + cid
}
