// Package ipfs provides the content-addressed file store used for medical
// record payloads. Uploads go to a pinning endpoint which assigns the CID;
// downloads fall back across an ordered list of public gateways. A
// memory-backed implementation serves tests and development.
package ipfs

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrContentUnavailable is returned when every configured gateway
	// failed to serve the CID.
	ErrContentUnavailable = errors.New("content unavailable on all gateways")
	// ErrFileTooLarge is returned when an upload exceeds the configured
	// size limit.
	ErrFileTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrMissingFileName is returned when an upload has no file name.
	ErrMissingFileName = errors.New("file name is required")
)

// Store is the contract for content-addressed storage backends.
//
// Store trusts the CID assigned by the backend; no local verification that
// the returned CID hashes the submitted bytes is performed. Fetch returns
// the raw bytes for a CID or ErrContentUnavailable.
type Store interface {
	Store(ctx context.Context, filename string, content io.Reader) (cid string, err error)
	Fetch(ctx context.Context, cid string) ([]byte, error)
	PublicURL(cid string) string
}
