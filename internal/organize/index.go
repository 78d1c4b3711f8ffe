package organize

import (
	"errors"

	"github.com/jacobtruman/OrganizePictures/internal/model"
)

// ErrDuplicateHash is returned by ContentIndex.Record when the hash is
// already present. The existing entry is never overwritten.
var ErrDuplicateHash = errors.New("content hash already recorded")

// ContentIndex is the persistent hash→first-seen store used to reject exact
// duplicates across the whole history of runs. Inserts are durable before
// Record returns; correctness of deduplication depends on it, so any other
// index failure is fatal for the run.
type ContentIndex interface {
	// Lookup returns the entry for a hash, or nil if the hash is unseen.
	// Pure read, no side effects.
	Lookup(hash string) (*model.IndexEntry, error)

	// Record durably inserts a hash→path entry. Fails with ErrDuplicateHash
	// if the hash is already present.
	Record(hash, originalPath string) error

	// Close closes the underlying store.
	Close() error
}
