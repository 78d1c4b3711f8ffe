package testutil

import (
	"testing"

	"github.com/jacobtruman/OrganizePictures/internal/index"
)

// NewTestIndex creates an in-memory content index with schema applied.
// The index is automatically closed when the test completes.
func NewTestIndex(t *testing.T) *index.SQLiteIndex {
	t.Helper()

	idx, err := index.New(":memory:")
	if err != nil {
		t.Fatalf("failed to open index: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}
