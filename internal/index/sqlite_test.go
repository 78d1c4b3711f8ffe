package index

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jacobtruman/OrganizePictures/internal/model"
	"github.com/jacobtruman/OrganizePictures/internal/organize"
)

func TestRecordAndLookup(t *testing.T) {
	idx := newTestIndex(t)

	hash := "60303ae22b998861bce3b28f33eec1be758a213c86c93c076dbe9f558c11c752"
	if err := idx.Record(hash, "/photos/2023/May/2023-05-02_09'00'00.jpg"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	entry, err := idx.Lookup(hash)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if entry == nil {
		t.Fatal("Lookup() = nil, want entry")
	}
	if entry.Hash != hash {
		t.Errorf("entry.Hash = %q, want %q", entry.Hash, hash)
	}
	if entry.OriginalPath != "/photos/2023/May/2023-05-02_09'00'00.jpg" {
		t.Errorf("entry.OriginalPath = %q", entry.OriginalPath)
	}
	if entry.RecordedAt.IsZero() {
		t.Error("entry.RecordedAt is zero")
	}
}

func TestLookupUnknownHash(t *testing.T) {
	idx := newTestIndex(t)

	entry, err := idx.Lookup("deadbeef")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if entry != nil {
		t.Errorf("Lookup() = %+v, want nil", entry)
	}
}

func TestRecordDuplicateHash(t *testing.T) {
	idx := newTestIndex(t)

	hash := "aabbcc"
	if err := idx.Record(hash, "/photos/first.jpg"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	err := idx.Record(hash, "/photos/second.jpg")
	if !errors.Is(err, organize.ErrDuplicateHash) {
		t.Fatalf("Record() error = %v, want ErrDuplicateHash", err)
	}

	// The original entry must survive the rejected insert.
	entry, err := idx.Lookup(hash)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if entry.OriginalPath != "/photos/first.jpg" {
		t.Errorf("entry.OriginalPath = %q, want original path preserved", entry.OriginalPath)
	}
}

func TestIndexPersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index.db")

	idx, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := idx.Record("cafe01", "/photos/a.jpg"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	idx, err = New(dbPath)
	if err != nil {
		t.Fatalf("New() reopen error = %v", err)
	}
	defer idx.Close()

	entry, err := idx.Lookup("cafe01")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if entry == nil {
		t.Fatal("Lookup() = nil after reopen, want entry")
	}
	if err := idx.Record("cafe01", "/photos/b.jpg"); !errors.Is(err, organize.ErrDuplicateHash) {
		t.Errorf("Record() after reopen error = %v, want ErrDuplicateHash", err)
	}
}

func TestCount(t *testing.T) {
	idx := newTestIndex(t)

	count, err := idx.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d, want 0", count)
	}

	idx.Record("h1", "/a")
	idx.Record("h2", "/b")

	count, err = idx.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}
}

func TestRunLifecycle(t *testing.T) {
	idx := newTestIndex(t)

	started := time.Date(2023, 5, 2, 9, 0, 0, 0, time.UTC)
	id, err := idx.StartRun("/photos/incoming", started)
	if err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}
	if id == "" {
		t.Fatal("StartRun() returned empty id")
	}

	runs, err := idx.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("RecentRuns() returned %d runs, want 1", len(runs))
	}
	if runs[0].FinishedAt != nil {
		t.Error("run in progress has non-nil FinishedAt")
	}

	summary := model.Summary{Moved: 3, Duplicate: 1, Failed: 2, Skipped: 4}
	if err := idx.FinishRun(id, started.Add(time.Minute), summary); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	runs, err = idx.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	run := runs[0]
	if run.ID != id {
		t.Errorf("run.ID = %q, want %q", run.ID, id)
	}
	if run.SourceDir != "/photos/incoming" {
		t.Errorf("run.SourceDir = %q", run.SourceDir)
	}
	if run.FinishedAt == nil {
		t.Fatal("run.FinishedAt = nil after FinishRun")
	}
	if run.Moved != 3 || run.Duplicate != 1 || run.Failed != 2 || run.Skipped != 4 {
		t.Errorf("run counters = %d/%d/%d/%d, want 3/1/2/4",
			run.Moved, run.Duplicate, run.Failed, run.Skipped)
	}
}

func TestRecentRunsOrderAndLimit(t *testing.T) {
	idx := newTestIndex(t)

	base := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := idx.StartRun("/photos", base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("StartRun() error = %v", err)
		}
	}

	runs, err := idx.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("RecentRuns(2) returned %d runs", len(runs))
	}
	if !runs[0].StartedAt.After(runs[1].StartedAt) {
		t.Errorf("runs not ordered most recent first: %v then %v",
			runs[0].StartedAt, runs[1].StartedAt)
	}
}

func newTestIndex(t *testing.T) *SQLiteIndex {
	t.Helper()
	idx, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(:memory:) error = %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}
