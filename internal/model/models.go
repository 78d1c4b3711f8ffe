package model

import "time"

// Kind classifies a media file by how it is decoded and dated.
type Kind int

const (
	KindUnknown Kind = iota
	KindImage
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	default:
		return "unknown"
	}
}

// DateSource identifies which source produced a resolved capture date.
type DateSource string

const (
	SourceSidecar  DateSource = "sidecar"
	SourceMetadata DateSource = "metadata"
	SourceFilename DateSource = "filename"
	SourceModTime  DateSource = "modtime"
)

// Sidecar is the parsed content of a Google-Photos-style companion JSON file.
// A zero Taken time means the sidecar carried no usable timestamp.
type Sidecar struct {
	Title       string
	Description string
	Taken       time.Time
	Latitude    float64
	Longitude   float64
	Altitude    float64
	People      []string
}

// HasGeo reports whether the sidecar carries a real GPS fix.
// Google exports write 0,0 for photos without location data.
func (s *Sidecar) HasGeo() bool {
	return s.Latitude != 0 || s.Longitude != 0
}

// MediaRecord is the in-memory state of one discovered file as it moves
// through the pipeline. Records are created at discovery and mutated only
// by the pipeline, never concurrently.
type MediaRecord struct {
	SourcePath      string
	Kind            Kind
	Valid           bool
	Extension       string // original extension, lowercase, with leading dot
	SidecarPath     string // empty if no sidecar was found
	Sidecar         *Sidecar
	ResolvedDate    time.Time // zero if no source yielded a date
	DateSource      DateSource
	ContentHash     string // lowercase hex sha256 of the source bytes
	TargetExtension string // extension after format policy, with leading dot
}

// HasDate reports whether date resolution produced a usable timestamp.
func (r *MediaRecord) HasDate() bool {
	return !r.ResolvedDate.IsZero()
}

// IndexEntry is the first-seen record for a content hash.
type IndexEntry struct {
	Hash         string
	OriginalPath string
	RecordedAt   time.Time
}

// Status is the terminal state of one record after a pipeline run.
type Status string

const (
	StatusMoved     Status = "moved"
	StatusDuplicate Status = "duplicate"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// FailureReason explains why a record ended in StatusFailed.
type FailureReason string

const (
	ReasonInvalidFormat   FailureReason = "invalid_format"
	ReasonConversionError FailureReason = "conversion_error"
	ReasonPlacementError  FailureReason = "placement_error"
	ReasonIOError         FailureReason = "io_error"
)

// FileOutcome is the per-file result reported in the run summary.
type FileOutcome struct {
	SourcePath string
	Status     Status
	Reason     FailureReason // set only for StatusFailed
	DestPath   string        // set for StatusMoved; existing path for StatusDuplicate
}

// Summary aggregates the outcomes of a whole pipeline run.
// One file's failure never halts the run, so all counters can be non-zero
// at once.
type Summary struct {
	Moved     int
	Duplicate int
	Failed    int
	Skipped   int
	Deleted   int
	Files     []FileOutcome
}

// Add records an outcome and bumps the matching counter.
func (s *Summary) Add(o FileOutcome) {
	s.Files = append(s.Files, o)
	switch o.Status {
	case StatusMoved:
		s.Moved++
	case StatusDuplicate:
		s.Duplicate++
	case StatusFailed:
		s.Failed++
	case StatusSkipped:
		s.Skipped++
	}
}

// Run is one persisted pipeline run, kept for operation history.
type Run struct {
	ID         string // UUID
	SourceDir  string
	StartedAt  time.Time
	FinishedAt *time.Time // nil while the run is in progress
	Moved      int
	Duplicate  int
	Failed     int
	Skipped    int
}
