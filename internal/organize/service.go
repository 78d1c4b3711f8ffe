// Package organize implements the media organization pipeline: discovery,
// validation, date resolution, duplicate detection, format conversion, and
// placement into a date-organized destination tree.
package organize

import (
	"github.com/jacobtruman/OrganizePictures/internal/dates"
)

// Options configures a pipeline run. It is plain data: no ambient globals,
// every knob is explicit so runs are reproducible and testable.
type Options struct {
	SourceDir string
	DestDir   string

	// Extensions filters discovery to these extensions (lowercase, with
	// leading dot). Empty means all recognized extensions for MediaType.
	Extensions []string

	// MediaType restricts discovery to "image" or "video"; empty means both.
	// Ignored when Extensions is set.
	MediaType string

	// ImageExtensions and VideoExtensions replace the built-in recognized
	// sets, usually from the config file. Empty means the defaults.
	ImageExtensions []string
	VideoExtensions []string

	// ConvertDisabled keeps every file in its source format.
	ConvertDisabled bool

	// SubDirs nests placed files under YYYY/Mon/ inside DestDir.
	SubDirs bool

	// Cleanup deletes source files (and their sidecars) after a confirmed
	// placement. Duplicates are never deleted.
	Cleanup bool

	// DryRun resolves and reports but performs no conversion, copy, index
	// write, or deletion.
	DryRun bool

	// Offset is applied to every resolved date before filename generation.
	Offset dates.Offset

	// ConfirmDelete, when non-nil, is consulted once with the full batch of
	// paths before cleanup deletion proceeds.
	ConfirmDelete func(paths []string) bool
}

// Organizer drives the per-file state machine over a source directory.
// Processing is sequential per file: hashing and index updates must be
// strictly ordered, so the lookup+record critical section never interleaves
// for two files sharing a hash.
type Organizer struct {
	gateway MetadataGateway
	index   ContentIndex
	fsmgr   FilesystemManager
	logger  Logger
	clock   Clock
	opts    Options
}

// NewOrganizer creates an Organizer with the provided dependencies.
func NewOrganizer(gateway MetadataGateway, index ContentIndex, fsmgr FilesystemManager, logger Logger, clock Clock, opts Options) *Organizer {
	return &Organizer{
		gateway: gateway,
		index:   index,
		fsmgr:   fsmgr,
		logger:  logger,
		clock:   clock,
		opts:    opts,
	}
}
