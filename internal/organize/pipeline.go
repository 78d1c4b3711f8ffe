package organize

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/jacobtruman/OrganizePictures/internal/dates"
	"github.com/jacobtruman/OrganizePictures/internal/media"
	"github.com/jacobtruman/OrganizePictures/internal/model"
)

// Run executes the full pipeline over the source directory and returns the
// run summary. Per-file errors are isolated into outcomes; only an index
// failure aborts the run, since deduplication correctness depends on the
// store. A context cancellation between files leaves already-placed files
// and their index entries intact.
func (o *Organizer) Run(ctx context.Context) (model.Summary, error) {
	var summary model.Summary

	records, err := o.discover()
	if err != nil {
		return summary, fmt.Errorf("discovering media files: %w", err)
	}
	o.logger.Info("run started", "source", o.opts.SourceDir, "files", len(records))

	var cleanup []string
	for i, rec := range records {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		o.logger.Debug("processing file", "n", i+1, "of", len(records), "path", rec.SourcePath)
		outcome, err := o.processFile(ctx, rec)
		if err != nil {
			// Index-level failure: abort, keeping partial progress.
			return summary, err
		}
		summary.Add(outcome)

		switch outcome.Status {
		case model.StatusMoved:
			o.logger.Info("file organized", "src", rec.SourcePath, "dest", outcome.DestPath)
			cleanup = append(cleanup, rec.SourcePath)
			if rec.SidecarPath != "" {
				cleanup = append(cleanup, rec.SidecarPath)
			}
		case model.StatusDuplicate:
			o.logger.Info("duplicate content", "src", rec.SourcePath, "existing", outcome.DestPath)
		case model.StatusFailed:
			o.logger.Error("file failed", "src", rec.SourcePath, "reason", string(outcome.Reason))
		case model.StatusSkipped:
			o.logger.Debug("file skipped", "src", rec.SourcePath)
		}
	}

	summary.Deleted = o.cleanupSources(cleanup)

	o.logger.Info("run complete",
		"moved", summary.Moved,
		"duplicate", summary.Duplicate,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"deleted", summary.Deleted,
	)
	return summary, nil
}

// discover enumerates the source directory and builds one MediaRecord per
// candidate file, associating sidecar JSON by filename stem.
func (o *Organizer) discover() ([]*model.MediaRecord, error) {
	pol := media.NewPolicy(o.opts.ImageExtensions, o.opts.VideoExtensions, o.opts.ConvertDisabled)

	exts := o.opts.Extensions
	if len(exts) == 0 {
		exts = pol.Extensions(o.opts.MediaType)
	}

	paths, err := o.fsmgr.ScanMedia(o.opts.SourceDir, exts)
	if err != nil {
		return nil, err
	}

	records := make([]*model.MediaRecord, 0, len(paths))
	for _, p := range paths {
		ext := media.Ext(p)
		kind := pol.KindOf(ext)
		target := pol.TargetExtension(kind, ext)

		rec := &model.MediaRecord{
			SourcePath:      p,
			Kind:            kind,
			Valid:           kind != model.KindUnknown && target != "",
			Extension:       ext,
			TargetExtension: target,
		}

		if sp := media.FindSidecar(p); sp != "" {
			sc, err := media.ParseSidecar(sp)
			if err != nil {
				o.logger.Warn("unparseable sidecar", "path", sp, "error", err)
			} else {
				rec.SidecarPath = sp
				rec.Sidecar = sc
			}
		}

		records = append(records, rec)
	}
	return records, nil
}

// processFile runs one record through the state machine:
// Validated → DateResolved → Hashed → (Duplicate | ConversionApplied) → Placed.
// The returned error is non-nil only for index failures, which are fatal for
// the whole run; everything else is folded into the outcome.
func (o *Organizer) processFile(ctx context.Context, rec *model.MediaRecord) (model.FileOutcome, error) {
	outcome := model.FileOutcome{SourcePath: rec.SourcePath}

	tags, ok := o.validate(rec)
	if !ok {
		outcome.Status = model.StatusFailed
		outcome.Reason = model.ReasonInvalidFormat
		return outcome, nil
	}

	o.resolveDate(rec, tags)

	hash, err := o.hashFile(rec.SourcePath)
	if err != nil {
		o.logger.Error("hashing failed", "path", rec.SourcePath, "error", err)
		outcome.Status = model.StatusFailed
		outcome.Reason = model.ReasonIOError
		return outcome, nil
	}
	rec.ContentHash = hash

	entry, err := o.index.Lookup(hash)
	if err != nil {
		return outcome, fmt.Errorf("index lookup for %s: %w", rec.SourcePath, err)
	}
	if entry != nil {
		outcome.Status = model.StatusDuplicate
		outcome.DestPath = entry.OriginalPath
		return outcome, nil
	}

	if o.opts.DryRun {
		dest := filepath.Join(o.destDir(rec), o.baseName(rec)+rec.TargetExtension)
		o.logger.Info("dry run: would organize", "src", rec.SourcePath, "dest", dest)
		outcome.Status = model.StatusSkipped
		outcome.DestPath = dest
		return outcome, nil
	}

	// Conversion happens into gateway scratch space; the original file is
	// never touched, and a failed conversion leaves no partial output to place.
	placementSrc := rec.SourcePath
	converted := false
	if rec.TargetExtension != rec.Extension {
		conv, err := o.gateway.Transcode(ctx, rec.SourcePath, rec.TargetExtension)
		if err != nil {
			o.logger.Error("conversion failed", "path", rec.SourcePath, "error", err)
			outcome.Status = model.StatusFailed
			outcome.Reason = model.ReasonConversionError
			return outcome, nil
		}
		placementSrc = conv
		converted = true
	}

	dest, existing, err := o.place(rec, placementSrc, converted)
	if converted {
		// Scratch output is consumed by a successful Move; make sure it is
		// gone on the failure and duplicate paths too.
		if gone, _ := o.fsmgr.Exists(placementSrc); gone {
			_ = o.fsmgr.Remove(placementSrc)
		}
	}
	if err != nil {
		o.logger.Error("placement failed", "path", rec.SourcePath, "error", err)
		outcome.Status = model.StatusFailed
		outcome.Reason = model.ReasonPlacementError
		return outcome, nil
	}
	if existing != "" {
		// The destination already holds these exact bytes (e.g. a prior run
		// that died before recording). Make sure the index knows.
		if err := o.index.Record(hash, existing); err != nil && !errors.Is(err, ErrDuplicateHash) {
			return outcome, fmt.Errorf("index record for %s: %w", rec.SourcePath, err)
		}
		outcome.Status = model.StatusDuplicate
		outcome.DestPath = existing
		return outcome, nil
	}

	o.rewriteTags(rec, dest, converted)

	// Ordering: hash → place → record. A crash before this point leaves the
	// index without the entry, and a re-run converges via the
	// identical-content check in place().
	if err := o.index.Record(hash, dest); err != nil {
		if errors.Is(err, ErrDuplicateHash) {
			o.logger.Warn("hash recorded concurrently", "path", rec.SourcePath)
			outcome.Status = model.StatusDuplicate
			outcome.DestPath = dest
			return outcome, nil
		}
		return outcome, fmt.Errorf("index record for %s: %w", rec.SourcePath, err)
	}

	outcome.Status = model.StatusMoved
	outcome.DestPath = dest
	return outcome, nil
}

// validate confirms the file is a decodable media file of its claimed kind
// and returns its tag map.
func (o *Organizer) validate(rec *model.MediaRecord) (map[string]string, bool) {
	if !rec.Valid {
		o.logger.Error("unrecognized extension", "path", rec.SourcePath, "ext", rec.Extension)
		return nil, false
	}

	mime, err := o.fsmgr.DetectMIME(rec.SourcePath)
	if err != nil || !mimeMatches(rec.Kind, mime) {
		o.logger.Error("content does not match media kind", "path", rec.SourcePath, "mime", mime)
		return nil, false
	}

	tags, err := o.gateway.ReadTags(rec.SourcePath)
	if err != nil {
		o.logger.Error("metadata unreadable", "path", rec.SourcePath, "error", err)
		return nil, false
	}
	return tags, true
}

func mimeMatches(kind model.Kind, mime string) bool {
	switch kind {
	case model.KindImage:
		return strings.HasPrefix(mime, "image/")
	case model.KindVideo:
		return strings.HasPrefix(mime, "video/")
	default:
		return false
	}
}

// resolveDate derives the record's authoritative date and applies the run
// offset. Absence of a date is a warning, not a failure: the record falls
// back to the hash-based naming rule at placement.
func (o *Organizer) resolveDate(rec *model.MediaRecord, tags map[string]string) {
	var modTime time.Time
	if info, err := o.fsmgr.Stat(rec.SourcePath); err == nil {
		modTime = info.ModTime()
	}

	res := dates.Resolve(rec, tags, modTime, o.clock.Now())
	if res.Time.IsZero() {
		o.logger.Warn("no capture date resolved", "path", rec.SourcePath)
		return
	}
	if res.Source == model.SourceModTime {
		o.logger.Warn("falling back to file modification time", "path", rec.SourcePath)
	}

	rec.ResolvedDate = o.opts.Offset.Apply(res.Time)
	rec.DateSource = res.Source
	o.logger.Debug("date resolved",
		"path", rec.SourcePath,
		"date", rec.ResolvedDate.Format(time.RFC3339),
		"source", string(res.Source),
	)
}

// hashFile computes the lowercase hex SHA-256 digest of a file's raw bytes.
func (o *Organizer) hashFile(path string) (string, error) {
	f, err := o.fsmgr.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// cleanupSources deletes the given source files after a successful run.
// Returns the number of files deleted.
func (o *Organizer) cleanupSources(paths []string) int {
	if !o.opts.Cleanup || o.opts.DryRun || len(paths) == 0 {
		return 0
	}
	if o.opts.ConfirmDelete != nil && !o.opts.ConfirmDelete(paths) {
		o.logger.Info("cleanup declined", "files", len(paths))
		return 0
	}

	deleted := 0
	for _, p := range paths {
		if err := o.fsmgr.Remove(p); err != nil {
			o.logger.Error("cleanup failed", "path", p, "error", err)
			continue
		}
		o.logger.Info("deleted source file", "path", p)
		deleted++
	}
	return deleted
}
