// Package dates derives a single authoritative capture timestamp for a media
// file from its sidecar, embedded metadata, filename, and finally the
// filesystem modification time.
package dates

import (
	"time"

	"github.com/jacobtruman/OrganizePictures/internal/model"
)

// futureSkew is how far past "now" a candidate date may sit before it is
// rejected as implausible. Camera clocks drift; anything beyond a day ahead
// is a misconfigured clock or garbage metadata.
const futureSkew = 24 * time.Hour

// Tag families checked for a capture date, in order, per kind.
var (
	imageDateTags = []string{
		"EXIF:DateTimeOriginal",
		"DateTimeOriginal",
		"EXIF:CreateDate",
		"CreateDate",
	}
	videoDateTags = []string{
		"QuickTime:CreateDate",
		"QuickTime:TrackCreateDate",
		"QuickTime:MediaCreateDate",
		"Matroska:CreationTime",
		"CreateDate",
	}
)

// tagLayouts are the accepted representations of a date tag value, tried in
// order. Exiftool's colon-separated form comes first since it dominates.
var tagLayouts = []string{
	"2006:01:02 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006/01/02 15:04:05",
	"2006-01-02 15:04:05 -0700",
	"2006:01:02 15:04:05-07:00",
}

// Result is a resolved capture date together with the source that won.
type Result struct {
	Time   time.Time
	Source model.DateSource
}

// Resolve produces the authoritative capture date for a record, trying
// sources in strict precedence order: sidecar timestamp, metadata tags,
// filename patterns, filesystem modification time. A zero Result.Time means
// no source yielded a plausible date; callers treat that as a resolution
// failure, not a fatal error.
//
// modTime is the file's mtime as observed by the caller; now anchors the
// plausibility check.
func Resolve(rec *model.MediaRecord, tags map[string]string, modTime, now time.Time) Result {
	if rec.Sidecar != nil && !rec.Sidecar.Taken.IsZero() && plausible(rec.Sidecar.Taken, now) {
		return Result{Time: rec.Sidecar.Taken.UTC(), Source: model.SourceSidecar}
	}

	for _, tag := range dateTags(rec.Kind) {
		raw, ok := tags[tag]
		if !ok || raw == "" {
			continue
		}
		if t, ok := parseTagValue(raw); ok && plausible(t, now) {
			return Result{Time: t.UTC(), Source: model.SourceMetadata}
		}
	}

	if t, ok := FromFilename(rec.SourcePath); ok && plausible(t, now) {
		return Result{Time: t.UTC(), Source: model.SourceFilename}
	}

	if plausible(modTime, now) {
		return Result{Time: modTime.UTC(), Source: model.SourceModTime}
	}

	return Result{}
}

func dateTags(kind model.Kind) []string {
	if kind == model.KindVideo {
		return videoDateTags
	}
	return imageDateTags
}

func parseTagValue(raw string) (time.Time, bool) {
	for _, layout := range tagLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// plausible rejects zero dates and dates in the future beyond clock skew.
func plausible(t, now time.Time) bool {
	if t.IsZero() {
		return false
	}
	return !t.After(now.Add(futureSkew))
}
