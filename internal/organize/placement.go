package organize

import (
	"fmt"
	"path/filepath"

	"github.com/jacobtruman/OrganizePictures/internal/media"
	"github.com/jacobtruman/OrganizePictures/internal/model"
)

// Destination filename layout: 2023-05-02_09'00'00.jpg, nested under
// 2023/May/ when subdirectories are enabled.
const (
	filenameLayout = "2006-01-02_15'04'05"
	yearLayout     = "2006"
	monthLayout    = "Jan"
)

// destDir returns the directory a record will be placed into.
// Records without a resolved date always land flat in the destination root.
func (o *Organizer) destDir(rec *model.MediaRecord) string {
	if !o.opts.SubDirs || !rec.HasDate() {
		return o.opts.DestDir
	}
	return filepath.Join(o.opts.DestDir,
		rec.ResolvedDate.Format(yearLayout),
		rec.ResolvedDate.Format(monthLayout),
	)
}

// baseName returns the destination filename without extension. Records with
// no resolved date are named from their content hash so the name is stable
// across re-runs.
func (o *Organizer) baseName(rec *model.MediaRecord) string {
	if rec.HasDate() {
		return rec.ResolvedDate.Format(filenameLayout)
	}
	return "unknown_" + rec.ContentHash[:12]
}

// originComment marks converted output with the hash of the bytes it was
// converted from, so a later run can recognize its own prior output even
// though conversion is not byte-reproducible.
func originComment(hash string) string {
	return "OrganizePictures source sha256:" + hash
}

// place writes srcPath into the destination tree under the record's
// canonical name. A name collision with different content is resolved by
// appending _2, _3, ... before the extension; a collision with identical
// content short-circuits and returns the existing path instead (existing
// non-empty, dest empty). Converted output cannot match the source hash,
// so it is recognized by the origin marker in its comment tag instead.
//
// Converted scratch files are moved into place; originals are copied
// atomically so the source is untouched.
func (o *Organizer) place(rec *model.MediaRecord, srcPath string, converted bool) (dest, existing string, err error) {
	dir := o.destDir(rec)
	if err := o.fsmgr.MkdirAll(dir); err != nil {
		return "", "", fmt.Errorf("creating destination directory: %w", err)
	}

	base := o.baseName(rec)
	dest = filepath.Join(dir, base+rec.TargetExtension)
	for n := 2; ; n++ {
		ok, err := o.fsmgr.Exists(dest)
		if err != nil {
			return "", "", err
		}
		if !ok {
			break
		}

		// Same timestamp-derived name: is it the same content, or a true
		// placement collision?
		if !converted {
			h, err := o.hashFile(dest)
			if err == nil && h == rec.ContentHash {
				return "", dest, nil
			}
		} else if tags, err := o.gateway.ReadTags(dest); err == nil && tags["Comment"] == originComment(rec.ContentHash) {
			return "", dest, nil
		}
		o.logger.Debug("destination name taken, suffixing", "dest", dest)
		dest = filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, n, rec.TargetExtension))
	}

	if converted {
		err = o.fsmgr.Move(srcPath, dest)
	} else {
		err = o.fsmgr.CopyAtomic(srcPath, dest)
	}
	if err != nil {
		return "", "", fmt.Errorf("placing file: %w", err)
	}
	return dest, "", nil
}

// rewriteTags re-embeds the resolved date and sidecar-derived metadata into
// the placed file. Converted output additionally carries the origin marker.
// The file is already correctly placed at this point, so a write failure is
// only a warning.
func (o *Organizer) rewriteTags(rec *model.MediaRecord, dest string, converted bool) {
	tags := map[string]string{}

	if converted {
		tags["Comment"] = originComment(rec.ContentHash)
	}

	// Stamp date tags whenever the authoritative date did not come from the
	// file's own metadata, or an offset shifted it. Video containers carry
	// the QuickTime date family instead of the EXIF one.
	if rec.HasDate() && (rec.DateSource != model.SourceMetadata || !o.opts.Offset.IsZero()) {
		d := rec.ResolvedDate.Format("2006:01:02 15:04:05")
		if rec.Kind == model.KindVideo || media.KindOf(rec.TargetExtension) == model.KindVideo {
			tags["CreateDate"] = d
			tags["TrackCreateDate"] = d
			tags["MediaCreateDate"] = d
		} else {
			tags["DateTimeOriginal"] = d
			tags["CreateDate"] = d
		}
	}

	if sc := rec.Sidecar; sc != nil {
		if sc.Description != "" {
			tags["ImageDescription"] = sc.Description
		}
		if sc.HasGeo() {
			if sc.Latitude >= 0 {
				tags["GPSLatitude"] = fmt.Sprintf("%f", sc.Latitude)
				tags["GPSLatitudeRef"] = "N"
			} else {
				tags["GPSLatitude"] = fmt.Sprintf("%f", -sc.Latitude)
				tags["GPSLatitudeRef"] = "S"
			}
			if sc.Longitude >= 0 {
				tags["GPSLongitude"] = fmt.Sprintf("%f", sc.Longitude)
				tags["GPSLongitudeRef"] = "E"
			} else {
				tags["GPSLongitude"] = fmt.Sprintf("%f", -sc.Longitude)
				tags["GPSLongitudeRef"] = "W"
			}
			tags["GPSAltitude"] = fmt.Sprintf("%f", sc.Altitude)
			if sc.Altitude >= 0 {
				tags["GPSAltitudeRef"] = "0"
			} else {
				tags["GPSAltitudeRef"] = "1"
			}
		}
	}

	if len(tags) == 0 {
		return
	}
	if err := o.gateway.WriteTags(dest, tags); err != nil {
		o.logger.Warn("metadata rewrite failed", "path", dest, "error", err)
	}
}
