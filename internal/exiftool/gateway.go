// Package exiftool shells out to exiftool and ffmpeg for metadata access and
// format conversion.
package exiftool

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	exif "github.com/barasher/go-exiftool"

	"github.com/jacobtruman/OrganizePictures/internal/organize"
)

const conversionComment = "Converted by OrganizePictures"

// Gateway implements organize.MetadataGateway over a long-lived exiftool
// process and one-shot ffmpeg invocations. Converted files are written to a
// gateway-owned scratch directory that Close removes.
type Gateway struct {
	et      *exif.Exiftool
	ffmpeg  string
	scratch string
}

// NewGateway starts the exiftool process and creates the scratch directory.
func NewGateway() (*Gateway, error) {
	et, err := exif.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("starting exiftool: %w", err)
	}

	scratch, err := os.MkdirTemp("", "organize-pictures-*")
	if err != nil {
		et.Close()
		return nil, fmt.Errorf("creating scratch dir: %w", err)
	}

	return &Gateway{et: et, ffmpeg: "ffmpeg", scratch: scratch}, nil
}

// ReadTags extracts the file's metadata as a flat tag→value map. Values of
// all types are rendered as strings.
func (g *Gateway) ReadTags(path string) (map[string]string, error) {
	metas := g.et.ExtractMetadata(path)
	if len(metas) == 0 {
		return nil, fmt.Errorf("%w: no metadata for %s", organize.ErrUnreadableMetadata, path)
	}
	meta := metas[0]
	if meta.Err != nil {
		return nil, fmt.Errorf("%w: %s: %v", organize.ErrUnreadableMetadata, path, meta.Err)
	}

	tags := make(map[string]string, len(meta.Fields))
	for key, value := range meta.Fields {
		tags[key] = fmt.Sprintf("%v", value)
	}
	return tags, nil
}

// WriteTags writes the given tags into the file in place.
func (g *Gateway) WriteTags(path string, tags map[string]string) error {
	metas := g.et.ExtractMetadata(path)
	if len(metas) == 0 {
		return fmt.Errorf("%w: no metadata for %s", organize.ErrUnreadableMetadata, path)
	}
	meta := metas[0]
	if meta.Err != nil {
		return fmt.Errorf("%w: %s: %v", organize.ErrUnreadableMetadata, path, meta.Err)
	}

	for key, value := range tags {
		meta.SetString(key, value)
	}

	batch := []exif.FileMetadata{meta}
	g.et.WriteMetadata(batch)
	if batch[0].Err != nil {
		return fmt.Errorf("writing tags to %s: %w", path, batch[0].Err)
	}
	return nil
}

// Transcode converts src to targetExt in the scratch directory and returns
// the converted file's path. The caller owns moving or deleting the result.
func (g *Gateway) Transcode(ctx context.Context, src, targetExt string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	out := filepath.Join(g.scratch, base+targetExt)

	args := ffmpegArgs(src, out, targetExt)
	cmd := exec.CommandContext(ctx, g.ffmpeg, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(out)
		return "", fmt.Errorf("%w: ffmpeg %s: %v: %s",
			organize.ErrConversionFailed, src, err, lastLine(stderr.String()))
	}
	return out, nil
}

// ffmpegArgs builds the ffmpeg command line for a conversion. Video targets
// re-encode to h264/aac and carry the source metadata over; image targets
// are plain format conversions.
func ffmpegArgs(src, out, targetExt string) []string {
	args := []string{"-y", "-i", src}
	switch targetExt {
	case ".mp4":
		args = append(args,
			"-c:v", "h264",
			"-c:a", "aac",
			"-map_metadata", "0",
			"-metadata", "comment="+conversionComment,
		)
	}
	return append(args, out)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return lines[len(lines)-1]
}

// Close stops the exiftool process and removes the scratch directory with
// any unclaimed conversions in it.
func (g *Gateway) Close() error {
	var errs []error
	if err := g.et.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing exiftool: %w", err))
	}
	if err := os.RemoveAll(g.scratch); err != nil {
		errs = append(errs, fmt.Errorf("removing scratch dir: %w", err))
	}
	return errors.Join(errs...)
}
