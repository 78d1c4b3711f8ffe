package organize

import (
	"context"
	"errors"
)

// ErrUnreadableMetadata is returned by MetadataGateway.ReadTags when the
// file cannot be parsed by the metadata tool.
var ErrUnreadableMetadata = errors.New("unreadable metadata")

// ErrConversionFailed is returned by MetadataGateway.Transcode when the
// external transcoder fails. No partial output is left behind.
var ErrConversionFailed = errors.New("conversion failed")

// MetadataGateway is the boundary to the external metadata and transcoding
// tools. Implementations shell out to exiftool/ffmpeg; tests substitute a
// mock. Content hashing is deliberately NOT part of this contract — the
// pipeline hashes raw bytes itself.
type MetadataGateway interface {
	// ReadTags returns the file's metadata as a flat tag→value map.
	// Fails with ErrUnreadableMetadata if the file cannot be parsed.
	ReadTags(path string) (map[string]string, error)

	// WriteTags writes or overwrites the given tags in place.
	WriteTags(path string, tags map[string]string) error

	// Transcode converts src to the target extension (with leading dot) and
	// returns the path of the converted file, which lives in gateway-owned
	// scratch space: the caller must move or delete it. Fails with
	// ErrConversionFailed, leaving src untouched.
	Transcode(ctx context.Context, src, targetExt string) (string, error)
}
