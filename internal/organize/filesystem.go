package organize

import (
	"io"
	"io/fs"
)

// FilesystemManager abstracts the filesystem operations the pipeline
// performs, so the service layer never touches the os package directly.
type FilesystemManager interface {
	// ScanMedia returns the absolute paths of regular files under root whose
	// lowercase extension is in exts, sorted, walking recursively.
	ScanMedia(root string, exts []string) ([]string, error)

	// Open opens a file for reading.
	Open(path string) (io.ReadCloser, error)

	// Stat returns file info for a path.
	Stat(path string) (fs.FileInfo, error)

	// Exists reports whether a path exists.
	Exists(path string) (bool, error)

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(dir string) error

	// CopyAtomic copies src to dest via a temp file and rename, so a crash
	// never leaves a half-written destination.
	CopyAtomic(src, dest string) error

	// Move renames src to dest, falling back to copy+remove across devices.
	Move(src, dest string) error

	// Remove deletes a file.
	Remove(path string) error

	// DetectMIME sniffs the file's content and returns its MIME type
	// (e.g. "image/jpeg"), independent of the extension.
	DetectMIME(path string) (string, error)
}
