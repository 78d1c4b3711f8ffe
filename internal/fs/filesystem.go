// Package fs implements the pipeline's filesystem operations on the local OS.
package fs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Manager is the os-backed filesystem manager.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// ScanMedia walks root recursively and returns the absolute paths of regular
// files whose lowercase extension is in exts, sorted lexically so runs are
// deterministic.
func (m *Manager) ScanMedia(root string, exts []string) ([]string, error) {
	wanted := make(map[string]bool, len(exts))
	for _, ext := range exts {
		wanted[strings.ToLower(ext)] = true
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !wanted[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		paths = append(paths, abs)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	sort.Strings(paths)
	return paths, nil
}

func (m *Manager) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (m *Manager) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (m *Manager) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (m *Manager) MkdirAll(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// CopyAtomic copies src into dest's directory under a temporary name, then
// renames it into place. A crash mid-copy leaves only the temp file behind.
func (m *Manager) CopyAtomic(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("copying to temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}

// Move renames src to dest. If the rename fails because src and dest are on
// different filesystems, it falls back to copy and remove.
func (m *Manager) Move(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	if err := m.CopyAtomic(src, dest); err != nil {
		return err
	}
	return os.Remove(src)
}

func (m *Manager) Remove(path string) error {
	return os.Remove(path)
}

// DetectMIME sniffs the file's leading bytes and returns its MIME type.
func (m *Manager) DetectMIME(path string) (string, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("detecting mime type: %w", err)
	}
	return mtype.String(), nil
}
