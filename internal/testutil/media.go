package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// Magic-byte prefixes so content sniffing identifies fixture files as real
// media formats.
var (
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	pngHeader  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	gifHeader  = []byte("GIF89a")
	heicHeader = []byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'h', 'e', 'i', 'c',
		0x00, 0x00, 0x00, 0x00, 'h', 'e', 'i', 'c'}
	mp4Header = []byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm',
		0x00, 0x00, 0x02, 0x00, 'i', 's', 'o', 'm'}
)

// WriteMedia writes a fixture media file whose leading bytes sniff as the
// format implied by path's extension. payload makes content (and therefore
// hashes) distinct between fixtures.
func WriteMedia(t *testing.T, path, payload string) string {
	t.Helper()

	var header []byte
	switch filepath.Ext(path) {
	case ".jpg", ".jpeg":
		header = jpegHeader
	case ".png":
		header = pngHeader
	case ".gif":
		header = gifHeader
	case ".heic":
		header = heicHeader
	case ".mp4", ".mov", ".m4v", ".mkv", ".mpg", ".mts":
		header = mp4Header
	default:
		t.Fatalf("no fixture header for extension %q", filepath.Ext(path))
	}

	data := append(append([]byte{}, header...), []byte(payload)...)
	writeFile(t, path, data)
	return path
}

// WriteGarbage writes a file whose content sniffs as plain text regardless
// of its extension.
func WriteGarbage(t *testing.T, path string) string {
	t.Helper()
	writeFile(t, path, []byte("this is not a media file"))
	return path
}

// WriteSidecar writes a Google Takeout style sidecar JSON next to the
// implied media file. takenUnix of 0 omits the timestamp.
func WriteSidecar(t *testing.T, path string, takenUnix int64, description string) string {
	t.Helper()

	body := "{"
	body += fmt.Sprintf("%q: %q", "title", filepath.Base(path))
	if description != "" {
		body += fmt.Sprintf(", %q: %q", "description", description)
	}
	if takenUnix != 0 {
		body += fmt.Sprintf(", %q: {%q: %q}", "photoTakenTime", "timestamp", fmt.Sprint(takenUnix))
	}
	body += "}"

	writeFile(t, path, []byte(body))
	return path
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}
