package testutil

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"testing"
)

// SHA256Hex returns the SHA-256 checksum of data as a lowercase hex string,
// matching the content index format.
func SHA256Hex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// FileSHA256 returns the SHA-256 checksum of a file's content.
func FileSHA256(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return SHA256Hex(data)
}
