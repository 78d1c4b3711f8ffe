package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jacobtruman/OrganizePictures/internal/organize"
)

// MockGateway is an in-memory organize.MetadataGateway. Tags are served from
// a map keyed by path; written tags and transcodes are recorded for
// assertions. Transcode produces a real file in ScratchDir so placement code
// can move it.
type MockGateway struct {
	Tags    map[string]map[string]string
	ReadErr map[string]error

	Written    map[string]map[string]string
	Transcoded []string

	TranscodeErr error
	ScratchDir   string
}

// NewMockGateway creates a MockGateway writing conversions under scratchDir.
func NewMockGateway(scratchDir string) *MockGateway {
	return &MockGateway{
		Tags:       make(map[string]map[string]string),
		ReadErr:    make(map[string]error),
		Written:    make(map[string]map[string]string),
		ScratchDir: scratchDir,
	}
}

// SetTags registers the tag map returned for path.
func (g *MockGateway) SetTags(path string, tags map[string]string) {
	g.Tags[path] = tags
}

func (g *MockGateway) ReadTags(path string) (map[string]string, error) {
	if err := g.ReadErr[path]; err != nil {
		return nil, err
	}
	tags, ok := g.Tags[path]
	if !ok {
		return map[string]string{}, nil
	}
	return tags, nil
}

// WriteTags records the write and makes it visible to later ReadTags calls.
func (g *MockGateway) WriteTags(path string, tags map[string]string) error {
	existing, ok := g.Written[path]
	if !ok {
		existing = make(map[string]string)
		g.Written[path] = existing
	}
	current, ok := g.Tags[path]
	if !ok {
		current = make(map[string]string)
		g.Tags[path] = current
	}
	for k, v := range tags {
		existing[k] = v
		current[k] = v
	}
	return nil
}

// Transcode copies src into the scratch dir under the target extension with
// a marker appended, so converted output is distinguishable from the source
// bytes.
func (g *MockGateway) Transcode(_ context.Context, src, targetExt string) (string, error) {
	if g.TranscodeErr != nil {
		return "", g.TranscodeErr
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("%w: %v", organize.ErrConversionFailed, err)
	}

	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	out := filepath.Join(g.ScratchDir, base+targetExt)
	data = append(data, []byte("|converted")...)
	if err := os.WriteFile(out, data, 0644); err != nil {
		return "", fmt.Errorf("%w: %v", organize.ErrConversionFailed, err)
	}

	g.Transcoded = append(g.Transcoded, src)
	return out, nil
}
