package dates

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// filenamePattern pairs a regular expression that locates a date inside a
// filename with the layout that parses the captured text.
type filenamePattern struct {
	re     *regexp.Regexp
	layout string
}

// filenamePatterns is the fixed, ordered set of recognized camera and export
// naming conventions. The first successful parse wins, so more specific
// patterns come first. The canonical form this tool itself writes is checked
// before the rest so re-runs over an organized tree resolve instantly.
var filenamePatterns = []filenamePattern{
	// 2023-05-02_09'00'00 (this tool's own output)
	{regexp.MustCompile(`(\d{4}-\d{2}-\d{2}_\d{2}'\d{2}'\d{2})`), "2006-01-02_15'04'05"},
	// IMG_20240101_120000, VID_..., PXL_... (trailing fractional digits ignored)
	{regexp.MustCompile(`(?:IMG|VID|PXL)[_-](\d{8}[_-]\d{6})`), "20060102_150405"},
	// 2021-05-01 09.36.31 (iOS export)
	{regexp.MustCompile(`(\d{4}-\d{2}-\d{2} \d{2}\.\d{2}\.\d{2})`), "2006-01-02 15.04.05"},
	// 2021-05-01-093631
	{regexp.MustCompile(`(\d{4}-\d{2}-\d{2}-\d{6})`), "2006-01-02-150405"},
	// bare 20240101_120000
	{regexp.MustCompile(`(\d{8}[_-]\d{6})`), "20060102_150405"},
}

// FromFilename extracts a capture date from recognized filename conventions.
// Returns false if no pattern matches or the matched text is not a real date
// (e.g. month 13).
func FromFilename(path string) (time.Time, bool) {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	for _, p := range filenamePatterns {
		m := p.re.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		// Normalize the separator between date and time so one layout
		// covers both "_" and "-" variants.
		candidate := m[1]
		if p.layout == "20060102_150405" {
			candidate = strings.Replace(candidate, "-", "_", 1)
		}
		if t, err := time.Parse(p.layout, candidate); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
