package media

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jacobtruman/OrganizePictures/internal/model"
)

// sidecarFile mirrors the subset of a Google Photos export JSON we care
// about. Timestamps arrive as stringified unix seconds.
type sidecarFile struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	PhotoTakenTime struct {
		Timestamp string `json:"timestamp"`
	} `json:"photoTakenTime"`
	GeoDataExif struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Altitude  float64 `json:"altitude"`
	} `json:"geoDataExif"`
	People []struct {
		Name string `json:"name"`
	} `json:"people"`
}

// FindSidecar returns the path of the sidecar JSON associated with the given
// media file, or "" if none exists. Google Takeout names sidecars after the
// full filename ("IMG_001.heic.json"); some exports drop the media extension
// ("IMG_001.json"), so both are tried, exact form first.
func FindSidecar(mediaPath string) string {
	candidates := []string{
		mediaPath + ".json",
		strings.TrimSuffix(mediaPath, Ext(mediaPath)) + ".json",
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

// ParseSidecar reads and parses a sidecar JSON file.
func ParseSidecar(path string) (*model.Sidecar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sidecar: %w", err)
	}

	var sf sidecarFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing sidecar %s: %w", path, err)
	}

	sc := &model.Sidecar{
		Title:       sf.Title,
		Description: sf.Description,
		Latitude:    sf.GeoDataExif.Latitude,
		Longitude:   sf.GeoDataExif.Longitude,
		Altitude:    sf.GeoDataExif.Altitude,
	}
	for _, p := range sf.People {
		if p.Name != "" {
			sc.People = append(sc.People, p.Name)
		}
	}

	if ts := sf.PhotoTakenTime.Timestamp; ts != "" {
		secs, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing sidecar timestamp %q: %w", ts, err)
		}
		sc.Taken = time.Unix(secs, 0).UTC()
	}

	return sc, nil
}
