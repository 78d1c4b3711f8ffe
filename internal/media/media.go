// Package media classifies files by extension and decides the preferred
// output format for each kind.
package media

import (
	"path/filepath"
	"strings"

	"github.com/jacobtruman/OrganizePictures/internal/model"
)

// Recognized extensions per kind, lowercase with leading dot.
var (
	ImageExtensions = []string{".jpg", ".jpeg", ".png", ".heic", ".gif"}
	VideoExtensions = []string{".mp4", ".mpg", ".mov", ".m4v", ".mts", ".mkv"}
)

const (
	preferredImageExt = ".jpg"
	preferredVideoExt = ".mp4"
)

// Ext returns the lowercase extension of path, including the leading dot.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// NormalizeExtensions lowercases extensions and ensures the leading dot, so
// config entries and CLI flags like "JPG" and ".jpg" compare equal.
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if e[0] != '.' {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

// Policy resolves classification and format decisions against configured
// extension sets. Use NewPolicy; the zero value recognizes nothing.
type Policy struct {
	Image []string
	Video []string

	// NoConvert keeps every file in its source format.
	NoConvert bool
}

// NewPolicy builds a Policy from configured extension sets, normalizing them
// and falling back to the built-in defaults for any empty set.
func NewPolicy(image, video []string, noConvert bool) Policy {
	image = NormalizeExtensions(image)
	if len(image) == 0 {
		image = ImageExtensions
	}
	video = NormalizeExtensions(video)
	if len(video) == 0 {
		video = VideoExtensions
	}
	return Policy{Image: image, Video: video, NoConvert: noConvert}
}

// KindOf classifies an extension against the policy's sets.
func (p Policy) KindOf(ext string) model.Kind {
	for _, e := range p.Image {
		if ext == e {
			return model.KindImage
		}
	}
	for _, e := range p.Video {
		if ext == e {
			return model.KindVideo
		}
	}
	return model.KindUnknown
}

// TargetExtension applies the conversion rules under the policy. Configured
// extensions outside the built-in rules, and everything when NoConvert is
// set, keep their source format.
func (p Policy) TargetExtension(kind model.Kind, ext string) string {
	if kind == model.KindUnknown {
		return ""
	}
	if p.NoConvert {
		return ext
	}
	if t := TargetExtension(kind, ext); t != "" {
		return t
	}
	return ext
}

// Extensions returns the policy's extensions for a media type filter
// ("image" or "video"), or both sets when the filter is empty.
func (p Policy) Extensions(mediaType string) []string {
	switch mediaType {
	case "image":
		return p.Image
	case "video":
		return p.Video
	default:
		exts := make([]string, 0, len(p.Image)+len(p.Video))
		exts = append(exts, p.Image...)
		exts = append(exts, p.Video...)
		return exts
	}
}

// KindOf classifies an extension against the built-in sets. Extensions
// outside both map to KindUnknown.
func KindOf(ext string) model.Kind {
	return Policy{Image: ImageExtensions, Video: VideoExtensions}.KindOf(ext)
}

// TargetExtension is the format policy: it maps a record's kind and original
// extension to the extension it must carry at the destination. It is a pure
// total function over the recognized extension sets; unrecognized extensions
// return "" and the record must be treated as invalid.
//
// GIF is the one image that does not stay an image: animations are converted
// to video rather than flattened to a still.
func TargetExtension(kind model.Kind, ext string) string {
	if ext == ".gif" {
		return preferredVideoExt
	}
	switch kind {
	case model.KindImage:
		switch ext {
		case ".heic", ".jpeg":
			return preferredImageExt
		case ".jpg", ".png":
			return ext
		}
	case model.KindVideo:
		switch ext {
		case ".mpg", ".mov", ".m4v", ".mts", ".mkv":
			return preferredVideoExt
		case ".mp4":
			return ext
		}
	}
	return ""
}

// Extensions returns the built-in extensions for a media type filter
// ("image" or "video"), or both sets when the filter is empty.
func Extensions(mediaType string) []string {
	return Policy{Image: ImageExtensions, Video: VideoExtensions}.Extensions(mediaType)
}
