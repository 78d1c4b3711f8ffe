package media

import (
	"testing"

	"github.com/jacobtruman/OrganizePictures/internal/model"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		ext  string
		want model.Kind
	}{
		{".jpg", model.KindImage},
		{".jpeg", model.KindImage},
		{".png", model.KindImage},
		{".heic", model.KindImage},
		{".gif", model.KindImage},
		{".mp4", model.KindVideo},
		{".mpg", model.KindVideo},
		{".mov", model.KindVideo},
		{".m4v", model.KindVideo},
		{".mts", model.KindVideo},
		{".mkv", model.KindVideo},
		{".txt", model.KindUnknown},
		{".json", model.KindUnknown},
		{"", model.KindUnknown},
	}

	for _, tt := range tests {
		if got := KindOf(tt.ext); got != tt.want {
			t.Errorf("KindOf(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}

func TestTargetExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		// Preferred formats pass through unchanged.
		{".jpg", ".jpg"},
		{".png", ".png"},
		{".mp4", ".mp4"},
		// Non-preferred images convert to jpg.
		{".jpeg", ".jpg"},
		{".heic", ".jpg"},
		// GIF becomes video, not a still image.
		{".gif", ".mp4"},
		// Non-preferred videos convert to mp4.
		{".mpg", ".mp4"},
		{".mov", ".mp4"},
		{".m4v", ".mp4"},
		{".mts", ".mp4"},
		{".mkv", ".mp4"},
		// Unrecognized extensions have no target.
		{".txt", ""},
		{"", ""},
	}

	for _, tt := range tests {
		got := TargetExtension(KindOf(tt.ext), tt.ext)
		if got != tt.want {
			t.Errorf("TargetExtension(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}

func TestNormalizeExtensions(t *testing.T) {
	got := NormalizeExtensions([]string{"JPG", ".mp4", " heic ", ""})
	want := []string{".jpg", ".mp4", ".heic"}
	if len(got) != len(want) {
		t.Fatalf("NormalizeExtensions() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NormalizeExtensions()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPolicyDefaults(t *testing.T) {
	p := NewPolicy(nil, nil, false)
	if got := p.KindOf(".heic"); got != model.KindImage {
		t.Errorf("KindOf(.heic) = %v, want image", got)
	}
	if got := p.TargetExtension(model.KindImage, ".heic"); got != ".jpg" {
		t.Errorf("TargetExtension(.heic) = %q, want .jpg", got)
	}
	if got := len(p.Extensions("")); got != len(ImageExtensions)+len(VideoExtensions) {
		t.Errorf("Extensions(\"\") has %d entries", got)
	}
}

func TestPolicyConfiguredExtensions(t *testing.T) {
	p := NewPolicy([]string{"webp", ".jpg"}, nil, false)

	if got := p.KindOf(".webp"); got != model.KindImage {
		t.Errorf("KindOf(.webp) = %v, want image", got)
	}
	// The configured set replaces the default one entirely.
	if got := p.KindOf(".heic"); got != model.KindUnknown {
		t.Errorf("KindOf(.heic) = %v, want unknown", got)
	}
	// Extensions without a conversion rule keep their source format.
	if got := p.TargetExtension(model.KindImage, ".webp"); got != ".webp" {
		t.Errorf("TargetExtension(.webp) = %q, want .webp", got)
	}
	// The video set still falls back to the defaults.
	if got := p.KindOf(".mov"); got != model.KindVideo {
		t.Errorf("KindOf(.mov) = %v, want video", got)
	}
}

func TestPolicyNoConvert(t *testing.T) {
	p := NewPolicy(nil, nil, true)
	tests := []struct{ ext, want string }{
		{".heic", ".heic"},
		{".gif", ".gif"},
		{".mov", ".mov"},
		{".jpg", ".jpg"},
	}
	for _, tt := range tests {
		if got := p.TargetExtension(p.KindOf(tt.ext), tt.ext); got != tt.want {
			t.Errorf("TargetExtension(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
	if got := p.TargetExtension(model.KindUnknown, ".txt"); got != "" {
		t.Errorf("TargetExtension(.txt) = %q, want empty", got)
	}
}

func TestExt(t *testing.T) {
	if got := Ext("/pics/IMG_001.JPG"); got != ".jpg" {
		t.Errorf("Ext() = %q, want .jpg", got)
	}
	if got := Ext("/pics/noext"); got != "" {
		t.Errorf("Ext() = %q, want empty", got)
	}
}

func TestExtensions(t *testing.T) {
	if got := Extensions("image"); len(got) != len(ImageExtensions) {
		t.Errorf("Extensions(image) has %d entries, want %d", len(got), len(ImageExtensions))
	}
	if got := Extensions("video"); len(got) != len(VideoExtensions) {
		t.Errorf("Extensions(video) has %d entries, want %d", len(got), len(VideoExtensions))
	}
	both := Extensions("")
	if len(both) != len(ImageExtensions)+len(VideoExtensions) {
		t.Errorf("Extensions(\"\") has %d entries, want %d",
			len(both), len(ImageExtensions)+len(VideoExtensions))
	}
}
