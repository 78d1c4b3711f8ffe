package dates

import (
	"testing"
	"time"
)

func TestParseOffset(t *testing.T) {
	tests := []struct {
		in      string
		want    Offset
		wantErr bool
	}{
		{in: "", want: Offset{}},
		{in: "1Y", want: Offset{Years: 1}},
		{in: "1Y6M", want: Offset{Years: 1, Months: 6}},
		{in: "5h30m", want: Offset{Hours: 5, Minutes: 30}},
		{in: "1Y2M3D4h5m6s", want: Offset{Years: 1, Months: 2, Days: 3, Hours: 4, Minutes: 5, Seconds: 6}},
		{in: "120s", want: Offset{Seconds: 120}},
		{in: "garbage", wantErr: true},
		{in: "1X", wantErr: true},
		{in: "Y1", wantErr: true},
		{in: "1Y garbage", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOffset(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseOffset(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOffset(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseOffset(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOffsetApply(t *testing.T) {
	tests := []struct {
		name   string
		offset Offset
		in     time.Time
		want   time.Time
	}{
		{
			name:   "zero offset is identity",
			offset: Offset{},
			in:     time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC),
			want:   time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC),
		},
		{
			name:   "plus one month clamps to leap day",
			offset: Offset{Months: 1},
			in:     time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC),
			want:   time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC),
		},
		{
			name:   "plus one month clamps in non-leap year",
			offset: Offset{Months: 1},
			in:     time.Date(2023, 1, 31, 12, 0, 0, 0, time.UTC),
			want:   time.Date(2023, 2, 28, 12, 0, 0, 0, time.UTC),
		},
		{
			name:   "months carry across year boundary",
			offset: Offset{Months: 14},
			in:     time.Date(2022, 11, 15, 0, 0, 0, 0, time.UTC),
			want:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "subtract months across year boundary",
			offset: Offset{Months: 2, Subtract: true},
			in:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			want:   time.Date(2023, 11, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "subtract month clamps too",
			offset: Offset{Months: 1, Subtract: true},
			in:     time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC),
			want:   time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "days are exact",
			offset: Offset{Days: 31},
			in:     time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC),
			want:   time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC),
		},
		{
			name:   "time components",
			offset: Offset{Hours: 5, Minutes: 30, Seconds: 15},
			in:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			want:   time.Date(2024, 1, 1, 5, 30, 15, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.offset.Apply(tt.in)
			if !got.Equal(tt.want) {
				t.Errorf("Apply(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOffsetApplyInverse(t *testing.T) {
	// Hour-level offsets are exact, so adding then subtracting round-trips.
	in := time.Date(2023, 7, 4, 13, 45, 10, 0, time.UTC)
	plus := Offset{Hours: 5}
	minus := Offset{Hours: 5, Subtract: true}

	if got := minus.Apply(plus.Apply(in)); !got.Equal(in) {
		t.Errorf("round trip = %v, want %v", got, in)
	}
}

func TestOffsetIsZero(t *testing.T) {
	if !(Offset{}).IsZero() {
		t.Error("empty offset not zero")
	}
	if !(Offset{Subtract: true}).IsZero() {
		t.Error("subtract-only offset should still be zero")
	}
	if (Offset{Seconds: 1}).IsZero() {
		t.Error("1s offset reported zero")
	}
}
