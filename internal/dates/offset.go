package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Offset is a calendar delta applied uniformly to every resolved date in a
// run, correcting systematic camera clock errors. All components are
// non-negative; Subtract flips the direction of the whole offset.
type Offset struct {
	Years    int
	Months   int
	Days     int
	Hours    int
	Minutes  int
	Seconds  int
	Subtract bool
}

var offsetPart = regexp.MustCompile(`^(\d{1,3})([YMDhms])`)

// ParseOffset parses the compact offset syntax "[N]Y[N]M[N]D[N]h[N]m[N]s",
// e.g. "1Y6M" or "5h30m". Every component is optional but the whole string
// must be consumed; an empty string is the zero offset.
func ParseOffset(s string) (Offset, error) {
	var o Offset
	rest := s
	for rest != "" {
		m := offsetPart.FindStringSubmatch(rest)
		if m == nil {
			return Offset{}, fmt.Errorf("invalid offset %q: unrecognized component at %q", s, rest)
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Offset{}, fmt.Errorf("invalid offset %q: %w", s, err)
		}
		switch m[2] {
		case "Y":
			o.Years = n
		case "M":
			o.Months = n
		case "D":
			o.Days = n
		case "h":
			o.Hours = n
		case "m":
			o.Minutes = n
		case "s":
			o.Seconds = n
		}
		rest = rest[len(m[0]):]
	}
	return o, nil
}

// IsZero reports whether applying the offset would be a no-op.
func (o Offset) IsZero() bool {
	return o.Years == 0 && o.Months == 0 && o.Days == 0 &&
		o.Hours == 0 && o.Minutes == 0 && o.Seconds == 0
}

// Apply shifts t by the offset. Year and month arithmetic clamps the
// day-of-month to the last valid day of the target month instead of letting
// it overflow into the next month (Jan 31 + 1M is Feb 29 in a leap year,
// never Mar 2). Days and the time-of-day components are exact deltas.
func (o Offset) Apply(t time.Time) time.Time {
	sign := 1
	if o.Subtract {
		sign = -1
	}

	t = addMonthsClamped(t, sign*(o.Years*12+o.Months))
	t = t.AddDate(0, 0, sign*o.Days)
	t = t.Add(time.Duration(sign) * (time.Duration(o.Hours)*time.Hour +
		time.Duration(o.Minutes)*time.Minute +
		time.Duration(o.Seconds)*time.Second))
	return t
}

func addMonthsClamped(t time.Time, months int) time.Time {
	if months == 0 {
		return t
	}
	// Work in zero-based months, with floor division so negative totals
	// land in the right year.
	total := t.Year()*12 + int(t.Month()) - 1 + months
	year := total / 12
	if total < 0 && total%12 != 0 {
		year--
	}
	month := time.Month(total-year*12 + 1)

	day := t.Day()
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
