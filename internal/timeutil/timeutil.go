package timeutil

import (
	"fmt"
	"time"
)

const (
	LayoutDateTimeSec = "2006-01-02 15:04:05"
	LayoutDateTime    = "2006-01-02 15:04"
	LayoutDate        = "2006-01-02"
	LayoutClock       = "15:04"
	LayoutDayMonth    = "02-01"
)

const (
	BitMon = 1 << 0
	BitTue = 1 << 1
	BitWed = 1 << 2
	BitThu = 1 << 3
	BitFri = 1 << 4
	BitSat = 1 << 5
	BitSun = 1 << 6
)

func MaskWorkdays() int { return BitMon | BitTue | BitWed | BitThu | BitFri }
func MaskWeekend() int  { return BitSat | BitSun }

func WeekdayBit(w time.Weekday) int {
	switch w {
	case time.Monday:
		return BitMon
	case time.Tuesday:
		return BitTue
	case time.Wednesday:
		return BitWed
	case time.Thursday:
		return BitThu
	case time.Friday:
		return BitFri
	case time.Saturday:
		return BitSat
	case time.Sunday:
		return BitSun
	}
	return 0
}

// MaskOf folds weekdays into a bitmask.
func MaskOf(days []time.Weekday) int {
	mask := 0
	for _, d := range days {
		mask |= WeekdayBit(d)
	}
	return mask
}

// Weekdays expands a bitmask, Sunday first.
func Weekdays(mask int) []time.Weekday {
	var out []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if mask&WeekdayBit(d) != 0 {
			out = append(out, d)
		}
	}
	return out
}

func ParseHHMM(s string) (int, int, bool) {
	if len(s) < 4 || len(s) > 5 {
		return 0, 0, false
	}
	t, err := time.Parse(LayoutClock, s)
	if err != nil {
		return 0, 0, false
	}
	return t.Hour(), t.Minute(), true
}

// ValidateDate reports whether s parses under layout and formats back to
// exactly s, so "2021-02-30" or "9:00" are rejected.
func ValidateDate(s, layout string) bool {
	t, err := time.Parse(layout, s)
	if err != nil {
		return false
	}
	return t.Format(layout) == s
}

// ParseStrict parses s in loc, accepting only values that round-trip.
func ParseStrict(s, layout string, loc *time.Location) (time.Time, error) {
	if !ValidateDate(s, layout) {
		return time.Time{}, fmt.Errorf("%q does not match %q", s, layout)
	}
	return time.ParseInLocation(layout, s, loc)
}

// TruncateMinute drops seconds and below in the civil calendar of t.
func TruncateMinute(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// At puts the clock h:m on the date of t.
func At(t time.Time, h, m int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), h, m, 0, 0, t.Location())
}

// AddDays moves by whole calendar days, keeping the wall clock.
func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

func DayMonth(t time.Time) string { return t.Format(LayoutDayMonth) }

// Minutes is the whole-minute distance from a to b, negative when b is before a.
func Minutes(a, b time.Time) int {
	return int(b.Sub(a) / time.Minute)
}
