package workingtime

import (
	"fmt"
	"strings"
	"time"

	"github.com/okpulse/workingtime/internal/timeutil"
)

// DefaultMaxLookahead bounds the search for the next working day: ten years
// of calendar days. Walks across many working days are not bounded by it.
const DefaultMaxLookahead = 3660

const endOfDay = "24:00"

// Window is a half-open [Start, End) time-of-day interval in minutes since
// midnight.
type Window struct {
	Start int
	End   int
}

// ParseWindow parses "HH:MM-HH:MM". The end may be "24:00" for a window
// that runs until midnight. Overnight windows are rejected.
func ParseWindow(s string) (Window, error) {
	from, to, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return Window{}, fmt.Errorf("%w: window %q is not HH:MM-HH:MM", ErrConfigurationInvalid, s)
	}
	to = strings.TrimSpace(to)
	sh, sm, ok1 := timeutil.ParseHHMM(strings.TrimSpace(from))
	eh, em, ok2 := timeutil.ParseHHMM(to)
	if to == endOfDay {
		eh, em, ok2 = 24, 0, true
	}
	if !ok1 || !ok2 {
		return Window{}, fmt.Errorf("%w: window %q is not HH:MM-HH:MM", ErrConfigurationInvalid, s)
	}
	w := Window{Start: sh*60 + sm, End: eh*60 + em}
	if w.Start >= w.End {
		return Window{}, fmt.Errorf("%w: window %q must start before it ends", ErrConfigurationInvalid, s)
	}
	return w, nil
}

func MustParseWindow(s string) Window {
	w, err := ParseWindow(s)
	if err != nil {
		panic(err)
	}
	return w
}

func (w Window) Minutes() int { return w.End - w.Start }

func (w Window) StartOn(day time.Time) time.Time {
	return timeutil.At(day, w.Start/60, w.Start%60)
}

func (w Window) EndOn(day time.Time) time.Time {
	return timeutil.At(day, w.End/60, w.End%60)
}

func (w Window) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", w.Start/60, w.Start%60, w.End/60, w.End%60)
}

// Config describes a working calendar. Empty Weekends or Holidays mean no
// restriction of that kind.
type Config struct {
	WorkingDays  map[time.Weekday]Window
	Weekends     []time.Weekday
	Holidays     []string
	MaxLookahead int
}

// StandardWeek is Monday to Friday with the given window and a Saturday and
// Sunday weekend.
func StandardWeek(window Window) Config {
	days := make(map[time.Weekday]Window, 5)
	for _, d := range timeutil.Weekdays(timeutil.MaskWorkdays()) {
		days[d] = window
	}
	return Config{
		WorkingDays: days,
		Weekends:    timeutil.Weekdays(timeutil.MaskWeekend()),
	}
}

// Weekdays returns the weekdays that have a window, Sunday first.
func (c Config) Weekdays() []time.Weekday {
	days := make([]time.Weekday, 0, len(c.WorkingDays))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if _, ok := c.WorkingDays[d]; ok {
			days = append(days, d)
		}
	}
	return days
}

func (c Config) Validate() error {
	if len(c.WorkingDays) == 0 {
		return fmt.Errorf("%w: no working days configured", ErrConfigurationInvalid)
	}
	for d, w := range c.WorkingDays {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("%w: weekday %d out of range", ErrConfigurationInvalid, d)
		}
		if w.Start < 0 || w.End > 24*60 || w.Start >= w.End {
			return fmt.Errorf("%w: %s window %s is empty or out of range", ErrConfigurationInvalid, d, w)
		}
	}
	weekend := timeutil.MaskOf(c.Weekends)
	for _, d := range c.Weekends {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("%w: weekend day %d out of range", ErrConfigurationInvalid, d)
		}
	}
	usable := false
	for d := range c.WorkingDays {
		if weekend&timeutil.WeekdayBit(d) == 0 {
			usable = true
			break
		}
	}
	if !usable {
		return fmt.Errorf("%w: every configured working day is a weekend", ErrConfigurationInvalid)
	}
	for _, h := range c.Holidays {
		if !validDayMonth(h) {
			return fmt.Errorf("%w: holiday %q is not DD-MM", ErrConfigurationInvalid, h)
		}
	}
	if c.MaxLookahead < 0 {
		return fmt.Errorf("%w: negative lookahead %d", ErrConfigurationInvalid, c.MaxLookahead)
	}
	return nil
}

// validDayMonth checks DD-MM against a leap year so "29-02" is accepted.
func validDayMonth(s string) bool {
	return timeutil.ValidateDate("2000-"+reverseDayMonth(s), timeutil.LayoutDate)
}

func reverseDayMonth(s string) string {
	day, month, ok := strings.Cut(s, "-")
	if !ok {
		return s
	}
	return month + "-" + day
}

// ParseWorkingDays converts a weekday-index keyed map of "HH:MM-HH:MM" strings,
// the shape used in calendar files.
func ParseWorkingDays(raw map[int]string) (map[time.Weekday]Window, error) {
	out := make(map[time.Weekday]Window, len(raw))
	for idx, s := range raw {
		if idx < 0 || idx > 6 {
			return nil, fmt.Errorf("%w: weekday %d out of range", ErrConfigurationInvalid, idx)
		}
		w, err := ParseWindow(s)
		if err != nil {
			return nil, fmt.Errorf("weekday %d: %w", idx, err)
		}
		out[time.Weekday(idx)] = w
	}
	return out, nil
}
