package workingtime

import (
	"fmt"
	"time"

	"github.com/okpulse/workingtime/internal/timeutil"
)

const (
	LayoutDateTimeSec = timeutil.LayoutDateTimeSec
	LayoutDateTime    = timeutil.LayoutDateTime
	LayoutDate        = timeutil.LayoutDate
	LayoutClock       = timeutil.LayoutClock
)

// ValidateDate reports whether s parses under layout and formats back to
// exactly s.
func ValidateDate(s, layout string) bool {
	return timeutil.ValidateDate(s, layout)
}

// ParseInstant reads "YYYY-MM-DD HH:MM:SS", "YYYY-MM-DD HH:MM" or
// "YYYY-MM-DD" in the engine's location. An empty string is the reference
// instant.
func (e *Engine) ParseInstant(s string) (time.Time, error) {
	if s == "" {
		return e.ref, nil
	}
	for _, layout := range []string{LayoutDateTimeSec, LayoutDateTime, LayoutDate} {
		if t, err := timeutil.ParseStrict(s, layout, e.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a valid date, expected e.g. `2016-10-27 17:30`", ErrInvalidArgument, s)
}

// IsWorkingTimeString accepts "", "HH:MM" (on the reference date) or
// "YYYY-MM-DD HH:MM".
func (e *Engine) IsWorkingTimeString(s string) (bool, error) {
	if s == "" {
		return e.IsWorkingTime(e.ref), nil
	}
	if ValidateDate(s, LayoutClock) {
		h, m, _ := timeutil.ParseHHMM(s)
		return e.IsWorkingTime(timeutil.At(e.ref, h, m)), nil
	}
	t, err := timeutil.ParseStrict(s, LayoutDateTime, e.loc)
	if err != nil {
		return false, fmt.Errorf("%w: %q is not a valid time, expected `17:30` or `2016-10-27 17:30`", ErrInvalidArgument, s)
	}
	return e.IsWorkingTime(t), nil
}

// ModifyString adds minutes working minutes to date and formats the result as
// "YYYY-MM-DD HH:MM". An empty date moves the reference instant.
func (e *Engine) ModifyString(minutes int, date string) (string, error) {
	var (
		res time.Time
		err error
	)
	if date == "" {
		res, err = e.Modify(minutes)
	} else {
		var t time.Time
		if t, err = e.ParseInstant(date); err != nil {
			return "", err
		}
		res, err = e.ModifyAt(minutes, t)
	}
	if err != nil {
		return "", err
	}
	return res.Format(LayoutDateTime), nil
}

// CalculatingWorkingTime returns the working minutes between two
// "YYYY-MM-DD HH:MM:SS" timestamps.
func (e *Engine) CalculatingWorkingTime(startDate, endDate string) (int, error) {
	start, err1 := timeutil.ParseStrict(startDate, LayoutDateTimeSec, e.loc)
	end, err2 := timeutil.ParseStrict(endDate, LayoutDateTimeSec, e.loc)
	if err1 != nil || err2 != nil {
		return 0, fmt.Errorf("%w: dates should be formatted as `2016-10-27 17:30:00`, got %q and %q",
			ErrInvalidArgument, startDate, endDate)
	}
	return e.WorkingMinutes(start, end)
}
