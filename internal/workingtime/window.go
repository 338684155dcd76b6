package workingtime

import (
	"fmt"
	"time"

	"github.com/okpulse/workingtime/internal/timeutil"
)

// WindowFor returns the window configured for t's weekday.
func (e *Engine) WindowFor(t time.Time) (Window, error) {
	w, ok := e.workingDays[t.Weekday()]
	if !ok {
		return Window{}, fmt.Errorf("%w: %s", ErrConfigurationGap, t.Weekday())
	}
	return w, nil
}

// hasWindow reports whether t's date is a working date with a window.
func (e *Engine) hasWindow(t time.Time) (Window, bool) {
	w, ok := e.workingDays[t.Weekday()]
	if !ok || !e.IsWorkingDate(t) {
		return Window{}, false
	}
	return w, true
}

// IsWorkingTime reports whether t lies inside the working window of a working
// date. A weekday without a window is never working.
func (e *Engine) IsWorkingTime(t time.Time) bool {
	t = timeutil.TruncateMinute(t)
	w, ok := e.hasWindow(t)
	if !ok {
		return false
	}
	return !t.Before(w.StartOn(t)) && t.Before(w.EndOn(t))
}

// NextWorkingDay returns midnight of the first working date strictly after
// t's date.
func (e *Engine) NextWorkingDay(t time.Time) (time.Time, error) {
	day := timeutil.StartOfDay(t)
	for i := 0; i < e.maxLookahead; i++ {
		day = timeutil.AddDays(day, 1)
		if e.IsWorkingDate(day) {
			return day, nil
		}
	}
	return time.Time{}, e.errLookahead(t)
}

// nextWindowDay is NextWorkingDay restricted to dates that also have a window.
func (e *Engine) nextWindowDay(t time.Time) (time.Time, Window, error) {
	day := timeutil.StartOfDay(t)
	for i := 0; i < e.maxLookahead; i++ {
		day = timeutil.AddDays(day, 1)
		if w, ok := e.hasWindow(day); ok {
			return day, w, nil
		}
	}
	return time.Time{}, Window{}, e.errLookahead(t)
}

// NextWorkingTime returns the next working instant at or after t. ok is false
// when t already lies inside a working window, in which case next is t.
func (e *Engine) NextWorkingTime(t time.Time) (next time.Time, ok bool, err error) {
	t = timeutil.TruncateMinute(t)

	w, windowed := e.workingDays[t.Weekday()]
	if !windowed || !e.IsWorkingDate(t) {
		next, err = e.NextWorkingDayStart(t)
		return next, err == nil, err
	}

	start, end := w.StartOn(t), w.EndOn(t)
	switch {
	case t.Before(start):
		return start, true, nil
	case !t.Before(end):
		next, err = e.NextWorkingDayStart(t)
		return next, err == nil, err
	}
	return t, false, nil
}

// NextWorkingDayStart returns the window start of the first working day after
// t's date.
func (e *Engine) NextWorkingDayStart(t time.Time) (time.Time, error) {
	day, w, err := e.nextWindowDay(t)
	if err != nil {
		return time.Time{}, err
	}
	return w.StartOn(day), nil
}

func (e *Engine) nextWorkingDayEnd(t time.Time) (time.Time, error) {
	day, w, err := e.nextWindowDay(t)
	if err != nil {
		return time.Time{}, err
	}
	return w.EndOn(day), nil
}
