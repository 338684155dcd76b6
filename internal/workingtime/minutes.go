package workingtime

import (
	"fmt"
	"time"

	"github.com/okpulse/workingtime/internal/timeutil"
)

// JobMinutesInDay returns the working minutes left in t's day when t is a
// working instant, and the full window length of t's weekday otherwise.
// Weekdays without a window have none.
func (e *Engine) JobMinutesInDay(t time.Time) int {
	t = timeutil.TruncateMinute(t)
	w, ok := e.workingDays[t.Weekday()]
	if !ok {
		return 0
	}
	if e.IsWorkingTime(t) {
		return timeutil.Minutes(t, w.EndOn(t))
	}
	return w.Minutes()
}

// ModifyAt moves t forward by minutes working minutes. An instant outside
// working time first snaps to the next working instant.
func (e *Engine) ModifyAt(minutes int, t time.Time) (time.Time, error) {
	if minutes < 0 {
		return time.Time{}, fmt.Errorf("%w: negative minutes %d", ErrInvalidArgument, minutes)
	}
	anchor, _, err := e.NextWorkingTime(t)
	if err != nil {
		return time.Time{}, err
	}
	return e.modifyDate(minutes, anchor)
}

// Modify is ModifyAt from the reference instant. On success the reference
// instant becomes the result.
func (e *Engine) Modify(minutes int) (time.Time, error) {
	res, err := e.ModifyAt(minutes, e.ref)
	if err != nil {
		return time.Time{}, err
	}
	e.ref = res
	return res, nil
}

// modifyDate rolls whole remaining days until minutes fit into the current
// one. at must be a working instant, so every roll consumes at least one
// minute and the loop ends; only the search for each next day is bounded.
func (e *Engine) modifyDate(minutes int, at time.Time) (time.Time, error) {
	for {
		left := e.JobMinutesInDay(at)
		if minutes <= left {
			return at.Add(time.Duration(minutes) * time.Minute), nil
		}
		minutes -= left
		next, err := e.NextWorkingDayStart(at)
		if err != nil {
			return time.Time{}, err
		}
		e.log.Debug("rolled to next working day",
			"from", at.Format(timeutil.LayoutDateTime),
			"to", next.Format(timeutil.LayoutDateTime),
			"remaining", minutes)
		at = next
	}
}

// WorkingMinutes returns the working minutes between start and end, zero when
// end is not after the first working instant at or after start.
func (e *Engine) WorkingMinutes(start, end time.Time) (int, error) {
	start = timeutil.TruncateMinute(start)
	end = timeutil.TruncateMinute(end)

	from, _, err := e.NextWorkingTime(start)
	if err != nil {
		return 0, err
	}
	if !from.Before(end) {
		return 0, nil
	}

	diff := timeutil.Minutes(from, end)
	total := e.JobMinutesInDay(from)
	if diff < total {
		return diff, nil
	}

	dayStart, err := e.NextWorkingDayStart(from)
	if err != nil {
		return 0, err
	}
	dayEnd, err := e.nextWorkingDayEnd(from)
	if err != nil {
		return 0, err
	}
	// dayStart moves forward every round, so the walk reaches end.
	for {
		if !dayStart.Before(end) {
			return total, nil
		}
		if end.Before(dayEnd) {
			return total + timeutil.Minutes(dayStart, end), nil
		}
		total += timeutil.Minutes(dayStart, dayEnd)
		prev := dayStart
		if dayStart, err = e.NextWorkingDayStart(prev); err != nil {
			return 0, err
		}
		if dayEnd, err = e.nextWorkingDayEnd(prev); err != nil {
			return 0, err
		}
	}
}
