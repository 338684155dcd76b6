package workingtime

import (
	"time"

	"github.com/okpulse/workingtime/internal/timeutil"
)

func (e *Engine) IsHoliday(t time.Time) bool {
	if len(e.holidays) == 0 {
		return false
	}
	_, ok := e.holidays[timeutil.DayMonth(t)]
	return ok
}

func (e *Engine) IsWeekend(t time.Time) bool {
	if e.weekends == 0 {
		return false
	}
	return e.weekends&timeutil.WeekdayBit(t.Weekday()) != 0
}

// IsWorkingDate reports whether t's date is neither a weekend nor a holiday.
// It does not look at WorkingDays.
func (e *Engine) IsWorkingDate(t time.Time) bool {
	return !(e.IsWeekend(t) || e.IsHoliday(t))
}
