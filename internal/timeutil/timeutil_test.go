package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDate(t *testing.T) {
	tests := map[string]struct {
		value  string
		layout string
		want   bool
	}{
		"full datetime":         {value: "2016-10-27 17:30:00", layout: LayoutDateTimeSec, want: true},
		"february 30":           {value: "2021-02-30 10:00:00", layout: LayoutDateTimeSec, want: false},
		"missing seconds":       {value: "2016-10-27 17:30", layout: LayoutDateTimeSec, want: false},
		"minute precision":      {value: "2016-10-27 17:30", layout: LayoutDateTime, want: true},
		"clock":                 {value: "09:00", layout: LayoutClock, want: true},
		"clock without padding": {value: "9:00", layout: LayoutClock, want: false},
		"clock out of range":    {value: "25:00", layout: LayoutClock, want: false},
		"date":                  {value: "2024-02-29", layout: LayoutDate, want: true},
		"not a leap year":       {value: "2023-02-29", layout: LayoutDate, want: false},
		"empty":                 {value: "", layout: LayoutDate, want: false},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, ValidateDate(test.value, test.layout))
		})
	}
}

func TestParseStrict(t *testing.T) {
	got, err := ParseStrict("2016-10-27 17:30", LayoutDateTime, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2016, 10, 27, 17, 30, 0, 0, time.UTC), got)

	_, err = ParseStrict("2016-10-27T17:30", LayoutDateTime, time.UTC)
	assert.Error(t, err)
}

func TestParseHHMM(t *testing.T) {
	h, m, ok := ParseHHMM("09:45")
	require.True(t, ok)
	assert.Equal(t, 9, h)
	assert.Equal(t, 45, m)

	_, _, ok = ParseHHMM("0945")
	assert.False(t, ok)
	_, _, ok = ParseHHMM("24:00")
	assert.False(t, ok)
}

func TestWeekdayMask(t *testing.T) {
	mask := MaskOf([]time.Weekday{time.Saturday, time.Sunday})
	assert.Equal(t, MaskWeekend(), mask)
	assert.Equal(t, []time.Weekday{time.Sunday, time.Saturday}, Weekdays(mask))
	assert.Len(t, Weekdays(MaskWorkdays()), 5)
	assert.Empty(t, Weekdays(0))
}

func TestCivilHelpers(t *testing.T) {
	ts := time.Date(2016, 10, 27, 17, 30, 42, 500, time.UTC)

	assert.Equal(t, time.Date(2016, 10, 27, 17, 30, 0, 0, time.UTC), TruncateMinute(ts))
	assert.Equal(t, time.Date(2016, 10, 27, 0, 0, 0, 0, time.UTC), StartOfDay(ts))
	assert.Equal(t, time.Date(2016, 10, 27, 9, 0, 0, 0, time.UTC), At(ts, 9, 0))
	assert.Equal(t, time.Date(2016, 11, 1, 17, 30, 42, 500, time.UTC), AddDays(ts, 5))
	assert.Equal(t, "27-10", DayMonth(ts))
	assert.Equal(t, 90, Minutes(At(ts, 9, 0), At(ts, 10, 30)))
	assert.Equal(t, -90, Minutes(At(ts, 10, 30), At(ts, 9, 0)))
}
