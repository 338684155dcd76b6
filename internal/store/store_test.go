package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okpulse/workingtime/internal/workingtime"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer st.Close()

	var applied int
	require.NoError(t, st.DB.Get(&applied, "SELECT COUNT(1) FROM schema_migrations"))
	assert.Equal(t, 1, applied)
}

func TestCalendarRoundTrip(t *testing.T) {
	st := openTestStore(t)

	cfg := workingtime.StandardWeek(workingtime.MustParseWindow("09:00-18:00"))
	cfg.WorkingDays[time.Friday] = workingtime.MustParseWindow("09:30-16:15")
	cfg.Holidays = []string{"09-05", "01-01"}
	cfg.MaxLookahead = 400

	require.NoError(t, st.SaveCalendar("office", cfg))

	got, err := st.GetCalendar("office")
	require.NoError(t, err)
	assert.Equal(t, cfg.WorkingDays, got.WorkingDays)
	assert.Equal(t, []time.Weekday{time.Sunday, time.Saturday}, got.Weekends)
	assert.Equal(t, []string{"01-01", "09-05"}, got.Holidays)
	assert.Equal(t, 400, got.MaxLookahead)

	cfg.Holidays = nil
	cfg.Weekends = []time.Weekday{time.Sunday}
	require.NoError(t, st.SaveCalendar("office", cfg))

	got, err = st.GetCalendar("office")
	require.NoError(t, err)
	assert.Empty(t, got.Holidays)
	assert.Equal(t, []time.Weekday{time.Sunday}, got.Weekends)

	names, err := st.ListCalendars()
	require.NoError(t, err)
	assert.Equal(t, []string{"office"}, names)
}

func TestSaveCalendarRejectsInvalid(t *testing.T) {
	st := openTestStore(t)

	err := st.SaveCalendar("broken", workingtime.Config{})
	assert.ErrorIs(t, err, workingtime.ErrConfigurationInvalid)

	_, err = st.GetCalendar("broken")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCalendar(t *testing.T) {
	st := openTestStore(t)
	require.NoError(t, st.SaveCalendar("office", workingtime.StandardWeek(workingtime.MustParseWindow("09:00-18:00"))))

	require.NoError(t, st.DeleteCalendar("office"))
	_, err := st.GetCalendar("office")
	assert.ErrorIs(t, err, ErrNotFound)

	var windows int
	require.NoError(t, st.DB.Get(&windows, "SELECT COUNT(1) FROM calendar_windows"))
	assert.Zero(t, windows)

	assert.ErrorIs(t, st.DeleteCalendar("office"), ErrNotFound)
}

func TestChats(t *testing.T) {
	st := openTestStore(t)
	require.NoError(t, st.SaveCalendar("default", workingtime.StandardWeek(workingtime.MustParseWindow("09:00-18:00"))))
	require.NoError(t, st.SaveCalendar("shop", workingtime.StandardWeek(workingtime.MustParseWindow("10:00-20:00"))))

	c, err := st.GetOrCreateChat(42, "default")
	require.NoError(t, err)
	assert.Equal(t, int64(42), c.TGID)
	assert.Equal(t, "default", c.Calendar)
	assert.False(t, c.Watching)

	again, err := st.GetOrCreateChat(42, "shop")
	require.NoError(t, err)
	assert.Equal(t, c.ID, again.ID)
	assert.Equal(t, "default", again.Calendar)

	require.NoError(t, st.SetChatCalendar(42, "shop"))
	assert.ErrorIs(t, st.SetChatCalendar(42, "missing"), ErrNotFound)

	require.NoError(t, st.SetWatching(42, true))
	_, err = st.GetOrCreateChat(7, "default")
	require.NoError(t, err)

	watching, err := st.WatchingChats()
	require.NoError(t, err)
	require.Len(t, watching, 1)
	assert.Equal(t, "shop", watching[0].Calendar)
	assert.True(t, watching[0].Watching)

	_, err = st.GetChat(99)
	assert.ErrorIs(t, err, ErrNotFound)
}
