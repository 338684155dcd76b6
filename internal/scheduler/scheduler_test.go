package scheduler

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okpulse/workingtime/internal/logger"
	"github.com/okpulse/workingtime/internal/store"
	"github.com/okpulse/workingtime/internal/workingtime"
)

// 2044-10-27 is a Thursday.
func at(day, h, m int) time.Time {
	return time.Date(2044, 10, day, h, m, 0, 0, time.UTC)
}

type recorder struct {
	mu   sync.Mutex
	sent map[int64][]string
}

func (r *recorder) Notify(chatID int64, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sent == nil {
		r.sent = map[int64][]string{}
	}
	r.sent[chatID] = append(r.sent[chatID], text)
	return nil
}

func (r *recorder) messages(chatID int64) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sent[chatID]...)
}

func newTestScheduler(t *testing.T, now time.Time) (*Scheduler, *recorder) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.SaveCalendar("default", workingtime.StandardWeek(workingtime.MustParseWindow("09:00-18:00"))))

	rec := &recorder{}
	sc, err := New(st, rec, clockwork.NewFakeClockAt(now), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc, rec
}

func TestNextBoundary(t *testing.T) {
	e, err := workingtime.New(workingtime.StandardWeek(workingtime.MustParseWindow("09:00-18:00")),
		workingtime.WithLocation(time.UTC), workingtime.WithReference(at(27, 10, 0)))
	require.NoError(t, err)

	tests := map[string]struct {
		now      time.Time
		want     time.Time
		wantKind Boundary
	}{
		"inside window":      {now: at(27, 10, 0), want: at(27, 18, 0), wantKind: BoundaryEnd},
		"at window start":    {now: at(27, 9, 0), want: at(27, 18, 0), wantKind: BoundaryEnd},
		"at window end":      {now: at(27, 18, 0), want: at(28, 9, 0), wantKind: BoundaryStart},
		"early morning":      {now: at(27, 6, 30), want: at(27, 9, 0), wantKind: BoundaryStart},
		"weekend":            {now: at(29, 12, 0), want: at(31, 9, 0), wantKind: BoundaryStart},
		"seconds before end": {now: at(27, 17, 59).Add(30 * time.Second), want: at(27, 18, 0), wantKind: BoundaryEnd},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, kind, err := NextBoundary(e, test.now)
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
			assert.Equal(t, test.wantKind, kind)
		})
	}
}

func TestBoundaryMessage(t *testing.T) {
	assert.Contains(t, BoundaryStart.Message(at(27, 9, 0)), "started: 2044-10-27 09:00")
	assert.Contains(t, BoundaryEnd.Message(at(27, 18, 0)), "over: 2044-10-27 18:00")
}

func TestWatchChat(t *testing.T) {
	sc, _ := newTestScheduler(t, at(27, 10, 0))
	c, err := sc.St.GetOrCreateChat(42, "default")
	require.NoError(t, err)

	require.NoError(t, sc.WatchChat(c))

	j, ok := sc.Pending(42)
	require.True(t, ok)
	assert.Equal(t, []string{"chat:42"}, j.Tags())
	assert.Equal(t, "chat:42 2044-10-27 18:00", j.Name())

	first := j.ID()
	require.NoError(t, sc.WatchChat(c))
	j, ok = sc.Pending(42)
	require.True(t, ok)
	assert.NotEqual(t, first, j.ID())

	sc.ClearChat(42)
	_, ok = sc.Pending(42)
	assert.False(t, ok)
}

func TestWatchChatUnknownCalendar(t *testing.T) {
	sc, _ := newTestScheduler(t, at(27, 10, 0))

	err := sc.WatchChat(store.Chat{TGID: 7, Calendar: "missing"})
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, ok := sc.Pending(7)
	assert.False(t, ok)
}

func TestFireNotifiesAndReschedules(t *testing.T) {
	sc, rec := newTestScheduler(t, at(27, 10, 0))
	_, err := sc.St.GetOrCreateChat(42, "default")
	require.NoError(t, err)
	require.NoError(t, sc.St.SetWatching(42, true))

	sc.fire(42, BoundaryEnd, at(27, 18, 0))

	assert.Equal(t, []string{BoundaryEnd.Message(at(27, 18, 0))}, rec.messages(42))
	j, ok := sc.Pending(42)
	require.True(t, ok)
	assert.Equal(t, "chat:42 2044-10-28 09:00", j.Name())
}

func TestFireSkipsChatsNoLongerWatching(t *testing.T) {
	sc, rec := newTestScheduler(t, at(27, 10, 0))
	_, err := sc.St.GetOrCreateChat(42, "default")
	require.NoError(t, err)

	sc.fire(42, BoundaryStart, at(27, 9, 0))

	assert.Empty(t, rec.messages(42))
	_, ok := sc.Pending(42)
	assert.False(t, ok)
}

func TestRescheduleWatchingChats(t *testing.T) {
	sc, _ := newTestScheduler(t, at(29, 10, 0))
	for _, id := range []int64{1, 2, 3} {
		_, err := sc.St.GetOrCreateChat(id, "default")
		require.NoError(t, err)
	}
	require.NoError(t, sc.St.SetWatching(1, true))
	require.NoError(t, sc.St.SetWatching(3, true))

	require.NoError(t, sc.RescheduleWatchingChats())

	for id, want := range map[int64]bool{1: true, 2: false, 3: true} {
		j, ok := sc.Pending(id)
		require.Equal(t, want, ok, id)
		if ok {
			assert.Equal(t, fmt.Sprintf("chat:%d 2044-10-31 09:00", id), j.Name())
		}
	}
}
