package scheduler

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/okpulse/workingtime/internal/store"
	"github.com/okpulse/workingtime/internal/timeutil"
	"github.com/okpulse/workingtime/internal/workingtime"
)

// Boundary is the edge of a working window a job fires on.
type Boundary int

const (
	BoundaryStart Boundary = iota
	BoundaryEnd
)

func (b Boundary) Message(at time.Time) string {
	if b == BoundaryEnd {
		return "🏁 Working time is over: " + at.Format(timeutil.LayoutDateTime)
	}
	return "🔔 Working time started: " + at.Format(timeutil.LayoutDateTime)
}

// Notifier delivers boundary messages to a chat.
type Notifier interface {
	Notify(chatID int64, text string) error
}

type Scheduler struct {
	S     gocron.Scheduler
	St    *store.Store
	N     Notifier
	Clock clockwork.Clock
	Log   *slog.Logger

	mu   sync.Mutex
	jobs map[int64]uuid.UUID
}

func New(st *store.Store, n Notifier, clock clockwork.Clock, log *slog.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithClock(clock), gocron.WithLocation(time.Local))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	s.Start()
	return &Scheduler{S: s, St: st, N: n, Clock: clock, Log: log, jobs: make(map[int64]uuid.UUID)}, nil
}

func (sc *Scheduler) Shutdown() error { return sc.S.Shutdown() }

func (sc *Scheduler) chatTag(tgID int64) string { return fmt.Sprintf("chat:%d", tgID) }

// ClearChat drops the chat's pending boundary job, if any. Jobs are removed by
// id so a job scheduled right after is never caught by a late removal.
func (sc *Scheduler) ClearChat(tgID int64) {
	sc.mu.Lock()
	id, ok := sc.jobs[tgID]
	delete(sc.jobs, tgID)
	sc.mu.Unlock()
	if ok {
		_ = sc.S.RemoveJob(id)
	}
}

// Pending returns the chat's scheduled boundary job.
func (sc *Scheduler) Pending(tgID int64) (gocron.Job, bool) {
	sc.mu.Lock()
	id, ok := sc.jobs[tgID]
	sc.mu.Unlock()
	if !ok {
		return nil, false
	}
	for _, j := range sc.S.Jobs() {
		if j.ID() == id {
			return j, true
		}
	}
	return nil, false
}

// NextBoundary returns the next window edge after now: the end of the current
// window when now is working time, the next window start otherwise.
func NextBoundary(e *workingtime.Engine, now time.Time) (time.Time, Boundary, error) {
	if e.IsWorkingTime(now) {
		w, err := e.WindowFor(now)
		if err != nil {
			return time.Time{}, 0, err
		}
		return w.EndOn(now), BoundaryEnd, nil
	}
	next, _, err := e.NextWorkingTime(now)
	if err != nil {
		return time.Time{}, 0, err
	}
	return next, BoundaryStart, nil
}

// WatchChat replaces the chat's pending job with one at its next boundary.
func (sc *Scheduler) WatchChat(c store.Chat) error {
	return sc.watchFrom(c, sc.Clock.Now())
}

func (sc *Scheduler) watchFrom(c store.Chat, now time.Time) error {
	sc.ClearChat(c.TGID)

	cfg, err := sc.St.GetCalendar(c.Calendar)
	if err != nil {
		return err
	}
	e, err := workingtime.New(cfg, workingtime.WithReference(now), workingtime.WithLocation(now.Location()), workingtime.WithLogger(sc.Log))
	if err != nil {
		return err
	}
	at, kind, err := NextBoundary(e, now)
	if err != nil {
		return err
	}

	j, err := sc.S.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(at)),
		gocron.NewTask(sc.fire, c.TGID, kind, at),
		gocron.WithTags(sc.chatTag(c.TGID)),
		gocron.WithName(fmt.Sprintf("%s %s", sc.chatTag(c.TGID), at.Format(timeutil.LayoutDateTime))),
	)
	if err != nil {
		return fmt.Errorf("schedule chat %d: %w", c.TGID, err)
	}
	sc.mu.Lock()
	sc.jobs[c.TGID] = j.ID()
	sc.mu.Unlock()
	sc.Log.Debug("boundary scheduled", "chat", c.TGID, "calendar", c.Calendar, "at", at.Format(timeutil.LayoutDateTime))
	return nil
}

// fire runs on a boundary: it notifies the chat and schedules the next one
// unless the chat stopped watching meanwhile.
func (sc *Scheduler) fire(tgID int64, kind Boundary, at time.Time) {
	c, err := sc.St.GetChat(tgID)
	if err != nil {
		sc.Log.Error("boundary chat lookup", "chat", tgID, "err", err)
		return
	}
	if !c.Watching {
		return
	}
	if err := sc.N.Notify(tgID, kind.Message(at)); err != nil {
		sc.Log.Warn("boundary notify", "chat", tgID, "err", err)
	}
	from := sc.Clock.Now()
	if from.Before(at) {
		from = at
	}
	if err := sc.watchFrom(c, from); err != nil {
		sc.Log.Error("boundary reschedule", "chat", tgID, "err", err)
	}
}

func (sc *Scheduler) RescheduleWatchingChats() error {
	chats, err := sc.St.WatchingChats()
	if err != nil {
		return err
	}
	for _, c := range chats {
		if err := sc.WatchChat(c); err != nil {
			return err
		}
	}
	return nil
}
