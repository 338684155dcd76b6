// Package workingtime does calendar arithmetic in working minutes: it knows
// which instants fall inside the configured weekly working windows, finds the
// next working instant, measures working minutes between two instants and
// moves an instant forward by a number of working minutes, skipping nights,
// weekends and holidays.
//
// An Engine is not safe for concurrent use. Modify is the only method that
// changes its state.
package workingtime

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/okpulse/workingtime/internal/logger"
	"github.com/okpulse/workingtime/internal/timeutil"
)

type Engine struct {
	workingDays  map[time.Weekday]Window
	weekends     int
	holidays     map[string]struct{}
	maxLookahead int

	loc *time.Location
	log *slog.Logger
	ref time.Time
}

type Option func(*Engine)

// WithReference sets the initial reference instant. Defaults to time.Now().
func WithReference(t time.Time) Option {
	return func(e *Engine) { e.ref = t }
}

// WithLocation sets the civil calendar used to parse strings. Defaults to
// time.Local.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		workingDays:  make(map[time.Weekday]Window, len(cfg.WorkingDays)),
		weekends:     timeutil.MaskOf(cfg.Weekends),
		holidays:     make(map[string]struct{}, len(cfg.Holidays)),
		maxLookahead: cfg.MaxLookahead,
		loc:          time.Local,
	}
	for d, w := range cfg.WorkingDays {
		e.workingDays[d] = w
	}
	for _, h := range cfg.Holidays {
		e.holidays[h] = struct{}{}
	}
	if e.maxLookahead == 0 {
		e.maxLookahead = DefaultMaxLookahead
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.Discard()
	}
	if e.ref.IsZero() {
		e.ref = time.Now().In(e.loc)
	}
	e.ref = timeutil.TruncateMinute(e.ref)
	return e, nil
}

// Config returns a copy of the configuration the engine was built from.
func (e *Engine) Config() Config {
	cfg := Config{
		WorkingDays:  make(map[time.Weekday]Window, len(e.workingDays)),
		Weekends:     timeutil.Weekdays(e.weekends),
		MaxLookahead: e.maxLookahead,
	}
	for d, w := range e.workingDays {
		cfg.WorkingDays[d] = w
	}
	for h := range e.holidays {
		cfg.Holidays = append(cfg.Holidays, h)
	}
	return cfg
}

func (e *Engine) Location() *time.Location { return e.loc }

// Reference returns the engine's current instant.
func (e *Engine) Reference() time.Time { return e.ref }

func (e *Engine) errLookahead(from time.Time) error {
	return fmt.Errorf("%w: no working day within %d days after %s",
		ErrConfigurationInvalid, e.maxLookahead, from.Format(timeutil.LayoutDate))
}
