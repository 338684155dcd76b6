package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/okpulse/workingtime/internal/timeutil"
	"github.com/okpulse/workingtime/internal/workingtime"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	DB *sqlx.DB
}

type calendarRow struct {
	ID           int64  `db:"id"`
	Name         string `db:"name"`
	WeekendsMask int    `db:"weekends_mask"`
	MaxLookahead int    `db:"max_lookahead"`
}

type windowRow struct {
	Weekday int `db:"weekday"`
	StartH  int `db:"start_h"`
	StartM  int `db:"start_m"`
	EndH    int `db:"end_h"`
	EndM    int `db:"end_m"`
}

type Chat struct {
	ID       int64  `db:"id"`
	TGID     int64  `db:"tg_id"`
	Calendar string `db:"calendar"`
	Watching bool   `db:"watching"`
}

func Open(databaseURL string) (*Store, error) {
	db, err := sqlx.Open("sqlite", fmt.Sprintf("file:%s?_pragma=busy_timeout=5000&_pragma=foreign_keys(1)", databaseURL))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, err
	}
	if err := runMigrations(db); err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

func (s *Store) Close() error { return s.DB.Close() }

// --- Calendars ---

// SaveCalendar creates or replaces the named calendar.
func (s *Store) SaveCalendar(name string, cfg workingtime.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	tx, err := s.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	mask := timeutil.MaskOf(cfg.Weekends)
	if _, err := tx.Exec(`INSERT INTO calendars (name, weekends_mask, max_lookahead) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET weekends_mask = excluded.weekends_mask, max_lookahead = excluded.max_lookahead`,
		name, mask, cfg.MaxLookahead); err != nil {
		return fmt.Errorf("save calendar %s: %w", name, err)
	}
	var id int64
	if err := tx.Get(&id, "SELECT id FROM calendars WHERE name = ?", name); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM calendar_windows WHERE calendar_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM calendar_holidays WHERE calendar_id = ?", id); err != nil {
		return err
	}
	for d, w := range cfg.WorkingDays {
		if _, err := tx.Exec(`INSERT INTO calendar_windows (calendar_id, weekday, start_h, start_m, end_h, end_m)
			VALUES (?, ?, ?, ?, ?, ?)`, id, int(d), w.Start/60, w.Start%60, w.End/60, w.End%60); err != nil {
			return fmt.Errorf("save window %s: %w", d, err)
		}
	}
	for _, h := range cfg.Holidays {
		if _, err := tx.Exec("INSERT OR IGNORE INTO calendar_holidays (calendar_id, day_month) VALUES (?, ?)", id, h); err != nil {
			return fmt.Errorf("save holiday %s: %w", h, err)
		}
	}
	return tx.Commit()
}

func (s *Store) GetCalendar(name string) (workingtime.Config, error) {
	var row calendarRow
	err := s.DB.Get(&row, "SELECT id, name, weekends_mask, max_lookahead FROM calendars WHERE name = ?", name)
	if errors.Is(err, sql.ErrNoRows) {
		return workingtime.Config{}, fmt.Errorf("calendar %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return workingtime.Config{}, err
	}

	var windows []windowRow
	if err := s.DB.Select(&windows, `SELECT weekday, start_h, start_m, end_h, end_m
		FROM calendar_windows WHERE calendar_id = ? ORDER BY weekday`, row.ID); err != nil {
		return workingtime.Config{}, err
	}
	cfg := workingtime.Config{
		WorkingDays:  make(map[time.Weekday]workingtime.Window, len(windows)),
		Weekends:     timeutil.Weekdays(row.WeekendsMask),
		MaxLookahead: row.MaxLookahead,
	}
	for _, w := range windows {
		cfg.WorkingDays[time.Weekday(w.Weekday)] = workingtime.Window{
			Start: w.StartH*60 + w.StartM,
			End:   w.EndH*60 + w.EndM,
		}
	}
	if err := s.DB.Select(&cfg.Holidays, `SELECT day_month FROM calendar_holidays
		WHERE calendar_id = ? ORDER BY day_month`, row.ID); err != nil {
		return workingtime.Config{}, err
	}
	return cfg, nil
}

func (s *Store) ListCalendars() ([]string, error) {
	var names []string
	err := s.DB.Select(&names, "SELECT name FROM calendars ORDER BY name")
	return names, err
}

func (s *Store) DeleteCalendar(name string) error {
	res, err := s.DB.Exec("DELETE FROM calendars WHERE name = ?", name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("calendar %s: %w", name, ErrNotFound)
	}
	return nil
}

// --- Chats ---

func (s *Store) GetOrCreateChat(tgID int64, defaultCalendar string) (Chat, error) {
	c, err := s.GetChat(tgID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return c, err
	}
	res, err := s.DB.Exec("INSERT INTO chats (tg_id, calendar, watching) VALUES (?, ?, 0)", tgID, defaultCalendar)
	if err != nil {
		return c, err
	}
	id, _ := res.LastInsertId()
	return Chat{ID: id, TGID: tgID, Calendar: defaultCalendar}, nil
}

func (s *Store) GetChat(tgID int64) (Chat, error) {
	var c Chat
	err := s.DB.Get(&c, "SELECT id, tg_id, calendar, watching FROM chats WHERE tg_id = ?", tgID)
	if errors.Is(err, sql.ErrNoRows) {
		return c, fmt.Errorf("chat %d: %w", tgID, ErrNotFound)
	}
	return c, err
}

func (s *Store) SetChatCalendar(tgID int64, name string) error {
	if _, err := s.GetCalendar(name); err != nil {
		return err
	}
	_, err := s.DB.Exec("UPDATE chats SET calendar = ? WHERE tg_id = ?", name, tgID)
	return err
}

func (s *Store) SetWatching(tgID int64, watching bool) error {
	val := 0
	if watching {
		val = 1
	}
	_, err := s.DB.Exec("UPDATE chats SET watching = ? WHERE tg_id = ?", val, tgID)
	return err
}

func (s *Store) WatchingChats() ([]Chat, error) {
	var chats []Chat
	err := s.DB.Select(&chats, "SELECT id, tg_id, calendar, watching FROM chats WHERE watching = 1 ORDER BY tg_id")
	return chats, err
}
