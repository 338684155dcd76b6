package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"gopkg.in/telebot.v3"

	"github.com/okpulse/workingtime/internal/bot"
	"github.com/okpulse/workingtime/internal/config"
	"github.com/okpulse/workingtime/internal/logger"
	"github.com/okpulse/workingtime/internal/scheduler"
	"github.com/okpulse/workingtime/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("bot failed", "err", err)
		stop()
		os.Exit(1)
	}
}

// run serves until ctx is done, then closes the scheduler and the store.
func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	if cfg.BotToken == "" {
		return errors.New("BOT_TOKEN is not set")
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return err
	}

	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open store %s: %w", cfg.DatabaseURL, err)
	}
	defer st.Close()

	if err := seedDefaultCalendar(st, cfg); err != nil {
		return fmt.Errorf("seed calendar %s: %w", cfg.DefaultCalendar, err)
	}

	pref := telebot.Settings{
		Token:  cfg.BotToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := telebot.NewBot(pref)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	clock := clockwork.NewRealClock()
	sch, err := scheduler.New(st, bot.Notifier{Bot: b}, clock, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := sch.Shutdown(); err != nil {
			log.Warn("scheduler shutdown", "err", err)
		}
	}()

	app := bot.New(b, st, sch, clock, log, cfg.DefaultCalendar)
	app.SetupHandlers()

	if err := sch.RescheduleWatchingChats(); err != nil {
		log.Warn("reschedule", "err", err)
	}

	go stopOnDone(ctx, b)

	log.Info("bot started", "calendar", cfg.DefaultCalendar, "db", cfg.DatabaseURL)
	b.Start()
	log.Info("bot stopped")
	return nil
}

type stopper interface {
	Stop()
}

// stopOnDone stops the poller once ctx is done, which makes Start return.
func stopOnDone(ctx context.Context, s stopper) {
	<-ctx.Done()
	s.Stop()
}

// seedDefaultCalendar stores the default calendar on first start, from
// CALENDAR_FILE when set.
func seedDefaultCalendar(st *store.Store, cfg config.Config) error {
	if _, err := st.GetCalendar(cfg.DefaultCalendar); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	cal := config.DefaultCalendar()
	if cfg.CalendarFile != "" {
		var err error
		if cal, err = config.LoadCalendar(cfg.CalendarFile); err != nil {
			return err
		}
	}
	wt, err := cal.WorkingTime()
	if err != nil {
		return err
	}
	return st.SaveCalendar(cfg.DefaultCalendar, wt)
}
