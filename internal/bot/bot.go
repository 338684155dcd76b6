package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"gopkg.in/telebot.v3"

	"github.com/okpulse/workingtime/internal/scheduler"
	"github.com/okpulse/workingtime/internal/store"
	"github.com/okpulse/workingtime/internal/timeutil"
	"github.com/okpulse/workingtime/internal/workingtime"
)

const helpText = `Commands:
/calendars - list calendars
/use <name> - switch this chat's calendar
/working [HH:MM | YYYY-MM-DD HH:MM] - is it working time?
/next [instant] - next working instant
/add <minutes> [instant] - add working minutes (without an instant the chat clock moves)
/between <start> <end> - working minutes between two YYYY-MM-DD HH:MM:SS instants
/watch - notify me when working time starts and ends
/unwatch - stop notifications`

// BotApp answers chat commands. Sch may be nil, in which case /watch and
// /unwatch report that notifications are unavailable.
type BotApp struct {
	Bot   *telebot.Bot
	St    *store.Store
	Sch   *scheduler.Scheduler
	Clock clockwork.Clock
	Log   *slog.Logger

	DefaultCalendar string

	mu sync.Mutex
	// clocks holds the instants chats moved with an argument-less /add.
	clocks map[int64]time.Time
}

func New(b *telebot.Bot, st *store.Store, sch *scheduler.Scheduler, clock clockwork.Clock, log *slog.Logger, defaultCalendar string) *BotApp {
	return &BotApp{
		Bot:             b,
		St:              st,
		Sch:             sch,
		Clock:           clock,
		Log:             log,
		DefaultCalendar: defaultCalendar,
		clocks:          make(map[int64]time.Time),
	}
}

// Notifier sends scheduler messages through the bot.
type Notifier struct {
	Bot *telebot.Bot
}

func (n Notifier) Notify(chatID int64, text string) error {
	_, err := n.Bot.Send(&telebot.Chat{ID: chatID}, text)
	return err
}

func (a *BotApp) SetupHandlers() {
	rp := &telebot.ReplyMarkup{ResizeKeyboard: true}
	btnWorking := rp.Text("🕒 Working now?")
	btnNext := rp.Text("⏭ Next working time")
	btnWatch := rp.Text("🔔 Watch")
	btnUnwatch := rp.Text("🔕 Unwatch")
	rp.Reply(rp.Row(btnWorking, btnNext), rp.Row(btnWatch, btnUnwatch))

	a.Bot.Handle("/start", func(c telebot.Context) error {
		if _, err := a.St.GetOrCreateChat(c.Chat().ID, a.DefaultCalendar); err != nil {
			a.Log.Error("create chat", "chat", c.Chat().ID, "err", err)
			return c.Send("Something went wrong, try again later")
		}
		return c.Send("Hi! I count working time for this chat.\n\n"+helpText, rp)
	})
	a.Bot.Handle("/help", func(c telebot.Context) error { return c.Send(helpText) })

	for _, cmd := range []string{"/calendars", "/use", "/working", "/next", "/add", "/between", "/watch", "/unwatch"} {
		a.Bot.Handle(cmd, a.command(cmd))
	}
	a.Bot.Handle(&btnWorking, a.command("/working"))
	a.Bot.Handle(&btnNext, a.command("/next"))
	a.Bot.Handle(&btnWatch, a.command("/watch"))
	a.Bot.Handle(&btnUnwatch, a.command("/unwatch"))
}

func (a *BotApp) command(cmd string) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		var args []string
		if c.Message() != nil {
			args = strings.Fields(c.Message().Payload)
		}
		reply, err := a.Answer(c.Chat().ID, cmd, args)
		if err != nil {
			a.Log.Warn("command failed", "chat", c.Chat().ID, "cmd", cmd, "err", err)
			return c.Send(userError(err))
		}
		return c.Send(reply)
	}
}

func userError(err error) string {
	switch {
	case errors.Is(err, workingtime.ErrInvalidArgument):
		return "I could not read that. " + strings.TrimPrefix(err.Error(), workingtime.ErrInvalidArgument.Error()+": ")
	case errors.Is(err, store.ErrNotFound):
		return "Not found. Send /start first or check /calendars."
	case errors.Is(err, workingtime.ErrConfigurationInvalid):
		return "This calendar has no working days I can reach."
	}
	return "Something went wrong, try again later"
}

// Answer runs one command for a chat and returns the reply text.
func (a *BotApp) Answer(tgID int64, cmd string, args []string) (string, error) {
	switch cmd {
	case "/calendars":
		return a.handleCalendars(tgID)
	case "/use":
		return a.handleUse(tgID, args)
	case "/watch":
		return a.handleWatch(tgID, true)
	case "/unwatch":
		return a.handleWatch(tgID, false)
	case "/add":
		return a.handleAdd(tgID, args)
	case "/working", "/next", "/between":
		e, err := a.engine(tgID, a.Clock.Now())
		if err != nil {
			return "", err
		}
		switch cmd {
		case "/working":
			return handleWorking(e, strings.Join(args, " "))
		case "/next":
			return handleNext(e, strings.Join(args, " "))
		}
		return handleBetween(e, args)
	}
	return "", fmt.Errorf("%w: unknown command %s", workingtime.ErrInvalidArgument, cmd)
}

// engine builds an engine from the chat's stored calendar, so calendar
// changes apply to the next command.
func (a *BotApp) engine(tgID int64, ref time.Time) (*workingtime.Engine, error) {
	chat, err := a.St.GetOrCreateChat(tgID, a.DefaultCalendar)
	if err != nil {
		return nil, err
	}
	cfg, err := a.St.GetCalendar(chat.Calendar)
	if err != nil {
		return nil, err
	}
	return workingtime.New(cfg, workingtime.WithReference(ref), workingtime.WithLogger(a.Log))
}

func (a *BotApp) handleCalendars(tgID int64) (string, error) {
	names, err := a.St.ListCalendars()
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "No calendars yet.", nil
	}
	current := ""
	if chat, err := a.St.GetChat(tgID); err == nil {
		current = chat.Calendar
	}
	var b strings.Builder
	b.WriteString("Calendars:\n")
	for _, name := range names {
		mark := "•"
		if name == current {
			mark = "✅"
		}
		cfg, err := a.St.GetCalendar(name)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s %s - %s\n", mark, name, describe(cfg))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func describe(cfg workingtime.Config) string {
	parts := make([]string, 0, len(cfg.WorkingDays))
	for _, d := range cfg.Weekdays() {
		parts = append(parts, d.String()[:3]+" "+cfg.WorkingDays[d].String())
	}
	s := strings.Join(parts, ", ")
	if len(cfg.Holidays) > 0 {
		s += fmt.Sprintf("; %d holidays", len(cfg.Holidays))
	}
	return s
}

func (a *BotApp) handleUse(tgID int64, args []string) (string, error) {
	if len(args) != 1 {
		return "Send it like this: /use default", nil
	}
	chat, err := a.St.GetOrCreateChat(tgID, a.DefaultCalendar)
	if err != nil {
		return "", err
	}
	if err := a.St.SetChatCalendar(tgID, args[0]); err != nil {
		return "", err
	}

	if chat.Watching && a.Sch != nil {
		chat.Calendar = args[0]
		if err := a.Sch.WatchChat(chat); err != nil {
			a.Log.Error("reschedule", "chat", tgID, "err", err)
		}
	}
	return "Calendar switched to " + args[0], nil
}

func (a *BotApp) handleWatch(tgID int64, watch bool) (string, error) {
	if a.Sch == nil {
		return "Notifications are not available.", nil
	}
	chat, err := a.St.GetOrCreateChat(tgID, a.DefaultCalendar)
	if err != nil {
		return "", err
	}
	if err := a.St.SetWatching(tgID, watch); err != nil {
		return "", err
	}
	if !watch {
		a.Sch.ClearChat(tgID)
		return "Notifications stopped.", nil
	}
	chat.Watching = true
	if err := a.Sch.WatchChat(chat); err != nil {
		return "", err
	}
	if j, ok := a.Sch.Pending(tgID); ok {
		if next, err := j.NextRun(); err == nil && !next.IsZero() {
			return "Watching. Next notification at " + next.Format(timeutil.LayoutDateTime), nil
		}
	}
	return "Watching.", nil
}

func handleWorking(e *workingtime.Engine, arg string) (string, error) {
	ok, err := e.IsWorkingTimeString(arg)
	if err != nil {
		return "", err
	}
	if ok {
		return "✅ Working time", nil
	}
	return "💤 Not working time", nil
}

func handleNext(e *workingtime.Engine, arg string) (string, error) {
	t, err := e.ParseInstant(arg)
	if err != nil {
		return "", err
	}
	next, found, err := e.NextWorkingTime(t)
	if err != nil {
		return "", err
	}
	if !found {
		return "Already working time. " + fmt.Sprintf("%d working minutes left today.", e.JobMinutesInDay(t)), nil
	}
	return "Next working time: " + next.Format(timeutil.LayoutDateTime), nil
}

func (a *BotApp) handleAdd(tgID int64, args []string) (string, error) {
	if len(args) == 0 {
		return "Send it like this: /add 90 or /add 90 2016-10-27 17:30", nil
	}
	minutes, err := strconv.Atoi(args[0])
	if err != nil {
		return "", fmt.Errorf("%w: %q is not a number of minutes", workingtime.ErrInvalidArgument, args[0])
	}
	date := strings.Join(args[1:], " ")
	if date != "" {
		e, err := a.engine(tgID, a.Clock.Now())
		if err != nil {
			return "", err
		}
		return e.ModifyString(minutes, date)
	}

	// Without a date the chat clock moves: it starts where the chat last left
	// it, or now.
	a.mu.Lock()
	defer a.mu.Unlock()
	ref, ok := a.clocks[tgID]
	if !ok {
		ref = a.Clock.Now()
	}
	e, err := a.engine(tgID, ref)
	if err != nil {
		return "", err
	}
	res, err := e.ModifyString(minutes, "")
	if err != nil {
		return "", err
	}
	a.clocks[tgID] = e.Reference()
	return res, nil
}

func handleBetween(e *workingtime.Engine, args []string) (string, error) {
	if len(args) != 4 {
		return "Send it like this: /between 2016-10-27 17:30:00 2016-10-28 10:00:00", nil
	}
	minutes, err := e.CalculatingWorkingTime(args[0]+" "+args[1], args[2]+" "+args[3])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d working minutes (%02dh %02dm)", minutes, minutes/60, minutes%60), nil
}
