package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/okpulse/workingtime/internal/workingtime"
)

// Calendar is the on-disk shape of a working calendar. Working day keys are
// weekday indexes, 0 for Sunday.
type Calendar struct {
	WorkingDays  map[string]string `toml:"working_days" yaml:"working_days"`
	Weekends     []int             `toml:"weekends" yaml:"weekends"`
	Holidays     []string          `toml:"holidays" yaml:"holidays"`
	MaxLookahead int               `toml:"max_lookahead" yaml:"max_lookahead"`
}

func DefaultCalendar() Calendar {
	days := map[string]string{}
	for d := 1; d <= 5; d++ {
		days[strconv.Itoa(d)] = "09:00-18:00"
	}
	return Calendar{WorkingDays: days, Weekends: []int{0, 6}}
}

// LoadCalendar reads a TOML or YAML calendar, chosen by file extension.
func LoadCalendar(path string) (Calendar, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Calendar{}, fmt.Errorf("read calendar: %w", err)
	}
	cal, err := DecodeCalendar(b, filepath.Ext(path))
	if err != nil {
		return Calendar{}, fmt.Errorf("calendar %s: %w", path, err)
	}
	return cal, nil
}

func DecodeCalendar(b []byte, ext string) (Calendar, error) {
	var cal Calendar
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml":
		if _, err := toml.NewDecoder(bytes.NewReader(b)).Decode(&cal); err != nil {
			return Calendar{}, fmt.Errorf("decode toml: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(b, &cal); err != nil {
			return Calendar{}, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return Calendar{}, fmt.Errorf("unsupported calendar format %q", ext)
	}
	return cal, nil
}

// EncodeCalendar writes cal as TOML.
func EncodeCalendar(cal Calendar) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WorkingTime converts the file shape into a validated engine config.
func (c Calendar) WorkingTime() (workingtime.Config, error) {
	raw := make(map[int]string, len(c.WorkingDays))
	for k, v := range c.WorkingDays {
		idx, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return workingtime.Config{}, fmt.Errorf("%w: working day key %q is not a weekday index", workingtime.ErrConfigurationInvalid, k)
		}
		raw[idx] = v
	}
	days, err := workingtime.ParseWorkingDays(raw)
	if err != nil {
		return workingtime.Config{}, err
	}
	cfg := workingtime.Config{
		WorkingDays:  days,
		Holidays:     append([]string(nil), c.Holidays...),
		MaxLookahead: c.MaxLookahead,
	}
	for _, d := range c.Weekends {
		cfg.Weekends = append(cfg.Weekends, time.Weekday(d))
	}
	if err := cfg.Validate(); err != nil {
		return workingtime.Config{}, err
	}
	return cfg, nil
}

// FromWorkingTime is the inverse of WorkingTime.
func FromWorkingTime(cfg workingtime.Config) Calendar {
	cal := Calendar{
		WorkingDays:  make(map[string]string, len(cfg.WorkingDays)),
		Holidays:     append([]string(nil), cfg.Holidays...),
		MaxLookahead: cfg.MaxLookahead,
	}
	for d, w := range cfg.WorkingDays {
		cal.WorkingDays[strconv.Itoa(int(d))] = w.String()
	}
	for _, d := range cfg.Weekends {
		cal.Weekends = append(cal.Weekends, int(d))
	}
	sort.Ints(cal.Weekends)
	sort.Strings(cal.Holidays)
	return cal
}
