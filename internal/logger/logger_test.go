package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelSetByName(t *testing.T) {
	defer Level.Set(slog.LevelInfo)

	Level.SetByName("debug")
	assert.True(t, Level.Enabled(slog.LevelDebug))

	Level.SetByName("WARNING")
	assert.False(t, Level.Enabled(slog.LevelInfo))
	assert.True(t, Level.Enabled(slog.LevelWarn))

	Level.SetByName("bogus")
	assert.True(t, Level.Enabled(slog.LevelWarn))

	Level.SetByName("off")
	assert.False(t, Level.Enabled(slog.LevelError))
}

func TestTextHandlerHonorsLevel(t *testing.T) {
	defer Level.Set(slog.LevelInfo)
	Level.Set(slog.LevelInfo)

	var buf bytes.Buffer
	log := slog.New(newTextHandler(&buf))

	log.Debug("hidden")
	assert.Empty(t, buf.String())

	log.Info("rolled", "day", "2016-10-28")
	assert.Contains(t, buf.String(), "rolled")
	assert.Contains(t, buf.String(), "day=2016-10-28")
}

func TestDiscard(t *testing.T) {
	assert.False(t, Discard().Enabled(context.Background(), slog.LevelError))
}
