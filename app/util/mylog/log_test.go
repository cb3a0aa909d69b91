package mylog

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"casebot/app/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteToTelegram(t *testing.T) {
	ctx := context.Background()

	errRecord := slog.NewRecord(time.Now(), slog.LevelError, "upstream failed", 0)
	assert.True(t, routeToTelegram(ctx, errRecord))

	info := slog.NewRecord(time.Now(), slog.LevelInfo, "feedback saved", 0)
	assert.False(t, routeToTelegram(ctx, info))

	tagged := slog.NewRecord(time.Now(), slog.LevelInfo, "feedback saved", 0)
	tagged.AddAttrs(slog.Bool("telegram", true))
	assert.True(t, routeToTelegram(ctx, tagged))
}

func TestInit_RejectsUnknownLevel(t *testing.T) {
	cfg := &config.Config{Log: config.Log{Level: "chatty"}}
	require.Error(t, Init(cfg))
}
