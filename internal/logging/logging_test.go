package logging

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetup_StdoutByDefault(t *testing.T) {
	lj := Setup(Options{Level: "info", Format: "json"})
	require.Nil(t, lj)
}

func TestSetup_FileLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.log")
	lj := Setup(Options{Level: "debug", Format: "text", File: path, MaxSizeMB: 1})
	require.NotNil(t, lj)
	defer func() { _ = lj.Close() }()

	slog.Info("hello")
	require.FileExists(t, path)
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLevel("debug"))
	require.Equal(t, slog.LevelWarn, parseLevel("warn"))
	require.Equal(t, slog.LevelError, parseLevel("error"))
	require.Equal(t, slog.LevelInfo, parseLevel("info"))
	require.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}
