package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hckrchat/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "chat.db"))
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxMessageLength = 0

	_, err := New(cfg)
	require.Error(t, err)
}

func TestNew_AndStop(t *testing.T) {
	req := require.New(t)
	cfg := testConfig(t)

	application, err := New(cfg)
	req.NoError(err)
	req.Equal(cfg.Addr(), application.Addr())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req.NoError(application.Stop(ctx))
}
