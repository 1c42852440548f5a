package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/gorelix/internal/bufferpool"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.Equal(t, 3, c.BufferPool.Frames)
	require.Equal(t, bufferpool.FIFO, c.Strategy())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gorelix.yaml")
	yaml := "buffer_pool:\n  frames: 8\n  strategy: lru\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 8, c.BufferPool.Frames)
	require.Equal(t, bufferpool.LRU, c.Strategy())
	require.Equal(t, "debug", c.Log.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
