package config

import (
	"github.com/RuiFG/storagebox/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	application, err := Load("")
	require.NoError(t, err)
	assert.False(t, application.Debug)
	assert.Equal(t, "info", application.Log.Level)
	assert.Equal(t, backend.DefaultSessionTTL, application.Session.TTL)
	assert.Zero(t, application.Backend.SegmentSize)
	assert.Equal(t, "json", application.Snapshot.Codec)
	assert.Equal(t, "fs", application.Backend.Type)
}

func TestLoadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "storagebox.yml")
	require.NoError(t, os.WriteFile(file, []byte(`
debug: true
session:
  id: abc
  ttl: 5m
snapshot:
  codec: proto
backend:
  type: redis
  redis_url: redis://cache:6379/1
  segment_size: 1048576
`), 0o644))

	application, err := Load(file)
	require.NoError(t, err)
	assert.True(t, application.Debug)
	assert.Equal(t, "abc", application.Session.ID)
	assert.Equal(t, 5*time.Minute, application.Session.TTL)
	assert.Equal(t, "proto", application.Snapshot.Codec)
	assert.Equal(t, "redis", application.Backend.Type)
	assert.Equal(t, "redis://cache:6379/1", application.Backend.RedisURL)
	assert.Equal(t, "./data", application.Backend.Dir)
	assert.Equal(t, int64(1048576), application.Backend.SegmentSize)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "storagebox.yml")
	require.NoError(t, os.WriteFile(file, []byte("backend:\n  type: fs\n"), 0o644))
	t.Setenv("STORAGEBOX_BACKEND_TYPE", "memory")
	t.Setenv("STORAGEBOX_SESSION_ID", "from-env")

	application, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "memory", application.Backend.Type)
	assert.Equal(t, "from-env", application.Session.ID)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}
