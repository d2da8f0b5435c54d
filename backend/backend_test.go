package backend

import (
	"context"
	"github.com/RuiFG/storagebox/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"testing"
	"time"
)

type factory func(t *testing.T) Backend

func tempFSBackend(t *testing.T) Backend {
	b, err := NewFSBackend(log.Nop(), t.TempDir(), NewSessionID())
	require.NoError(t, err)
	return b
}

func redisBackendFromEnv(t *testing.T) Backend {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL is not set")
	}
	b, err := NewRedisBackend(context.Background(), url, NewSessionID(), time.Minute)
	require.NoError(t, err)
	return b
}

func factories() map[string]factory {
	return map[string]factory{
		"memory": func(t *testing.T) Backend { return NewMemoryBackend() },
		"fs":     tempFSBackend,
		"redis":  redisBackendFromEnv,
	}
}

func TestBackendReadAbsent(t *testing.T) {
	for name, newBackend := range factories() {
		t.Run(name, func(t *testing.T) {
			b := newBackend(t)
			defer func() { assert.NoError(t, b.Close()) }()
			blob, err := b.Read(context.Background(), "StorageBox")
			assert.NoError(t, err)
			assert.Nil(t, blob)
		})
	}
}

func TestBackendWriteReadDelete(t *testing.T) {
	for name, newBackend := range factories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			b := newBackend(t)
			defer func() { assert.NoError(t, b.Close()) }()

			require.NoError(t, b.Write(ctx, "StorageBox", []byte(`{"a":1}`)))
			blob, err := b.Read(ctx, "StorageBox")
			require.NoError(t, err)
			assert.Equal(t, []byte(`{"a":1}`), blob)

			require.NoError(t, b.Write(ctx, "StorageBox", []byte(`{"b":2}`)))
			blob, err = b.Read(ctx, "StorageBox")
			require.NoError(t, err)
			assert.Equal(t, []byte(`{"b":2}`), blob)

			require.NoError(t, b.Delete(ctx, "StorageBox"))
			blob, err = b.Read(ctx, "StorageBox")
			require.NoError(t, err)
			assert.Nil(t, blob)
		})
	}
}

func TestBackendDeleteAbsent(t *testing.T) {
	for name, newBackend := range factories() {
		t.Run(name, func(t *testing.T) {
			b := newBackend(t)
			defer func() { assert.NoError(t, b.Close()) }()
			assert.NoError(t, b.Delete(context.Background(), "StorageBox"))
			assert.NoError(t, b.Delete(context.Background(), "StorageBox"))
		})
	}
}

func TestMemoryBackendCopiesBlobs(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	blob := []byte("abc")
	require.NoError(t, b.Write(ctx, "k", blob))
	blob[0] = 'x'
	read, err := b.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), read)
}

func TestFSBackendSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	session := NewSessionID()

	b, err := NewFSBackend(log.Nop(), dir, session, WithSessionTTL(time.Hour))
	require.NoError(t, err)
	require.NoError(t, b.Write(ctx, "StorageBox", []byte{123, 123, 123}))
	require.NoError(t, b.Close())

	b, err = NewFSBackend(log.Nop(), dir, session)
	require.NoError(t, err)
	defer func() { assert.NoError(t, b.Close()) }()
	blob, err := b.Read(ctx, "StorageBox")
	require.NoError(t, err)
	assert.Equal(t, []byte{123, 123, 123}, blob)
}

func TestFSBackendIsolatesSessions(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewFSBackend(log.Nop(), dir, "first")
	require.NoError(t, err)
	require.NoError(t, first.Write(ctx, "StorageBox", []byte("first")))
	require.NoError(t, first.Close())

	second, err := NewFSBackend(log.Nop(), dir, "second")
	require.NoError(t, err)
	defer func() { assert.NoError(t, second.Close()) }()
	blob, err := second.Read(ctx, "StorageBox")
	require.NoError(t, err)
	assert.Nil(t, blob)
}

func TestNewBackendRequiresSession(t *testing.T) {
	_, err := NewFSBackend(log.Nop(), t.TempDir(), "")
	assert.Error(t, err)
	_, err = NewRedisBackend(context.Background(), "redis://localhost:6379/0", "", time.Minute)
	assert.Error(t, err)
}

func TestNewRedisBackendBadURL(t *testing.T) {
	_, err := NewRedisBackend(context.Background(), "not-a-url", NewSessionID(), time.Minute)
	assert.Error(t, err)
}

func TestNewSessionID(t *testing.T) {
	a, b := NewSessionID(), NewSessionID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestFSBackendSegmentSize(t *testing.T) {
	ctx := context.Background()
	b, err := NewFSBackend(log.Nop(), t.TempDir(), NewSessionID(), WithSegmentSize(1<<20))
	require.NoError(t, err)
	defer func() { assert.NoError(t, b.Close()) }()
	require.NoError(t, b.Write(ctx, "StorageBox", []byte(`{}`)))
	blob, err := b.Read(ctx, "StorageBox")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{}`), blob)
}

func TestFSBackendReadSlidesTTL(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the session ttl")
	}
	ctx := context.Background()
	b, err := NewFSBackend(log.Nop(), t.TempDir(), NewSessionID(), WithSessionTTL(3*time.Second))
	require.NoError(t, err)
	defer func() { assert.NoError(t, b.Close()) }()

	require.NoError(t, b.Write(ctx, "StorageBox", []byte(`{}`)))
	time.Sleep(2 * time.Second)
	blob, err := b.Read(ctx, "StorageBox")
	require.NoError(t, err)
	require.NotNil(t, blob)
	time.Sleep(2 * time.Second)
	blob, err = b.Read(ctx, "StorageBox")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{}`), blob)
}
