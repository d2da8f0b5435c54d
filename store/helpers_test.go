package store

import (
	"context"
	"github.com/RuiFG/storagebox/backend"
	"github.com/RuiFG/storagebox/log"
	"github.com/RuiFG/storagebox/snapshot"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"testing"
)

// recordingBackend wraps a memory backend, records every call and can fail on demand.
type recordingBackend struct {
	backend.Backend
	ops       []string
	closed    int
	readErr   error
	writeErr  error
	deleteErr error
}

func newRecordingBackend() *recordingBackend {
	return &recordingBackend{Backend: backend.NewMemoryBackend()}
}

func (r *recordingBackend) Read(ctx context.Context, key string) ([]byte, error) {
	r.ops = append(r.ops, "read")
	if r.readErr != nil {
		return nil, r.readErr
	}
	return r.Backend.Read(ctx, key)
}

func (r *recordingBackend) Write(ctx context.Context, key string, blob []byte) error {
	r.ops = append(r.ops, "write")
	if r.writeErr != nil {
		return r.writeErr
	}
	return r.Backend.Write(ctx, key, blob)
}

func (r *recordingBackend) Delete(ctx context.Context, key string) error {
	r.ops = append(r.ops, "delete")
	if r.deleteErr != nil {
		return r.deleteErr
	}
	return r.Backend.Delete(ctx, key)
}

func (r *recordingBackend) Close() error {
	r.closed++
	return r.Backend.Close()
}

func (r *recordingBackend) persisted(t *testing.T) *snapshot.Snapshot {
	blob, err := r.Backend.Read(context.Background(), snapshot.Key)
	require.NoError(t, err)
	if blob == nil {
		return nil
	}
	decoded, err := snapshot.JSON().Decode(blob)
	require.NoError(t, err)
	return decoded
}

func newTestStore(b backend.Backend, options ...Option) (*Store, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return New(b, append([]Option{WithLogger(log.New(zap.New(core)))}, options...)...), logs
}

func counter(scope tally.TestScope, name string) int64 {
	for _, c := range scope.Snapshot().Counters() {
		if c.Name() == name {
			return c.Value()
		}
	}
	return 0
}
