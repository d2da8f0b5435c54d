package container

import (
	"context"
	"github.com/RuiFG/storagebox/backend"
	"github.com/RuiFG/storagebox/internal/container/config"
	"github.com/RuiFG/storagebox/log"
	"github.com/RuiFG/storagebox/snapshot"
	"github.com/RuiFG/storagebox/store"
	"github.com/pkg/errors"
)

// SetupLogger installs the root logger from the application config.
func SetupLogger(application config.Application) error {
	level, err := log.ParseLevel(application.Log.Level)
	if err != nil {
		return err
	}
	options := log.DefaultOptions().
		WithOutputEncoder(log.ParseOutputEncoder(application.Log.Format)).
		WithNamed("storagebox")
	if application.Debug {
		level = log.DebugLevel
		options = options.WithCallerEncoder(log.ShortCallerEncoder)
	}
	log.Setup(options.WithLevel(level))
	return nil
}

// NewBackend opens the session backend selected by backend.type, logger may be nil.
func NewBackend(ctx context.Context, application config.Application, logger log.Logger) (backend.Backend, error) {
	if logger == nil {
		logger = log.Global()
	}
	session := application.Session
	if session.ID == "" && application.Backend.Type != "memory" {
		return nil, errors.New("session.id is required, create one with `storagebox session new`")
	}
	switch application.Backend.Type {
	case "memory":
		return backend.NewMemoryBackend(), nil
	case "fs":
		options := []backend.FSOption{backend.WithSessionTTL(session.TTL)}
		if application.Backend.SegmentSize > 0 {
			options = append(options, backend.WithSegmentSize(application.Backend.SegmentSize))
		}
		return backend.NewFSBackend(logger.Named("fs"), application.Backend.Dir, session.ID, options...)
	case "redis":
		return backend.NewRedisBackend(ctx, application.Backend.RedisURL, session.ID, session.TTL)
	default:
		return nil, errors.Errorf("unknown backend type %q", application.Backend.Type)
	}
}

// NewStore wires a store over the configured backend, the caller must Close it.
func NewStore(ctx context.Context, application config.Application) (*store.Store, error) {
	logger := log.Global()
	codec, err := snapshot.ParseCodec(application.Snapshot.Codec)
	if err != nil {
		return nil, err
	}
	b, err := NewBackend(ctx, application, logger)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to open session backend")
	}
	return store.New(b,
		store.WithLogger(logger.Named("store")),
		store.WithCodec(codec),
		store.WithDevelopment(application.Debug)), nil
}
