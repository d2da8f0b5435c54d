// Package store implements a process-scoped property store.
//
// A Store keeps two independent namespaces: data properties and lambdas (named
// callables). Properties can be mirrored as a full snapshot into a session backend and
// are lazily rehydrated from it when a Get misses. Lambdas are never persisted.
//
// The store expects one cooperative caller. It locks internally so concurrent misuse
// cannot corrupt its maps, but offers no multi-key atomicity.
package store

import (
	"context"
	"github.com/RuiFG/storagebox/backend"
	"github.com/RuiFG/storagebox/common/executor"
	"github.com/RuiFG/storagebox/common/safe"
	"github.com/RuiFG/storagebox/common/status"
	"github.com/RuiFG/storagebox/log"
	"github.com/RuiFG/storagebox/snapshot"
	"github.com/pkg/errors"
	"github.com/uber-go/tally/v4"
	"sync"
	"time"
)

// Lambda is a callable bound under a name.
type Lambda func(ctx context.Context, args ...any) (any, error)

// property is a tagged entry, mutable=false only blocks non-destructive removal.
type property struct {
	value   any
	mutable bool
}

type Store struct {
	mutex       *sync.RWMutex
	properties  map[string]property
	lambdas     map[string]Lambda
	backend     backend.Backend
	codec       snapshot.Codec
	logger      log.Logger
	scope       tally.Scope
	metrics     *metrics
	development bool
	status      status.Status
}

// GetProperty reads the in-memory mapping only, it never falls back to the snapshot.
func (s *Store) GetProperty(key string) (any, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	p, ok := s.properties[key]
	return p.value, ok
}

// SetProperty writes a writable entry in memory, nothing is persisted.
func (s *Store) SetProperty(key string, value any) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.properties[key] = property{value: value, mutable: true}
}

func (s *Store) SetLambda(name string, fn Lambda) {
	s.mutex.Lock()
	s.lambdas[name] = fn
	s.mutex.Unlock()
	if s.development {
		s.logger.Warnw("binding lambda to the store.", "name", name)
	}
}

// Lambda returns the callable bound under name, or nil after reporting the miss.
func (s *Store) Lambda(name string) Lambda {
	s.mutex.RLock()
	fn, ok := s.lambdas[name]
	s.mutex.RUnlock()
	if !ok {
		s.metrics.lambdaMisses.Inc(1)
		s.logger.Errorw("lambda does not exist, maybe it was never bound?", "name", name)
		return nil
	}
	return fn
}

// Call invokes the lambda bound under name outside of the store lock.
func (s *Store) Call(ctx context.Context, name string, args ...any) (any, error) {
	fn := s.Lambda(name)
	if fn == nil {
		return nil, errors.WithMessagef(ErrLambdaNotBound, "failed to call %s", name)
	}
	return fn(ctx, args...)
}

// Has reports whether key is a property or a lambda name.
func (s *Store) Has(key string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	_, isProperty := s.properties[key]
	_, isLambda := s.lambdas[key]
	return isProperty || isLambda
}

// Bound reports whether key is both a property and a lambda name.
func (s *Store) Bound(key string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	_, isProperty := s.properties[key]
	_, isLambda := s.lambdas[key]
	return isProperty && isLambda
}

// Remove deletes a property from memory. Without destroy only writable properties
// are removed, anything else is reported and left untouched.
// Lambdas and the snapshot are never affected.
func (s *Store) Remove(key string, destroy bool) bool {
	s.mutex.Lock()
	p, ok := s.properties[key]
	if destroy || (ok && p.mutable) {
		delete(s.properties, key)
		s.mutex.Unlock()
		return ok
	}
	s.mutex.Unlock()
	s.metrics.removalsRejected.Inc(1)
	s.logger.Errorw("property is readonly, cannot be removed.", "key", key, "exists", ok)
	return false
}

// Destroy empties both namespaces and deletes the snapshot, calling it again is harmless.
func (s *Store) Destroy(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.properties = map[string]property{}
	s.lambdas = map[string]Lambda{}
	if status.Load(&s.status).Closed() {
		return ErrClosed
	}
	if err := s.backend.Delete(ctx, snapshot.Key); err != nil {
		return errors.WithMessage(err, "failed to delete persisted snapshot")
	}
	return nil
}

// Get reads memory first. On a miss it loads the snapshot and, if the snapshot holds key,
// replaces the whole in-memory mapping with it before returning the value.
// It returns nil when neither has key. Rehydrated values have the codec's document form,
// so an int persisted with the json codec comes back as int64 and a []string as []any.
func (s *Store) Get(ctx context.Context, key string) (any, error) {
	if v, ok := s.GetProperty(key); ok {
		s.metrics.hits.Inc(1)
		return v, nil
	}
	s.metrics.misses.Inc(1)

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if p, ok := s.properties[key]; ok {
		return p.value, nil
	}
	persisted, err := s.load(ctx)
	if err != nil || persisted == nil {
		return nil, err
	}
	v, ok := persisted.Lookup(key)
	if !ok {
		return nil, nil
	}
	s.replace(persisted)
	s.logger.Debugw("rehydrated properties from snapshot.", "key", key,
		"entries", len(persisted.Entries), "schemaVersion", persisted.SchemaVersion)
	return v, nil
}

// Rehydrate replaces the in-memory mapping with the snapshot regardless of any key,
// it reports false and keeps memory as is when there is no snapshot.
// Values are normalized the same way as in Get.
func (s *Store) Rehydrate(ctx context.Context) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	persisted, err := s.load(ctx)
	if err != nil || persisted == nil {
		return false, err
	}
	s.replace(persisted)
	return true, nil
}

// Set writes a property, see Readonly, Persist and RefreshPersistence.
func (s *Store) Set(ctx context.Context, key string, value any, opts ...WriteOption) error {
	o := newWriteOptions(opts)
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.properties[key] = property{value: value, mutable: !o.readonly}
	if o.persist {
		return s.persist(ctx, o.refresh)
	}
	return nil
}

// SetAsync performs the same work as Set before returning, the returned executor is
// already done and carries the outcome. A panic while writing becomes that outcome.
func (s *Store) SetAsync(ctx context.Context, key string, value any, opts ...WriteOption) *executor.Executor {
	return executor.Completed(func() error {
		return safe.RunWithMessage(func() error {
			return s.Set(ctx, key, value, opts...)
		}, "failed to set "+key)
	})
}

// Close releases the backend, the snapshot stays where it is. Afterwards every operation
// that needs the backend fails with ErrClosed, in-memory reads and writes keep working.
func (s *Store) Close() error {
	if !status.CAP(&s.status, status.Running, status.Closed) {
		return nil
	}
	return s.backend.Close()
}

// load must be called with the write lock held, it returns nil when nothing is persisted.
func (s *Store) load(ctx context.Context) (*snapshot.Snapshot, error) {
	if status.Load(&s.status).Closed() {
		return nil, ErrClosed
	}
	blob, err := s.backend.Read(ctx, snapshot.Key)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to read persisted snapshot")
	}
	if blob == nil {
		return nil, nil
	}
	persisted, err := s.codec.Decode(blob)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to decode persisted snapshot")
	}
	return persisted, nil
}

func (s *Store) replace(persisted *snapshot.Snapshot) {
	properties := make(map[string]property, len(persisted.Entries))
	for k, v := range persisted.Entries {
		properties[k] = property{value: v, mutable: true}
	}
	s.properties = properties
	s.metrics.rehydrations.Inc(1)
}

// persist must be called with the write lock held.
func (s *Store) persist(ctx context.Context, refresh bool) error {
	if status.Load(&s.status).Closed() {
		return ErrClosed
	}
	start := time.Now()
	entries := make(map[string]any, len(s.properties))
	for k, p := range s.properties {
		entries[k] = p.value
	}
	blob, err := s.codec.Encode(&snapshot.Snapshot{SchemaVersion: snapshot.CurrentVersion, Entries: entries})
	if err != nil {
		return errors.WithMessage(err, "failed to encode snapshot")
	}
	if refresh {
		if err = s.backend.Delete(ctx, snapshot.Key); err != nil {
			return errors.WithMessage(err, "failed to clear persisted snapshot")
		}
	}
	if err = s.backend.Write(ctx, snapshot.Key, blob); err != nil {
		return errors.WithMessage(err, "failed to write persisted snapshot")
	}
	s.metrics.persists.Inc(1)
	s.metrics.persistLatency.Record(time.Since(start))
	return nil
}

// New creates an empty store mirroring into b, the store owns b from now on.
func New(b backend.Backend, options ...Option) *Store {
	s := &Store{
		mutex:      &sync.RWMutex{},
		properties: map[string]property{},
		lambdas:    map[string]Lambda{},
		backend:    b,
		status:     status.Running,
	}
	for _, option := range options {
		option(s)
	}
	if s.logger == nil {
		s.logger = log.Global().Named("storagebox")
	}
	if s.codec == nil {
		s.codec = snapshot.JSON()
	}
	if s.scope == nil {
		s.scope = tally.NoopScope
	}
	s.metrics = newMetrics(s.scope)
	return s
}
