package store

import (
	"github.com/RuiFG/storagebox/log"
	"github.com/RuiFG/storagebox/snapshot"
	"github.com/uber-go/tally/v4"
)

type Option func(*Store)

// WithLogger sets the diagnostics channel, defaults to the global logger.
func WithLogger(logger log.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithCodec sets how the snapshot is encoded, defaults to json.
func WithCodec(codec snapshot.Codec) Option {
	return func(s *Store) {
		s.codec = codec
	}
}

func WithScope(scope tally.Scope) Option {
	return func(s *Store) {
		s.scope = scope
	}
}

// WithDevelopment enables development notices such as lambda bindings.
func WithDevelopment(development bool) Option {
	return func(s *Store) {
		s.development = development
	}
}

type writeOptions struct {
	readonly bool
	persist  bool
	refresh  bool
}

type WriteOption func(*writeOptions)

// Readonly installs the property as non-writable: Remove without destroy refuses it,
// a later Set or SetAsync may still redefine it.
func Readonly() WriteOption {
	return func(o *writeOptions) { o.readonly = true }
}

// Persist overwrites the session snapshot with the whole property mapping after the write.
// Values must be encodable by the codec and are read back in its document form, see Get.
func Persist() WriteOption {
	return func(o *writeOptions) { o.persist = true }
}

// RefreshPersistence deletes the snapshot before rewriting it, only meaningful with Persist.
func RefreshPersistence() WriteOption {
	return func(o *writeOptions) { o.refresh = true }
}

func newWriteOptions(opts []WriteOption) writeOptions {
	var o writeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
