package backend

import (
	"context"
	"github.com/RuiFG/storagebox/log"
	"github.com/pkg/errors"
	"github.com/xujiajun/nutsdb"
	"time"
)

const sessionPrefix = "session:"

type FSOption func(*fs, *nutsdb.Options)

// WithSessionTTL expires the session's records ttl after their last read or write, the
// same sliding window the redis backend keeps. 0 keeps them forever.
func WithSessionTTL(ttl time.Duration) FSOption {
	return func(r *fs, _ *nutsdb.Options) {
		r.ttl = uint32(ttl / time.Second)
	}
}

func WithSegmentSize(size int64) FSOption {
	return func(_ *fs, opts *nutsdb.Options) {
		opts.SegmentSize = size
	}
}

// fs keeps one nutsdb bucket per session under dir.
type fs struct {
	logger log.Logger
	db     *nutsdb.DB
	bucket string
	ttl    uint32
}

func (r *fs) exists(tx *nutsdb.Tx) (bool, error) {
	found := false
	if err := tx.IterateBuckets(nutsdb.DataStructureBPTree, "*", func(bucket string) bool {
		found = bucket == r.bucket
		return !found
	}); err != nil {
		return false, errors.WithMessage(err, "unable to iterate session buckets, the state maybe corrupted")
	}
	return found, nil
}

// Read rewrites the record with a fresh ttl when one is set, a read counts as activity.
func (r *fs) Read(_ context.Context, key string) (blob []byte, err error) {
	transaction := r.db.View
	if r.ttl > 0 {
		transaction = r.db.Update
	}
	err = transaction(func(tx *nutsdb.Tx) error {
		if found, err := r.exists(tx); err != nil || !found {
			return err
		}
		entry, err := tx.Get(r.bucket, []byte(key))
		if err != nil {
			if errors.Is(err, nutsdb.ErrKeyNotFound) || errors.Is(err, nutsdb.ErrNotFoundKey) {
				return nil
			}
			return err
		}
		blob = make([]byte, len(entry.Value))
		copy(blob, entry.Value)
		if r.ttl > 0 {
			return tx.Put(r.bucket, []byte(key), blob, r.ttl)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to read %s from %s", key, r.bucket)
	}
	return blob, nil
}

func (r *fs) Write(_ context.Context, key string, blob []byte) error {
	if err := r.db.Update(func(tx *nutsdb.Tx) error {
		return tx.Put(r.bucket, []byte(key), blob, r.ttl)
	}); err != nil {
		return errors.WithMessagef(err, "failed to write %s to %s", key, r.bucket)
	}
	return nil
}

func (r *fs) Delete(_ context.Context, key string) error {
	if err := r.db.Update(func(tx *nutsdb.Tx) error {
		if found, err := r.exists(tx); err != nil || !found {
			return err
		}
		return tx.Delete(r.bucket, []byte(key))
	}); err != nil {
		return errors.WithMessagef(err, "failed to delete %s from %s", key, r.bucket)
	}
	return nil
}

// Close compacts the data files before closing, a failed merge is only logged.
func (r *fs) Close() error {
	if err := r.db.Merge(); err != nil {
		r.logger.Warnw("failed to merge session state.", "bucket", r.bucket, "err", err)
	}
	return r.db.Close()
}

func NewFSBackend(logger log.Logger, dir string, sessionID string, options ...FSOption) (Backend, error) {
	if sessionID == "" {
		return nil, errors.New("session id can't be empty")
	}
	if logger == nil {
		logger = log.Global()
	}
	opts := nutsdb.DefaultOptions
	opts.Dir = dir
	r := &fs{
		logger: logger,
		bucket: sessionPrefix + sessionID,
	}
	for _, option := range options {
		option(r, &opts)
	}
	db, err := nutsdb.Open(opts)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to open session state in %s", dir)
	}
	r.db = db
	return r, nil
}
