// Package storage keeps bytevec-encoded values in pebble, keyed by KSUID.
package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
	"github.com/ssargent/bytevec/pkg/metrics"
)

// ErrNotFound is returned for ids the store does not hold.
var ErrNotFound = errors.New("storage: not found")

// Options configures a Store.
type Options struct {
	// InMemory keeps the database in memory; dir is then only a name.
	InMemory bool
	// Sync makes every write durable before it returns.
	Sync bool
	// Logger receives debug logs for each operation. Nil disables logging.
	Logger *zerolog.Logger
	// Metrics records every operation when set.
	Metrics *metrics.Metrics
}

// Store holds raw encoded values.
type Store struct {
	db      *pebble.DB
	log     zerolog.Logger
	metrics *metrics.Metrics
	writeOp *pebble.WriteOptions
}

// Open opens or creates the store in dir.
func Open(dir string, opts Options) (*Store, error) {
	pebbleOpts := &pebble.Options{}
	if opts.InMemory {
		pebbleOpts.FS = vfs.NewMem()
	}
	db, err := pebble.Open(dir, pebbleOpts)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to open %s: %w", dir, err)
	}

	s := &Store{
		db:      db,
		log:     zerolog.Nop(),
		metrics: opts.Metrics,
		writeOp: pebble.NoSync,
	}
	if opts.Logger != nil {
		s.log = opts.Logger.With().Str("component", "storage").Logger()
	}
	if opts.Sync {
		s.writeOp = pebble.Sync
	}
	s.log.Debug().Str("dir", dir).Bool("in_memory", opts.InMemory).Msg("store opened")
	return s, nil
}

func (s *Store) record(op string, id ksuid.KSUID, size int, start time.Time, err error) {
	s.metrics.RecordStoreOperation(op, err, time.Since(start))
	ev := s.log.Debug()
	if err != nil {
		ev = s.log.Warn().Err(err)
	}
	ev.Str("op", op).Stringer("id", id).Int("bytes", size).Msg("store operation")
}

// Create stores data under a fresh id.
func (s *Store) Create(data []byte) (ksuid.KSUID, error) {
	start := time.Now()
	id := ksuid.New()
	err := s.db.Set(id.Bytes(), data, s.writeOp)
	s.record("create", id, len(data), start, err)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("storage: create: %w", err)
	}
	return id, nil
}

// Read returns a copy of the value stored under id.
func (s *Store) Read(id ksuid.KSUID) ([]byte, error) {
	start := time.Now()
	data, err := s.get(id)
	s.record("read", id, len(data), start, err)
	return data, err
}

func (s *Store) get(id ksuid.KSUID) ([]byte, error) {
	value, closer, err := s.db.Get(id.Bytes())
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", id, err)
	}
	defer closer.Close()

	data := make([]byte, len(value))
	copy(data, value)
	return data, nil
}

// Update replaces the value stored under an existing id.
func (s *Store) Update(id ksuid.KSUID, data []byte) error {
	start := time.Now()
	err := s.mustExist(id)
	if err == nil {
		if err = s.db.Set(id.Bytes(), data, s.writeOp); err != nil {
			err = fmt.Errorf("storage: update %s: %w", id, err)
		}
	}
	s.record("update", id, len(data), start, err)
	return err
}

// Delete removes id. Deleting a missing id fails with ErrNotFound.
func (s *Store) Delete(id ksuid.KSUID) error {
	start := time.Now()
	err := s.mustExist(id)
	if err == nil {
		if err = s.db.Delete(id.Bytes(), s.writeOp); err != nil {
			err = fmt.Errorf("storage: delete %s: %w", id, err)
		}
	}
	s.record("delete", id, 0, start, err)
	return err
}

func (s *Store) mustExist(id ksuid.KSUID) error {
	_, closer, err := s.db.Get(id.Bytes())
	if errors.Is(err, pebble.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("storage: read %s: %w", id, err)
	}
	return closer.Close()
}

// List returns every id in the store in key order.
func (s *Store) List() ([]ksuid.KSUID, error) {
	start := time.Now()
	ids, err := s.list()
	s.record("list", ksuid.Nil, 0, start, err)
	return ids, err
}

func (s *Store) list() ([]ksuid.KSUID, error) {
	iter, err := s.db.NewIter(nil)
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	var ids []ksuid.KSUID
	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key())
		if err != nil {
			err = fmt.Errorf("storage: list: bad key %x: %w", iter.Key(), err)
			iter.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	return ids, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
