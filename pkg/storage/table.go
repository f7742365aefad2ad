package storage

import (
	"fmt"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/ssargent/bytevec/pkg/bytevec"
)

// Table stores values of one Go type in a Store, encoded with size type S.
// Reads go through DecodeMax with the table's limit.
type Table[S bytevec.SizeType, T any] struct {
	store *Store
	limit S
}

// NewTable returns a table over store that rejects stored buffers longer
// than limit bytes.
func NewTable[S bytevec.SizeType, T any](store *Store, limit S) *Table[S, T] {
	return &Table[S, T]{store: store, limit: limit}
}

func (t *Table[S, T]) encode(v T) ([]byte, error) {
	start := time.Now()
	data, err := bytevec.Encode[S](v)
	t.store.metrics.RecordCodecOperation("encode", len(data), err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("storage: encode: %w", err)
	}
	return data, nil
}

// Put encodes v and stores it under a fresh id.
func (t *Table[S, T]) Put(v T) (ksuid.KSUID, error) {
	data, err := t.encode(v)
	if err != nil {
		return ksuid.Nil, err
	}
	return t.store.Create(data)
}

// Get reads and decodes the value stored under id.
func (t *Table[S, T]) Get(id ksuid.KSUID) (T, error) {
	var zero T
	data, err := t.store.Read(id)
	if err != nil {
		return zero, err
	}

	start := time.Now()
	v, err := bytevec.DecodeMax[S, T](data, t.limit)
	t.store.metrics.RecordCodecOperation("decode", len(data), err, time.Since(start))
	if err != nil {
		t.store.log.Warn().Err(err).Stringer("id", id).Msg("stored value does not decode")
		return zero, fmt.Errorf("storage: decode %s: %w", id, err)
	}
	return v, nil
}

// Replace encodes v over the value stored under id.
func (t *Table[S, T]) Replace(id ksuid.KSUID, v T) error {
	data, err := t.encode(v)
	if err != nil {
		return err
	}
	return t.store.Update(id, data)
}

// Delete removes id.
func (t *Table[S, T]) Delete(id ksuid.KSUID) error {
	return t.store.Delete(id)
}
