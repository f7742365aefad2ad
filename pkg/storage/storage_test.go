package storage

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
	"github.com/ssargent/bytevec/pkg/bytevec"
	"github.com/ssargent/bytevec/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type employee struct {
	ID   uint32
	Name string
	Tags []string
}

func openTestStore(t *testing.T) (*Store, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	s, err := Open("test", Options{InMemory: true, Metrics: metrics.NewMetrics(reg)})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, reg
}

func TestStore_CRUD(t *testing.T) {
	s, _ := openTestStore(t)

	id, err := s.Create([]byte{1, 2, 3})
	require.NoError(t, err)
	assert.NotEqual(t, ksuid.Nil, id)

	data, err := s.Read(id)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	require.NoError(t, s.Update(id, []byte{4}))
	data, err = s.Read(id)
	require.NoError(t, err)
	assert.Equal(t, []byte{4}, data)

	require.NoError(t, s.Delete(id))
	_, err = s.Read(id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_MissingIDs(t *testing.T) {
	s, _ := openTestStore(t)
	id := ksuid.New()

	_, err := s.Read(id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Update(id, []byte{1}), ErrNotFound)
	assert.ErrorIs(t, s.Delete(id), ErrNotFound)
}

func TestStore_List(t *testing.T) {
	s, _ := openTestStore(t)

	ids, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, ids)

	var want []ksuid.KSUID
	for i := 0; i < 5; i++ {
		id, err := s.Create([]byte{byte(i)})
		require.NoError(t, err)
		want = append(want, id)
	}

	ids, err = s.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, want, ids)
	for i := 1; i < len(ids); i++ {
		assert.Negative(t, bytes.Compare(ids[i-1].Bytes(), ids[i].Bytes()))
	}
}

func TestStore_OnDisk(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, Options{Sync: true})
	require.NoError(t, err)
	id, err := s.Create([]byte("persisted"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(dir, Options{})
	require.NoError(t, err)
	defer s.Close()

	data, err := s.Read(id)
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), data)
}

func TestStore_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	s, err := Open("log", Options{InMemory: true, Logger: &logger})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Create([]byte{1})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"component":"storage"`)
	assert.Contains(t, buf.String(), `"op":"create"`)
}

func TestTable(t *testing.T) {
	s, reg := openTestStore(t)
	table := NewTable[uint16, employee](s, 1024)

	alice := employee{ID: 1, Name: "Alice", Tags: []string{"eng"}}
	id, err := table.Put(alice)
	require.NoError(t, err)

	got, err := table.Get(id)
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	raw, err := s.Read(id)
	require.NoError(t, err)
	want, err := bytevec.Encode[uint16](alice)
	require.NoError(t, err)
	assert.Equal(t, want, raw)

	alice.Tags = append(alice.Tags, "lead")
	require.NoError(t, table.Replace(id, alice))
	got, err = table.Get(id)
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	require.NoError(t, table.Delete(id))
	_, err = table.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "bytevec_codec_operations_total")
	assert.Contains(t, names, "bytevec_store_operations_total")
}

func TestTable_Errors(t *testing.T) {
	s, _ := openTestStore(t)

	narrow := NewTable[uint8, []uint8](s, 255)
	_, err := narrow.Put(make([]uint8, 256))
	assert.ErrorIs(t, err, bytevec.ErrOverflow)

	tight := NewTable[uint16, employee](s, 8)
	id, err := NewTable[uint16, employee](s, 1024).Put(employee{ID: 1, Name: "a long enough name"})
	require.NoError(t, err)
	_, err = tight.Get(id)
	assert.ErrorIs(t, err, bytevec.ErrBadSize)

	bad, err := s.Create([]byte{1, 0, 0})
	require.NoError(t, err)
	_, err = NewTable[uint16, employee](s, 1024).Get(bad)
	assert.ErrorIs(t, err, bytevec.ErrBadSize)
}
