package bytevec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// handProfile and handEmployee carry methods shaped like the output of the
// code generator.
type handProfile struct {
	ID       uint32
	Name     string
	LastName string
}

func (m *handProfile) MarshalByteVec(e *Encoder) error {
	e.PutUint32(m.ID)
	if err := e.PutString(m.Name); err != nil {
		return err
	}
	return e.PutString(m.LastName)
}

func (m *handProfile) UnmarshalByteVec(d *Decoder) error {
	var err error
	if m.ID, err = d.Uint32(); err != nil {
		return err
	}
	if m.Name, err = d.String(); err != nil {
		return err
	}
	m.LastName, err = d.String()
	return err
}

type handEmployee struct {
	ID      uint32
	Profile handProfile
	Tags    map[string]struct{}
	Manager Option[uint32]
}

func (m *handEmployee) MarshalByteVec(e *Encoder) error {
	e.PutUint32(m.ID)
	if err := Write(e, m.Profile); err != nil {
		return err
	}
	if err := Write(e, m.Tags); err != nil {
		return err
	}
	return Write(e, m.Manager)
}

func (m *handEmployee) UnmarshalByteVec(d *Decoder) error {
	var err error
	if m.ID, err = d.Uint32(); err != nil {
		return err
	}
	if err := Read(d, &m.Profile); err != nil {
		return err
	}
	if err := Read(d, &m.Tags); err != nil {
		return err
	}
	return Read(d, &m.Manager)
}

// plainEmployee has the same shape as handEmployee without methods.
type plainEmployee struct {
	ID      uint32
	Profile profile
	Tags    map[string]struct{}
	Manager *uint32
}

func TestMarshalerMatchesReflection(t *testing.T) {
	hand := handEmployee{
		ID:      7,
		Profile: handProfile{ID: 70, Name: "Ada", LastName: "Lovelace"},
		Tags:    map[string]struct{}{"math": {}, "engines": {}},
		Manager: Some[uint32](1),
	}
	plain := plainEmployee{
		ID:      7,
		Profile: profile{ID: 70, Name: "Ada", LastName: "Lovelace"},
		Tags:    map[string]struct{}{"math": {}, "engines": {}},
		Manager: ptr(uint32(1)),
	}

	handBytes, err := Encode[uint16](hand)
	require.NoError(t, err)
	plainBytes, err := Encode[uint16](plain)
	require.NoError(t, err)
	assert.Equal(t, plainBytes, handBytes)

	decoded, err := Decode[uint16, handEmployee](plainBytes)
	require.NoError(t, err)
	assert.Equal(t, hand, decoded)
}

func TestMarshalerInsideContainers(t *testing.T) {
	staff := map[string]handEmployee{
		"a": {ID: 1, Profile: handProfile{Name: "A"}, Tags: map[string]struct{}{}},
		"b": {ID: 2, Profile: handProfile{Name: "B"}, Tags: map[string]struct{}{"x": {}}},
	}

	data, err := Encode[uint8](staff)
	require.NoError(t, err)

	decoded, err := Decode[uint8, map[string]handEmployee](data)
	require.NoError(t, err)
	assert.Equal(t, staff, decoded)
}

func TestEncoderDecoderPrimitives(t *testing.T) {
	e := NewEncoder(Width8)
	e.PutBool(true)
	e.PutInt64(-1)
	e.PutFloat32(0.5)
	e.PutChar('é')
	require.NoError(t, e.PutCount(3))
	require.NoError(t, e.PutBytes([]byte{1, 2}))
	assert.Equal(t, Width8, e.Width())
	assert.Equal(t, 1+8+4+4+1+3, e.Len())

	d := NewDecoder(e.Bytes(), Width8)
	b, err := d.Bool()
	require.NoError(t, err)
	assert.True(t, b)

	i, err := d.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(-1), i)

	f, err := d.Float32()
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), f)

	c, err := d.Char()
	require.NoError(t, err)
	assert.Equal(t, Char('é'), c)

	n, err := d.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	raw, err := d.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, raw)
	assert.Equal(t, 0, d.Remaining())
	assert.Equal(t, e.Len(), d.Offset())

	_, err = d.Uint8()
	assert.ErrorIs(t, err, ErrBadSize)
	assert.Equal(t, 0, d.Remaining())
}
