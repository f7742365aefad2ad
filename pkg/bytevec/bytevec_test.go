package bytevec

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	ID       uint32
	Name     string
	LastName string
}

type employee struct {
	ID      uint32
	Profile profile
	Dept    string
}

type meetingsLog struct {
	ID       uint32
	Owner    string
	Meetings map[string]string
}

type booleanStuff struct {
	Simple   bool
	Optional []bool
}

type optionStuff struct {
	Simple  *bool
	Some    Option[int64]
	SomeVec *[]uint32
}

type pair struct {
	Label string
	N     uint32
}

func ptr[T any](v T) *T { return &v }

func TestRoundTrip_Employees(t *testing.T) {
	employees := []employee{
		{ID: 1, Profile: profile{ID: 10000, Name: "Michael", LastName: "Jackson"}, Dept: "music"},
		{ID: 2, Profile: profile{ID: 10001, Name: "John", LastName: "Cena"}, Dept: "wrestling"},
	}

	data, err := Encode[uint32](employees)
	require.NoError(t, err)

	decoded, err := Decode[uint32, []employee](data)
	require.NoError(t, err)
	assert.Equal(t, employees, decoded)
}

func TestRoundTrip_Chars(t *testing.T) {
	chars := [3]Char{'1', '2', '3'}
	data, err := Encode[uint32](chars[:])
	require.NoError(t, err)

	decoded, err := Decode[uint32, []Char](data)
	require.NoError(t, err)
	assert.Equal(t, chars[:], decoded)
}

func TestRoundTrip_SetOfTuples(t *testing.T) {
	set := map[pair]struct{}{
		{"One!", 1}:   {},
		{"Two!", 2}:   {},
		{"Three!", 3}: {},
	}
	data, err := Encode[uint32](set)
	require.NoError(t, err)

	decoded, err := Decode[uint32, map[pair]struct{}](data)
	require.NoError(t, err)
	assert.Equal(t, set, decoded)
}

func TestRoundTrip_TupleWithNarrowPrefix(t *testing.T) {
	tuple := [2]string{"Hello", "World"}
	data, err := Encode[uint8](tuple)
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 'H', 'e', 'l', 'l', 'o', 5, 'W', 'o', 'r', 'l', 'd'}, data)

	decoded, err := Decode[uint8, [2]string](data)
	require.NoError(t, err)
	assert.Equal(t, tuple, decoded)
}

func TestRoundTrip_Map(t *testing.T) {
	classes := map[uint64]string{101: "Programming 1", 102: "Basic CS"}
	data, err := Encode[uint32](classes)
	require.NoError(t, err)

	decoded, err := Decode[uint32, map[uint64]string](data)
	require.NoError(t, err)
	assert.Equal(t, classes, decoded)
}

func TestRoundTrip_SliceWithMapContainers(t *testing.T) {
	logs := []meetingsLog{
		{ID: 1, Owner: "Jack", Meetings: map[string]string{"New York": "Michael", "Nippon": "Koichi"}},
		{ID: 2, Owner: "Juan", Meetings: map[string]string{"España": "José", "Korea": "Lee Hyun"}},
	}
	data, err := Encode[uint64](logs)
	require.NoError(t, err)

	decoded, err := Decode[uint64, []meetingsLog](data)
	require.NoError(t, err)
	assert.Equal(t, logs, decoded)
}

func TestRoundTrip_Bools(t *testing.T) {
	data := []booleanStuff{
		{Simple: true, Optional: []bool{true, false, false, false}},
		{Simple: false, Optional: []bool{true, false, true, false}},
	}
	encoded, err := Encode[uint32](data)
	require.NoError(t, err)

	decoded, err := Decode[uint32, []booleanStuff](encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestRoundTrip_Options(t *testing.T) {
	data := []optionStuff{
		{Simple: nil, Some: Some[int64](8), SomeVec: ptr([]uint32{7, 3, 5, 9, 1, 4, 4})},
		{Simple: ptr(true), Some: Some[int64](50), SomeVec: ptr([]uint32{1, 2, 3, 5, 4, 6, 7, 8, 9, 10})},
		{Simple: ptr(false), Some: None[int64](), SomeVec: nil},
	}
	encoded, err := Encode[uint32](data)
	require.NoError(t, err)

	decoded, err := Decode[uint32, []optionStuff](encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestRoundTrip_OptionalInteger(t *testing.T) {
	for _, v := range []Option[int32]{None[int32](), Some[int32](-42)} {
		data, err := Encode[uint16](v)
		require.NoError(t, err)

		decoded, err := Decode[uint16, Option[int32]](data)
		require.NoError(t, err)
		assert.Equal(t, v, decoded)
	}

	absent, err := Encode[uint16]((*int32)(nil))
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, absent)

	present, err := Encode[uint16](ptr(int32(7)))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 7, 0, 0, 0}, present)
}

func TestRoundTrip_Primitives(t *testing.T) {
	type primitives struct {
		B   bool
		I8  int8
		I16 int16
		I32 int32
		I64 int64
		U8  uint8
		U16 uint16
		U32 uint32
		U64 uint64
		I   int
		U   uint
		F32 float32
		F64 float64
		C   Char
	}
	v := primitives{
		B: true, I8: -8, I16: -16, I32: -32, I64: -64,
		U8: 8, U16: 16, U32: 32, U64: 1 << 60,
		I: -1, U: 1 << 40, F32: 1.5, F64: -2.25, C: '🎯',
	}
	data, err := Encode[uint8](v)
	require.NoError(t, err)
	assert.Len(t, data, 1+1+2+4+8+1+2+4+8+8+8+4+8+4)

	decoded, err := Decode[uint8, primitives](data)
	require.NoError(t, err)
	assert.Equal(t, v, decoded)
}

func TestRoundTrip_EmptyContainers(t *testing.T) {
	t.Run("sequence", func(t *testing.T) {
		data, err := Encode[uint32]([]string{})
		require.NoError(t, err)
		assert.Equal(t, []byte{0, 0, 0, 0}, data)

		decoded, err := Decode[uint32, []string](data)
		require.NoError(t, err)
		assert.NotNil(t, decoded)
		assert.Empty(t, decoded)
	})

	t.Run("set", func(t *testing.T) {
		data, err := Encode[uint32](map[string]struct{}{})
		require.NoError(t, err)

		decoded, err := Decode[uint32, map[string]struct{}](data)
		require.NoError(t, err)
		assert.NotNil(t, decoded)
		assert.Empty(t, decoded)
	})

	t.Run("map", func(t *testing.T) {
		data, err := Encode[uint32](map[string]int64(nil))
		require.NoError(t, err)

		decoded, err := Decode[uint32, map[string]int64](data)
		require.NoError(t, err)
		assert.NotNil(t, decoded)
		assert.Empty(t, decoded)
	})
}

func TestRoundTrip_NestedAggregateAlignment(t *testing.T) {
	type inner struct {
		Name string
		Tags []string
	}
	type outer struct {
		Label string
		Inner inner
		After uint16
	}
	v := outer{Label: "lead", Inner: inner{Name: "núcleo", Tags: []string{"a", "bc"}}, After: 0xBEEF}

	data, err := Encode[uint16](v)
	require.NoError(t, err)

	decoded, err := Decode[uint16, outer](data)
	require.NoError(t, err)
	assert.Equal(t, v, decoded)
	assert.Equal(t, []byte{0xEF, 0xBE}, data[len(data)-2:])
}

func TestWireLayout(t *testing.T) {
	testCases := []struct {
		name  string
		value any
		want  []byte
	}{
		{"bool true", true, []byte{1}},
		{"bool false", false, []byte{0}},
		{"uint32 little endian", uint32(0x01020304), []byte{4, 3, 2, 1}},
		{"int16 negative", int16(-2), []byte{0xFE, 0xFF}},
		{"char", Char('A'), []byte{0x41, 0, 0, 0}},
		{"string", "hé", []byte{3, 0, 'h', 0xC3, 0xA9}},
		{"bytes", []byte{9, 8}, []byte{2, 0, 9, 8}},
		{"sequence", []uint16{1, 2}, []byte{2, 0, 1, 0, 2, 0}},
		{"set sorted", map[uint8]struct{}{3: {}, 1: {}}, []byte{2, 0, 1, 3}},
		{"map sorted", map[string]bool{"b": true, "a": false}, []byte{2, 0, 1, 0, 'a', 0, 1, 0, 'b', 1}},
		{"tuple", [2]uint8{7, 9}, []byte{7, 9}},
		{"aggregate", pair{Label: "x", N: 1}, []byte{1, 0, 'x', 1, 0, 0, 0}},
		{"optional absent", (*string)(nil), []byte{0}},
		{"optional present", ptr("z"), []byte{1, 1, 0, 'z'}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := Encode[uint16](tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.want, data)
		})
	}
}

func TestSizeTypeWidths(t *testing.T) {
	testCases := []struct {
		name   string
		encode func() ([]byte, error)
		prefix []byte
	}{
		{"u8", func() ([]byte, error) { return Encode[uint8]("ab") }, []byte{2}},
		{"u16", func() ([]byte, error) { return Encode[uint16]("ab") }, []byte{2, 0}},
		{"u32", func() ([]byte, error) { return Encode[uint32]("ab") }, []byte{2, 0, 0, 0}},
		{"u64", func() ([]byte, error) { return Encode[uint64]("ab") }, []byte{2, 0, 0, 0, 0, 0, 0, 0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := tc.encode()
			require.NoError(t, err)
			assert.Equal(t, append(tc.prefix, 'a', 'b'), data)
		})
	}
}

func TestOverflowBoundary(t *testing.T) {
	t.Run("255 elements fit a u8 prefix", func(t *testing.T) {
		data, err := Encode[uint8](make([]uint32, 255))
		require.NoError(t, err)
		assert.Len(t, data, 1+255*4)
	})

	t.Run("256 elements overflow a u8 prefix", func(t *testing.T) {
		data, err := Encode[uint8](make([]uint32, 256))
		require.Error(t, err)
		assert.Nil(t, data)
		assert.True(t, errors.Is(err, ErrOverflow))

		var overflow *OverflowError
		require.True(t, errors.As(err, &overflow))
		assert.Equal(t, uint64(256), overflow.Count)
		assert.Equal(t, uint64(255), overflow.Max)
	})

	t.Run("256 elements fit a u16 prefix", func(t *testing.T) {
		data, err := Encode[uint16](make([]uint32, 256))
		require.NoError(t, err)

		decoded, err := Decode[uint16, []uint32](data)
		require.NoError(t, err)
		assert.Len(t, decoded, 256)
	})

	t.Run("long string overflows", func(t *testing.T) {
		_, err := Encode[uint8](string(make([]byte, 300)))
		assert.ErrorIs(t, err, ErrOverflow)
	})

	t.Run("nested overflow aborts the whole call", func(t *testing.T) {
		_, err := Encode[uint8](meetingsLog{Owner: string(make([]byte, 256))})
		assert.ErrorIs(t, err, ErrOverflow)
	})
}

func TestTruncation(t *testing.T) {
	data, err := Encode[uint32]([]uint32{1, 2, 3})
	require.NoError(t, err)

	testCases := []struct {
		name     string
		input    []byte
		expected ExpectedSize
		actual   uint64
	}{
		{"empty buffer", nil, ExpectedSize{MoreThan, 3}, 0},
		{"partial prefix", data[:2], ExpectedSize{MoreThan, 3}, 2},
		{"missing last element", data[:len(data)-4], ExpectedSize{MoreThan, 11}, 8},
		{"partial last element", data[:len(data)-1], ExpectedSize{MoreThan, 11}, 11},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode[uint32, []uint32](tc.input)
			require.Error(t, err)

			var badSize *BadSizeError
			require.True(t, errors.As(err, &badSize))
			assert.Equal(t, tc.expected, badSize.Expected)
			assert.Equal(t, tc.actual, badSize.Actual)
		})
	}

	t.Run("string shorter than its prefix", func(t *testing.T) {
		_, err := Decode[uint8, string]([]byte{5, 'a', 'b'})
		var badSize *BadSizeError
		require.True(t, errors.As(err, &badSize))
		assert.Equal(t, ExpectedSize{MoreThan, 4}, badSize.Expected)
		assert.Equal(t, uint64(2), badSize.Actual)
	})
}

func TestTrailingBytesAreIgnored(t *testing.T) {
	data, err := Encode[uint8]("ok")
	require.NoError(t, err)

	decoded, err := Decode[uint8, string](append(data, 0xAA, 0xBB))
	require.NoError(t, err)
	assert.Equal(t, "ok", decoded)
}

func TestDecodeMax(t *testing.T) {
	data, err := Encode[uint32](make([]uint32, 100))
	require.NoError(t, err)

	_, err = DecodeMax[uint32, []uint32](data, 100)
	require.Error(t, err)
	var badSize *BadSizeError
	require.True(t, errors.As(err, &badSize))
	assert.Equal(t, ExpectedSize{LessOrEqualThan, 100}, badSize.Expected)
	assert.Equal(t, uint64(len(data)), badSize.Actual)

	decoded, err := Decode[uint32, []uint32](data)
	require.NoError(t, err)
	assert.Len(t, decoded, 100)

	decoded, err = DecodeMax[uint32, []uint32](data, uint32(len(data)))
	require.NoError(t, err)
	assert.Len(t, decoded, 100)
}

func TestHostileCountDoesNotPreallocate(t *testing.T) {
	input := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x7F, 1}
	_, err := Decode[uint64, []uint64](input)
	assert.ErrorIs(t, err, ErrBadSize)

	_, err = Decode[uint64, map[uint32]uint32](input)
	assert.ErrorIs(t, err, ErrBadSize)
}

func TestDecodeMax_RejectsDeclaredCountAboveLimit(t *testing.T) {
	forged := []byte{0xFF, 0xFF, 0xFF, 0xFF}

	testCases := []struct {
		name   string
		decode func() error
	}{
		{"empty structs", func() error {
			_, err := DecodeMax[uint32, []struct{}](forged, 100)
			return err
		}},
		{"skipped fields only", func() error {
			type hidden struct {
				Note string `bytevec:"-"`
			}
			_, err := DecodeMax[uint32, []hidden](forged, 100)
			return err
		}},
		{"zero length arrays", func() error {
			_, err := DecodeMax[uint32, [][0]uint32](forged, 100)
			return err
		}},
		{"set of empty keys", func() error {
			_, err := DecodeMax[uint32, map[struct{}]struct{}](forged, 100)
			return err
		}},
		{"string", func() error {
			_, err := DecodeMax[uint32, string](forged, 100)
			return err
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.decode()
			var badSize *BadSizeError
			require.True(t, errors.As(err, &badSize))
			assert.Equal(t, ExpectedSize{LessOrEqualThan, 100}, badSize.Expected)
			assert.Equal(t, uint64(0xFFFFFFFF), badSize.Actual)
		})
	}

	t.Run("counts within the limit decode", func(t *testing.T) {
		data, err := Encode[uint8](make([]struct{}, 3))
		require.NoError(t, err)
		decoded, err := DecodeMax[uint8, []struct{}](data, 3)
		require.NoError(t, err)
		assert.Len(t, decoded, 3)

		_, err = DecodeMax[uint8, []struct{}](data, 2)
		assert.ErrorIs(t, err, ErrBadSize)
	})
}

func TestEmptyElementsAreBounded(t *testing.T) {
	forged := []byte{0xFF, 0xFF, 0xFF, 0xFF}

	_, err := Decode[uint32, []struct{}](forged)
	var badSize *BadSizeError
	require.True(t, errors.As(err, &badSize))
	assert.Equal(t, ExpectedSize{LessOrEqualThan, MaxEmptyElements}, badSize.Expected)
	assert.Equal(t, uint64(MaxEmptyElements+1), badSize.Actual)

	t.Run("budget is shared by nested collections", func(t *testing.T) {
		// 2^11 outer elements of 2^10 empty elements each.
		e := NewEncoder(Width32)
		require.NoError(t, e.PutCount(1<<11))
		for i := 0; i < 1<<11; i++ {
			require.NoError(t, e.PutCount(1<<10))
		}
		_, err := Decode[uint32, [][]struct{}](e.Bytes())
		assert.ErrorIs(t, err, ErrBadSize)
	})

	t.Run("small counts still decode", func(t *testing.T) {
		data, err := Encode[uint32](make([]struct{}, 1000))
		require.NoError(t, err)
		decoded, err := Decode[uint32, []struct{}](data)
		require.NoError(t, err)
		assert.Len(t, decoded, 1000)
	})
}

func TestCountAboveRemainingFailsUpFront(t *testing.T) {
	// Five pairs need at least 25 bytes, only 6 follow the prefix.
	input := []byte{5, 1, 2, 3, 4, 5, 6}
	_, err := Decode[uint8, []pair](input)
	var badSize *BadSizeError
	require.True(t, errors.As(err, &badSize))
	assert.Equal(t, ExpectedSize{MoreThan, 24}, badSize.Expected)
	assert.Equal(t, uint64(6), badSize.Actual)

	_, err = Decode[uint8, map[uint16]uint16]([]byte{2, 1, 0, 2})
	require.True(t, errors.As(err, &badSize))
	assert.Equal(t, ExpectedSize{MoreThan, 7}, badSize.Expected)
	assert.Equal(t, uint64(3), badSize.Actual)
}

func TestNaNMapKeys(t *testing.T) {
	data, err := Encode[uint8](map[float64]string{math.NaN(): "x", 1: "y"})
	require.NoError(t, err)
	require.Len(t, data, 1+2*(8+2))
	assert.Equal(t, byte(2), data[0])
	// NaN sorts first, so the NaN entry leads.
	assert.True(t, math.IsNaN(math.Float64frombits(binary.LittleEndian.Uint64(data[1:9]))))
	assert.Equal(t, []byte{1, 'x'}, data[9:11])
	assert.Equal(t, 1.0, math.Float64frombits(binary.LittleEndian.Uint64(data[11:19])))
	assert.Equal(t, []byte{1, 'y'}, data[19:21])

	decoded, err := Decode[uint8, map[float64]string](data)
	require.NoError(t, err)
	assert.Len(t, decoded, 2)
	for k, v := range decoded {
		if math.IsNaN(k) {
			assert.Equal(t, "x", v)
		} else {
			assert.Equal(t, "y", v)
		}
	}

	_, err = Encode[uint8](map[float32]struct{}{float32(math.NaN()): {}})
	assert.NoError(t, err)
}

func TestInvalidDiscriminants(t *testing.T) {
	testCases := []struct {
		name   string
		decode func([]byte) error
	}{
		{"bool", func(b []byte) error { _, err := Decode[uint8, bool](b); return err }},
		{"pointer", func(b []byte) error { _, err := Decode[uint8, *uint8](b); return err }},
		{"option", func(b []byte) error { _, err := Decode[uint8, Option[uint8]](b); return err }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.decode([]byte{2, 0})
			var badSize *BadSizeError
			require.True(t, errors.As(err, &badSize))
			assert.Equal(t, ExpectedSize{LessOrEqualThan, 1}, badSize.Expected)
			assert.Equal(t, uint64(2), badSize.Actual)
		})
	}
}

func TestInvalidChar(t *testing.T) {
	testCases := []struct {
		name     string
		input    []byte
		expected ExpectedSize
		actual   uint64
	}{
		{"above max rune", []byte{0x00, 0x00, 0x11, 0x00}, ExpectedSize{LessOrEqualThan, 0x10FFFF}, 0x110000},
		{"surrogate", []byte{0x00, 0xD8, 0x00, 0x00}, ExpectedSize{LessOrEqualThan, 0xD7FF}, 0xD800},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode[uint8, Char](tc.input)
			var badSize *BadSizeError
			require.True(t, errors.As(err, &badSize))
			assert.Equal(t, tc.expected, badSize.Expected)
			assert.Equal(t, tc.actual, badSize.Actual)
		})
	}

	// A plain int32 carries no code point semantics.
	v, err := Decode[uint8, int32]([]byte{0x00, 0xD8, 0x00, 0x00})
	require.NoError(t, err)
	assert.Equal(t, int32(0xD800), v)
}

func TestInvalidUTF8(t *testing.T) {
	testCases := []struct {
		name      string
		input     []byte
		validUpTo int
		errorLen  int
	}{
		{"invalid byte", []byte{3, 'a', 0xFF, 'b'}, 1, 1},
		{"truncated sequence", []byte{3, 'a', 'b', 0xE2}, 2, 0},
		{"bad continuation", []byte{3, 0xE2, 0x41, 'c'}, 0, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode[uint8, string](tc.input)
			require.ErrorIs(t, err, ErrStringDecode)

			var utf8Err *StringDecodeError
			require.True(t, errors.As(err, &utf8Err))
			assert.Equal(t, 1, utf8Err.Offset)
			assert.Equal(t, tc.validUpTo, utf8Err.ValidUpTo)
			assert.Equal(t, tc.errorLen, utf8Err.ErrorLen)
		})
	}
}

func TestErrorReportingIsDeterministic(t *testing.T) {
	malformed := [][]byte{
		{10, 0, 0, 0, 1, 2},
		{2, 0, 0, 0, 3, 'a', 0xFF, 'c'},
		{1, 0, 0, 0, 7},
	}

	for _, input := range malformed {
		_, first := Decode[uint32, []string](input)
		require.Error(t, first)
		for i := 0; i < 5; i++ {
			_, again := Decode[uint32, []string](input)
			assert.Equal(t, first, again)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	testCases := []struct {
		err  error
		want string
	}{
		{&BadSizeError{ExpectedSize{LessOrEqualThan, 100}, 404}, "bytevec: expected size less or equal than 100, but the actual size is 404"},
		{&BadSizeError{ExpectedSize{MoreThan, 3}, 1}, "bytevec: expected size more than 3, but the actual size is 1"},
		{&BadSizeError{ExpectedSize{EqualTo, 8}, 4}, "bytevec: expected size 8, but the actual size is 4"},
		{&OverflowError{Count: 256, Max: 255}, "bytevec: count 256 surpasses the size type maximum 255"},
		{&StringDecodeError{Offset: 4, ValidUpTo: 2, ErrorLen: 1}, "bytevec: invalid utf-8 sequence of 1 bytes from index 2 (string at offset 4)"},
	}

	for _, tc := range testCases {
		assert.EqualError(t, tc.err, tc.want)
	}
}

func TestUnsupportedTypes(t *testing.T) {
	type hidden struct {
		Visible uint8
		secret  uint8
	}
	type skipped struct {
		Visible uint8
		secret  uint8 `bytevec:"-"`
	}

	_, err := Encode[uint8](hidden{})
	var typeErr *TypeError
	require.True(t, errors.As(err, &typeErr))
	assert.Contains(t, err.Error(), "secret")

	data, err := Encode[uint8](skipped{Visible: 3, secret: 9})
	require.NoError(t, err)
	assert.Equal(t, []byte{3}, data)

	_, err = Encode[uint8](make(chan int))
	assert.True(t, errors.As(err, &typeErr))

	_, err = Decode[uint8, any]([]byte{1})
	assert.True(t, errors.As(err, &typeErr))

	_, err = EncodeWidth(Width(3), 1)
	assert.True(t, errors.As(err, &typeErr))
}

func TestEncodeThroughInterface(t *testing.T) {
	var v any = pair{Label: "i", N: 2}
	data, err := Encode[uint8](v)
	require.NoError(t, err)

	decoded, err := Decode[uint8, pair](data)
	require.NoError(t, err)
	assert.Equal(t, v, decoded)
}

func TestSize(t *testing.T) {
	n, err := Size[uint16](profile{ID: 1, Name: "ab", LastName: ""})
	require.NoError(t, err)
	assert.Equal(t, 4+2+2+2, n)

	_, err = Size[uint8](make([]uint8, 256))
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestCompositeMapKeysSortByEncoding(t *testing.T) {
	m := map[[2]uint8]string{{1, 2}: "a", {0, 9}: "b", {0, 3}: "c"}
	for i := 0; i < 10; i++ {
		data, err := Encode[uint8](m)
		require.NoError(t, err)
		assert.Equal(t, []byte{3, 0, 3, 1, 'c', 0, 9, 1, 'b', 1, 2, 1, 'a'}, data)
	}
}
