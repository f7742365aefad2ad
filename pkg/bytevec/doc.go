// Package bytevec implements a compact, deterministic binary serialization
// format in which every length prefix has a caller-chosen width.
//
// A single size type (uint8, uint16, uint32 or uint64) is chosen for each
// Encode or Decode call and governs every count and byte-length prefix the
// call writes or reads. Counts that do not fit the chosen width are rejected
// at encode time; buffers that are too short are rejected at decode time.
// Nothing is silently truncated.
//
// # Wire Format
//
// All integers, including length prefixes, are little-endian.
//
//	           Go type | Layout
//	-------------------+---------------------------------------------
//	              bool | 1 byte, 0x00 or 0x01
//	  int8 .. uint64   | fixed width
//	 int, uint, uintptr| 8 bytes
//	  float32, float64 | IEEE-754 bits, 4 or 8 bytes
//	              Char | 4 byte code point
//	            string | [len: size type][len UTF-8 bytes]
//	   *T, Option[T]   | [1 byte: 0 or 1][T if 1]
//	              [N]T | N element encodings, no prefix
//	            struct | exported fields in declaration order, no prefix
//	               []T | [count: size type][count element encodings]
//	   map[K]struct{}  | [count: size type][count keys]
//	          map[K]V  | [count: size type][count (key, value) encodings]
//
// Map and set keys of boolean, integer, float and string kinds are written in
// ascending order, with NaN first. Other key kinds, such as arrays and
// structs, are written in ascending order of their encoded bytes. Equal
// containers therefore encode to identical bytes.
//
// # Usage
//
//	data, err := bytevec.Encode[uint32](employees)
//	if err != nil {
//	    return err
//	}
//
//	decoded, err := bytevec.Decode[uint32, []Employee](data)
//	if err != nil {
//	    return err
//	}
//
// DecodeMax refuses input larger than a ceiling before touching it, and any
// length prefix inside it that declares more elements than the ceiling:
//
//	decoded, err := bytevec.DecodeMax[uint32, []Employee](data, 1<<20)
//
// With or without a ceiling, a count the remaining input cannot hold fails
// before any element is decoded, and elements that occupy no bytes (struct{}, [0]T) are
// capped at MaxEmptyElements per call.
//
// # Generated Code
//
// Types may implement Marshaler and Unmarshaler to take over their own
// encoding. The codegen package emits such methods from a schema; each method
// calls Write and Read (or the typed Encoder/Decoder methods) for every field
// in declaration order, producing the same bytes as the reflection path.
//
// # Error Handling
//
// Wire failures are reported as one of three error types:
//   - *BadSizeError: a decode needed more bytes than were available, the
//     DecodeMax ceiling or MaxEmptyElements was exceeded, or a discriminant
//     or code point was out of range
//   - *OverflowError: a count exceeded the maximum of the chosen size type
//   - *StringDecodeError: string bytes were not valid UTF-8
//
// Use errors.Is with ErrBadSize, ErrOverflow or ErrStringDecode to classify,
// and errors.As to inspect details. Passing an unsupported Go type yields a
// *TypeError.
//
// # Thread Safety
//
// Encode and Decode share no state and may run concurrently. An Encoder or
// Decoder value must not be shared between goroutines.
package bytevec
