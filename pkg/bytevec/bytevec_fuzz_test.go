//go:build fuzz
// +build fuzz

package bytevec

import (
	"errors"
	"testing"
)

type fuzzRecord struct {
	Name   string
	Scores []int32
	Labels map[string]uint16
	Parent *string
}

// FuzzDecode checks that arbitrary input never panics and fails only with
// the wire error kinds.
func FuzzDecode(f *testing.F) {
	seed, err := Encode[uint16](fuzzRecord{
		Name:   "seed",
		Scores: []int32{1, -2, 3},
		Labels: map[string]uint16{"a": 1},
	})
	if err != nil {
		f.Fatal(err)
	}
	f.Add(seed)
	f.Add([]byte{})
	f.Add([]byte{0xFF, 0xFF, 0xFF})

	f.Fuzz(func(t *testing.T, data []byte) {
		_, err := Decode[uint16, fuzzRecord](data)
		if err == nil {
			return
		}
		if !errors.Is(err, ErrBadSize) && !errors.Is(err, ErrStringDecode) {
			t.Fatalf("unexpected error kind: %v", err)
		}
	})
}

// FuzzRoundTrip encodes random field values and checks they decode to the
// same record.
func FuzzRoundTrip(f *testing.F) {
	f.Add("name", int32(4), "label", uint16(9))
	f.Add("", int32(-1), "", uint16(0))

	f.Fuzz(func(t *testing.T, name string, score int32, label string, weight uint16) {
		if len(name) > 255 || len(label) > 255 {
			t.Skip("string exceeds u8 prefix")
		}
		in := fuzzRecord{
			Name:   name,
			Scores: []int32{score},
			Labels: map[string]uint16{label: weight},
			Parent: &name,
		}
		data, err := Encode[uint8](in)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		out, err := Decode[uint8, fuzzRecord](data)
		if err != nil {
			// Go strings may hold invalid UTF-8, which decode rejects.
			if errors.Is(err, ErrStringDecode) {
				return
			}
			t.Fatalf("Decode failed: %v", err)
		}
		if out.Name != in.Name || out.Scores[0] != score || out.Labels[label] != weight || *out.Parent != name {
			t.Fatalf("round trip mismatch: %+v != %+v", out, in)
		}
	})
}
