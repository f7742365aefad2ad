//go:build bench
// +build bench

package bytevec

import (
	"strings"
	"testing"
)

func benchmarkEmployees(n int) []employee {
	out := make([]employee, n)
	for i := range out {
		out[i] = employee{
			ID:      uint32(i),
			Profile: profile{ID: uint32(i * 10), Name: "Name", LastName: strings.Repeat("x", 16)},
			Dept:    "engineering",
		}
	}
	return out
}

func BenchmarkEncode(b *testing.B) {
	benchmarks := []struct {
		name  string
		count int
	}{
		{"small", 1},
		{"medium", 100},
		{"large", 10000},
	}

	for _, bm := range benchmarks {
		data := benchmarkEmployees(bm.count)
		b.Run(bm.name, func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := Encode[uint32](data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	benchmarks := []struct {
		name  string
		count int
	}{
		{"small", 1},
		{"medium", 100},
		{"large", 10000},
	}

	for _, bm := range benchmarks {
		encoded, err := Encode[uint32](benchmarkEmployees(bm.count))
		if err != nil {
			b.Fatal(err)
		}
		b.Run(bm.name, func(b *testing.B) {
			b.SetBytes(int64(len(encoded)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := Decode[uint32, []employee](encoded); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
