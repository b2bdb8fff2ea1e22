package shogun

import (
	"encoding/binary"
	"hash/fnv"
	randv2 "math/rand/v2"
	"testing"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

func newTestRNG(t testing.TB) *randv2.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return randv2.New(randv2.NewPCG(testSeed1^s1, testSeed2^s2))
}

// randomVector generates a raw sparse vector with nnz entries, indices drawn
// from [0, maxIndex) and small integer values so float summation is exact.
func randomVector(rng *randv2.Rand, nnz int, maxIndex uint32) SparseVector[float64] {
	vec := make(SparseVector[float64], nnz)
	for i := range vec {
		vec[i] = Entry[float64]{
			Index: rng.Uint32N(maxIndex),
			Value: float64(rng.IntN(19) - 9),
		}
	}
	return vec
}

// valueSum returns the sum of all entry values.
func valueSum(v SparseVector[float64]) float64 {
	var sum float64
	for _, e := range v {
		sum += e.Value
	}
	return sum
}

// checkCanonical fails the test unless v is sorted by index with no
// duplicates and every index is below dim.
func checkCanonical(t *testing.T, v SparseVector[float64], dim int) {
	t.Helper()
	for i, e := range v {
		if int(e.Index) >= dim {
			t.Errorf("entry %d: index %d out of range [0, %d)", i, e.Index, dim)
		}
		if i > 0 && v[i-1].Index >= e.Index {
			t.Errorf("entry %d: index %d not strictly above predecessor %d", i, e.Index, v[i-1].Index)
		}
	}
}

// mustHasher builds a hasher or fails the test.
func mustHasher(t *testing.T, dim int, opts ...Option) *Hasher[float64] {
	t.Helper()
	h, err := NewHasher[float64](dim, opts...)
	if err != nil {
		t.Fatalf("NewHasher(%d): %v", dim, err)
	}
	return h
}
