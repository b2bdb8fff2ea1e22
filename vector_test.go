// vector_test.go tests the algebra over hashed sparse vectors: sparse and
// dense dot products, dense accumulation, and dimension-mismatch guards.
package shogun

import (
	"errors"
	"slices"
	"testing"

	shogunerrors "github.com/NanuSai/shogun/errors"
)

func TestSparseDot(t *testing.T) {
	a := SparseVector[float64]{{0, 1}, {3, 2}, {7, -4}}
	b := SparseVector[float64]{{1, 5}, {3, 3}, {7, 2}, {9, 100}}
	if got, want := SparseDot(a, b), 2.0*3+(-4.0)*2; got != want {
		t.Errorf("SparseDot = %v, want %v", got, want)
	}
	if got := SparseDot(a, nil); got != 0 {
		t.Errorf("SparseDot(a, nil) = %v, want 0", got)
	}
	if got := SparseDot(SparseVector[float64]{{5, 2}}, SparseVector[float64]{{6, 2}}); got != 0 {
		t.Errorf("disjoint vectors: dot = %v, want 0", got)
	}
}

func TestSparseDotSelfNonNegative(t *testing.T) {
	rng := newTestRNG(t)
	h := mustHasher(t, 64, WithQuadratic(true))
	for trial := 0; trial < 50; trial++ {
		v := h.Transform(randomVector(rng, 1+rng.IntN(12), 1<<30))
		if dot := SparseDot(v, v); dot < 0 {
			t.Fatalf("trial %d: self dot product %v < 0", trial, dot)
		}
	}
}

// Scattering a hashed vector into a zeroed dense array and taking DenseDot
// must agree with the sparse self dot product.
func TestDenseDotConsistency(t *testing.T) {
	rng := newTestRNG(t)
	const dim = 256
	h := mustHasher(t, dim, WithQuadratic(true))
	for trial := 0; trial < 25; trial++ {
		v := h.Transform(randomVector(rng, 1+rng.IntN(10), 1<<30))
		dense := make([]float64, dim)
		for _, e := range v {
			dense[e.Index] = e.Value
		}
		got, err := DenseDot(v, dense, dim)
		if err != nil {
			t.Fatal(err)
		}
		if want := SparseDot(v, v); got != want {
			t.Fatalf("trial %d: DenseDot = %v, SparseDot = %v", trial, got, want)
		}
	}
}

func TestDenseDotDimensionMismatch(t *testing.T) {
	v := SparseVector[float64]{{0, 1}}
	if _, err := DenseDot(v, make([]float64, 3), 4); !errors.Is(err, shogunerrors.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
	if _, err := DenseDot(v, make([]float64, 5), 4); !errors.Is(err, shogunerrors.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestAddToDense(t *testing.T) {
	v := SparseVector[float64]{{1, 2}, {3, -5}}
	dense := []float64{10, 10, 10, 10}

	if err := AddToDense(v, dense, 4, 2, false); err != nil {
		t.Fatal(err)
	}
	want := []float64{10, 14, 10, 0}
	if !slices.Equal(dense, want) {
		t.Errorf("dense = %v, want %v", dense, want)
	}
}

func TestAddToDenseAbs(t *testing.T) {
	v := SparseVector[float64]{{1, 2}, {3, -5}}
	dense := make([]float64, 4)

	if err := AddToDense(v, dense, 4, 0.5, true); err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 1, 0, 2.5}
	if !slices.Equal(dense, want) {
		t.Errorf("dense = %v, want %v", dense, want)
	}
}

func TestAddToDenseDimensionMismatchLeavesDenseUntouched(t *testing.T) {
	v := SparseVector[float64]{{0, 1}}
	dense := []float64{7, 7}
	if err := AddToDense(v, dense, 4, 1, false); !errors.Is(err, shogunerrors.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
	if dense[0] != 7 || dense[1] != 7 {
		t.Errorf("dense mutated on error: %v", dense)
	}
}

func TestClone(t *testing.T) {
	v := SparseVector[float64]{{1, 2}, {3, 4}}
	c := v.Clone()
	c[0].Value = 99
	if v[0].Value != 2 {
		t.Error("Clone shares backing storage with the original")
	}
	if (SparseVector[float64])(nil).Clone() != nil {
		t.Error("Clone(nil) must be nil")
	}
}
