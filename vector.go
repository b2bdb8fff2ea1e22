package shogun

import (
	"math"

	shogunerrors "github.com/NanuSai/shogun/errors"
)

// Element is the set of numeric types a sparse feature vector may carry.
// The hashing and merge logic is type-agnostic except for summation, so any
// integer or floating-point element type works.
type Element interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Entry is a single (feature index, value) pair of a sparse vector.
type Entry[T Element] struct {
	Index uint32
	Value T
}

// SparseVector is a sparse feature vector represented by its non-zero
// entries. Raw input vectors need not be sorted or deduplicated; vectors
// produced by Hasher.Transform are in canonical form (sorted by index,
// at most one entry per index).
type SparseVector[T Element] []Entry[T]

// Len returns the number of stored entries.
func (v SparseVector[T]) Len() int { return len(v) }

// Clone returns a copy of the vector with its own backing storage.
func (v SparseVector[T]) Clone() SparseVector[T] {
	if v == nil {
		return nil
	}
	out := make(SparseVector[T], len(v))
	copy(out, v)
	return out
}

// SparseDot computes the dot product of two sparse vectors by sorted merge
// in O(len(a)+len(b)). Both operands must be in canonical form, as produced
// by Hasher.Transform, and must have been hashed with the same target
// dimension; Pipeline.Dot enforces the latter.
func SparseDot[T Element](a, b SparseVector[T]) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Index < b[j].Index:
			i++
		case a[i].Index > b[j].Index:
			j++
		default:
			sum += float64(a[i].Value) * float64(b[j].Value)
			i++
			j++
		}
	}
	return sum
}

// DenseDot computes the dot product of a hashed sparse vector with a dense
// vector of length dim. The dense vector's length must equal the target
// dimension the sparse vector was hashed into, otherwise
// errors.ErrDimensionMismatch is returned.
func DenseDot[T Element](v SparseVector[T], dense []float64, dim int) (float64, error) {
	if len(dense) != dim {
		return 0, shogunerrors.ErrDimensionMismatch
	}
	var sum float64
	for _, e := range v {
		sum += dense[e.Index] * float64(e.Value)
	}
	return sum, nil
}

// AddToDense adds alpha*value (or alpha*|value| if useAbs) of every entry of
// a hashed sparse vector into the corresponding slot of dense, in place.
// The dense vector is pre-allocated by the caller and must have length dim;
// on errors.ErrDimensionMismatch it is left untouched.
func AddToDense[T Element](v SparseVector[T], dense []float64, dim int, alpha float64, useAbs bool) error {
	if len(dense) != dim {
		return shogunerrors.ErrDimensionMismatch
	}
	if useAbs {
		for _, e := range v {
			dense[e.Index] += alpha * math.Abs(float64(e.Value))
		}
		return nil
	}
	for _, e := range v {
		dense[e.Index] += alpha * float64(e.Value)
	}
	return nil
}
