package shogun

import (
	"cmp"
	"encoding/binary"
	"reflect"
	"slices"

	"github.com/cespare/xxhash/v2"
	shogunerrors "github.com/NanuSai/shogun/errors"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

// HashAlgorithmID identifies the hash function used to fold feature indices
// into the target dimension. Two pipelines can only be combined (Dot) when
// they use the same algorithm and seed.
type HashAlgorithmID uint16

const (
	// AlgoMurmur3 uses 32-bit MurmurHash3. This is the default.
	AlgoMurmur3 HashAlgorithmID = 0

	// AlgoXXH3 uses seeded xxHash3-64.
	AlgoXXH3 HashAlgorithmID = 1
)

// String returns the algorithm name.
func (a HashAlgorithmID) String() string {
	switch a {
	case AlgoMurmur3:
		return "murmur3"
	case AlgoXXH3:
		return "xxh3"
	default:
		return "unknown"
	}
}

// Hasher deterministically folds sparse vectors of arbitrary index domain
// into a fixed target dimension, optionally synthesizing second-order
// interaction terms. Transform is a pure function of the input vector and
// the hasher's immutable configuration; a Hasher is safe for concurrent use.
type Hasher[T Element] struct {
	dim        uint32
	quadratic  bool
	keepLinear bool
	algo       HashAlgorithmID
	seed       uint64
	tag        uint64
}

// NewHasher creates a hasher targeting the given dimension. dim must be
// positive; the quadratic flags, hash algorithm, and seed are set via
// options.
func NewHasher[T Element](dim int, opts ...Option) (*Hasher[T], error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return newHasher[T](dim, cfg)
}

func newHasher[T Element](dim int, cfg *config) (*Hasher[T], error) {
	if dim <= 0 {
		return nil, shogunerrors.ErrNonPositiveDimension
	}
	if cfg.algo != AlgoMurmur3 && cfg.algo != AlgoXXH3 {
		return nil, shogunerrors.ErrUnknownHashAlgorithm
	}
	h := &Hasher[T]{
		dim:        uint32(dim),
		quadratic:  cfg.quadratic,
		keepLinear: cfg.keepLinear,
		algo:       cfg.algo,
		seed:       cfg.seed,
	}
	h.tag = identityTag(elementKind[T](), h.dim, h.algo, h.seed)
	return h, nil
}

// Dim returns the target dimension.
func (h *Hasher[T]) Dim() int { return int(h.dim) }

// Quadratic reports whether interaction terms are synthesized.
func (h *Hasher[T]) Quadratic() bool { return h.quadratic }

// Tag returns the hasher's identity tag: equal tags mean two hashers map
// the same element type into the same space with the same hash function,
// so their outputs are directly comparable.
func (h *Hasher[T]) Tag() uint64 { return h.tag }

// Transform hashes a raw sparse vector into the target dimension.
//
// Every input entry (i, v) contributes a linear term at hashIndex(i) unless
// quadratic mode is on with linear terms suppressed. In quadratic mode every
// unordered pair of entries, self-pairs included, contributes v_i*v_j at a
// symmetric pair hash. Contributions landing on the same target index are
// merged by summation; the result is in canonical form (sorted by index,
// no duplicates), so identical inputs yield bit-identical outputs.
//
// The raw vector is not retained; the returned vector has its own backing
// storage.
func (h *Hasher[T]) Transform(raw SparseVector[T]) SparseVector[T] {
	n := len(raw)
	if n == 0 {
		return nil
	}

	contributions := 0
	if !h.quadratic || h.keepLinear {
		contributions += n
	}
	if h.quadratic {
		contributions += n * (n + 1) / 2
	}
	out := make(SparseVector[T], 0, contributions)

	if !h.quadratic || h.keepLinear {
		for _, e := range raw {
			out = append(out, Entry[T]{Index: h.hashIndex(e.Index), Value: e.Value})
		}
	}
	if h.quadratic {
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				out = append(out, Entry[T]{
					Index: h.hashPair(raw[i].Index, raw[j].Index),
					Value: raw[i].Value * raw[j].Value,
				})
			}
		}
	}

	return compact(out)
}

// compact sorts contributions by target index and merges duplicates by
// summation, in place.
func compact[T Element](v SparseVector[T]) SparseVector[T] {
	slices.SortFunc(v, func(a, b Entry[T]) int {
		return cmp.Compare(a.Index, b.Index)
	})
	merged := v[:1]
	for _, e := range v[1:] {
		last := &merged[len(merged)-1]
		if e.Index == last.Index {
			last.Value += e.Value
		} else {
			merged = append(merged, e)
		}
	}
	return merged
}

// hashIndex maps a single feature index into [0, dim).
func (h *Hasher[T]) hashIndex(i uint32) uint32 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], i)
	return uint32(h.sum(buf[:]) % uint64(h.dim))
}

// hashPair maps an unordered index pair into [0, dim). The pair is
// canonicalized as (min, max) before hashing, so hashPair(i,j) ==
// hashPair(j,i) by construction.
func (h *Hasher[T]) hashPair(i, j uint32) uint32 {
	if i > j {
		i, j = j, i
	}
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[0:4], i)
	binary.LittleEndian.PutUint32(buf[4:8], j)
	return uint32(h.sum(buf[:]) % uint64(h.dim))
}

func (h *Hasher[T]) sum(data []byte) uint64 {
	switch h.algo {
	case AlgoXXH3:
		return xxh3.HashSeed(data, h.seed)
	default:
		return uint64(murmur3.Sum32WithSeed(data, uint32(h.seed)))
	}
}

// identityTag folds the comparable parts of a hash configuration into a
// single value. The quadratic flags are deliberately excluded: quadratic
// and linear pipelines hashed with the same function into the same space
// produce vectors that live in the same space and may be combined.
func identityTag(kind uint8, dim uint32, algo HashAlgorithmID, seed uint64) uint64 {
	var buf [16]byte
	buf[0] = kind
	binary.LittleEndian.PutUint32(buf[1:5], dim)
	binary.LittleEndian.PutUint16(buf[5:7], uint16(algo))
	binary.LittleEndian.PutUint64(buf[7:15], seed)
	return xxhash.Sum64(buf[:])
}

// elementKind returns a stable code for the element type's underlying kind,
// used in identity tags and record file headers.
func elementKind[T Element]() uint8 {
	var zero T
	return uint8(reflect.TypeOf(zero).Kind())
}
