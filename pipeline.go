package shogun

import (
	shogunerrors "github.com/NanuSai/shogun/errors"
)

// Pipeline streams raw sparse vectors from a Source, hashes each into a
// fixed target dimension, and holds the result as the current vector. One
// example is resident at a time: every successful Advance overwrites the
// previous vector and label.
//
// A pipeline is single-consumer. Advance, Current, and Release must be
// called from one logical thread of control, in that order per example;
// Start and Stop may be called from the owning context but must not race
// with an in-flight Advance. Advance is the only call that blocks: it waits
// until the producer yields an example or signals end-of-stream, with no
// timeout. Stop unblocks a blocked Advance.
type Pipeline[T Element] struct {
	hasher   *Hasher[T]
	parser   *parser[T]
	src      Source[T]
	labelled bool

	current SparseVector[T]
	label   float64
}

// NewPipeline creates a streaming pipeline over an external source. dim is
// the target dimension of the hashed space and must be positive. Use
// WithLabels when the source supplies labels, WithBufferSize to tune the
// producer read-ahead, and WithQuadratic / WithHashAlgorithm / WithSeed to
// configure the transform.
//
// The pipeline holds a reference to the source but never assumes exclusive
// ownership of it; the owning context must keep the source alive for the
// pipeline's lifetime.
func NewPipeline[T Element](src Source[T], dim int, opts ...Option) (*Pipeline[T], error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	hasher, err := newHasher[T](dim, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.bufferSize <= 0 {
		return nil, shogunerrors.ErrInvalidBufferSize
	}
	return &Pipeline[T]{
		hasher:   hasher,
		parser:   newParser(src, cfg.bufferSize),
		src:      src,
		labelled: cfg.labelled,
	}, nil
}

// NewPipelineFromSlice creates a pipeline over an in-memory batch of sparse
// vectors, wrapped in a SliceSource with the default read-ahead buffer.
// labels may be nil; if non-nil its length must match the batch and the
// pipeline is labelled. The resulting pipeline is seekable: Stop followed
// by Start replays the batch from the beginning. The batch keeps ownership
// of its vectors.
func NewPipelineFromSlice[T Element](vecs []SparseVector[T], labels []float64, dim int, opts ...Option) (*Pipeline[T], error) {
	src, err := NewSliceSource(vecs, labels)
	if err != nil {
		return nil, err
	}
	p, err := NewPipeline(src, dim, opts...)
	if err != nil {
		return nil, err
	}
	p.labelled = labels != nil
	return p, nil
}

// Start launches the producer if it is not already running. Idempotent.
// Starting again after Stop rewinds seekable sources.
func (p *Pipeline[T]) Start() error {
	return p.parser.start()
}

// Advance pulls the next raw vector from the producer, hashes it, and
// installs the result as the current vector and label. It returns false on
// exhaustion, leaving the current vector unchanged; use Err to distinguish
// a real producer failure from a normal end-of-stream. Advance blocks until
// the producer yields an example, the stream ends, or Stop is called.
//
// The raw vector is consumed by the transform and never exposed to the
// caller; only the hashed result is visible.
func (p *Pipeline[T]) Advance() bool {
	ex, ok := p.parser.next()
	if !ok {
		return false
	}
	p.current = p.hasher.Transform(ex.vec)
	p.label = ex.label
	return true
}

// Err returns the first real producer error observed since the last Start,
// or nil if the stream ended normally. Exhaustion is not an error.
func (p *Pipeline[T]) Err() error {
	return p.parser.lastErr()
}

// Current returns the hashed vector installed by the last successful
// Advance. Before any successful Advance it returns an empty vector,
// mirroring the producer's "no example yet" convention. The returned slice
// is only valid to read until the next Advance.
func (p *Pipeline[T]) Current() SparseVector[T] {
	return p.current
}

// Label returns the label of the current example. For unlabelled pipelines
// it mirrors whatever the producer last supplied, default 0.
func (p *Pipeline[T]) Label() float64 {
	return p.label
}

// Labelled reports whether the pipeline expects a label with each example.
func (p *Pipeline[T]) Labelled() bool {
	return p.labelled
}

// Release signals the producer that the current raw example's buffer may be
// reclaimed or reused. Call it after processing each example, before the
// next Advance.
func (p *Pipeline[T]) Release() {
	p.parser.finalize()
}

// Stop halts the producer and causes a blocked or subsequent Advance to
// return false promptly. Idempotent. At most one read-ahead example may
// need to be drained internally; the current vector is unaffected.
func (p *Pipeline[T]) Stop() error {
	return p.parser.stop()
}

// Seekable reports whether the underlying source supports replay from the
// beginning.
func (p *Pipeline[T]) Seekable() bool {
	return p.src.Seekable()
}

// FeatureCount returns the target dimension, constant for the pipeline's
// lifetime.
func (p *Pipeline[T]) FeatureCount() int {
	return p.hasher.Dim()
}

// VectorCount always returns 1: a streaming pipeline holds exactly one
// example at a time. This is a fixed contract of the abstraction, not a
// batch count.
func (p *Pipeline[T]) VectorCount() int {
	return 1
}

// Tag returns the pipeline's hash-configuration identity. Two pipelines
// with equal tags produce vectors in the same hashed space.
func (p *Pipeline[T]) Tag() uint64 {
	return p.hasher.Tag()
}

// Dot computes the dot product of this pipeline's current vector with
// another pipeline's current vector. Both pipelines must share a target
// dimension (errors.ErrDimensionMismatch) and a full hash configuration
// (errors.ErrIncompatiblePipelines); mismatches are rejected rather than
// producing silently wrong numbers.
func (p *Pipeline[T]) Dot(other *Pipeline[T]) (float64, error) {
	if other == nil {
		return 0, shogunerrors.ErrIncompatiblePipelines
	}
	if p.hasher.Dim() != other.hasher.Dim() {
		return 0, shogunerrors.ErrDimensionMismatch
	}
	if p.hasher.Tag() != other.hasher.Tag() {
		return 0, shogunerrors.ErrIncompatiblePipelines
	}
	return SparseDot(p.current, other.current), nil
}

// DenseDot computes the dot product of the current vector with a dense
// vector, which must have length FeatureCount.
func (p *Pipeline[T]) DenseDot(dense []float64) (float64, error) {
	return DenseDot(p.current, dense, p.hasher.Dim())
}

// AddToDense accumulates alpha times the current vector (absolute values if
// useAbs) into dense, in place. dense must have length FeatureCount and is
// left untouched on error.
func (p *Pipeline[T]) AddToDense(dense []float64, alpha float64, useAbs bool) error {
	return AddToDense(p.current, dense, p.hasher.Dim(), alpha, useAbs)
}
