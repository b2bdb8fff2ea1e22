package shogun

import (
	shogunerrors "github.com/NanuSai/shogun/errors"
)

// Source is the producer contract: an external supplier of raw sparse
// vectors consumed one at a time by a Pipeline. Implementations are driven
// from the pipeline's producer goroutine; only Finalize may additionally be
// called from the consumer side, so it must be safe to call concurrently
// with Next.
type Source[T Element] interface {
	// Start prepares the source for reading.
	Start() error

	// Next returns the next raw vector and its label. ok is false when the
	// source is exhausted; a non-nil error reports a real mid-stream
	// failure, which also terminates the stream. Unlabelled sources return
	// a zero label.
	Next() (vec SparseVector[T], label float64, ok bool, err error)

	// Finalize signals that the most recently returned vector's backing
	// storage may be reclaimed or reused.
	Finalize()

	// Stop releases resources associated with reading. After Stop, the
	// stream may only be resumed via Start, and only from the beginning
	// on seekable sources.
	Stop() error

	// Seekable reports whether the source can rewind to the beginning.
	Seekable() bool

	// Reset rewinds a seekable source; errors.ErrNotSeekable otherwise.
	// Must not be called while a read is in flight.
	Reset() error
}

// SliceSource adapts an in-memory batch of sparse vectors, optionally with
// a parallel label array, to the Source contract. The batch owns the
// vectors: the source never copies or frees them, and it is always
// seekable.
type SliceSource[T Element] struct {
	vecs   []SparseVector[T]
	labels []float64
	pos    int
}

// NewSliceSource wraps a batch of vectors. labels may be nil; if non-nil
// its length must match the batch.
func NewSliceSource[T Element](vecs []SparseVector[T], labels []float64) (*SliceSource[T], error) {
	if labels != nil && len(labels) != len(vecs) {
		return nil, shogunerrors.ErrLabelCountMismatch
	}
	return &SliceSource[T]{vecs: vecs, labels: labels}, nil
}

// Labelled reports whether the batch carries labels.
func (s *SliceSource[T]) Labelled() bool { return s.labels != nil }

func (s *SliceSource[T]) Start() error { return nil }

func (s *SliceSource[T]) Next() (SparseVector[T], float64, bool, error) {
	if s.pos >= len(s.vecs) {
		return nil, 0, false, nil
	}
	vec := s.vecs[s.pos]
	var label float64
	if s.labels != nil {
		label = s.labels[s.pos]
	}
	s.pos++
	return vec, label, true, nil
}

// Finalize is a no-op: the batch, not the pipeline, owns the vectors.
func (s *SliceSource[T]) Finalize() {}

func (s *SliceSource[T]) Stop() error { return nil }

func (s *SliceSource[T]) Seekable() bool { return true }

func (s *SliceSource[T]) Reset() error {
	s.pos = 0
	return nil
}
