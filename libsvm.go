package shogun

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	shogunerrors "github.com/NanuSai/shogun/errors"
)

// LibSVMSource reads examples from text in the svmlight/libsvm format: one
// example per line, an optional leading label, then space-separated
// index:value pairs. Blank lines are skipped and a '#' starts a comment.
//
// A source built from a path (OpenLibSVM) is seekable; one wrapped around
// an arbitrary reader is not.
type LibSVMSource[T Element] struct {
	path     string
	labelled bool

	f       *os.File
	r       io.Reader
	scanner *bufio.Scanner
	line    int
}

// NewLibSVMSource wraps a reader of libsvm-formatted text. The resulting
// source is not seekable.
func NewLibSVMSource[T Element](r io.Reader, labelled bool) *LibSVMSource[T] {
	return &LibSVMSource[T]{r: r, labelled: labelled}
}

// OpenLibSVM creates a seekable source over a libsvm-formatted file. The
// file is opened lazily by Start and closed by Stop.
func OpenLibSVM[T Element](path string, labelled bool) (*LibSVMSource[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open libsvm file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close libsvm file: %w", err)
	}
	return &LibSVMSource[T]{path: path, labelled: labelled}, nil
}

// Labelled reports whether lines are expected to begin with a label.
func (s *LibSVMSource[T]) Labelled() bool { return s.labelled }

func (s *LibSVMSource[T]) Start() error {
	if s.path != "" && s.f == nil {
		f, err := os.Open(s.path)
		if err != nil {
			return fmt.Errorf("open libsvm file: %w", err)
		}
		s.f = f
		s.r = f
		s.scanner = nil
		s.line = 0
	}
	if s.scanner == nil {
		s.scanner = bufio.NewScanner(s.r)
		s.scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	}
	return nil
}

func (s *LibSVMSource[T]) Next() (SparseVector[T], float64, bool, error) {
	if s.scanner == nil {
		return nil, 0, false, nil
	}
	for s.scanner.Scan() {
		s.line++
		text := s.scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		var label float64
		if s.labelled {
			var err error
			label, err = strconv.ParseFloat(fields[0], 64)
			if err != nil {
				return nil, 0, false, fmt.Errorf("line %d: bad label %q: %w", s.line, fields[0], shogunerrors.ErrMalformedRecord)
			}
			fields = fields[1:]
		}

		vec := make(SparseVector[T], 0, len(fields))
		for _, field := range fields {
			idx, val, err := parseFeature(field)
			if err != nil {
				return nil, 0, false, fmt.Errorf("line %d: %w", s.line, err)
			}
			vec = append(vec, Entry[T]{Index: idx, Value: T(val)})
		}
		return vec, label, true, nil
	}
	if err := s.scanner.Err(); err != nil {
		return nil, 0, false, fmt.Errorf("read libsvm stream: %w", err)
	}
	return nil, 0, false, nil
}

func parseFeature(field string) (uint32, float64, error) {
	colon := strings.IndexByte(field, ':')
	if colon <= 0 || colon == len(field)-1 {
		return 0, 0, fmt.Errorf("bad feature %q: %w", field, shogunerrors.ErrMalformedRecord)
	}
	idx, err := strconv.ParseUint(field[:colon], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("bad feature index %q: %w", field, shogunerrors.ErrMalformedRecord)
	}
	val, err := strconv.ParseFloat(field[colon+1:], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad feature value %q: %w", field, shogunerrors.ErrMalformedRecord)
	}
	return uint32(idx), val, nil
}

// Finalize is a no-op: each Next returns a freshly parsed vector.
func (s *LibSVMSource[T]) Finalize() {}

func (s *LibSVMSource[T]) Stop() error {
	if s.f != nil {
		err := s.f.Close()
		s.f = nil
		s.scanner = nil
		if err != nil {
			return fmt.Errorf("close libsvm file: %w", err)
		}
	}
	return nil
}

// Seekable reports whether the source can replay; only path-backed sources
// can, by reopening the file.
func (s *LibSVMSource[T]) Seekable() bool { return s.path != "" }

func (s *LibSVMSource[T]) Reset() error {
	if s.path == "" {
		return shogunerrors.ErrNotSeekable
	}
	if s.f != nil {
		if _, err := s.f.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("rewind libsvm file: %w", err)
		}
		s.r = s.f
		s.scanner = nil
		s.line = 0
	}
	return nil
}
