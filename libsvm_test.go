// libsvm_test.go tests the svmlight/libsvm text source: parsing, comments,
// malformed input, and replay of path-backed sources.
package shogun

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	shogunerrors "github.com/NanuSai/shogun/errors"
)

func TestLibSVMLabelled(t *testing.T) {
	const data = `1 3:2.5 7:-1 12:4
-1 1:0.5

# a comment line
1 9:3 # trailing comment
`
	src := NewLibSVMSource[float64](strings.NewReader(data), true)
	if err := src.Start(); err != nil {
		t.Fatal(err)
	}

	want := []struct {
		label float64
		vec   SparseVector[float64]
	}{
		{1, SparseVector[float64]{{3, 2.5}, {7, -1}, {12, 4}}},
		{-1, SparseVector[float64]{{1, 0.5}}},
		{1, SparseVector[float64]{{9, 3}}},
	}
	for k, w := range want {
		vec, label, ok, err := src.Next()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatalf("example %d: unexpected exhaustion", k)
		}
		if label != w.label {
			t.Errorf("example %d: label %v, want %v", k, label, w.label)
		}
		if len(vec) != len(w.vec) {
			t.Fatalf("example %d: %d entries, want %d", k, len(vec), len(w.vec))
		}
		for i := range vec {
			if vec[i] != w.vec[i] {
				t.Errorf("example %d entry %d: %v, want %v", k, i, vec[i], w.vec[i])
			}
		}
	}
	if _, _, ok, _ := src.Next(); ok {
		t.Error("Next past end returned ok")
	}
	if src.Seekable() {
		t.Error("reader-backed source must not be seekable")
	}
	if err := src.Reset(); !errors.Is(err, shogunerrors.ErrNotSeekable) {
		t.Errorf("Reset: got %v, want ErrNotSeekable", err)
	}
}

func TestLibSVMUnlabelled(t *testing.T) {
	src := NewLibSVMSource[float64](strings.NewReader("4:1 5:2\n"), false)
	if err := src.Start(); err != nil {
		t.Fatal(err)
	}
	vec, label, ok, err := src.Next()
	if err != nil || !ok {
		t.Fatalf("Next: ok=%v err=%v", ok, err)
	}
	if label != 0 {
		t.Errorf("unlabelled label = %v, want 0", label)
	}
	if len(vec) != 2 {
		t.Fatalf("got %v", vec)
	}
}

func TestLibSVMMalformed(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"bad label", "abc 1:2\n"},
		{"missing colon", "1 34\n"},
		{"bad index", "1 x:2\n"},
		{"bad value", "1 3:x\n"},
		{"empty value", "1 3:\n"},
		{"negative index", "1 -3:2\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := NewLibSVMSource[float64](strings.NewReader(tc.data), true)
			if err := src.Start(); err != nil {
				t.Fatal(err)
			}
			_, _, _, err := src.Next()
			if !errors.Is(err, shogunerrors.ErrMalformedRecord) {
				t.Errorf("Next = %v, want ErrMalformedRecord", err)
			}
		})
	}
}

func TestLibSVMFileReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.svm")
	if err := os.WriteFile(path, []byte("1 3:2 7:5\n-1 4:1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := OpenLibSVM[float64](path, true)
	if err != nil {
		t.Fatal(err)
	}
	if !src.Seekable() {
		t.Fatal("path-backed source must be seekable")
	}

	p, err := NewPipeline[float64](src, 64, WithLabels())
	if err != nil {
		t.Fatal(err)
	}

	stream := func() []float64 {
		t.Helper()
		if err := p.Start(); err != nil {
			t.Fatal(err)
		}
		var labels []float64
		for p.Advance() {
			labels = append(labels, p.Label())
			p.Release()
		}
		if err := p.Err(); err != nil {
			t.Fatal(err)
		}
		if err := p.Stop(); err != nil {
			t.Fatal(err)
		}
		return labels
	}

	first := stream()
	second := stream()
	want := []float64{1, -1}
	for _, got := range [][]float64{first, second} {
		if len(got) != len(want) {
			t.Fatalf("labels = %v, want %v", got, want)
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("labels = %v, want %v", got, want)
			}
		}
	}
}

func TestOpenLibSVMMissingFile(t *testing.T) {
	if _, err := OpenLibSVM[float64](filepath.Join(t.TempDir(), "absent.svm"), true); err == nil {
		t.Error("expected error for missing file")
	}
}
