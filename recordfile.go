package shogun

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"
	shogunerrors "github.com/NanuSai/shogun/errors"
)

const (
	// recordMagic identifies shogun record files ("SHRF" in little-endian).
	recordMagic = uint32(0x53485246)

	// recordVersion is the current format version.
	recordVersion = uint16(0x0001)

	// recordHeaderSize is the exact size of the serialized header.
	recordHeaderSize = 32

	// recordFooterSize holds the xxhash64 checksum of the record region.
	recordFooterSize = 8

	// flagLabelled marks files whose records carry a trailing label.
	flagLabelled = uint8(1 << 0)

	// maxRecordEntries bounds a single record's entry count, keeping the
	// per-record byte length well inside int range on 32-bit platforms.
	maxRecordEntries = 1 << 27
)

// recordHeader is the fixed-size file header.
//
// Layout:
//
//	Offset  Size  Field        Type
//	0       4     Magic        0x53485246 ("SHRF")
//	4       2     Version      0x0001
//	6       1     ElementKind  uint8 (reflect.Kind of the element type)
//	7       1     Flags        uint8 (bit 0: labelled)
//	8       8     Count        uint64_le (number of records)
//	16      16    Reserved     [16]byte (zero)
//
// Records follow the header: each is a uint32 entry count, then that many
// (uint32 index, float64 value) pairs, then a float64 label when the
// labelled flag is set. An 8-byte xxhash64 checksum of the record region
// closes the file.
type recordHeader struct {
	Magic       uint32
	Version     uint16
	ElementKind uint8
	Flags       uint8
	Count       uint64
	Reserved    [16]byte
}

func (h *recordHeader) encodeTo(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	buf[6] = h.ElementKind
	buf[7] = h.Flags
	binary.LittleEndian.PutUint64(buf[8:16], h.Count)
	copy(buf[16:32], h.Reserved[:])
}

func decodeRecordHeader(buf []byte) (*recordHeader, error) {
	if len(buf) < recordHeaderSize {
		return nil, shogunerrors.ErrTruncatedFile
	}
	h := &recordHeader{
		Magic:       binary.LittleEndian.Uint32(buf[0:4]),
		Version:     binary.LittleEndian.Uint16(buf[4:6]),
		ElementKind: buf[6],
		Flags:       buf[7],
		Count:       binary.LittleEndian.Uint64(buf[8:16]),
	}
	if h.Magic != recordMagic {
		return nil, shogunerrors.ErrInvalidMagic
	}
	if h.Version != recordVersion {
		return nil, shogunerrors.ErrUnsupportedVersion
	}
	return h, nil
}

// recordSize returns the encoded byte length of one record.
func recordSize(entries int, labelled bool) int {
	n := 4 + entries*12
	if labelled {
		n += 8
	}
	return n
}

// RecordWriter streams sparse vectors into a record file. Values are stored
// as float64 regardless of the element type; the element kind is recorded
// in the header and checked on open.
//
// Usage:
//
//	w, err := shogun.NewRecordWriter[float64]("train.shrf", true)
//	if err != nil { return err }
//	defer w.Close() // Clean up on error
//
//	for i, vec := range vecs {
//	    if err := w.Add(vec, labels[i]); err != nil { return err }
//	}
//	return w.Finish()
type RecordWriter[T Element] struct {
	f        *os.File
	w        *bufio.Writer
	digest   *xxhash.Digest
	scratch  []byte
	count    uint64
	labelled bool
	finished bool
	closed   bool
}

// NewRecordWriter creates path and prepares it for record streaming,
// truncating any existing file.
func NewRecordWriter[T Element](path string, labelled bool) (*RecordWriter[T], error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create record file: %w", err)
	}
	// Header placeholder; the real header is written by Finish once the
	// record count is known.
	if _, err := f.Write(make([]byte, recordHeaderSize)); err != nil {
		return nil, errors.Join(fmt.Errorf("write header placeholder: %w", err), f.Close())
	}
	return &RecordWriter[T]{
		f:        f,
		w:        bufio.NewWriter(f),
		digest:   xxhash.New(),
		labelled: labelled,
	}, nil
}

// Add appends one sparse vector, and its label for labelled files. The
// label argument is ignored for unlabelled files.
func (rw *RecordWriter[T]) Add(vec SparseVector[T], label float64) error {
	if rw.closed || rw.finished {
		return shogunerrors.ErrWriterClosed
	}
	if len(vec) > maxRecordEntries {
		return shogunerrors.ErrTooManyEntries
	}

	size := recordSize(len(vec), rw.labelled)
	if cap(rw.scratch) < size {
		rw.scratch = make([]byte, size)
	}
	buf := rw.scratch[:size]

	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(vec)))
	off := 4
	for _, e := range vec {
		binary.LittleEndian.PutUint32(buf[off:off+4], e.Index)
		binary.LittleEndian.PutUint64(buf[off+4:off+12], math.Float64bits(float64(e.Value)))
		off += 12
	}
	if rw.labelled {
		binary.LittleEndian.PutUint64(buf[off:off+8], math.Float64bits(label))
	}

	if _, err := rw.w.Write(buf); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	_, _ = rw.digest.Write(buf) // xxhash.Digest.Write never fails
	rw.count++
	return nil
}

// Finish writes the checksum footer and the final header, then closes the
// file. The writer is unusable afterwards.
func (rw *RecordWriter[T]) Finish() error {
	if rw.closed || rw.finished {
		return shogunerrors.ErrWriterClosed
	}
	rw.finished = true

	var footer [recordFooterSize]byte
	binary.LittleEndian.PutUint64(footer[:], rw.digest.Sum64())
	if _, err := rw.w.Write(footer[:]); err != nil {
		return errors.Join(fmt.Errorf("write footer: %w", err), rw.f.Close())
	}
	if err := rw.w.Flush(); err != nil {
		return errors.Join(fmt.Errorf("flush records: %w", err), rw.f.Close())
	}

	hdr := recordHeader{
		Magic:       recordMagic,
		Version:     recordVersion,
		ElementKind: elementKind[T](),
		Count:       rw.count,
	}
	if rw.labelled {
		hdr.Flags |= flagLabelled
	}
	var buf [recordHeaderSize]byte
	hdr.encodeTo(buf[:])
	if _, err := rw.f.WriteAt(buf[:], 0); err != nil {
		return errors.Join(fmt.Errorf("write header: %w", err), rw.f.Close())
	}
	return rw.f.Close()
}

// Close releases the writer without finalizing the file. Safe to call after
// Finish; useful with defer for cleanup on error paths. A file that was not
// finished is left partial and should be removed by the caller.
func (rw *RecordWriter[T]) Close() error {
	if rw.closed || rw.finished {
		return nil
	}
	rw.closed = true
	return rw.f.Close()
}

// RecordSource reads a record file through a read-only memory mapping and
// implements Source. The whole file is validated on open (magic, version,
// element kind, checksum, record framing), so Next never fails mid-stream.
// A RecordSource is seekable: the pipeline can replay it from the start.
type RecordSource[T Element] struct {
	mm       mmap.MMap
	records  []byte
	labelled bool
	count    uint64
	pos      int
	read     uint64
	closed   bool
}

// OpenRecords opens and validates a record file written by RecordWriter.
// The element type must match the one the file was written with.
func OpenRecords[T Element](path string) (*RecordSource[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open record file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat record file: %w", err)
	}
	if stat.Size() < recordHeaderSize+recordFooterSize {
		return nil, shogunerrors.ErrTruncatedFile
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap record file: %w", err)
	}
	src, err := newRecordSource[T](mm)
	if err != nil {
		return nil, errors.Join(err, mm.Unmap())
	}
	return src, nil
}

func newRecordSource[T Element](mm mmap.MMap) (*RecordSource[T], error) {
	data := []byte(mm)
	hdr, err := decodeRecordHeader(data[:recordHeaderSize])
	if err != nil {
		return nil, err
	}
	if hdr.ElementKind != elementKind[T]() {
		return nil, shogunerrors.ErrElementKindMismatch
	}
	labelled := hdr.Flags&flagLabelled != 0

	records := data[recordHeaderSize : len(data)-recordFooterSize]
	checksum := binary.LittleEndian.Uint64(data[len(data)-recordFooterSize:])
	if xxhash.Sum64(records) != checksum {
		return nil, shogunerrors.ErrChecksumMismatch
	}

	// Walk the framing once so Next can decode without bounds surprises.
	off := 0
	for i := uint64(0); i < hdr.Count; i++ {
		if off+4 > len(records) {
			return nil, shogunerrors.ErrTruncatedFile
		}
		entries := int(binary.LittleEndian.Uint32(records[off : off+4]))
		if entries > maxRecordEntries {
			return nil, shogunerrors.ErrMalformedRecord
		}
		off += recordSize(entries, labelled)
		if off > len(records) {
			return nil, shogunerrors.ErrTruncatedFile
		}
	}
	if off != len(records) {
		return nil, shogunerrors.ErrRecordCountMismatch
	}

	// Advise over the whole mapping: madvise requires a page-aligned
	// address and the record region starts mid-page.
	madviseSequential(data)

	return &RecordSource[T]{
		mm:       mm,
		records:  records,
		labelled: labelled,
		count:    hdr.Count,
	}, nil
}

// Labelled reports whether the file's records carry labels.
func (s *RecordSource[T]) Labelled() bool { return s.labelled }

// Count returns the number of records in the file.
func (s *RecordSource[T]) Count() uint64 { return s.count }

func (s *RecordSource[T]) Start() error {
	if s.closed {
		return shogunerrors.ErrSourceClosed
	}
	return nil
}

func (s *RecordSource[T]) Next() (SparseVector[T], float64, bool, error) {
	if s.closed || s.read == s.count {
		return nil, 0, false, nil
	}

	buf := s.records[s.pos:]
	entries := int(binary.LittleEndian.Uint32(buf[0:4]))
	vec := make(SparseVector[T], entries)
	off := 4
	for i := range vec {
		vec[i].Index = binary.LittleEndian.Uint32(buf[off : off+4])
		vec[i].Value = T(math.Float64frombits(binary.LittleEndian.Uint64(buf[off+4 : off+12])))
		off += 12
	}
	var label float64
	if s.labelled {
		label = math.Float64frombits(binary.LittleEndian.Uint64(buf[off : off+8]))
		off += 8
	}

	s.pos += off
	s.read++
	return vec, label, true, nil
}

// Finalize is a no-op: each Next returns a freshly decoded vector.
func (s *RecordSource[T]) Finalize() {}

// Stop is a no-op; the mapping stays valid so the stream can be replayed.
// Use Close to release the mapping.
func (s *RecordSource[T]) Stop() error { return nil }

func (s *RecordSource[T]) Seekable() bool { return true }

func (s *RecordSource[T]) Reset() error {
	if s.closed {
		return shogunerrors.ErrSourceClosed
	}
	s.pos = 0
	s.read = 0
	return nil
}

// Close unmaps the file. The source must not be used afterwards.
func (s *RecordSource[T]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.mm.Unmap()
}
