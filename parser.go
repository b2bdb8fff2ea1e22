package shogun

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// example is one unit of producer output: a raw vector plus its label.
type example[T Element] struct {
	vec   SparseVector[T]
	label float64
}

// parser runs the producer loop. It owns a goroutine that pulls raw vectors
// from the source and feeds them through a bounded channel to the consumer.
// The channel is the read-ahead buffer: the producer blocks once it is
// bufferSize examples ahead of the consumer.
type parser[T Element] struct {
	src        Source[T]
	bufferSize int

	mu      sync.Mutex
	running bool
	started bool // set on first start; restarts rewind seekable sources
	ch      chan example[T]
	cancel  context.CancelFunc
	group   *errgroup.Group

	// err is guarded separately: setErr runs on the producer goroutine,
	// which stop waits on while holding mu.
	errMu sync.Mutex
	err   error // first real producer error, recorded before ch closes
}

func newParser[T Element](src Source[T], bufferSize int) *parser[T] {
	return &parser[T]{src: src, bufferSize: bufferSize}
}

// start launches the producer goroutine. Idempotent: a no-op while the
// producer is already running. Restarting after a stop rewinds seekable
// sources to the beginning.
func (p *parser[T]) start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return nil
	}
	if p.started && p.src.Seekable() {
		if err := p.src.Reset(); err != nil {
			return err
		}
	}
	if err := p.src.Start(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)
	ch := make(chan example[T], p.bufferSize)
	p.ch, p.cancel, p.group = ch, cancel, group
	p.errMu.Lock()
	p.err = nil
	p.errMu.Unlock()
	p.running = true
	p.started = true

	group.Go(func() error {
		defer close(ch)
		return p.pump(ctx, ch)
	})
	return nil
}

// pump is the producer loop body. It exits on source exhaustion, on a real
// source error, or when stop cancels the context while the channel is full.
func (p *parser[T]) pump(ctx context.Context, ch chan<- example[T]) error {
	for {
		vec, label, ok, err := p.src.Next()
		if err != nil {
			if ctx.Err() != nil {
				// Shutdown in progress; source errors caused by it are
				// not stream failures.
				return nil
			}
			p.setErr(err)
			return err
		}
		if !ok {
			return nil
		}
		select {
		case ch <- example[T]{vec: vec, label: label}:
		case <-ctx.Done():
			return nil
		}
	}
}

// next blocks until the producer yields an example or the stream ends.
// ok is false on exhaustion, mid-stream error, or before the first start.
func (p *parser[T]) next() (example[T], bool) {
	p.mu.Lock()
	ch := p.ch
	p.mu.Unlock()
	if ch == nil {
		return example[T]{}, false
	}
	ex, ok := <-ch
	return ex, ok
}

// finalize tells the source the current example's buffer may be reclaimed.
func (p *parser[T]) finalize() {
	p.src.Finalize()
}

// stop cancels the producer, waits for its goroutine to exit, discards any
// read-ahead, and stops the source. Idempotent.
func (p *parser[T]) stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return nil
	}
	p.cancel()
	_ = p.group.Wait() // pump records real errors itself before exiting
	for range p.ch {
		// discard read-ahead so a later start observes a clean stream
	}
	p.running = false
	return p.src.Stop()
}

func (p *parser[T]) setErr(err error) {
	p.errMu.Lock()
	if p.err == nil {
		p.err = err
	}
	p.errMu.Unlock()
}

// lastErr returns the first real producer error seen since the last start.
func (p *parser[T]) lastErr() error {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	return p.err
}
