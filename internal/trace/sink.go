package trace

import (
	"io"
	"sync"
)

func stamp(ev *Event) {
	if ev.Seq == 0 {
		ev.Seq = nextSeq()
	}
}

// writerSink formats each event straight to w.
type writerSink struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
}

func (s *writerSink) Emit(ev *Event) {
	if ev == nil || !s.level.ShouldEmit(ev.Scope, ev.Kind) {
		return
	}
	stamp(ev)
	data := FormatEvent(ev, s.format)

	s.mu.Lock()
	defer s.mu.Unlock()
	// tracing never fails the run
	_, _ = s.w.Write(data)
}

func (s *writerSink) Level() Level { return s.level }

func (s *writerSink) Close() error {
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Backlog keeps the most recent events so they can be printed after a
// failed run.
type Backlog struct {
	mu      sync.Mutex
	buf     []Event
	next    int
	wrapped bool
	level   Level
}

func newBacklog(size int, level Level) *Backlog {
	if size <= 0 {
		size = 4096
	}
	return &Backlog{buf: make([]Event, size), level: level}
}

func (b *Backlog) Emit(ev *Event) {
	if ev == nil || !b.level.ShouldEmit(ev.Scope, ev.Kind) {
		return
	}
	stamp(ev)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf[b.next] = *ev
	b.next++
	if b.next == len(b.buf) {
		b.next = 0
		b.wrapped = true
	}
}

func (b *Backlog) Level() Level { return b.level }

func (b *Backlog) Close() error { return nil }

// events returns the kept events, oldest first.
func (b *Backlog) events() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.wrapped {
		return append([]Event(nil), b.buf[:b.next]...)
	}
	out := make([]Event, 0, len(b.buf))
	out = append(out, b.buf[b.next:]...)
	return append(out, b.buf[:b.next]...)
}

// Dump writes the kept events to w as text, oldest first.
func (b *Backlog) Dump(w io.Writer) error {
	for _, ev := range b.events() {
		if _, err := w.Write(FormatEvent(&ev, FormatText)); err != nil {
			return err
		}
	}
	return nil
}

// tee sends every event to a stream and a backlog with one sequence number.
type tee struct {
	stream  *writerSink
	backlog *Backlog
}

func (t *tee) Emit(ev *Event) {
	if ev == nil {
		return
	}
	stamp(ev)
	t.stream.Emit(ev)
	t.backlog.Emit(ev)
}

func (t *tee) Level() Level { return t.stream.level }

func (t *tee) Close() error { return t.stream.Close() }
