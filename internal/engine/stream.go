package engine

import (
	"github.com/pagelens/pagelens/internal/domain"
)

// Stream is a single-pass sequence of page results. Pages arrive in physical
// page order and each is delivered exactly once; a stream cannot be rewound,
// so consumers that need both the text and the artifacts must share one
// traversal. After Next returns false, Err reports whether the sequence
// ended cleanly or was cut short by a failure.
type Stream struct {
	items chan streamItem
	err   error
}

type streamItem struct {
	page domain.PageResult
	err  error
}

// Producer is the write side of a Stream, held by the engine implementation.
type Producer struct {
	items chan streamItem
}

// NewStream creates a stream and its producer. buffer controls how many
// pages the producer may run ahead of the consumer.
func NewStream(buffer int) (*Stream, *Producer) {
	items := make(chan streamItem, buffer)
	return &Stream{items: items}, &Producer{items: items}
}

// Next returns the next page in order. It reports false once the sequence is
// exhausted or a failure occurred; check Err to distinguish the two.
func (s *Stream) Next() (domain.PageResult, bool) {
	item, ok := <-s.items
	if !ok {
		return domain.PageResult{}, false
	}
	if item.err != nil {
		s.err = item.err
		// Drain so a producer blocked on a buffered send can finish.
		for range s.items {
		}
		return domain.PageResult{}, false
	}
	return item.page, true
}

// Err returns the failure that terminated the stream, or nil after a clean
// end. Only meaningful once Next has returned false.
func (s *Stream) Err() error {
	return s.err
}

// Emit delivers the next page to the consumer, blocking until there is
// buffer space.
func (p *Producer) Emit(page domain.PageResult) {
	p.items <- streamItem{page: page}
}

// Fail terminates the stream with err and closes it. No further Emit or
// Fail calls are allowed.
func (p *Producer) Fail(err error) {
	p.items <- streamItem{err: err}
	close(p.items)
}

// Close ends the stream cleanly. No further Emit or Fail calls are allowed.
func (p *Producer) Close() {
	close(p.items)
}
