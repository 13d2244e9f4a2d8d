package queue

import (
	"context"
	"sync"
)

// ResponseOrdered is the concurrent discipline used for Info, Mempool and
// StateSync connections: Work starts executing as soon as it is enqueued,
// but Done callbacks fire strictly in enqueue order. A peer correlating
// requests and responses on a single socket with no sequence numbers relies
// on this ordering.
type ResponseOrdered struct {
	mu    sync.Mutex
	items []*roItem
}

type roItem struct {
	done Done

	mu       sync.Mutex
	finished bool
	result   any
	err      error
}

// Enqueue starts work immediately in its own goroutine and appends it to
// the tail of the pending-completion queue.
func (p *ResponseOrdered) Enqueue(ctx context.Context, work Work, done Done) {
	it := &roItem{done: done}

	p.mu.Lock()
	p.items = append(p.items, it)
	p.mu.Unlock()

	go func() {
		result, err := work(ctx)

		it.mu.Lock()
		it.finished = true
		it.result = result
		it.err = err
		it.mu.Unlock()

		p.drain()
	}()
}

// drain walks the queue from the head, invoking Done for every contiguous
// run of finished items, and stops at the first item still in flight.
func (p *ResponseOrdered) drain() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.items) > 0 {
		head := p.items[0]

		head.mu.Lock()
		finished, result, err := head.finished, head.result, head.err
		head.mu.Unlock()

		if !finished {
			return
		}

		p.items = p.items[1:]
		head.done(result, err)
	}
}

// Len reports the number of items awaiting completion or drain, for
// introspection/metrics only.
func (p *ResponseOrdered) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}
