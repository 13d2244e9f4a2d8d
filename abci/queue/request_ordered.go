package queue

import (
	"context"
	"sync"
)

// RequestOrdered is the strict discipline used for Consensus connections:
// at most one Work item executes at a time, in the exact order it was
// enqueued, and the next item does not start until the current item's Done
// callback has returned. This is the ordering ABCI demands for
// begin_block -> deliver_tx* -> end_block -> commit.
type RequestOrdered struct {
	mu      sync.Mutex
	items   []roqItem
	running bool
}

type roqItem struct {
	work Work
	done Done
}

// Enqueue appends work to the tail of the queue. If no worker loop is
// currently draining the queue, one is started.
func (p *RequestOrdered) Enqueue(ctx context.Context, work Work, done Done) {
	p.mu.Lock()
	p.items = append(p.items, roqItem{work: work, done: done})
	start := !p.running
	if start {
		p.running = true
	}
	p.mu.Unlock()

	if start {
		go p.drain(ctx)
	}
}

func (p *RequestOrdered) drain(ctx context.Context) {
	for {
		p.mu.Lock()
		if len(p.items) == 0 {
			p.running = false
			p.mu.Unlock()
			return
		}
		next := p.items[0]
		p.items = p.items[1:]
		p.mu.Unlock()

		result, err := next.work(ctx)
		next.done(result, err)
	}
}

// Len reports the number of items awaiting execution or completion, for
// introspection/metrics only. It includes the item currently executing, if
// any: drain pops an item off p.items before running its work, so counting
// only p.items would report 0 while that item's handler is still running.
func (p *RequestOrdered) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.items)
	if p.running {
		n++
	}
	return n
}
