// Package queue implements the two ordered task-processing disciplines the
// ABCI connection engine schedules handler invocations with: strict
// request-ordered execution (Consensus) and concurrent response-ordered
// execution (Info, Mempool, StateSync). Both guarantee that completions are
// delivered to their Done callback in the exact order Enqueue was called;
// they differ only in whether the underlying Work may run concurrently.
package queue

import "context"

// Work is a unit of handler execution. It is handed the connection's
// context so a server Stop can cancel it cooperatively.
type Work func(ctx context.Context) (any, error)

// Done is invoked, in enqueue order, once Work has produced a result.
type Done func(result any, err error)

// Processor schedules Work and guarantees ordered delivery to Done.
type Processor interface {
	Enqueue(ctx context.Context, work Work, done Done)
}
