package abci

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/jeeves-cluster-organization/abci-core/abci/observability"
	"github.com/jeeves-cluster-organization/abci-core/abci/queue"
	"github.com/jeeves-cluster-organization/abci-core/abci/recovery"
	"github.com/jeeves-cluster-organization/abci-core/abci/types"
	"github.com/jeeves-cluster-organization/abci-core/abci/wire"
)

// conn is one accepted ABCI socket: its own read loop, its own classification
// state, its own ordered processor. Nothing here is shared between
// connections except the Resolver and Logger handed to it at construction.
type conn struct {
	id      string
	netConn net.Conn
	logger  Logger
	resolve Resolver

	ctx    context.Context
	cancel context.CancelFunc

	decoder wire.Decoder

	// classification state, set at most once by the read goroutine before
	// any concurrent work exists, so no lock is needed to read kind/proc
	// from within request-handling closures scheduled after that point.
	kind Kind
	proc queue.Processor

	handlerOnce sync.Once
	handler     any
	handlerErr  error

	writeMu sync.Mutex

	closeOnce   sync.Once
	closeReason string

	onClose func(c *conn)
}

func newConn(netConn net.Conn, resolver Resolver, logger Logger, onClose func(c *conn)) *conn {
	ctx, cancel := context.WithCancel(context.Background())
	if logger == nil {
		logger = NopLogger{}
	}
	return &conn{
		id:      uuid.NewString(),
		netConn: netConn,
		logger:  logger,
		resolve: resolver,
		ctx:     ctx,
		cancel:  cancel,
		onClose: onClose,
	}
}

// serve runs the connection's read loop until EOF, a framing error, or
// abort is called from an asynchronous handler completion. A panic inside a
// handler invocation is converted into a logged HandlerFailure and only
// this connection is aborted; the server and sibling connections are
// unaffected.
func (c *conn) serve() {
	observability.ConnectionsOpenedTotal.WithLabelValues("none").Inc()
	observability.ConnectionsOpen.WithLabelValues("none").Inc()

	defer func() {
		observability.ConnectionsOpen.WithLabelValues(c.kind.String()).Dec()
		reason := c.closeReason
		if reason == "" {
			reason = "eof"
		}
		observability.ConnectionsClosedTotal.WithLabelValues(c.kind.String(), reason).Inc()
		c.abort(reason, nil)
		if c.onClose != nil {
			c.onClose(c)
		}
	}()

	buf := make([]byte, 64*1024)
	for {
		n, err := c.netConn.Read(buf)
		if n > 0 {
			c.decoder.Feed(buf[:n])
			if loopErr := c.drainFrames(); loopErr != nil {
				c.abort(closeReason(loopErr), loopErr)
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && c.closeReason == "" {
				c.logger.Warn("connection_read_error", "connection_id", c.id, "error", err.Error())
			}
			return
		}
	}
}

// abort idempotently tears the connection down: cancels its context (so
// in-flight Work observes cancellation) and closes the socket. Safe to call
// from the read goroutine or from a processor's Done callback.
func (c *conn) abort(reason string, err error) {
	c.closeOnce.Do(func() {
		c.closeReason = reason
		if err != nil {
			c.logger.Error("connection_aborted", "connection_id", c.id, "reason", reason, "error", err.Error())
		}
		c.cancel()
		c.netConn.Close()
	})
}

func closeReason(err error) string {
	switch {
	case errors.Is(err, ErrFramingError):
		return "framing_error"
	case errors.Is(err, ErrUnknownMethod):
		return "unknown_method"
	case errors.Is(err, ErrHandlerFailure):
		return "handler_failure"
	default:
		return "error"
	}
}

// drainFrames decodes and dispatches every complete frame currently
// buffered. It is only ever called from the connection's single read
// goroutine, so frames are always processed in arrival order. It returns an
// error only for a synchronous, unrecoverable problem: a malformed frame
// (ErrFramingError) or a payload that does not decode as a known request
// (ErrUnknownMethod); handler failures surfaced asynchronously go through
// abort instead.
func (c *conn) drainFrames() error {
	for {
		payload, ok, err := c.decoder.Next()
		if err != nil {
			return ErrFramingError
		}
		if !ok {
			return nil
		}
		req, err := types.UnmarshalRequest(payload)
		if err != nil {
			return ErrUnknownMethod
		}
		c.dispatch(req)
	}
}

// dispatch handles one decoded request: classification, echo/flush fast
// paths, and routing everything else through the connection's ordered
// processor. It never blocks on handler execution.
func (c *conn) dispatch(req types.Request) {
	if c.kind == KindUnclassified {
		if k := KindForName(req.Name); k != KindUnclassified {
			c.kind = k
			c.proc = newProcessorFor(k)
			observability.ConnectionsOpenedTotal.WithLabelValues(k.String()).Inc()
			observability.ConnectionsOpen.WithLabelValues(k.String()).Inc()
			observability.ConnectionsOpen.WithLabelValues("none").Dec()
			c.logger.Info("connection_classified", "connection_id", c.id, "kind", k.String(), "remote", c.netConn.RemoteAddr().String())
		}
	}

	switch req.Name {
	case types.NameEcho:
		c.handleEcho(req)
	case types.NameFlush:
		c.handleFlush(req)
	default:
		c.handleMethod(req)
	}
}

// handleEcho answers directly, bypassing the ordered processor entirely,
// when nothing is queued ahead of it. Once something is in flight it is
// enqueued like any other request so it cannot race ahead of work already
// in progress.
func (c *conn) handleEcho(req types.Request) {
	msg := req.Value.(*types.RequestEcho).Message
	if c.proc == nil || queueLen(c.proc) == 0 {
		resp := types.Response{Name: types.NameEcho, Value: &types.ResponseEcho{Message: msg}}
		c.writeOrAbort(resp)
		return
	}
	c.proc.Enqueue(c.ctx, func(ctx context.Context) (any, error) {
		return types.Response{Name: types.NameEcho, Value: &types.ResponseEcho{Message: msg}}, nil
	}, c.completionDone())
}

// handleFlush answers directly if there is no processor (nothing has ever
// been classified). Otherwise it is always enqueued as a no-op, even when
// the processor is idle, so it drains only after everything ahead of it
// has, which is all the flush barrier promises.
func (c *conn) handleFlush(req types.Request) {
	if c.proc == nil {
		c.writeOrAbort(types.Response{Name: types.NameFlush, Value: &types.ResponseFlush{}})
		return
	}
	c.proc.Enqueue(c.ctx, func(ctx context.Context) (any, error) {
		return types.Response{Name: types.NameFlush, Value: &types.ResponseFlush{}}, nil
	}, c.completionDone())
}

// handleMethod resolves the handler (once, lazily) and routes req to the
// matching capability method, all inside the processor's Work so execution
// respects the connection's ordering discipline.
func (c *conn) handleMethod(req types.Request) {
	if c.proc == nil {
		c.abort("unknown_method", ErrUnknownMethod)
		return
	}
	c.proc.Enqueue(c.ctx, func(ctx context.Context) (any, error) {
		handler, err := c.resolveHandler(ctx)
		if err != nil {
			return nil, err
		}

		spanCtx, span := observability.StartHandlerSpan(ctx, c.id, string(req.Name))
		defer span.End()

		result, err := recovery.Call(c.logger, string(req.Name), func() (any, error) {
			return invokeHandler(spanCtx, handler, req)
		})

		status := "ok"
		if err != nil {
			status = "error"
		}
		observability.HandlerInvocationsTotal.WithLabelValues(string(req.Name), status).Inc()

		if err != nil {
			return nil, errors.Join(ErrHandlerFailure, err)
		}
		resp, ok := result.(types.Response)
		if !ok {
			return nil, ErrUnknownMethod
		}
		return resp, nil
	}, c.completionDone())
}

// completionDone builds the Done callback shared by every enqueued request:
// write the response on success, abort the connection on failure.
func (c *conn) completionDone() queue.Done {
	return func(result any, err error) {
		if err != nil {
			c.abort(closeReason(err), err)
			return
		}
		c.writeOrAbort(result.(types.Response))
	}
}

func (c *conn) writeOrAbort(resp types.Response) {
	if err := c.writeResponse(resp); err != nil {
		c.abort("write_error", err)
	}
}

func (c *conn) resolveHandler(ctx context.Context) (any, error) {
	c.handlerOnce.Do(func() {
		c.handler, c.handlerErr = c.resolve.Resolve(ctx, c.kind)
	})
	return c.handler, c.handlerErr
}

// writeResponse frames and writes resp to the socket. It is the single
// write path for the connection, serialized so the fast echo path (from the
// read goroutine) and processor drain callbacks (from worker goroutines)
// never interleave their bytes.
func (c *conn) writeResponse(resp types.Response) error {
	payload, err := resp.Marshal()
	if err != nil {
		return err
	}
	frame := wire.Encode(payload)

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, err = c.netConn.Write(frame)
	return err
}

func newProcessorFor(k Kind) queue.Processor {
	if k == KindConsensus {
		return &queue.RequestOrdered{}
	}
	return &queue.ResponseOrdered{}
}

func queueLen(p queue.Processor) int {
	switch v := p.(type) {
	case *queue.RequestOrdered:
		return v.Len()
	case *queue.ResponseOrdered:
		return v.Len()
	default:
		return 0
	}
}
