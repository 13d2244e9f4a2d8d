// Package abci implements the ABCI connection protocol engine: framing,
// connection classification, ordered request dispatch and the server
// lifecycle that accepts connections and hands them to an application
// through Resolver.
package abci

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/jeeves-cluster-organization/abci-core/abci/observability"
)

// ServerOptions configures a Server. Zero-value CloseTimeout falls back to
// 300s, matching config.DefaultServerConfig.
type ServerOptions struct {
	CloseTimeout time.Duration

	// SelfStopOnIdle, when true, stops the server automatically once the
	// last open connection closes after at least one connection has been
	// accepted. Off by default.
	SelfStopOnIdle bool
}

// Server accepts ABCI connections on a TCP listener and runs each one
// through the connection protocol engine, dispatching to Resolver.
type Server struct {
	resolver Resolver
	logger   Logger
	opts     ServerOptions

	mu        sync.Mutex
	listener  net.Listener
	conns     map[*conn]struct{}
	started   bool
	stopping  bool
	everOpened bool
}

// NewServer builds a Server that will dispatch classified connections to
// resolver. logger may be nil, in which case logging is a no-op.
func NewServer(resolver Resolver, logger Logger, opts ServerOptions) *Server {
	if opts.CloseTimeout <= 0 {
		opts.CloseTimeout = 300 * time.Second
	}
	if logger == nil {
		logger = NopLogger{}
	}
	return &Server{
		resolver: resolver,
		logger:   logger,
		opts:     opts,
		conns:    make(map[*conn]struct{}),
	}
}

// Start binds host:port and begins accepting connections in a background
// goroutine. It returns once the listener is bound, not once the server
// stops. ErrAlreadyStarted is returned on a second call without an
// intervening Stop.
func (s *Server) Start(host string, port int) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("abci: listen %s: %w", addr, err)
	}
	s.listener = ln
	s.started = true
	s.mu.Unlock()

	s.logger.Info("server_started", "addr", addr)

	go s.acceptLoop(ln)
	return nil
}

func (s *Server) acceptLoop(ln net.Listener) {
	for {
		netConn, err := ln.Accept()
		if err != nil {
			s.mu.Lock()
			stopping := s.stopping
			s.mu.Unlock()
			if stopping {
				return
			}
			s.logger.Warn("accept_error", "error", err.Error())
			return
		}
		s.acceptConn(netConn)
	}
}

func (s *Server) acceptConn(netConn net.Conn) {
	c := newConn(netConn, s.resolver, s.logger, s.handleConnClosed)

	s.mu.Lock()
	s.everOpened = true
	s.conns[c] = struct{}{}
	s.mu.Unlock()

	go c.serve()
}

func (s *Server) handleConnClosed(c *conn) {
	s.mu.Lock()
	delete(s.conns, c)
	remaining := len(s.conns)
	selfStop := s.opts.SelfStopOnIdle && s.everOpened && remaining == 0 && s.started && !s.stopping
	s.mu.Unlock()

	if selfStop {
		s.logger.Info("server_self_stopping", "reason", "idle")
		go s.Stop(context.Background())
	}
}

// Stop closes the listener, aborts every open connection, and blocks until
// they have all drained or CloseTimeout elapses, whichever comes first.
// Calling Stop on a server that was never started, or Stop twice, is a
// harmless no-op.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started || s.stopping {
		s.mu.Unlock()
		return nil
	}
	s.stopping = true
	ln := s.listener
	conns := make([]*conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	if ln != nil {
		ln.Close()
	}
	for _, c := range conns {
		c.abort("server_stop", nil)
	}

	deadlineCtx, cancel := context.WithTimeout(ctx, s.opts.CloseTimeout)
	defer cancel()

	eb := backoff.NewExponentialBackOff()
	eb.MaxInterval = time.Second
	b := backoff.WithContext(eb, deadlineCtx)
	err := backoff.Retry(func() error {
		s.mu.Lock()
		n := len(s.conns)
		s.mu.Unlock()
		if n == 0 {
			return nil
		}
		return fmt.Errorf("abci: %d connections still draining", n)
	}, b)

	s.mu.Lock()
	s.started = false
	s.stopping = false
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("server_stop_timed_out", "error", err.Error())
		return err
	}
	s.logger.Info("server_stopped")
	return nil
}

// Addr returns the server's bound address, or nil if it has not started.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func init() {
	// Touch the observability package so its metrics register even for a
	// server that opens no connections (e.g. an admin-only health check).
	observability.ConnectionsOpen.WithLabelValues("none")
}
