// Package server accepts connections on the service socket and answers
// each one with a single request-response cycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"usersvc/internal/wire"
)

// Options configures the acceptor.
type Options struct {
	// Addr is the TCP listen address, e.g. "0.0.0.0:8080" or ":0".
	Addr string

	// ReadBufferSize bounds the single read per connection. Longer
	// requests are truncated.
	ReadBufferSize int

	// ReadTimeout and WriteTimeout bound the socket read and write.
	// Zero disables the deadline.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultReadBufferSize is used when Options.ReadBufferSize is not positive.
const DefaultReadBufferSize = 1024

const maxAcceptDelay = time.Second

// Server is the connection acceptor. Each accepted connection is served
// by its own goroutine; connections share nothing but the Handler.
type Server struct {
	opts     Options
	handler  *Handler
	logger   *slog.Logger
	listener net.Listener

	// active tracks in-flight connections so Serve can wait for them.
	active sync.WaitGroup
}

// New creates a server. Call Listen, then Serve.
func New(opts Options, handler *Handler, logger *slog.Logger) *Server {
	if opts.ReadBufferSize <= 0 {
		opts.ReadBufferSize = DefaultReadBufferSize
	}
	return &Server{
		opts:    opts,
		handler: handler,
		logger:  logger,
	}
}

// Listen binds the listening socket.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.opts.Addr, err)
	}
	s.listener = listener
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections until ctx is cancelled, then stops
// accepting and waits for in-flight connections to finish. A failed
// accept is logged and retried after a short backoff. Serve returns nil
// only after cancellation; a listener closed underneath it is an error.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	listener := s.listener

	// Unblock Accept when the context is cancelled.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			listener.Close()
		case <-stop:
		}
	}()

	s.logger.Info("Listening", "addr", listener.Addr().String())

	// In-flight requests finish even after shutdown starts.
	connCtx := context.WithoutCancel(ctx)

	var (
		delay    time.Duration
		serveErr error
	)
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			if errors.Is(err, net.ErrClosed) {
				serveErr = fmt.Errorf("listener on %s closed: %w", listener.Addr(), err)
				break
			}
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else {
				delay *= 2
			}
			if delay > maxAcceptDelay {
				delay = maxAcceptDelay
			}
			s.logger.Error("Accept failed", "error", err, "retryIn", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
			}
			continue
		}
		delay = 0

		s.active.Add(1)
		go func() {
			defer s.active.Done()
			s.handleConnection(connCtx, conn)
		}()
	}

	s.active.Wait()
	s.logger.Info("Stopped accepting connections")
	return serveErr
}

// handleConnection performs one read, one dispatch and one write.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	start := time.Now()
	logger := s.logger.With("conn", uuid.NewString(), "remote", conn.RemoteAddr().String())

	if s.opts.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(start.Add(s.opts.ReadTimeout))
	}

	buf := make([]byte, s.opts.ReadBufferSize)
	n, err := conn.Read(buf)
	if n == 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			logger.Debug("Read failed", "error", err)
		}
		return
	}

	req := wire.ParseRequest(buf[:n])
	resp := s.dispatch(ctx, logger, req)

	if s.opts.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
	}
	if _, err := resp.WriteTo(conn); err != nil {
		logger.Debug("Write failed", "error", err)
	}

	logger.Info("Request",
		"method", req.Method,
		"path", req.Path,
		"status", resp.Status.Code(),
		"duration", time.Since(start),
	)
}

// dispatch runs the handler, turning a panic into a 500 so one bad
// request cannot take down the acceptor.
func (s *Server) dispatch(ctx context.Context, logger *slog.Logger, req *wire.Request) (resp *wire.Response) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("Panic recovered",
				"error", fmt.Sprintf("%v", p),
				"stack", string(debug.Stack()),
			)
			resp = wire.Text(wire.StatusInternalServerError, msgInternal)
		}
	}()
	return s.handler.Handle(ctx, req)
}
