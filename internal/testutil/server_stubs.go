package testutil

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
)

// ErrListen is returned by servers built with NewFailingServer.
var ErrListen = errors.New("listen failure")

// StubHTTPServer satisfies the server's listener abstraction without binding a port.
// Counters are atomic because ListenAndServe runs on its own goroutine.
type StubHTTPServer struct {
	AddrVal     string
	HandlerVal  http.Handler
	ListenErr   error
	ShutdownErr error
	// Unblock, when set, makes Shutdown wait for it or for ctx to end.
	Unblock chan struct{}

	listens   atomic.Int32
	shutdowns atomic.Int32
}

// NewClosedServer returns a stub whose ListenAndServe reports a clean close.
func NewClosedServer() *StubHTTPServer {
	return &StubHTTPServer{ListenErr: http.ErrServerClosed}
}

// NewFailingServer returns a stub whose ListenAndServe fails immediately.
func NewFailingServer() *StubHTTPServer {
	return &StubHTTPServer{ListenErr: ErrListen}
}

// NewBlockingServer returns a stub whose Shutdown blocks until unblocked or timed out.
func NewBlockingServer() *StubHTTPServer {
	return &StubHTTPServer{Unblock: make(chan struct{})}
}

func (s *StubHTTPServer) ListenAndServe() error {
	s.listens.Add(1)
	return s.ListenErr
}

func (s *StubHTTPServer) Shutdown(ctx context.Context) error {
	s.shutdowns.Add(1)
	if s.Unblock == nil {
		return s.ShutdownErr
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.Unblock:
		return s.ShutdownErr
	}
}

func (s *StubHTTPServer) Addr() string {
	if s.AddrVal == "" {
		return ":0"
	}
	return s.AddrVal
}

func (s *StubHTTPServer) Handler() http.Handler {
	if s.HandlerVal == nil {
		return http.NotFoundHandler()
	}
	return s.HandlerVal
}

// Listens reports how many times ListenAndServe ran.
func (s *StubHTTPServer) Listens() int { return int(s.listens.Load()) }

// Shutdowns reports how many times Shutdown ran.
func (s *StubHTTPServer) Shutdowns() int { return int(s.shutdowns.Load()) }
