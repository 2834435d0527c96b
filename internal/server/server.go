package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"

	"go.uber.org/zap"

	"github.com/misasha/hotel-reservation/internal/middleware"
	"github.com/misasha/hotel-reservation/internal/protocol"
	"github.com/misasha/hotel-reservation/internal/router"
)

// Server runs the service loop: accept connections, read one command per
// ready endpoint, dispatch it to completion, write the response. Dispatch
// is strictly sequential — the domain model is only ever touched from this
// loop — while reads and accepts park in multiplexer goroutines.
type Server struct {
	addr       string
	dispatcher *router.Dispatcher
	limiter    *middleware.RateLimiter
	log        *zap.Logger

	listener *Listener
}

// New builds a server for the given listen address. limiter may be a
// disabled limiter but must not be nil.
func New(addr string, dispatcher *router.Dispatcher, limiter *middleware.RateLimiter, log *zap.Logger) *Server {
	return &Server{addr: addr, dispatcher: dispatcher, limiter: limiter, log: log}
}

// Addr returns the bound listen address once Run has started. Useful with
// port 0 in tests.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr()
}

// Listen binds the listening endpoint. A bind failure is a fatal startup
// fault.
func (s *Server) Listen() error {
	ln, err := Listen(s.addr)
	if err != nil {
		return err
	}
	s.listener = ln
	return nil
}

// Run drives the service loop until the context is cancelled. Listen must
// have been called.
func (s *Server) Run(ctx context.Context) error {
	mux := NewMultiplexer()
	mux.AddListener(s.listener)
	s.log.Info("server started", zap.String("addr", s.Addr()))

	defer func() {
		s.listener.Close()
		mux.Close()
	}()

	for {
		ev, err := mux.Poll(ctx)
		if err != nil {
			return nil // context cancelled: orderly shutdown
		}
		switch {
		case ev.Accepted != nil:
			s.log.Info("client connected", zap.String("remote", ev.Accepted.RemoteAddr()))
			mux.AddRead(ev.Accepted, true)
		case ev.Err != nil:
			if errors.Is(ev.Err, io.EOF) {
				s.log.Info("client disconnected", zap.String("remote", ev.Endpoint.RemoteAddr()))
			} else {
				s.log.Error("receive failed", zap.String("remote", ev.Endpoint.RemoteAddr()), zap.Error(ev.Err))
			}
			mux.Remove(ev.Endpoint)
		default:
			s.serve(ctx, mux, ev.Endpoint, ev.Payload)
		}
	}
}

// serve handles one complete message. Unparseable requests are a transport
// fault: logged, and the connection is dropped.
func (s *Server) serve(ctx context.Context, mux *Multiplexer, ep *Endpoint, payload json.RawMessage) {
	var req protocol.Request
	if err := json.Unmarshal(payload, &req); err != nil {
		s.log.Error("malformed request", zap.String("remote", ep.RemoteAddr()), zap.Error(err))
		mux.Remove(ep)
		return
	}

	var resp protocol.Response
	if !s.limiter.Allow(ctx, clientHost(ep)) {
		resp = protocol.Error(protocol.StatusBadRequest, "Too many requests", "")
		resp.Command = req.Command
		resp.Timestamp = s.dispatcher.Timestamp()
	} else {
		resp = s.dispatcher.Dispatch(&req)
	}

	if err := ep.Send(resp); err != nil {
		s.log.Error("send failed", zap.String("remote", ep.RemoteAddr()), zap.Error(err))
		mux.Remove(ep)
	}
}

// clientHost strips the port so one client maps to one rate-limit bucket
// across connections.
func clientHost(ep *Endpoint) string {
	host, _, err := net.SplitHostPort(ep.RemoteAddr())
	if err != nil {
		return ep.RemoteAddr()
	}
	return host
}
