// Package server implements the TCP front of the service: the framed
// endpoint, the readiness multiplexer and the single-threaded service loop
// that feeds commands to the dispatcher.
package server

import (
	"encoding/json"
	"net"
)

// Endpoint wraps one connection with the wire framing: length-implicit JSON
// values, no delimiters. A streaming json.Decoder frames back-to-back
// values, so one Receive yields exactly one complete message under the
// contract that every message is sent in full before the next.
type Endpoint struct {
	conn net.Conn
	dec  *json.Decoder
}

// NewEndpoint wraps an accepted or dialed connection.
func NewEndpoint(conn net.Conn) *Endpoint {
	return &Endpoint{conn: conn, dec: json.NewDecoder(conn)}
}

// Dial connects to a server endpoint.
func Dial(addr string) (*Endpoint, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return NewEndpoint(conn), nil
}

// Receive blocks until one complete JSON message arrives. io.EOF signals
// orderly peer shutdown; any other error is a transport fault. Either way
// the endpoint is done.
func (e *Endpoint) Receive() (json.RawMessage, error) {
	var raw json.RawMessage
	if err := e.dec.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Send marshals v and writes it in full. No trailing delimiter.
func (e *Endpoint) Send(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = e.conn.Write(raw)
	return err
}

// RemoteAddr returns the peer address.
func (e *Endpoint) RemoteAddr() string {
	return e.conn.RemoteAddr().String()
}

// Close tears the connection down. Safe to call more than once.
func (e *Endpoint) Close() error {
	return e.conn.Close()
}

// Listener accepts inbound connections and wraps them as endpoints.
type Listener struct {
	ln net.Listener
}

// Listen binds and listens on the given address ("host:port"; use port 0
// for an ephemeral port in tests).
func Listen(addr string) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{ln: ln}, nil
}

// Accept blocks for the next connection.
func (l *Listener) Accept() (*Endpoint, error) {
	conn, err := l.ln.Accept()
	if err != nil {
		return nil, err
	}
	return NewEndpoint(conn), nil
}

// Addr returns the bound address, including the resolved port.
func (l *Listener) Addr() string {
	return l.ln.Addr().String()
}

// Close stops accepting. Pending Accept calls return an error.
func (l *Listener) Close() error {
	return l.ln.Close()
}
