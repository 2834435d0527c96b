// Package router maps command names to handler functions and stamps every
// response with the logical server date and the echoed command.
package router

import (
	"go.uber.org/zap"

	"github.com/misasha/hotel-reservation/internal/protocol"
	"github.com/misasha/hotel-reservation/internal/repository"
)

// HandlerFunc handles one command.
type HandlerFunc func(*protocol.Request) protocol.Response

// Dispatcher is the command registry. Dispatch runs on the service loop
// goroutine only, so the table is effectively read-only after setup.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	cal      *repository.Calendar
	log      *zap.Logger
}

// NewDispatcher builds an empty registry over the server calendar.
func NewDispatcher(cal *repository.Calendar, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: map[string]HandlerFunc{},
		cal:      cal,
		log:      log,
	}
}

// Handle registers a command. Registering a name twice replaces the earlier
// handler.
func (d *Dispatcher) Handle(command string, fn HandlerFunc) {
	d.handlers[command] = fn
}

// Timestamp renders the current logical server date for response stamping.
func (d *Dispatcher) Timestamp() string {
	return d.cal.Today().String()
}

// Dispatch resolves and runs the handler for one request, filling in the
// timestamp and command echo. Unknown commands are answered, not dropped.
func (d *Dispatcher) Dispatch(req *protocol.Request) protocol.Response {
	var resp protocol.Response
	fn, ok := d.handlers[req.Command]
	if !ok {
		resp = protocol.Error(protocol.StatusBadCommand, "Bad command", "")
	} else {
		resp = fn(req)
	}
	resp.Timestamp = d.Timestamp()
	resp.Command = req.Command

	d.log.Info("command handled",
		zap.String("command", req.Command),
		zap.Int("status", resp.Status),
		zap.String("user", resp.User))
	return resp
}
