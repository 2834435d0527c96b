package protocol

import "math"

// Request is one client command. Token is null (or absent) until the client
// has signed in. Arguments is a free-form object whose shape depends on the
// command; handlers pull values out with the typed accessors below, which
// treat a JSON null the same as a missing key.
type Request struct {
	Command   string         `json:"command"`
	Token     *string        `json:"token"`
	Arguments map[string]any `json:"arguments"`
}

// BearerToken returns the request token, reporting false when the field is
// null, absent or empty.
func (r *Request) BearerToken() (string, bool) {
	if r.Token == nil || *r.Token == "" {
		return "", false
	}
	return *r.Token, true
}

// HasArgument reports whether the named argument is present and non-null.
func (r *Request) HasArgument(name string) bool {
	if r.Arguments == nil {
		return false
	}
	v, ok := r.Arguments[name]
	return ok && v != nil
}

// StringArg returns the named argument as a string.
func (r *Request) StringArg(name string) (string, bool) {
	if !r.HasArgument(name) {
		return "", false
	}
	s, ok := r.Arguments[name].(string)
	return s, ok
}

// IntArg returns the named argument as an integer. encoding/json decodes
// numbers into float64, so whole floats are accepted and anything with a
// fractional part is rejected.
func (r *Request) IntArg(name string) (int, bool) {
	if !r.HasArgument(name) {
		return 0, false
	}
	switch v := r.Arguments[name].(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// BoolArg returns the named argument as a bool.
func (r *Request) BoolArg(name string) (bool, bool) {
	if !r.HasArgument(name) {
		return false, false
	}
	b, ok := r.Arguments[name].(bool)
	return b, ok
}

// Response is the reply to one request. User carries the decimal id of the
// authenticated user or "" for anonymous requests; Timestamp carries the
// logical server date, not wall-clock time. Command echoes the request so
// clients multiplexing calls can correlate replies.
type Response struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	User      string `json:"user"`
	Payload   any    `json:"response"`
	Timestamp string `json:"timestamp"`
	Command   string `json:"command"`
}

// Error builds a payload-less response. Used for every rejection path.
func Error(status int, message, user string) Response {
	return Response{Status: status, Message: message, User: user}
}
