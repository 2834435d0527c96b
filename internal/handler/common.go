// Package handler implements one function per protocol command. Handlers
// validate arguments, resolve identity from the request token, apply the
// business rule against the domain state and produce a structured response.
// Validation fully precedes mutation: no handler changes state and then
// fails.
package handler

import (
	"encoding/base64"
	"strconv"

	"github.com/misasha/hotel-reservation/internal/config"
	"github.com/misasha/hotel-reservation/internal/model"
	"github.com/misasha/hotel-reservation/internal/protocol"
	"github.com/misasha/hotel-reservation/internal/repository"
	"github.com/misasha/hotel-reservation/internal/session"
)

// Deps bundles the state every handler group works against.
type Deps struct {
	Cfg      config.Config
	Store    *repository.Store
	Sessions *session.Store
}

// authenticate resolves the request token to a user. On success the token's
// last-access time is refreshed. On failure the returned response is the
// complete rejection to send.
func (d *Deps) authenticate(req *protocol.Request) (*model.User, *protocol.Response) {
	token, ok := req.BearerToken()
	if !ok {
		resp := protocol.Error(protocol.StatusBadRequest, "Token not provided", "")
		return nil, &resp
	}
	userID, ok := d.Sessions.Resolve(token)
	if !ok {
		resp := protocol.Error(protocol.StatusUnauthorized, "Invalid token", "")
		return nil, &resp
	}
	d.Sessions.Touch(token)
	user, ok := d.Store.Users.GetByID(userID)
	if !ok {
		// A live token always references an existing user; ids are never
		// reused or deleted.
		resp := protocol.Error(protocol.StatusUnauthorized, "Invalid token", "")
		return nil, &resp
	}
	return user, nil
}

// uid renders a user id for the response "user" field.
func uid(u *model.User) string {
	return strconv.Itoa(u.ID)
}

// decodePassword undoes the client's base64 transport encoding.
func decodePassword(encoded string) (string, bool) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", false
	}
	return string(raw), true
}

func missingArguments(user string) protocol.Response {
	return protocol.Error(protocol.StatusBadRequest, "Not enough arguments provided", user)
}

func accessDenied(user string) protocol.Response {
	return protocol.Error(protocol.StatusAccessDenied, "Access denied", user)
}
