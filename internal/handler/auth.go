package handler

import (
	"go.uber.org/zap"

	"github.com/misasha/hotel-reservation/internal/logger"
	"github.com/misasha/hotel-reservation/internal/protocol"
	"github.com/misasha/hotel-reservation/internal/utils"
)

// AuthHandler serves signin, signup, checkUsername and logout.
type AuthHandler struct {
	*Deps
}

func NewAuthHandler(deps *Deps) *AuthHandler {
	return &AuthHandler{Deps: deps}
}

// Signin verifies credentials and issues a session token. The password
// travels base64-encoded and is decoded before digest verification. A
// fresh signin invalidates any previous session of the same user.
func (h *AuthHandler) Signin(req *protocol.Request) protocol.Response {
	username, okU := req.StringArg("username")
	password, okP := req.StringArg("password")
	if !okU || !okP {
		return missingArguments("")
	}
	user, found := h.Store.Users.FindByUsername(username)
	if !found {
		return protocol.Error(protocol.StatusWrongUserPassword, "Username doesn't exist", "")
	}
	plain, ok := decodePassword(password)
	if !ok || !utils.VerifyPassword(user.Password, plain) {
		return protocol.Error(protocol.StatusWrongUserPassword, "Wrong password", "")
	}
	token, err := h.Sessions.Issue(user.ID)
	if err != nil {
		logger.Logger.Error("issue token failed", zap.Error(err))
		return protocol.Error(protocol.StatusBadRequest, "Failed to create session", "")
	}
	return protocol.Response{
		Status:  protocol.StatusSignedIn,
		Message: "Signed in successfully",
		User:    uid(user),
		Payload: map[string]string{"token": token},
	}
}

// Signup registers a regular user. The username must be free and the
// starting balance a whole number.
func (h *AuthHandler) Signup(req *protocol.Request) protocol.Response {
	username, okU := req.StringArg("username")
	password, okP := req.StringArg("password")
	phone, okPh := req.StringArg("phone")
	address, okA := req.StringArg("address")
	if !okU || !okP || !okPh || !okA || !req.HasArgument("balance") {
		return missingArguments("")
	}
	balance, ok := req.IntArg("balance")
	if !ok {
		return protocol.Error(protocol.StatusBadCommand, "Invalid balance", "")
	}
	if _, exists := h.Store.Users.FindByUsername(username); exists {
		return protocol.Error(protocol.StatusUsernameExists, "Username already exists", "")
	}
	plain, ok := decodePassword(password)
	if !ok {
		return protocol.Error(protocol.StatusInvalidValue, "Invalid password encoding", "")
	}
	digest, err := utils.HashPassword(plain, h.Cfg.BcryptCost)
	if err != nil {
		logger.Logger.Error("hash password failed", zap.Error(err))
		return protocol.Error(protocol.StatusInvalidValue, "Invalid password", "")
	}
	if _, err := h.Store.Users.Create(username, digest, balance, phone, address); err != nil {
		return protocol.Error(protocol.StatusUsernameExists, "Username already exists", "")
	}
	_ = h.Store.Commit()
	return protocol.Response{
		Status:  protocol.StatusSignedUp,
		Message: "Signed up successfully",
	}
}

// CheckUsername reports whether a username is still free. The payload's
// checkUsername flag is true when the name is available.
func (h *AuthHandler) CheckUsername(req *protocol.Request) protocol.Response {
	username, ok := req.StringArg("username")
	if !ok {
		return missingArguments("")
	}
	_, exists := h.Store.Users.FindByUsername(username)
	resp := protocol.Response{
		Payload: map[string]bool{"checkUsername": !exists},
	}
	if exists {
		resp.Status = protocol.StatusUsernameExists
		resp.Message = "Username already exists"
	} else {
		resp.Status = protocol.StatusUsernameDoesNotExist
		resp.Message = "Username is available"
	}
	return resp
}

// Logout revokes the session token.
func (h *AuthHandler) Logout(req *protocol.Request) protocol.Response {
	user, errResp := h.authenticate(req)
	if errResp != nil {
		return *errResp
	}
	token, _ := req.BearerToken()
	h.Sessions.Revoke(token)
	return protocol.Response{
		Status:  protocol.StatusLoggedOut,
		Message: "Logged out successfully",
		User:    uid(user),
	}
}
