package handler

import (
	"go.uber.org/zap"

	"github.com/misasha/hotel-reservation/internal/logger"
	"github.com/misasha/hotel-reservation/internal/protocol"
	"github.com/misasha/hotel-reservation/internal/utils"
)

// UserHandler serves userInfo, allUsers and editInfo.
type UserHandler struct {
	*Deps
}

func NewUserHandler(deps *Deps) *UserHandler {
	return &UserHandler{Deps: deps}
}

// UserInfo returns the authenticated user's own record, digest excluded.
func (h *UserHandler) UserInfo(req *protocol.Request) protocol.Response {
	user, errResp := h.authenticate(req)
	if errResp != nil {
		return *errResp
	}
	return protocol.Response{
		Status:  protocol.StatusSignedIn,
		Message: "User info",
		User:    uid(user),
		Payload: user.Info(),
	}
}

// AllUsers lists every account. Administrators only.
func (h *UserHandler) AllUsers(req *protocol.Request) protocol.Response {
	user, errResp := h.authenticate(req)
	if errResp != nil {
		return *errResp
	}
	if !user.Admin {
		return accessDenied(uid(user))
	}
	return protocol.Response{
		Status:  protocol.StatusSignedIn,
		Message: "All users",
		User:    uid(user),
		Payload: h.Store.Users.All(),
	}
}

// EditInfo replaces the user's password, phone and address in one shot.
func (h *UserHandler) EditInfo(req *protocol.Request) protocol.Response {
	user, errResp := h.authenticate(req)
	if errResp != nil {
		return *errResp
	}
	password, okP := req.StringArg("password")
	phone, okPh := req.StringArg("phone")
	address, okA := req.StringArg("address")
	if !okP || !okPh || !okA {
		return missingArguments(uid(user))
	}
	plain, ok := decodePassword(password)
	if !ok {
		return protocol.Error(protocol.StatusInvalidValue, "Invalid password encoding", uid(user))
	}
	digest, err := utils.HashPassword(plain, h.Cfg.BcryptCost)
	if err != nil {
		logger.Logger.Error("hash password failed", zap.Error(err))
		return protocol.Error(protocol.StatusInvalidValue, "Invalid password", uid(user))
	}
	user.EditInfo(digest, phone, address)
	_ = h.Store.Commit()
	return protocol.Response{
		Status:  protocol.StatusUserInfoChanged,
		Message: "User info edited successfully",
		User:    uid(user),
	}
}
