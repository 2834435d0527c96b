package handler

import (
	"errors"

	"github.com/misasha/hotel-reservation/internal/protocol"
	"github.com/misasha/hotel-reservation/internal/repository"
)

// RoomHandler serves roomsInfo and the administrator room management
// commands.
type RoomHandler struct {
	*Deps
}

func NewRoomHandler(deps *Deps) *RoomHandler {
	return &RoomHandler{Deps: deps}
}

// RoomsInfo lists rooms. The optional onlyAvailable flag filters out rooms
// with no free bed on the server date. Administrators additionally see each
// room's reservation list.
func (h *RoomHandler) RoomsInfo(req *protocol.Request) protocol.Response {
	user, errResp := h.authenticate(req)
	if errResp != nil {
		return *errResp
	}
	onlyAvailable, _ := req.BoolArg("onlyAvailable")
	views := h.Store.Rooms.Views(h.Store.Calendar.Today(), onlyAvailable, user.Admin)
	return protocol.Response{
		Status:  protocol.StatusSignedIn,
		Message: "Rooms info",
		User:    uid(user),
		Payload: views,
	}
}

// AddRoom creates an empty room. Administrators only; the access check runs
// before argument validation.
func (h *RoomHandler) AddRoom(req *protocol.Request) protocol.Response {
	user, errResp := h.authenticate(req)
	if errResp != nil {
		return *errResp
	}
	if !user.Admin {
		return accessDenied(uid(user))
	}
	roomNum, okR := req.StringArg("roomNum")
	if !okR || !req.HasArgument("price") || !req.HasArgument("maxCapacity") {
		return missingArguments(uid(user))
	}
	price, okP := req.IntArg("price")
	maxCapacity, okC := req.IntArg("maxCapacity")
	if !okP || !okC || price < 0 {
		return protocol.Error(protocol.StatusInvalidValue, "Invalid arguments", uid(user))
	}
	if maxCapacity < 1 {
		return protocol.Error(protocol.StatusInvalidCapacity, "Invalid capacity", uid(user))
	}
	if err := h.Store.Rooms.Add(roomNum, price, maxCapacity); err != nil {
		return protocol.Error(protocol.StatusRoomExists, "Room already exists", uid(user))
	}
	_ = h.Store.Commit()
	return protocol.Response{
		Status:  protocol.StatusRoomAdded,
		Message: "Room added successfully",
		User:    uid(user),
	}
}

// ModifyRoom changes a room's price and capacity. Lowering the capacity
// below the room's committed occupancy is rejected.
func (h *RoomHandler) ModifyRoom(req *protocol.Request) protocol.Response {
	user, errResp := h.authenticate(req)
	if errResp != nil {
		return *errResp
	}
	if !user.Admin {
		return accessDenied(uid(user))
	}
	roomNum, okR := req.StringArg("roomNum")
	if !okR || !req.HasArgument("newPrice") || !req.HasArgument("newMaxCapacity") {
		return missingArguments(uid(user))
	}
	price, okP := req.IntArg("newPrice")
	maxCapacity, okC := req.IntArg("newMaxCapacity")
	if !okP || !okC || price < 0 {
		return protocol.Error(protocol.StatusInvalidValue, "Invalid arguments", uid(user))
	}
	if maxCapacity < 1 {
		return protocol.Error(protocol.StatusInvalidCapacity, "Invalid capacity", uid(user))
	}
	err := h.Store.Rooms.Modify(roomNum, price, maxCapacity, h.Store.Calendar.Today())
	switch {
	case errors.Is(err, repository.ErrRoomNotFound):
		return protocol.Error(protocol.StatusRoomNotFound, "Room not found", uid(user))
	case errors.Is(err, repository.ErrRoomFull):
		return protocol.Error(protocol.StatusRoomCapacityFull, "Room is full", uid(user))
	}
	_ = h.Store.Commit()
	return protocol.Response{
		Status:  protocol.StatusRoomModified,
		Message: "Room modified successfully",
		User:    uid(user),
	}
}

// RemoveRoom deletes a room that holds no reservations.
func (h *RoomHandler) RemoveRoom(req *protocol.Request) protocol.Response {
	user, errResp := h.authenticate(req)
	if errResp != nil {
		return *errResp
	}
	if !user.Admin {
		return accessDenied(uid(user))
	}
	roomNum, ok := req.StringArg("roomNum")
	if !ok {
		return missingArguments(uid(user))
	}
	err := h.Store.Rooms.Remove(roomNum)
	switch {
	case errors.Is(err, repository.ErrRoomNotFound):
		return protocol.Error(protocol.StatusRoomNotFound, "Room not found", uid(user))
	case errors.Is(err, repository.ErrRoomOccupied):
		return protocol.Error(protocol.StatusRoomCapacityFull, "Room is not empty", uid(user))
	}
	_ = h.Store.Commit()
	return protocol.Response{
		Status:  protocol.StatusRoomDeleted,
		Message: "Room deleted successfully",
		User:    uid(user),
	}
}
