package handler

import (
	"context"
	"errors"

	"github.com/misasha/hotel-reservation/internal/model"
	"github.com/misasha/hotel-reservation/internal/protocol"
	"github.com/misasha/hotel-reservation/internal/queue"
	"github.com/misasha/hotel-reservation/internal/repository"
	queue_publisher "github.com/misasha/hotel-reservation/internal/service"
)

// BookingHandler serves book, cancel, passDay and leaveRoom.
type BookingHandler struct {
	*Deps
}

func NewBookingHandler(deps *Deps) *BookingHandler {
	return &BookingHandler{Deps: deps}
}

// Book reserves beds in a room over [checkInDate, checkOutDate). Checks run
// in order: arguments, dates, room existence, capacity, balance. Only when
// every check passes is the reservation committed and the cost debited.
func (h *BookingHandler) Book(req *protocol.Request) protocol.Response {
	user, errResp := h.authenticate(req)
	if errResp != nil {
		return *errResp
	}
	roomNum, okR := req.StringArg("roomNum")
	checkInStr, okI := req.StringArg("checkInDate")
	checkOutStr, okO := req.StringArg("checkOutDate")
	if !okR || !okI || !okO || !req.HasArgument("numOfBeds") {
		return missingArguments(uid(user))
	}
	beds, ok := req.IntArg("numOfBeds")
	if !ok || beds < 1 {
		return protocol.Error(protocol.StatusBadRequest, "Invalid number of beds", uid(user))
	}
	checkIn, errI := model.ParseDate(checkInStr)
	checkOut, errO := model.ParseDate(checkOutStr)
	if errI != nil || errO != nil {
		return protocol.Error(protocol.StatusBadCommand, "Invalid date", uid(user))
	}
	if !checkIn.Before(checkOut) {
		return protocol.Error(protocol.StatusBadCommand, "Invalid date range", uid(user))
	}

	available, err := h.Store.Rooms.Available(roomNum, beds, checkIn, checkOut)
	if errors.Is(err, repository.ErrRoomNotFound) {
		return protocol.Error(protocol.StatusRoomNotFound, "Room does not exist", uid(user))
	}
	if !available {
		return protocol.Error(protocol.StatusRoomCapacityFull, "Room is full", uid(user))
	}
	cost, _ := h.Store.Rooms.Cost(roomNum, beds)
	if user.Balance < cost {
		return protocol.Error(protocol.StatusBalanceNotEnough, "Not enough balance", uid(user))
	}

	if _, err := h.Store.Rooms.Book(roomNum, user.ID, beds, checkIn, checkOut); err != nil {
		return protocol.Error(protocol.StatusRoomNotFound, "Room does not exist", uid(user))
	}
	user.DecreaseBalance(cost)
	_ = h.Store.Commit()

	event := queue.BookingConfirmedEvent{
		RoomNumber: roomNum,
		UserID:     user.ID,
		NumOfBeds:  beds,
		CheckIn:    checkIn.String(),
		CheckOut:   checkOut.String(),
		TotalCost:  cost,
		ServerDate: h.Store.Calendar.Today().String(),
	}
	go func() {
		_ = queue_publisher.PublishBookingConfirmed(context.Background(), h.Cfg.AMQPURL, event)
	}()

	return protocol.Response{
		Status:  protocol.StatusOK,
		Message: "Room booked",
		User:    uid(user),
	}
}

// Cancel releases beds from one not-yet-started reservation and refunds
// half the released cost. Reservations whose stay has begun cannot be
// cancelled.
func (h *BookingHandler) Cancel(req *protocol.Request) protocol.Response {
	user, errResp := h.authenticate(req)
	if errResp != nil {
		return *errResp
	}
	roomNum, okR := req.StringArg("roomNum")
	if !okR || !req.HasArgument("numOfBeds") {
		return missingArguments(uid(user))
	}
	beds, ok := req.IntArg("numOfBeds")
	if !ok || beds < 1 {
		return protocol.Error(protocol.StatusInvalidValue, "Invalid number of beds", uid(user))
	}
	if _, found := h.Store.Rooms.Get(roomNum); !found {
		return protocol.Error(protocol.StatusRoomNotFound, "Room does not exist", uid(user))
	}
	_, err := h.Store.Rooms.Cancel(roomNum, user.ID, beds, h.Store.Calendar.Today())
	if err != nil {
		if h.Store.Rooms.HasReservation(roomNum, user.ID, beds) {
			return protocol.Error(protocol.StatusReservationNotFound, "Reservation already started", uid(user))
		}
		return protocol.Error(protocol.StatusReservationNotFound, "Reservation does not exist", uid(user))
	}
	cost, _ := h.Store.Rooms.Cost(roomNum, beds)
	refund := cost / 2
	user.IncreaseBalance(refund)
	_ = h.Store.Commit()

	event := queue.ReservationCancelledEvent{
		RoomNumber: roomNum,
		UserID:     user.ID,
		NumOfBeds:  beds,
		Refund:     refund,
		ServerDate: h.Store.Calendar.Today().String(),
	}
	go func() {
		_ = queue_publisher.PublishReservationCancelled(context.Background(), h.Cfg.AMQPURL, event)
	}()

	return protocol.Response{
		Status:  protocol.StatusCancelOK,
		Message: "Reservation cancelled",
		User:    uid(user),
	}
}

// PassDay advances the logical server date. Administrators only; argument
// validation runs before the access check. Reservations whose checkout falls
// on or before the new date are checked out with no refund.
func (h *BookingHandler) PassDay(req *protocol.Request) protocol.Response {
	user, errResp := h.authenticate(req)
	if errResp != nil {
		return *errResp
	}
	if !req.HasArgument("numOfDays") {
		return missingArguments(uid(user))
	}
	if !user.Admin {
		return accessDenied(uid(user))
	}
	days, ok := req.IntArg("numOfDays")
	if !ok || days < 1 {
		return protocol.Error(protocol.StatusInvalidValue, "Invalid days", uid(user))
	}
	h.Store.Calendar.Advance(days)
	h.Store.Rooms.CheckOutExpired(h.Store.Calendar.Today())
	_ = h.Store.Commit()
	return protocol.Response{
		Status:  protocol.StatusOK,
		Message: "Passed days successfully",
		User:    uid(user),
	}
}

// LeaveRoom checks the user out of a room they currently occupy. Voluntary
// early checkout carries no refund.
func (h *BookingHandler) LeaveRoom(req *protocol.Request) protocol.Response {
	user, errResp := h.authenticate(req)
	if errResp != nil {
		return *errResp
	}
	roomNum, ok := req.StringArg("roomNum")
	if !ok {
		return missingArguments(uid(user))
	}
	_, err := h.Store.Rooms.Leave(roomNum, user.ID, h.Store.Calendar.Today())
	switch {
	case errors.Is(err, repository.ErrRoomNotFound):
		return protocol.Error(protocol.StatusBadCommand, "Room not found", uid(user))
	case errors.Is(err, repository.ErrNotResident):
		return protocol.Error(protocol.StatusReservationNotFound, "User is not in this room", uid(user))
	}
	_ = h.Store.Commit()
	return protocol.Response{
		Status:  protocol.StatusUserLeftRoom,
		Message: "Left room successfully",
		User:    uid(user),
	}
}
