package repository

import "errors"

// Sentinel errors returned by the repositories. Handlers map these onto
// protocol status codes with errors.Is.
var (
	ErrUsernameExists      = errors.New("username already exists")
	ErrRoomExists          = errors.New("room already exists")
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomOccupied        = errors.New("room still has reservations")
	ErrRoomFull            = errors.New("not enough free beds")
	ErrReservationNotFound = errors.New("no matching reservation")
	ErrNotResident         = errors.New("user has no active stay in this room")
)
