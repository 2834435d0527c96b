package model

import "github.com/google/uuid"

// Reservation is a user's claim on a number of beds in a room over the
// half-open interval [CheckIn, CheckOut) — the checkout day itself is free.
//
// ID is a surrogate identifier assigned in memory (on load or creation) and
// never persisted. Two reservations with identical owner, beds and dates are
// otherwise indistinguishable, and cancellation must be able to target
// exactly one of them.
type Reservation struct {
	ID        string `json:"-"`
	UserID    int    `json:"id"`
	NumOfBeds int    `json:"numOfBeds"`
	CheckIn   Date   `json:"checkInDate"`
	CheckOut  Date   `json:"checkOutDate"`
}

// NewReservation builds a reservation with a fresh surrogate id.
func NewReservation(userID, numOfBeds int, checkIn, checkOut Date) Reservation {
	return Reservation{
		ID:        uuid.NewString(),
		UserID:    userID,
		NumOfBeds: numOfBeds,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
	}
}

// Occupies reports whether the reservation holds its beds on the given day.
func (r Reservation) Occupies(day Date) bool {
	return !day.Before(r.CheckIn) && day.Before(r.CheckOut)
}

// Expired reports whether the reservation's stay is over on the given day.
func (r Reservation) Expired(day Date) bool {
	return !r.CheckOut.After(day)
}

// Cancellable reports whether the stay has not yet started on the given day.
func (r Reservation) Cancellable(day Date) bool {
	return day.Before(r.CheckIn)
}
