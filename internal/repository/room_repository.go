package repository

import (
	"sort"

	"github.com/misasha/hotel-reservation/internal/model"
)

// RoomRepo holds all rooms (with their embedded reservations) in memory,
// keyed by room number. Like UserRepo it is only ever touched from the
// service loop.
type RoomRepo struct {
	rooms map[string]*model.Room
}

// NewRoomRepo wraps an already-loaded room set.
func NewRoomRepo(rooms map[string]*model.Room) *RoomRepo {
	if rooms == nil {
		rooms = map[string]*model.Room{}
	}
	return &RoomRepo{rooms: rooms}
}

// Get resolves a room number.
func (r *RoomRepo) Get(number string) (*model.Room, bool) {
	room, ok := r.rooms[number]
	return room, ok
}

// Numbers returns all room numbers in stable order.
func (r *RoomRepo) Numbers() []string {
	nums := make([]string, 0, len(r.rooms))
	for n := range r.rooms {
		nums = append(nums, n)
	}
	sort.Strings(nums)
	return nums
}

// Add registers a new empty room.
func (r *RoomRepo) Add(number string, price, maxCapacity int) error {
	if _, exists := r.rooms[number]; exists {
		return ErrRoomExists
	}
	r.rooms[number] = &model.Room{
		Number:       number,
		Price:        price,
		MaxCapacity:  maxCapacity,
		Reservations: []model.Reservation{},
	}
	return nil
}

// Modify updates price and capacity. Raising capacity is unconditional;
// lowering it must still cover the maximum simultaneous occupancy from the
// server date to the last checkout. Days already behind the server date are
// history and do not constrain the new capacity.
func (r *RoomRepo) Modify(number string, price, maxCapacity int, today model.Date) error {
	room, ok := r.rooms[number]
	if !ok {
		return ErrRoomNotFound
	}
	if maxCapacity < room.MaxCapacity {
		if room.MaxOccupancy(today, room.LastCheckOut(today)) > maxCapacity {
			return ErrRoomFull
		}
	}
	room.Modify(price, maxCapacity)
	return nil
}

// Remove deletes a room. Only rooms holding zero reservations may go.
func (r *RoomRepo) Remove(number string) error {
	room, ok := r.rooms[number]
	if !ok {
		return ErrRoomNotFound
	}
	if len(room.Reservations) > 0 {
		return ErrRoomOccupied
	}
	delete(r.rooms, number)
	return nil
}

// Available reports whether beds more beds fit on every day of
// [checkIn, checkOut).
func (r *RoomRepo) Available(number string, beds int, checkIn, checkOut model.Date) (bool, error) {
	room, ok := r.rooms[number]
	if !ok {
		return false, ErrRoomNotFound
	}
	return room.MaxCapacity-room.MaxOccupancy(checkIn, checkOut) >= beds, nil
}

// Cost returns the price of booking beds for one day in the room.
func (r *RoomRepo) Cost(number string, beds int) (int, error) {
	room, ok := r.rooms[number]
	if !ok {
		return 0, ErrRoomNotFound
	}
	return room.Price * beds, nil
}

// Book commits a reservation. Capacity and balance must have been validated
// by the caller; validation fully precedes mutation.
func (r *RoomRepo) Book(number string, userID, beds int, checkIn, checkOut model.Date) (model.Reservation, error) {
	room, ok := r.rooms[number]
	if !ok {
		return model.Reservation{}, ErrRoomNotFound
	}
	res := model.NewReservation(userID, beds, checkIn, checkOut)
	room.Reservations = append(room.Reservations, res)
	return res, nil
}

// Cancel releases beds from exactly one of the user's not-yet-started
// reservations in the room: the first one holding at least beds beds. A
// partial cancel shrinks it, a full cancel removes it. The affected
// reservation (pre-shrink) is returned so the caller can compute the refund.
func (r *RoomRepo) Cancel(number string, userID, beds int, today model.Date) (model.Reservation, error) {
	room, ok := r.rooms[number]
	if !ok {
		return model.Reservation{}, ErrRoomNotFound
	}
	for i := range room.Reservations {
		res := room.Reservations[i]
		if res.UserID != userID || res.NumOfBeds < beds || !res.Cancellable(today) {
			continue
		}
		if res.NumOfBeds > beds {
			room.Reservations[i].NumOfBeds -= beds
		} else {
			room.Reservations = append(room.Reservations[:i], room.Reservations[i+1:]...)
		}
		return res, nil
	}
	return model.Reservation{}, ErrReservationNotFound
}

// HasReservation reports whether the user holds any reservation of at least
// beds beds in the room, regardless of dates.
func (r *RoomRepo) HasReservation(number string, userID, beds int) bool {
	room, ok := r.rooms[number]
	if !ok {
		return false
	}
	for _, res := range room.Reservations {
		if res.UserID == userID && res.NumOfBeds >= beds {
			return true
		}
	}
	return false
}

// Resident reports whether the user has a reservation active on today's
// date in the room.
func (r *RoomRepo) Resident(number string, userID int, today model.Date) bool {
	room, ok := r.rooms[number]
	if !ok {
		return false
	}
	for _, res := range room.Reservations {
		if res.UserID == userID && res.Occupies(today) {
			return true
		}
	}
	return false
}

// Leave removes all of the user's currently active reservations in the
// room. Voluntary early checkout: no refund.
func (r *RoomRepo) Leave(number string, userID int, today model.Date) (int, error) {
	room, ok := r.rooms[number]
	if !ok {
		return 0, ErrRoomNotFound
	}
	removed := 0
	kept := room.Reservations[:0]
	for _, res := range room.Reservations {
		if res.UserID == userID && res.Occupies(today) {
			removed++
			continue
		}
		kept = append(kept, res)
	}
	room.Reservations = kept
	if removed == 0 {
		return 0, ErrNotResident
	}
	return removed, nil
}

// CheckOutExpired drops every reservation whose checkout is on or before
// today, across all rooms. Runs after each passDay; expired stays carry no
// refund. Returns the removed reservations for event publishing.
func (r *RoomRepo) CheckOutExpired(today model.Date) []model.Reservation {
	var expired []model.Reservation
	for _, room := range r.rooms {
		kept := room.Reservations[:0]
		for _, res := range room.Reservations {
			if res.Expired(today) {
				expired = append(expired, res)
				continue
			}
			kept = append(kept, res)
		}
		room.Reservations = kept
	}
	return expired
}

// RoomView is the client-visible projection of a room. Reservations are
// attached only for administrators.
type RoomView struct {
	Number       string              `json:"number"`
	Price        int                 `json:"price"`
	MaxCapacity  int                 `json:"maxCapacity"`
	Reservations []model.Reservation `json:"reservations,omitempty"`
}

// Views renders rooms in stable order. onlyAvailable filters out rooms with
// no free bed today; includeReservations embeds each room's reservation
// list (admin view).
func (r *RoomRepo) Views(today model.Date, onlyAvailable, includeReservations bool) []RoomView {
	views := make([]RoomView, 0, len(r.rooms))
	for _, number := range r.Numbers() {
		room := r.rooms[number]
		if onlyAvailable && room.FreeBeds(today) <= 0 {
			continue
		}
		v := RoomView{
			Number:      room.Number,
			Price:       room.Price,
			MaxCapacity: room.MaxCapacity,
		}
		if includeReservations {
			v.Reservations = append([]model.Reservation{}, room.Reservations...)
		}
		views = append(views, v)
	}
	return views
}
