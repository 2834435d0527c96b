package model

// Room is a bookable room. Price is per bed per day; MaxCapacity is the
// number of beds that may be occupied simultaneously. Reservations are
// embedded, matching the persisted rooms file where each room carries its
// reservation list under the "users" key.
type Room struct {
	Number       string        `json:"number"`
	Price        int           `json:"price"`
	MaxCapacity  int           `json:"maxCapacity"`
	Reservations []Reservation `json:"users"`
}

// Modify replaces price and capacity. Capacity validation against existing
// reservations is the repository's job.
func (r *Room) Modify(price, maxCapacity int) {
	r.Price = price
	r.MaxCapacity = maxCapacity
}

// OccupiedBeds sums the beds of reservations that cover the given day.
func (r *Room) OccupiedBeds(day Date) int {
	beds := 0
	for _, res := range r.Reservations {
		if res.Occupies(day) {
			beds += res.NumOfBeds
		}
	}
	return beds
}

// FreeBeds returns the number of beds available on the given day.
func (r *Room) FreeBeds(day Date) int {
	return r.MaxCapacity - r.OccupiedBeds(day)
}

// MaxOccupancy scans each day of [from, to) and returns the highest
// simultaneous bed count. O(days × reservations); date ranges here are
// human-scale stays, not open-ended intervals.
func (r *Room) MaxOccupancy(from, to Date) int {
	maxBeds := 0
	for day := from; day.Before(to); day = day.AddDays(1) {
		if beds := r.OccupiedBeds(day); beds > maxBeds {
			maxBeds = beds
		}
	}
	return maxBeds
}

// LastCheckOut returns the latest checkout date among the room's
// reservations, or fallback when the room is empty.
func (r *Room) LastCheckOut(fallback Date) Date {
	last := fallback
	for _, res := range r.Reservations {
		last = last.Max(res.CheckOut)
	}
	return last
}
