// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a reservation is committed. It
// carries enough for downstream consumers to log, notify or run analytics
// without querying the server.
type BookingConfirmedEvent struct {
	RoomNumber string `json:"room_number"`
	UserID     int    `json:"user_id"`
	NumOfBeds  int    `json:"num_of_beds"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	TotalCost  int    `json:"total_cost"`
	ServerDate string `json:"server_date"`
}

// ReservationCancelledEvent is published on a successful cancel. Refund is
// the amount credited back (half the released cost).
type ReservationCancelledEvent struct {
	RoomNumber string `json:"room_number"`
	UserID     int    `json:"user_id"`
	NumOfBeds  int    `json:"num_of_beds"`
	Refund     int    `json:"refund"`
	ServerDate string `json:"server_date"`
}
