package repository

import "github.com/misasha/hotel-reservation/internal/model"

// Calendar owns the logical server date. The whole service shares one
// calendar; it only moves forward, and only through the admin passDay
// command. All conflict and expiry calculations read from here rather than
// the wall clock.
type Calendar struct {
	today model.Date
}

// NewCalendar starts the calendar at the given day.
func NewCalendar(start model.Date) *Calendar {
	return &Calendar{today: start}
}

// Today returns the current server date.
func (c *Calendar) Today() model.Date {
	return c.today
}

// Advance moves the server date forward by n days and returns the new date.
func (c *Calendar) Advance(n int) model.Date {
	c.today = c.today.AddDays(n)
	return c.today
}
