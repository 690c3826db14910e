package model

import "time"

// PickupTimeSlot is a one-hour booking bucket derived from store hours and existing orders.
type PickupTimeSlot struct {
	Time      string
	Start     time.Time
	Available bool
	Capacity  int
	Booked    int
}

// SlotStart truncates t to the beginning of its hour in t's location.
func SlotStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// DayStart truncates t to midnight in t's location.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar date in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
