package usecase

import (
	"time"

	"github.com/polkiloo/storepickup/internal/domain/model"
)

// IsOpen reports whether the store is open at the given instant. The instant's own weekday record is used,
// so the part of an overnight window that falls after midnight is not matched from the previous day.
func IsOpen(store model.Store, at time.Time) bool {
	hours, ok := store.HoursOn(at.Weekday())
	if !ok {
		return false
	}
	open, close, err := hours.Window()
	if err != nil {
		return false
	}
	current := at.Hour()*60 + at.Minute()
	return open <= current && current <= close
}

// slotHours returns the range [first, last) of slot start hours the store offers on the weekday of day.
// Overnight windows are cut at midnight.
func slotHours(store model.Store, day time.Time) (first, last int, ok bool) {
	hours, ok := store.HoursOn(day.Weekday())
	if !ok {
		return 0, 0, false
	}
	open, close, err := hours.Window()
	if err != nil {
		return 0, 0, false
	}
	first, last = open/60, close/60
	if last > 24 {
		last = 24
	}
	return first, last, first < last
}
