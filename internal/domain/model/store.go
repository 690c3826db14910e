package model

import (
	"fmt"
	"time"
)

const (
	// DefaultSlotCapacity is the number of live orders one hourly slot accepts when a store does not override it.
	DefaultSlotCapacity = 10
	// DefaultMaxPickupTimeHours caps preparation estimates when a store does not override it.
	DefaultMaxPickupTimeHours = 24
	minutesPerDay             = 24 * 60
)

// Point is a geographic coordinate in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Address holds postal details of a store.
type Address struct {
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
}

// DayHours describes opening hours for one weekday. Close may be earlier than Open
// when the store closes after midnight.
type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed,omitempty"`
}

// OpeningHours maps weekdays to their hours. Missing weekdays are treated as closed.
type OpeningHours map[time.Weekday]DayHours

// Store is a fulfillment location customers can pick orders up from.
type Store struct {
	ID                         string
	Name                       string
	Address                    Address
	Location                   Point
	Phone                      string
	Hours                      OpeningHours
	Capabilities               []string
	PickupAvailable            bool
	EstimatedPickupTimeMinutes int
	MaxPickupTimeHours         int
	SlotCapacity               int
	IsActive                   bool
}

// AcceptsPickup reports whether the store takes new pickup orders.
func (s Store) AcceptsPickup() bool {
	return s.IsActive && s.PickupAvailable
}

// MaxPickupHours returns the preparation cap in hours with the default applied.
func (s Store) MaxPickupHours() int {
	if s.MaxPickupTimeHours <= 0 {
		return DefaultMaxPickupTimeHours
	}
	return s.MaxPickupTimeHours
}

// Capacity returns per-slot capacity with the default applied.
func (s Store) Capacity() int {
	if s.SlotCapacity <= 0 {
		return DefaultSlotCapacity
	}
	return s.SlotCapacity
}

// HoursOn returns hours recorded for the weekday; ok is false when the store is closed that day.
func (s Store) HoursOn(day time.Weekday) (DayHours, bool) {
	h, found := s.Hours[day]
	if !found || h.Closed {
		return DayHours{}, false
	}
	return h, true
}

// StoreDistance pairs a store with its distance from a query point.
type StoreDistance struct {
	Store      Store
	DistanceKm float64
}

// ParseClock converts a 24h "HH:MM" string into minutes after midnight.
func ParseClock(value string) (int, error) {
	if len(value) != 5 || value[2] != ':' {
		return 0, fmt.Errorf("invalid clock %q: want HH:MM", value)
	}
	hour, ok := twoDigits(value[0], value[1])
	if !ok || hour > 23 {
		return 0, fmt.Errorf("invalid clock %q: bad hour", value)
	}
	minute, ok := twoDigits(value[3], value[4])
	if !ok || minute > 59 {
		return 0, fmt.Errorf("invalid clock %q: bad minute", value)
	}
	return hour*60 + minute, nil
}

// Window returns open and close minutes for the day. Close is shifted by one day
// when it is numerically earlier than open.
func (h DayHours) Window() (open, close int, err error) {
	if open, err = ParseClock(h.Open); err != nil {
		return 0, 0, err
	}
	if close, err = ParseClock(h.Close); err != nil {
		return 0, 0, err
	}
	if close < open {
		close += minutesPerDay
	}
	return open, close, nil
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}
