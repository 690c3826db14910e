package usecase

import (
	"testing"
	"time"

	"github.com/polkiloo/storepickup/internal/domain/model"
)

func TestIsOpenBoundaries(t *testing.T) {
	store := model.Store{Hours: model.OpeningHours{
		time.Monday:  {Open: "08:00", Close: "22:00"},
		time.Sunday:  {Closed: true},
		time.Tuesday: {Open: "8am", Close: "22:00"},
	}}

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"before open", monday.Add(7*time.Hour + 59*time.Minute), false},
		{"at open", monday.Add(8 * time.Hour), true},
		{"midday", monday.Add(13 * time.Hour), true},
		{"at close", monday.Add(22 * time.Hour), true},
		{"after close", monday.Add(22*time.Hour + time.Minute), false},
		{"closed day", monday.Add(-12 * time.Hour), false},
		{"malformed hours", monday.Add(36 * time.Hour), false},
		{"missing day", monday.Add(3*24*time.Hour + 12*time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOpen(store, tt.at); got != tt.want {
				t.Fatalf("IsOpen(%s) = %v, want %v", tt.at.Format(time.RFC3339), got, tt.want)
			}
		})
	}
}

func TestIsOpenOvernightUsesTheInstantsOwnDay(t *testing.T) {
	friday := monday.AddDate(0, 0, 4)
	store := model.Store{Hours: model.OpeningHours{
		time.Friday:   {Open: "22:00", Close: "02:00"},
		time.Saturday: {Open: "09:00", Close: "17:00"},
	}}

	if !IsOpen(store, friday.Add(23*time.Hour+30*time.Minute)) {
		t.Fatal("expected friday 23:30 to be open")
	}
	// 01:00 on Saturday is looked up in Saturday's record, so Friday's overnight window does not cover it.
	if IsOpen(store, friday.Add(25*time.Hour)) {
		t.Fatal("expected saturday 01:00 to be reported closed")
	}
	if IsOpen(store, friday.Add(time.Hour)) {
		t.Fatal("expected friday 01:00 to be closed")
	}
}

func TestSlotHours(t *testing.T) {
	tests := []struct {
		name        string
		hours       model.DayHours
		first, last int
		ok          bool
	}{
		{"regular", model.DayHours{Open: "08:00", Close: "22:00"}, 8, 22, true},
		{"partial hours", model.DayHours{Open: "08:30", Close: "17:45"}, 8, 17, true},
		{"overnight cut at midnight", model.DayHours{Open: "20:00", Close: "02:00"}, 20, 24, true},
		{"closed", model.DayHours{Closed: true}, 0, 0, false},
		{"shorter than an hour", model.DayHours{Open: "10:00", Close: "10:30"}, 10, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := model.Store{Hours: model.OpeningHours{time.Monday: tt.hours}}
			first, last, ok := slotHours(store, monday)
			if ok != tt.ok || (ok && (first != tt.first || last != tt.last)) {
				t.Fatalf("slotHours = %d, %d, %v; want %d, %d, %v", first, last, ok, tt.first, tt.last, tt.ok)
			}
		})
	}
}
