package dto

import "time"

// AddressResponse is the postal address of a store.
type AddressResponse struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// DayHoursResponse describes opening hours for one weekday.
type DayHoursResponse struct {
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
	Closed bool   `json:"closed"`
}

// StoreResponse describes a pickup location.
type StoreResponse struct {
	ID                         string                      `json:"id"`
	Name                       string                      `json:"name"`
	Address                    AddressResponse             `json:"address"`
	Lat                        float64                     `json:"lat"`
	Lng                        float64                     `json:"lng"`
	Phone                      string                      `json:"phone,omitempty"`
	Hours                      map[string]DayHoursResponse `json:"hours"`
	Capabilities               []string                    `json:"capabilities"`
	PickupAvailable            bool                        `json:"pickup_available"`
	EstimatedPickupTimeMinutes int                         `json:"estimated_pickup_time_minutes"`
	MaxPickupTimeHours         int                         `json:"max_pickup_time_hours"`
	SlotCapacity               int                         `json:"slot_capacity"`
	IsActive                   bool                        `json:"is_active"`
	DistanceKm                 *float64                    `json:"distance_km,omitempty"`
}

// NearbyQuery are the query parameters of the proximity search.
type NearbyQuery struct {
	Lat    *float64 `form:"lat" binding:"omitempty,gte=-90,lte=90"`
	Lng    *float64 `form:"lng" binding:"omitempty,gte=-180,lte=180"`
	Radius *float64 `form:"radius" binding:"omitempty,gte=0"`
}

// OpenResponse reports whether a store is open at an instant.
type OpenResponse struct {
	StoreID string    `json:"store_id"`
	At      time.Time `json:"at"`
	Open    bool      `json:"open"`
}

// SlotResponse is one hourly pickup slot.
type SlotResponse struct {
	Time      string    `json:"time"`
	Start     time.Time `json:"start"`
	Available bool      `json:"available"`
	Capacity  int       `json:"capacity"`
	Booked    int       `json:"booked"`
}

// EstimateResponse is the preparation estimate for an item count.
type EstimateResponse struct {
	StoreID string `json:"store_id"`
	Items   int    `json:"items"`
	Minutes int    `json:"minutes"`
}
