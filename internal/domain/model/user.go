package model

import "time"

// User is a customer account that owns pickup orders.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	CreatedAt    time.Time
}
