package models

import (
	"time"
)

// LocationCheck records a single proximity lookup performed for a user.
type LocationCheck struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	InDanger  bool      `json:"in_danger"`
	CheckedAt time.Time `json:"checked_at"`
}
