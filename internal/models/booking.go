package models

import "time"

// Booking — подтверждённая запись. Создаётся один раз на шаге
// подтверждения и дальше не изменяется.
type Booking struct {
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Service   string    `json:"service"`
	Slot      string    `json:"slot"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
