package models

import "time"

type Notification struct {
	ID        int       `json:"id"`
	ProfileID int       `json:"profile_id"`
	UserEmail string    `json:"user_email"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
