package models

import "time"

// Profile — candidate profile linked 1:1 to a user account.
type Profile struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	UserEmail   string    `json:"user_email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Career      string    `json:"career"`
	CurrentTerm string    `json:"current_term"`
	CreatedAt   time.Time `json:"created_at"`
}
