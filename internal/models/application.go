package models

import "time"

// Application — a candidate's application to a posting.
type Application struct {
	ID        int       `json:"id"`
	OfferID   int       `json:"offer_id"`
	CompanyID int       `json:"company_id"`
	ProfileID int       `json:"profile_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
