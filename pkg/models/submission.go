package models

import "time"

// Submission is a user-submitted game entry. Submissions are an entirely
// separate write path from the scraped catalog and never feed back into it.
type Submission struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Developer   string    `json:"developer"`
	Type        string    `json:"type"`   // "free" or "paid"
	Status      string    `json:"status"` // "released" or "unreleased"
	Link        string    `json:"link,omitempty"`
	Image       string    `json:"image,omitempty"`
	Description string    `json:"description"`
	SubmittedBy string    `json:"submitted_by"`
	SubmittedAt time.Time `json:"submitted_at"`
}
