package domain

import "time"

// Course is the marketplace's representative owned resource. Ownership
// decisions compare AuthorID against the requesting identity.
type Course struct {
	ID          string
	AuthorID    string
	Title       string
	Description string
	PriceCents  int64
	Published   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
