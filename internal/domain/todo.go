package domain

import "time"

// Todo is the business entity. It does not depend on Gin or the store.
type Todo struct {
	ID          int64
	Title       string
	Description string
	Completed   bool

	CreatedAt time.Time
	UpdatedAt time.Time
	// ExpiresAt is CreatedAt plus the store's retention window. The record
	// is gone for all callers once the clock reaches this instant.
	ExpiresAt time.Time
}

// Stats counts the live todos at one point in time.
type Stats struct {
	Total     int
	Completed int
	Pending   int
}
