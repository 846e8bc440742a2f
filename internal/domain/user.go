package domain

import "time"

// User is the application-level account row. Authentication itself is owned
// by the managed identity provider; this row links its email to the integer
// ID every other table references.
type User struct {
	ID        int64
	Email     string
	Name      string
	CreatedAt time.Time
}

// Destination is a curated destination listing served by the read-only
// catalogue endpoints.
type Destination struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Country     string `json:"country"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
}
