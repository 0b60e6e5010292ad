package models

import "time"

// Organisation is the tenant boundary. Every other record hangs off one.
type Organisation struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
