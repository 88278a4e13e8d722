package model

import (
	"fmt"
	"time"
)

// Audit is a scheduled exam session, tied to one event and one location.
type Audit struct {
	ID           int64      `json:"id"`
	EventID      int64      `json:"event_id"`
	LocationID   int64      `json:"location_id"`
	Active       bool       `json:"active"`
	Starts       time.Time  `json:"starts"`
	Ends         time.Time  `json:"ends"`
	LastModified *time.Time `json:"last_modified,omitempty"`
}

// AuditSeats is an audit together with its derived seat figures.
type AuditSeats struct {
	Audit
	LocationName   string `json:"location_name"`
	TotalSeats     int    `json:"total_seats"`
	AvailableSeats int    `json:"available_seats"`
}

func (a *AuditSeats) SeatStats() string {
	return fmt.Sprintf("%d/%d", a.AvailableSeats, a.TotalSeats)
}

// SeatsAvailable derives the free-seat count of an audit from its location
// capacity and the number of existing enrollments.
func SeatsAvailable(capacity, enrolled int) int {
	return capacity - enrolled
}
