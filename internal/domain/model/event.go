package model

import "time"

// Event is described by a name, a description and a registration period.
type Event struct {
	ID                 int64      `json:"id"`
	Name               string     `json:"name"`
	Slug               string     `json:"slug"`
	Description        string     `json:"description"`
	RegistrationOpens  time.Time  `json:"registration_opens"`
	RegistrationCloses time.Time  `json:"registration_closes"`
	LastModified       *time.Time `json:"last_modified,omitempty"`
}

// OpenForRegistration reports whether enrollment is currently offered.
func (e *Event) OpenForRegistration(now time.Time) bool {
	return now.After(e.RegistrationOpens) && now.Before(e.RegistrationCloses)
}
