package model

import "time"

// Location hosts audits. Capacity bounds the seats of every audit held there.
type Location struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Address
	Capacity         int        `json:"capacity"`
	AddressAdditions string     `json:"address_additions,omitempty"`
	MapsURL          string     `json:"maps_url,omitempty"`
	LastModified     *time.Time `json:"last_modified,omitempty"`
}
