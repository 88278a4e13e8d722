package model

// Group is a named permission bucket.
type Group struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
