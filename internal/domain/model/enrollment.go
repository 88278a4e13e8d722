package model

import (
	"encoding/json"
	"time"
)

// Enrollment is a user's claim on one seat of one audit.
type Enrollment struct {
	ID             int64      `json:"id"`
	AuditID        int64      `json:"audit_id"`
	UserID         int64      `json:"user_id"`
	EnrollmentDate time.Time  `json:"enrollment_date"`
	Subjects       []string   `json:"subjects"`
	LastModified   *time.Time `json:"last_modified,omitempty"`
}

// EnrollmentDetail is an enrollment joined with the event and location it
// belongs to, for the profile view.
type EnrollmentDetail struct {
	Enrollment
	EventName       string    `json:"event_name"`
	LocationName    string    `json:"location_name"`
	AuditStarts     time.Time `json:"audit_starts"`
	AuditEnds       time.Time `json:"audit_ends"`
	SubjectsDisplay string    `json:"subjects_display"`
}

// EncodeSubjects serializes the subject selection for storage as a JSON
// array of language codes.
func EncodeSubjects(subjects []string) (string, error) {
	raw, err := json.Marshal(subjects)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func DecodeSubjects(raw string) ([]string, error) {
	var subjects []string
	if err := json.Unmarshal([]byte(raw), &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}
