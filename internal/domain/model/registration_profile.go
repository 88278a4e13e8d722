package model

import "time"

// RegistrationProfile is a pending account awaiting email activation.
// The activation key expires a fixed window after registration.
type RegistrationProfile struct {
	ID int64 `json:"id"`
	Identity
	Address
	PasswordHash     string     `json:"-"`
	IPAddress        string     `json:"-"`
	ActivationKey    string     `json:"-"`
	RegistrationDate time.Time  `json:"registration_date"`
	ActivationDate   *time.Time `json:"activation_date,omitempty"`
	ExpirationDate   time.Time  `json:"expiration_date"`
}

func (p *RegistrationProfile) Activated() bool {
	return p.ActivationDate != nil
}

func (p *RegistrationProfile) Expired(now time.Time) bool {
	return now.After(p.ExpirationDate)
}
