package model

import "time"

// Subscriber is a newsletter signup.
type Subscriber struct {
	ID        string
	Name      string
	Email     string
	CreatedAt *time.Time
}

func (s Subscriber) Validate() error {
	if s.Name == "" {
		return NewValidationError("name is required")
	}
	if s.Email == "" {
		return NewValidationError("email is required")
	}
	return nil
}
