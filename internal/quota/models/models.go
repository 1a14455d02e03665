package models

import "time"

// Decision is the outcome of one quota consumption attempt.
type Decision struct {
	Allowed   bool      `json:"allowed"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"resetAt"`
}

// Status is a read-only view of a quota entry.
type Status struct {
	Count   int       `json:"count"`
	ResetAt time.Time `json:"resetAt"`
}
