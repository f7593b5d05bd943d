package models

import "time"

// ConsentRecord is the user's decision about optional tracking categories.
// Essential cookies cannot be declined, so Essential is always true.
type ConsentRecord struct {
	Essential bool      `json:"essential"`
	Analytics bool      `json:"analytics"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// ConsentStatus is the position of the consent state machine.
type ConsentStatus string

const (
	ConsentUnknown        ConsentStatus = "unknown"
	ConsentUndecided      ConsentStatus = "undecided"
	ConsentDecidedAccept  ConsentStatus = "decided-accept"
	ConsentDecidedPartial ConsentStatus = "decided-partial"
)

// ConsentLogEntry is one row of the consent audit trail.
type ConsentLogEntry struct {
	ID        int64
	Analytics bool
	Version   string
	Source    string
	CreatedAt time.Time
}
