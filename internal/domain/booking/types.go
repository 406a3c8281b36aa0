package booking

import (
	"context"
	"time"
)

// Outcome classifies a single booking attempt. Every failure mode the
// site can produce collapses into one of these; nothing escapes an
// attempt as a panic or an unclassified error.
type Outcome string

const (
	// OutcomeBooked means the form was submitted and a confirmation
	// marker was observed.
	OutcomeBooked Outcome = "booked"

	// OutcomeFilled means the form was filled but auto-submit is off;
	// the run paused for manual review and completion.
	OutcomeFilled Outcome = "filled"

	OutcomeSlotUnavailable Outcome = "slot-unavailable"
	OutcomeFormError       Outcome = "form-error"
	OutcomeSiteUnreachable Outcome = "site-unreachable"
)

// Success reports whether the outcome should stop the monitoring loop.
func (o Outcome) Success() bool {
	return o == OutcomeBooked || o == OutcomeFilled
}

type Contact struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Username  string
	Password  string
}

// Request describes one (date, time) booking attempt.
type Request struct {
	Date    time.Time
	TeeTime string // HH:MM, 24h
	Players int
	Contact Contact
}

// Attempt is the ephemeral record of a single attempt. Not persisted.
type Attempt struct {
	Date    time.Time
	TeeTime string
	Outcome Outcome
	Err     error
}

// Provider executes booking attempts against a reservation site.
type Provider interface {
	Name() string
	Attempt(ctx context.Context, req Request) Attempt
}
