package domain

import (
	"errors"
	"time"
)

// Status is the lifecycle state of a single check attempt.
type Status string

const (
	StatusPending Status = "pending"
	StatusLive    Status = "live"
	StatusDown    Status = "down"
)

// Terminal reports whether s is a final state.
func (s Status) Terminal() bool {
	return s == StatusLive || s == StatusDown
}

var ErrAlreadyResolved = errors.New("attempt already resolved")

// CheckAttempt is one request to check a URL from a given location.
//
// ResponseTimeMS and HTTPStatusCode stay nil while the attempt is pending and
// are both set by Resolve.
type CheckAttempt struct {
	ID             string     `json:"id"`
	URL            string     `json:"url"`
	Country        string     `json:"country"`
	City           string     `json:"city"`
	Status         Status     `json:"status"`
	ResponseTimeMS *int       `json:"response_time_ms,omitempty"`
	HTTPStatusCode *int       `json:"http_status_code,omitempty"`
	RequestedAt    time.Time  `json:"requested_at"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
}

// Outcome is what a resolver decided for a pending attempt.
type Outcome struct {
	Live           bool
	ResponseTimeMS int
	HTTPStatusCode int
}

// NewAttempt returns a pending attempt with no timing or status code.
func NewAttempt(id, url, country, city string, now time.Time) CheckAttempt {
	return CheckAttempt{
		ID:          id,
		URL:         url,
		Country:     country,
		City:        city,
		Status:      StatusPending,
		RequestedAt: now,
	}
}

// Resolve moves a pending attempt to live or down. It fails if the attempt
// is already terminal, leaving it untouched.
func (a *CheckAttempt) Resolve(o Outcome, at time.Time) error {
	if a.Status.Terminal() {
		return ErrAlreadyResolved
	}
	rt, code := o.ResponseTimeMS, o.HTTPStatusCode
	a.Status = StatusDown
	if o.Live {
		a.Status = StatusLive
	}
	a.ResponseTimeMS = &rt
	a.HTTPStatusCode = &code
	a.ResolvedAt = &at
	return nil
}

// Pending reports whether the attempt is still waiting for resolution.
func (a CheckAttempt) Pending() bool { return a.Status == StatusPending }
