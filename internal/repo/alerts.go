package repo

import (
	"context"
	"time"
)

// AlertRecord holds the last state seen for one url+location key and the
// last time a notification went out for it (used for cooldown).
type AlertRecord struct {
	Key        string
	LastLive   bool
	LastSentAt *time.Time
}

// AlertStore remembers alert state between resolutions.
type AlertStore interface {
	// Get returns nil, nil if there's no record yet.
	Get(ctx context.Context, key string) (*AlertRecord, error)
	// Set upserts the record. A zero sentAt keeps the previous send time.
	Set(ctx context.Context, key string, live bool, sentAt time.Time) error
}
