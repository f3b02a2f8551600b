package repo

import (
	"context"
	"errors"

	"github.com/hamed0406/geocheck/internal/domain"
)

var ErrNotFound = errors.New("not found")

// AttemptStore keeps the session's check attempts, most recent first.
// Implementations must make Prepend and Update atomic with respect to reads.
type AttemptStore interface {
	// Prepend inserts a at the front of the list.
	Prepend(ctx context.Context, a domain.CheckAttempt) error
	// Update applies fn to the attempt with the given id in place. The list
	// keeps its length and order. If fn fails the stored attempt is unchanged.
	Update(ctx context.Context, id string, fn func(*domain.CheckAttempt) error) (domain.CheckAttempt, error)
	Get(ctx context.Context, id string) (domain.CheckAttempt, error)
	List(ctx context.Context) ([]domain.CheckAttempt, error)
}
