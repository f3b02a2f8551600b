package probe

import (
	"context"

	"github.com/hamed0406/geocheck/internal/domain"
)

// Resolver decides the outcome of a pending attempt.
//
// The orchestrator only depends on this interface, so a resolver performing
// real reachability checks can replace RandomResolver without touching the
// attempt list handling.
type Resolver interface {
	Resolve(ctx context.Context, a domain.CheckAttempt) domain.Outcome
}

// ResolverFunc adapts a plain function to Resolver.
type ResolverFunc func(ctx context.Context, a domain.CheckAttempt) domain.Outcome

func (f ResolverFunc) Resolve(ctx context.Context, a domain.CheckAttempt) domain.Outcome {
	return f(ctx, a)
}
