package probe

import (
	"context"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/hamed0406/geocheck/internal/domain"
)

// Source is the subset of *rand.Rand the random resolver draws from.
type Source interface {
	Float64() float64
	IntN(n int) int
}

const (
	liveRatio     = 0.7
	notFoundRatio = 0.5 // among down outcomes
	minLatencyMS  = 50
	latencySpanMS = 500 // latency is in [minLatencyMS, minLatencyMS+latencySpanMS)
)

// RandomResolver fabricates outcomes: live 70% of the time with code 200,
// otherwise down with 404 or 500 at even odds. Latency is drawn
// independently from [50, 549] ms.
type RandomResolver struct {
	mu  sync.Mutex
	src Source
}

// NewRandomResolver seeds a PCG source. Seed 0 picks a time-based seed.
func NewRandomResolver(seed uint64) *RandomResolver {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return NewRandomResolverFrom(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// NewRandomResolverFrom uses src as-is; tests pass scripted sources.
func NewRandomResolverFrom(src Source) *RandomResolver {
	return &RandomResolver{src: src}
}

func (r *RandomResolver) Resolve(_ context.Context, _ domain.CheckAttempt) domain.Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	live := r.src.Float64() < liveRatio
	latency := minLatencyMS + r.src.IntN(latencySpanMS)

	code := http.StatusOK
	if !live {
		code = http.StatusInternalServerError
		if r.src.Float64() < notFoundRatio {
			code = http.StatusNotFound
		}
	}
	return domain.Outcome{Live: live, ResponseTimeMS: latency, HTTPStatusCode: code}
}
