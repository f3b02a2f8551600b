package probe

import (
	"context"
	"testing"

	"github.com/hamed0406/geocheck/internal/domain"
)

// scripted source you can control
type scriptedSource struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (s *scriptedSource) Float64() float64 {
	v := s.floats[s.fi%len(s.floats)]
	s.fi++
	return v
}

func (s *scriptedSource) IntN(n int) int {
	v := s.ints[s.ii%len(s.ints)]
	s.ii++
	if v >= n {
		v = n - 1
	}
	return v
}

func TestRandomResolver_ScriptedOutcomes(t *testing.T) {
	cases := []struct {
		name     string
		floats   []float64
		ints     []int
		wantLive bool
		wantCode int
		wantMS   int
	}{
		{"live", []float64{0.1}, []int{0}, true, 200, 50},
		{"live edge", []float64{0.6999}, []int{499}, true, 200, 549},
		{"down 404", []float64{0.7, 0.2}, []int{10}, false, 404, 60},
		{"down 500", []float64{0.95, 0.5}, []int{100}, false, 500, 150},
	}
	for _, c := range cases {
		r := NewRandomResolverFrom(&scriptedSource{floats: c.floats, ints: c.ints})
		out := r.Resolve(context.Background(), domain.CheckAttempt{})
		if out.Live != c.wantLive || out.HTTPStatusCode != c.wantCode || out.ResponseTimeMS != c.wantMS {
			t.Fatalf("%s: got %+v", c.name, out)
		}
	}
}

func TestRandomResolver_Distribution(t *testing.T) {
	r := NewRandomResolver(42)
	const n = 20000
	live, notFound, down := 0, 0, 0
	for i := 0; i < n; i++ {
		out := r.Resolve(context.Background(), domain.CheckAttempt{})
		if out.ResponseTimeMS < 50 || out.ResponseTimeMS > 549 {
			t.Fatalf("latency out of range: %d", out.ResponseTimeMS)
		}
		if out.Live {
			live++
			if out.HTTPStatusCode != 200 {
				t.Fatalf("live must be 200, got %d", out.HTTPStatusCode)
			}
			continue
		}
		down++
		switch out.HTTPStatusCode {
		case 404:
			notFound++
		case 500:
		default:
			t.Fatalf("down must be 404/500, got %d", out.HTTPStatusCode)
		}
	}

	ratio := float64(live) / n
	if ratio < 0.67 || ratio > 0.73 {
		t.Fatalf("live ratio %.3f not near 0.7", ratio)
	}
	nf := float64(notFound) / float64(down)
	if nf < 0.45 || nf > 0.55 {
		t.Fatalf("404 share of down %.3f not near 0.5", nf)
	}
}

func TestResolverFunc(t *testing.T) {
	var r Resolver = ResolverFunc(func(context.Context, domain.CheckAttempt) domain.Outcome {
		return domain.Outcome{Live: true, ResponseTimeMS: 1, HTTPStatusCode: 200}
	})
	if !r.Resolve(context.Background(), domain.CheckAttempt{}).Live {
		t.Fatal("expected live from func resolver")
	}
}
