package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewAttempt_IsPendingWithoutResult(t *testing.T) {
	a := NewAttempt("A1", "https://example.com", "Japan", "Kyoto", time.Now().UTC())
	if !a.Pending() {
		t.Fatalf("want pending, got %s", a.Status)
	}
	if a.ResponseTimeMS != nil || a.HTTPStatusCode != nil || a.ResolvedAt != nil {
		t.Fatalf("pending attempt must not carry result fields: %+v", a)
	}
}

func TestResolve_LiveAndDown(t *testing.T) {
	now := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)

	live := NewAttempt("A1", "https://example.com", "Japan", "Kyoto", now)
	if err := live.Resolve(Outcome{Live: true, ResponseTimeMS: 120, HTTPStatusCode: 200}, now); err != nil {
		t.Fatalf("resolve live: %v", err)
	}
	if live.Status != StatusLive || *live.HTTPStatusCode != 200 || *live.ResponseTimeMS != 120 {
		t.Fatalf("unexpected live attempt: %+v", live)
	}

	down := NewAttempt("A2", "https://example.com", "Japan", "Kyoto", now)
	if err := down.Resolve(Outcome{Live: false, ResponseTimeMS: 80, HTTPStatusCode: 500}, now); err != nil {
		t.Fatalf("resolve down: %v", err)
	}
	if down.Status != StatusDown || *down.HTTPStatusCode != 500 {
		t.Fatalf("unexpected down attempt: %+v", down)
	}
}

func TestResolve_TerminalIsFinal(t *testing.T) {
	now := time.Now().UTC()
	a := NewAttempt("A1", "https://example.com", "France", "Paris", now)
	_ = a.Resolve(Outcome{Live: true, ResponseTimeMS: 60, HTTPStatusCode: 200}, now)

	err := a.Resolve(Outcome{Live: false, ResponseTimeMS: 500, HTTPStatusCode: 404}, now)
	if err != ErrAlreadyResolved {
		t.Fatalf("want ErrAlreadyResolved, got %v", err)
	}
	if a.Status != StatusLive || *a.HTTPStatusCode != 200 || *a.ResponseTimeMS != 60 {
		t.Fatalf("terminal attempt changed: %+v", a)
	}
}

func TestCheckAttempt_PendingJSONOmitsResult(t *testing.T) {
	a := NewAttempt("A1", "https://example.com", "Japan", "Kyoto", time.Now().UTC())
	b, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"response_time_ms", "http_status_code", "resolved_at"} {
		if _, ok := m[k]; ok {
			t.Fatalf("pending JSON should omit %q: %s", k, b)
		}
	}
	if m["status"] != "pending" {
		t.Fatalf("want status pending, got %v", m["status"])
	}
}
