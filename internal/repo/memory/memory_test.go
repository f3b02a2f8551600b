package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hamed0406/geocheck/internal/domain"
	"github.com/hamed0406/geocheck/internal/repo"
)

func attempt(id string) domain.CheckAttempt {
	return domain.NewAttempt(id, "https://example.com", "Japan", "Kyoto", time.Now().UTC())
}

func TestMemoryStore_PrependListsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()

	for _, id := range []string{"A", "B", "C"} {
		if err := s.Prepend(ctx, attempt(id)); err != nil {
			t.Fatalf("Prepend %s: %v", id, err)
		}
	}

	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].ID != "C" || all[1].ID != "B" || all[2].ID != "A" {
		t.Fatalf("unexpected order: %+v", all)
	}

	if err := s.Prepend(ctx, attempt("A")); err == nil {
		t.Fatalf("expected duplicate id to be rejected")
	}
}

func TestMemoryStore_UpdateInPlace(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.Prepend(ctx, attempt("A"))
	_ = s.Prepend(ctx, attempt("B"))

	now := time.Now().UTC()
	got, err := s.Update(ctx, "A", func(a *domain.CheckAttempt) error {
		return a.Resolve(domain.Outcome{Live: true, ResponseTimeMS: 100, HTTPStatusCode: 200}, now)
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Status != domain.StatusLive {
		t.Fatalf("want live, got %s", got.Status)
	}

	all, _ := s.List(ctx)
	if len(all) != 2 || all[1].ID != "A" || all[1].Status != domain.StatusLive || all[0].Status != domain.StatusPending {
		t.Fatalf("update moved or missed the record: %+v", all)
	}
}

func TestMemoryStore_UpdateErrorLeavesRecord(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.Prepend(ctx, attempt("A"))

	boom := errors.New("boom")
	_, err := s.Update(ctx, "A", func(a *domain.CheckAttempt) error {
		a.Status = domain.StatusDown
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	got, _ := s.Get(ctx, "A")
	if got.Status != domain.StatusPending {
		t.Fatalf("failed update must not persist: %+v", got)
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.Get(ctx, "nope"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("Get: want ErrNotFound, got %v", err)
	}
	_, err := s.Update(ctx, "nope", func(*domain.CheckAttempt) error { return nil })
	if !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("Update: want ErrNotFound, got %v", err)
	}
}

func TestAlerts_SetKeepsLastSendTime(t *testing.T) {
	ctx := context.Background()
	a := NewAlerts()

	rec, err := a.Get(ctx, "k")
	if err != nil || rec != nil {
		t.Fatalf("expected nil, got %+v err=%v", rec, err)
	}

	sent := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)
	_ = a.Set(ctx, "k", false, sent)
	_ = a.Set(ctx, "k", true, time.Time{})

	rec, _ = a.Get(ctx, "k")
	if rec == nil || !rec.LastLive || rec.LastSentAt == nil || !rec.LastSentAt.Equal(sent) {
		t.Fatalf("unexpected record: %+v", rec)
	}
}
