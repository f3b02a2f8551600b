package check

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hamed0406/geocheck/internal/domain"
	"github.com/hamed0406/geocheck/internal/location"
	"github.com/hamed0406/geocheck/internal/metrics"
	"github.com/hamed0406/geocheck/internal/probe"
	"github.com/hamed0406/geocheck/internal/repo"
	"github.com/hamed0406/geocheck/internal/scheduler"
)

var (
	ErrInvalidInput = errors.New("invalid check input")
	ErrBusy         = errors.New("a check is already in progress")
	ErrClosed       = errors.New("orchestrator is shut down")
)

const DefaultDelay = 2 * time.Second

type Options struct {
	// Delay between a request and its resolution. Zero means DefaultDelay.
	Delay   time.Duration
	Metrics *metrics.Metrics
	Now     func() time.Time
	NewID   func() string
}

// Session is the orchestrator-level state: idle or busy with one attempt.
type Session struct {
	Busy       bool   `json:"busy"`
	InFlightID string `json:"in_flight_id,omitempty"`
}

// Orchestrator owns the attempt list and drives each attempt from pending to
// live or down. Only one attempt may be pending at a time.
type Orchestrator struct {
	logger   *zap.Logger
	dir      *location.Directory
	store    repo.AttemptStore
	resolver probe.Resolver
	metrics  *metrics.Metrics
	delay    time.Duration
	now      func() time.Time
	newID    func() string

	mu      sync.Mutex
	session Session
	task    *scheduler.Task
	closed  bool

	subs subscribers
}

func New(
	logger *zap.Logger,
	dir *location.Directory,
	store repo.AttemptStore,
	resolver probe.Resolver,
	opts Options,
) *Orchestrator {
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Orchestrator{
		logger:   logger,
		dir:      dir,
		store:    store,
		resolver: resolver,
		metrics:  opts.Metrics,
		delay:    opts.Delay,
		now:      opts.Now,
		newID:    opts.NewID,
		subs:     subscribers{m: make(map[int]chan domain.CheckAttempt)},
	}
}

// RequestCheck validates the input, inserts a pending attempt at the front
// of the list and schedules its resolution. It returns immediately.
//
// Invalid input yields ErrInvalidInput and a request made while another
// attempt is pending yields ErrBusy; in both cases the list is unchanged.
// After Shutdown every request yields ErrClosed.
func (o *Orchestrator) RequestCheck(ctx context.Context, url, country, city string) (domain.CheckAttempt, error) {
	url = strings.TrimSpace(url)
	if err := o.validate(url, country, city); err != nil {
		o.metrics.Requested("invalid")
		o.logger.Debug("check_invalid", zap.String("url", url), zap.String("country", country),
			zap.String("city", city), zap.Error(err))
		return domain.CheckAttempt{}, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return domain.CheckAttempt{}, ErrClosed
	}
	if o.session.Busy {
		o.metrics.Requested("busy")
		o.logger.Info("check_busy", zap.String("url", url), zap.String("in_flight_id", o.session.InFlightID))
		return domain.CheckAttempt{}, ErrBusy
	}

	a := domain.NewAttempt(o.newID(), url, country, city, o.now())
	if err := o.store.Prepend(ctx, a); err != nil {
		return domain.CheckAttempt{}, fmt.Errorf("store attempt: %w", err)
	}

	o.session = Session{Busy: true, InFlightID: a.ID}
	id := a.ID
	o.task = scheduler.After(o.delay, func() { o.resolve(id) })

	o.metrics.Requested("accepted")
	o.logger.Info("check_requested",
		zap.String("id", a.ID),
		zap.String("url", a.URL),
		zap.String("country", a.Country),
		zap.String("city", a.City),
		zap.Duration("delay", o.delay),
	)
	o.subs.publish(a)
	return a, nil
}

func (o *Orchestrator) validate(url, country, city string) error {
	switch {
	case url == "":
		return fmt.Errorf("%w: url is required", ErrInvalidInput)
	case country == "":
		return fmt.Errorf("%w: country is required", ErrInvalidInput)
	case city == "":
		return fmt.Errorf("%w: city is required", ErrInvalidInput)
	case !o.dir.HasCountry(country):
		return fmt.Errorf("%w: unknown country %q", ErrInvalidInput, country)
	case !o.dir.Contains(country, city):
		return fmt.Errorf("%w: city %q is not in %s", ErrInvalidInput, city, country)
	}
	return nil
}

// resolve runs on the scheduled task. It looks the attempt up by id so the
// record keeps its position even if the list has grown.
func (o *Orchestrator) resolve(id string) {
	ctx := context.Background()

	a, err := o.store.Get(ctx, id)
	if err != nil {
		o.logger.Error("check_resolve_lookup", zap.String("id", id), zap.Error(err))
		o.metrics.Abandoned()
		o.release()
		return
	}
	out := o.resolver.Resolve(ctx, a)

	o.mu.Lock()
	defer o.mu.Unlock()

	updated, err := o.store.Update(ctx, id, func(a *domain.CheckAttempt) error {
		return a.Resolve(out, o.now())
	})
	o.session = Session{}
	o.task = nil
	if err != nil {
		o.logger.Error("check_resolve_update", zap.String("id", id), zap.Error(err))
		o.metrics.Abandoned()
		return
	}

	o.metrics.Resolved(updated)
	o.logger.Info("check_resolved",
		zap.String("id", updated.ID),
		zap.String("url", updated.URL),
		zap.String("status", string(updated.Status)),
		zap.Int("http_status", out.HTTPStatusCode),
		zap.Int("response_time_ms", out.ResponseTimeMS),
	)
	o.subs.publish(updated)
}

func (o *Orchestrator) release() {
	o.mu.Lock()
	o.session = Session{}
	o.task = nil
	o.mu.Unlock()
}

// Attempts returns the attempt list, most recent first.
func (o *Orchestrator) Attempts(ctx context.Context) ([]domain.CheckAttempt, error) {
	return o.store.List(ctx)
}

func (o *Orchestrator) Get(ctx context.Context, id string) (domain.CheckAttempt, error) {
	return o.store.Get(ctx, id)
}

func (o *Orchestrator) State() Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session
}

func (o *Orchestrator) Locations() *location.Directory { return o.dir }

// Wait blocks until the in-flight resolution (if any) has completed.
func (o *Orchestrator) Wait(ctx context.Context) error {
	o.mu.Lock()
	t := o.task
	o.mu.Unlock()
	if t == nil {
		return nil
	}
	select {
	case <-t.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown waits for the in-flight resolution; if ctx expires first the
// scheduled task is cancelled. All subscriptions are closed and later
// requests are refused.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	defer o.subs.closeAll()

	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()

	err := o.Wait(ctx)
	if err == nil {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.task != nil && o.task.Cancel() {
		o.logger.Warn("check_cancelled", zap.String("id", o.session.InFlightID))
		o.metrics.Abandoned()
		o.session = Session{}
		o.task = nil
	}
	return err
}
