package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/geocheck/internal/domain"
	"github.com/hamed0406/geocheck/internal/repo"
)

type AlerterConfig struct {
	AlertOnRecovery bool
	Cooldown        time.Duration
}

// Alerter watches resolved attempts and notifies when a url+location pair
// goes down or comes back.
type Alerter struct {
	logger   *zap.Logger
	alertDB  repo.AlertStore
	notifier interface {
		Send(context.Context, string, string) error
	}
	cfg AlerterConfig
	now func() time.Time
}

func NewAlerter(
	logger *zap.Logger,
	alertDB repo.AlertStore,
	notifier interface {
		Send(context.Context, string, string) error
	},
	cfg AlerterConfig,
) *Alerter {
	return &Alerter{
		logger:   logger,
		alertDB:  alertDB,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Run consumes attempts until events is closed or ctx is cancelled.
func (a *Alerter) Run(ctx context.Context, events <-chan domain.CheckAttempt) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := a.handle(ctx, ev); err != nil {
				a.logger.Warn("alert_error", zap.String("id", ev.ID), zap.Error(err))
			}
		}
	}
}

func alertKey(at domain.CheckAttempt) string {
	return fmt.Sprintf("%s @ %s, %s", at.URL, at.City, at.Country)
}

func (a *Alerter) handle(ctx context.Context, at domain.CheckAttempt) error {
	if !at.Status.Terminal() {
		return nil
	}
	key := alertKey(at)
	live := at.Status == domain.StatusLive

	rec, err := a.alertDB.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("get alert state: %w", err)
	}
	now := a.now()

	stateChanged := rec == nil || rec.LastLive != live

	// Cooldown only applies to DOWN alerts.
	cooled := true
	if rec != nil && rec.LastSentAt != nil {
		cooled = now.Sub(*rec.LastSentAt) >= a.cfg.Cooldown
	}

	downAlert := stateChanged && !live && cooled
	recoveryAlert := stateChanged && live && rec != nil && a.cfg.AlertOnRecovery

	if !downAlert && !recoveryAlert {
		if stateChanged {
			return a.alertDB.Set(ctx, key, live, time.Time{})
		}
		return nil
	}

	title := "🔴 Site DOWN"
	if live {
		title = "🟢 Site RECOVERED"
	}
	text := fmt.Sprintf(
		"URL: %s\nLocation: %s, %s\nHTTP: %s\nLatency: %s\nChecked: %s",
		at.URL, at.City, at.Country, intText(at.HTTPStatusCode, ""), intText(at.ResponseTimeMS, " ms"),
		resolvedAt(at).Format(time.RFC3339),
	)

	sendErr := a.notifier.Send(ctx, title, text)
	if sendErr != nil {
		a.logger.Warn("alert_send_failed", zap.String("key", key), zap.Error(sendErr))
	} else {
		a.logger.Info("alert_sent", zap.String("key", key), zap.Bool("live", live))
	}
	sentAt := now
	if sendErr != nil {
		sentAt = time.Time{}
	}
	return a.alertDB.Set(ctx, key, live, sentAt)
}

func intText(v *int, suffix string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d%s", *v, suffix)
}

func resolvedAt(at domain.CheckAttempt) time.Time {
	if at.ResolvedAt != nil {
		return *at.ResolvedAt
	}
	return at.RequestedAt
}
