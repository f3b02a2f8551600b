package notify

import (
	"context"

	"go.uber.org/zap"
)

// Log writes alerts to the application log. Used when no external channel
// is configured so alerts are never silently dropped.
type Log struct {
	Logger *zap.Logger
}

func (l Log) Send(_ context.Context, title, text string) error {
	l.Logger.Warn("alert", zap.String("title", title), zap.String("text", text))
	return nil
}
