package engine

import (
	"context"
	"log/slog"
)

// LoggingObserver logs every engine event with structured fields
type LoggingObserver struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLoggingObserver logs through logger at level; a nil logger means
// slog.Default()
func NewLoggingObserver(logger *slog.Logger, level slog.Level) *LoggingObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{logger: logger, level: level}
}

// OnEvent implements the Observer interface
func (lo *LoggingObserver) OnEvent(event Event) {
	lo.logger.Log(context.Background(), lo.level, "engine_lifecycle",
		"event", event.Type,
		"session_id", event.SessionID,
		"timestamp", event.Timestamp,
		"data", event.Data,
	)
}
