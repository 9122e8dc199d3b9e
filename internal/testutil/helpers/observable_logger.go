package helpers

import (
	"github.com/douhashi/xdeploy/internal/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// NewObservedZap returns a zap logger whose entries at level and above are
// recorded.
func NewObservedZap(level zapcore.Level) (*zap.Logger, *observer.ObservedLogs) {
	core, recorded := observer.New(level)
	return zap.New(core), recorded
}

// NewObservableLogger is NewObservedZap behind the logger.Logger interface.
func NewObservableLogger(level zapcore.Level) (logger.Logger, *observer.ObservedLogs) {
	zl, recorded := NewObservedZap(level)
	return logger.FromZap(zl), recorded
}

// Messages returns the messages of the recorded entries in order.
func Messages(recorded *observer.ObservedLogs) []string {
	entries := recorded.All()
	msgs := make([]string, 0, len(entries))
	for _, e := range entries {
		msgs = append(msgs, e.Message)
	}
	return msgs
}
