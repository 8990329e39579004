package publish

import (
	"github.com/jamebal/hacs-chinese-holidays/internal/holiday"
	"go.uber.org/zap"
)

// MultiSink fans a result out to every configured sink. All sinks are
// attempted; the first failure is returned after the rest have run.
type MultiSink struct {
	sinks  []holiday.Sink
	logger *zap.Logger
}

// NewMultiSink creates a new MultiSink
func NewMultiSink(logger *zap.Logger, sinks ...holiday.Sink) *MultiSink {
	return &MultiSink{
		sinks:  sinks,
		logger: logger,
	}
}

// Publish delivers the result to all sinks
func (m *MultiSink) Publish(result holiday.Result) error {
	var firstErr error

	for _, sink := range m.sinks {
		if err := sink.Publish(result); err != nil {
			m.logger.Warn("Sink publish failed", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
