package report

import "log/slog"

// Tracer logs every access and render event. Useful during development
// to watch resolution happen; attach at debug level in production.
type Tracer struct {
	logger *slog.Logger
}

// NewTracer creates a tracing reporter. A nil logger falls back to
// slog.Default.
func NewTracer(logger *slog.Logger) *Tracer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracer{logger: logger}
}

// Accessed implements Reporter.
func (t *Tracer) Accessed(id string) {
	t.logger.Debug("resource accessed", "resid", id)
}

// Rendered implements Reporter.
func (t *Tracer) Rendered(id string) {
	t.logger.Debug("resource rendered", "resid", id)
}

// Edge implements EdgeReporter.
func (t *Tracer) Edge(caller, callee string) {
	t.logger.Debug("resource link", "caller", caller, "callee", callee)
}
