package report

import (
	"log/slog"
	"sync"
)

// Reporter observes dispatch and URL-generation events. Access fires
// when a terminal resource is about to handle a request; Rendered fires
// when a URL is generated for a resource.
//
// Reporters must tolerate concurrent calls: events from concurrent
// dispatches interleave.
type Reporter interface {
	Accessed(id string)
	Rendered(id string)
}

// EdgeReporter additionally observes call-graph edges: caller rendered
// a link to callee while handling a request.
type EdgeReporter interface {
	Edge(caller, callee string)
}

// Chain fans events out to an ordered set of reporters, in registration
// order, synchronously. A panicking reporter is isolated: the panic is
// logged and the remaining reporters still run. Add and Remove are
// administrative operations, not meant for hot-path mutation.
type Chain struct {
	mu        sync.RWMutex
	reporters []Reporter
	logger    *slog.Logger
}

// NewChain creates a chain. A nil logger falls back to slog.Default.
func NewChain(logger *slog.Logger) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{logger: logger}
}

// Add appends a reporter. Registration order is notification order.
func (c *Chain) Add(r Reporter) {
	if r == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reporters = append(c.reporters, r)
}

// Remove detaches a previously added reporter.
func (c *Chain) Remove(r Reporter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, cur := range c.reporters {
		if cur == r {
			c.reporters = append(c.reporters[:i], c.reporters[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered reporters.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.reporters)
}

// Accessed notifies all reporters of an access event.
func (c *Chain) Accessed(id string) {
	for _, r := range c.snapshot() {
		c.notify(func() { r.Accessed(id) })
	}
}

// Rendered notifies all reporters of a render event.
func (c *Chain) Rendered(id string) {
	for _, r := range c.snapshot() {
		c.notify(func() { r.Rendered(id) })
	}
}

// Edge notifies reporters that also observe call-graph edges.
func (c *Chain) Edge(caller, callee string) {
	for _, r := range c.snapshot() {
		if er, ok := r.(EdgeReporter); ok {
			c.notify(func() { er.Edge(caller, callee) })
		}
	}
}

func (c *Chain) snapshot() []Reporter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Reporter, len(c.reporters))
	copy(out, c.reporters)
	return out
}

// notify runs one reporter callback, converting a panic into a log
// line so observation can never abort a dispatch.
func (c *Chain) notify(f func()) {
	defer func() {
		if rec := recover(); rec != nil {
			c.logger.Error("reporter panicked", "panic", rec)
		}
	}()
	f()
}
