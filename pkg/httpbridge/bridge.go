package httpbridge

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mappa-dev/mappa/internal/errors"
	"github.com/mappa-dev/mappa/pkg/covstore"
	"github.com/mappa-dev/mappa/pkg/mapper"
	"github.com/mappa-dev/mappa/pkg/report"
)

// Bridge hosts a resource tree over HTTP. It adapts requests into
// dispatcher calls and exposes the collaborator endpoints the CLI
// tools consume:
//
//	GET  /.mappa/resources       serialized registry listing
//	GET  /.mappa/coverage        coverage report (JSON)
//	POST /.mappa/coverage/reset  reset the coverage store
//	GET  /.mappa/trace           live event stream (WebSocket)
//	GET  /metrics                Prometheus metrics (when enabled)
//
// Everything else is dispatched through the resource tree.
type Bridge struct {
	reg        *mapper.Registry
	chain      *report.Chain
	dispatcher *mapper.Dispatcher
	logger     *slog.Logger

	store   covstore.Store
	ignore  []string
	hub     *TraceHub
	metrics bool
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the bridge logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) { b.logger = logger }
}

// WithReporter attaches an additional reporter to the event chain.
func WithReporter(r report.Reporter) Option {
	return func(b *Bridge) { b.chain.Add(r) }
}

// WithCoverage persists coverage into store and serves the coverage
// endpoints. ignore suppresses ids from the report.
func WithCoverage(store covstore.Store, ignore ...string) Option {
	return func(b *Bridge) {
		b.store = store
		b.ignore = ignore
		b.chain.Add(report.NewCoverageReporter(store, b.logger))
	}
}

// WithTrace serves the live event stream endpoint.
func WithTrace() Option {
	return func(b *Bridge) {
		b.hub = NewTraceHub()
		b.chain.Add(b.hub)
	}
}

// WithMetrics counts events in m and serves /metrics from the default
// Prometheus registry.
func WithMetrics(m *report.Metrics) Option {
	return func(b *Bridge) {
		b.metrics = true
		b.chain.Add(m)
	}
}

// New creates a bridge over a built registry.
//
// Option order matters for reporter registration order; WithLogger
// should come first so later options pick it up.
func New(reg *mapper.Registry, opts ...Option) *Bridge {
	b := &Bridge{
		reg:    reg,
		logger: slog.Default(),
	}
	b.chain = report.NewChain(b.logger)
	for _, opt := range opts {
		opt(b)
	}
	b.dispatcher = mapper.NewDispatcher(reg,
		mapper.WithReporters(b.chain),
		mapper.WithLogger(b.logger))
	return b
}

// Builder returns the URL builder wired to the bridge's reporter
// chain, for generating links outside a dispatch.
func (b *Bridge) Builder() *mapper.Builder { return b.dispatcher.Builder() }

// Chain returns the bridge's reporter chain.
func (b *Bridge) Chain() *report.Chain { return b.chain }

// Handler returns the bridge as an http.Handler, ready to mount.
func (b *Bridge) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/.mappa/resources", b.serveResources)
	r.Get("/.mappa/coverage", b.serveCoverage)
	r.Post("/.mappa/coverage/reset", b.resetCoverage)
	if b.hub != nil {
		r.Get("/.mappa/trace", b.hub.HandleWebSocket)
	}
	if b.metrics {
		r.Handle("/metrics", promhttp.Handler())
	}
	r.HandleFunc("/*", b.dispatch)
	r.HandleFunc("/", b.dispatch)

	return r
}

// httpResponder adapts http.ResponseWriter to the resolver's response
// sink.
type httpResponder struct {
	w http.ResponseWriter
}

func (r httpResponder) SetContentType(ct string) { r.w.Header().Set("Content-Type", ct) }
func (r httpResponder) Write(p []byte) (int, error) { return r.w.Write(p) }

func (b *Bridge) dispatch(w http.ResponseWriter, r *http.Request) {
	args := map[string]string{}
	for k, vs := range r.URL.Query() {
		if len(vs) > 0 {
			args[k] = vs[0]
		}
	}

	req := mapper.Request{
		Method:   r.Method,
		Path:     r.URL.Path,
		Args:     args,
		Response: httpResponder{w: w},
	}

	err := b.dispatcher.Dispatch(r.Context(), req)
	switch {
	case err == nil:
	case errors.IsCode(err, errors.CodeNotFound):
		http.NotFound(w, r)
	default:
		b.logger.Error("dispatch failed", "path", r.URL.Path, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (b *Bridge) serveResources(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := mapper.WriteListing(w, b.reg); err != nil {
		b.logger.Error("listing write failed", "err", err)
	}
}

func (b *Bridge) serveCoverage(w http.ResponseWriter, r *http.Request) {
	if b.store == nil {
		http.Error(w, "coverage store not configured", http.StatusNotFound)
		return
	}
	records, err := b.store.All()
	if err != nil {
		b.logger.Error("coverage read failed", "err", err)
		http.Error(w, "coverage store unavailable", http.StatusInternalServerError)
		return
	}
	cov := report.ComputeCoverage(b.reg.IDs(), b.reg.Unhandled(), records, b.ignore)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(cov); err != nil {
		b.logger.Error("coverage write failed", "err", err)
	}
}

func (b *Bridge) resetCoverage(w http.ResponseWriter, r *http.Request) {
	if b.store == nil {
		http.Error(w, "coverage store not configured", http.StatusNotFound)
		return
	}
	if err := b.store.Reset(); err != nil {
		b.logger.Error("coverage reset failed", "err", err)
		http.Error(w, "coverage store unavailable", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
