// Package report provides the instrumentation side of mappa: reporters
// observe resource accesses, URL generations and caller→callee links
// without ever influencing dispatch.
//
// A Chain fans events out to any number of Reporter implementations in
// registration order; a panicking reporter is logged and skipped so
// observation can never take down request handling. The package ships
// reporters for structured logging (Tracer), coverage persistence
// (CoverageReporter over a covstore.Store), call-graph capture
// (CallGraph) and Prometheus counters (Metrics), plus the offline
// coverage computation consumed by the CLI.
package report
