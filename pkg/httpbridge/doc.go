// Package httpbridge mounts a resource tree into net/http. The bridge
// translates requests into dispatcher calls and serves the
// collaborator endpoints (registry listing, coverage report, live
// trace stream, metrics) the mappa CLI talks to. The resolver core
// stays framework-agnostic; this package is the only place HTTP
// types appear.
package httpbridge
