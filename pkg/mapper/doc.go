// Package mapper ties a resource tree to the outside world: it builds
// the resource-id registry, dispatches requests through the tree,
// reverse-generates URLs from resource-ids, and serializes the
// registry into the listing format the collaborator tools consume.
//
// The registry is built exactly once per tree and is immutable
// afterwards; Dispatcher and Builder are safe for concurrent use on
// top of it. URL generation is intentionally the only way to produce
// links: it fires the render events that the coverage and call-graph
// machinery in package report depends on.
package mapper
