// Package covstore persists per-resource coverage bits: whether a
// resource was ever accessed (dispatched to) and ever rendered (linked
// to). Writes are monotonic OR-merges, so concurrent unsynchronized
// writers cannot corrupt state.
//
// Backends: in-memory (NewMemory), bbolt file (OpenBolt) and an S3
// snapshot (NewS3). Open builds a store from a connection string for
// the command-line tools.
package covstore
