// Package errors provides structured errors for mappa.
//
// Every failure the resolver, registry or tools can produce carries a
// stable code (e.g. "M002" for a duplicate resource-id). CLI tools map
// categories of codes to exit codes so CI can gate on them without
// parsing message text.
//
// Usage:
//
//	return errors.New(errors.CodeUnknownID).
//	    WithMessagef("unknown resource-id %q", id)
//
// and on the consuming side:
//
//	if errors.IsCode(err, errors.CodeNotFound) { ... }
package errors
