package covstore

import (
	"strings"

	"github.com/mappa-dev/mappa/internal/errors"
)

// Open creates a store from a connection string:
//
//	mem://                in-process, volatile
//	bolt://path/to/db     file-backed bbolt database
//
// S3 snapshot stores need a configured client and are constructed
// explicitly with NewS3; there is no connection-string form for them.
func Open(conn string) (Store, error) {
	scheme, rest, ok := strings.Cut(conn, "://")
	if !ok {
		return nil, errors.New(errors.CodeBadConnString).
			WithMessagef("invalid coverage connection string %q", conn)
	}
	switch scheme {
	case "mem":
		return NewMemory(), nil
	case "bolt":
		if rest == "" {
			return nil, errors.New(errors.CodeBadConnString).
				WithMessagef("bolt connection string %q is missing a path", conn)
		}
		return OpenBolt(rest)
	}
	return nil, errors.New(errors.CodeBadConnString).
		WithMessagef("unsupported coverage backend %q", scheme)
}
