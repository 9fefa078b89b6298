package report

import (
	"log/slog"
	"sort"

	"github.com/mappa-dev/mappa/pkg/covstore"
)

// CoverageReporter records access and render events into a
// covstore.Store. Store failures are logged, never propagated: losing
// a coverage bit must not affect dispatch.
type CoverageReporter struct {
	store  covstore.Store
	logger *slog.Logger
}

// NewCoverageReporter creates a coverage reporter over store.
func NewCoverageReporter(store covstore.Store, logger *slog.Logger) *CoverageReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CoverageReporter{store: store, logger: logger}
}

// Accessed implements Reporter.
func (c *CoverageReporter) Accessed(id string) {
	if err := c.store.Mark(id, true, false); err != nil {
		c.logger.Warn("coverage mark failed", "resid", id, "err", err)
	}
}

// Rendered implements Reporter.
func (c *CoverageReporter) Rendered(id string) {
	if err := c.store.Mark(id, false, true); err != nil {
		c.logger.Warn("coverage mark failed", "resid", id, "err", err)
	}
}

// Coverage is the outcome of the offline coverage computation.
type Coverage struct {
	// NeverAccessed are registered ids that were never dispatched to,
	// excluding ignored ids and ids that are never directly handled
	// (aliases, external mappings).
	NeverAccessed []string `json:"never_accessed,omitempty"`

	// NeverRendered are registered ids no link was ever generated for,
	// excluding ignored ids.
	NeverRendered []string `json:"never_rendered,omitempty"`

	// UnknownIgnores are ignore-list entries absent from the registry.
	// They are configuration warnings, not errors, and do not change
	// the severity of the gaps above.
	UnknownIgnores []string `json:"unknown_ignores,omitempty"`
}

// Clean reports whether there are no gaps of either kind.
func (c Coverage) Clean() bool {
	return len(c.NeverAccessed) == 0 && len(c.NeverRendered) == 0
}

// Severity ranks the result for automation gating: 0 clean, 1 render
// gaps only, 2 access gaps present.
func (c Coverage) Severity() int {
	switch {
	case len(c.NeverAccessed) > 0:
		return 2
	case len(c.NeverRendered) > 0:
		return 1
	}
	return 0
}

// ComputeCoverage diffs the registry's id set against recorded
// coverage. ids is the full registered set; unhandled lists ids that
// are never directly handled (alias and external mappings); records is
// the store contents; ignore suppresses ids from both gap lists.
//
// This runs offline (reporting tools, admin endpoints), never on the
// dispatch path.
func ComputeCoverage(ids []string, unhandled []string, records map[string]covstore.Record, ignore []string) Coverage {
	ignored := make(map[string]bool, len(ignore))
	for _, id := range ignore {
		ignored[id] = true
	}
	skip := make(map[string]bool, len(unhandled))
	for _, id := range unhandled {
		skip[id] = true
	}

	known := make(map[string]bool, len(ids))
	var cov Coverage
	for _, id := range ids {
		known[id] = true
		rec := records[id]
		if !rec.Accessed && !ignored[id] && !skip[id] {
			cov.NeverAccessed = append(cov.NeverAccessed, id)
		}
		if !rec.Rendered && !ignored[id] {
			cov.NeverRendered = append(cov.NeverRendered, id)
		}
	}
	for _, id := range ignore {
		if !known[id] {
			cov.UnknownIgnores = append(cov.UnknownIgnores, id)
		}
	}

	sort.Strings(cov.NeverAccessed)
	sort.Strings(cov.NeverRendered)
	sort.Strings(cov.UnknownIgnores)
	return cov
}
