package mapper

import (
	"github.com/mappa-dev/mappa/internal/errors"
	"github.com/mappa-dev/mappa/pkg/report"
	"github.com/mappa-dev/mappa/pkg/resource"
)

// Builder reverse-generates URLs from resource-ids. It is the only way
// code should produce links to resources: every generated URL fires a
// render event for the requested id, which is what coverage and
// call-graph reporting are built on.
type Builder struct {
	reg   *Registry
	chain *report.Chain
}

// NewBuilder creates a builder over reg. A nil chain disables events.
func NewBuilder(reg *Registry, chain *report.Chain) *Builder {
	return &Builder{reg: reg, chain: chain}
}

// Build generates the URL for a resource-id, filling variable
// components from args. Alias ids resolve transitively; alias-fixed
// values take precedence over supplied ones.
func (b *Builder) Build(id string, args resource.Lookup) (string, error) {
	return b.build("", id, args)
}

// BuildFunc returns the builder as a resource.BuildFunc for wiring
// into dispatch contexts.
func (b *Builder) BuildFunc() resource.BuildFunc {
	return b.build
}

// build is the caller-aware entry point. A non-empty caller records a
// call-graph edge caller→id. The render event always names the
// requested id, not the alias resolution target.
func (b *Builder) build(caller, id string, args resource.Lookup) (string, error) {
	if args == nil {
		args = resource.NoArgs
	}

	m, fixed, err := b.reg.Resolve(id)
	if err != nil {
		return "", err
	}

	var s string
	if m.External != "" {
		s = m.External
	} else {
		s, err = b.render(id, m, fixed, args)
		if err != nil {
			return "", err
		}
	}

	if b.chain != nil {
		b.chain.Rendered(id)
		if caller != "" {
			b.chain.Edge(caller, id)
		}
	}
	return s, nil
}

func (b *Builder) render(id string, m Mapping, fixed map[string]string, args resource.Lookup) (string, error) {
	path := ""
	comps := m.Pattern.Components()
	for _, c := range comps {
		path += "/"
		if !c.IsVariable() {
			path += c.Name()
			continue
		}

		var raw any
		if v, ok := fixed[c.Name()]; ok {
			raw = v
		} else if v, ok := args.Lookup(c.Name()); ok {
			raw = v
		} else {
			return "", errors.New(errors.CodeMissingArg).
				WithMessagef("missing value for variable %q of %s", c.Name(), id)
		}

		seg, err := c.Type().Format(raw)
		if err != nil {
			return "", errors.New(errors.CodeTypeMismatch).
				WithMessagef("value for variable %q of %s: %v", c.Name(), id, err)
		}
		path += seg
	}

	if path == "" {
		path = "/"
	} else if !m.Terminal && b.reg.renderTrailing {
		path += "/"
	}
	return b.reg.rootLoc + path, nil
}
