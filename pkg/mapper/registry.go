package mapper

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/mappa-dev/mappa/internal/errors"
	"github.com/mappa-dev/mappa/pkg/resource"
)

// maxAliasDepth bounds transitive alias resolution. A chain deeper
// than this is treated as cyclic.
const maxAliasDepth = 8

// Mapping is one registered resource: the association between a
// resource-id and everything needed to generate or match its URLs.
type Mapping struct {
	// ResID is the unique resource-id, e.g. "@@PhotoView".
	ResID string

	// Pattern is the absolute path pattern. Zero for alias and
	// external mappings.
	Pattern resource.Pattern

	// Doc is the one-line docstring carried into listings.
	Doc string

	// Node is the tree node this mapping came from. Nil in registries
	// reconstructed from a serialized listing.
	Node resource.Node

	// Terminal reports whether the pattern is a complete resource path
	// (a leaf) as opposed to a folder root, which renders with a
	// trailing slash.
	Terminal bool

	// AliasTarget is the aliased resource-id, "" for concrete mappings.
	AliasTarget string

	// AliasArgs are the alias's fixed argument values.
	AliasArgs map[string]string

	// External is the full URL of an externally mapped resource, ""
	// otherwise.
	External string
}

// IsAlias reports whether the mapping forwards to another resource-id.
func (m Mapping) IsAlias() bool { return m.AliasTarget != "" }

// Handled reports whether requests are ever dispatched directly to
// this mapping. Alias and external mappings are generated-only; the
// coverage computation excludes them from access accounting.
func (m Mapping) Handled() bool { return !m.IsAlias() && m.External == "" }

// Registry is the immutable resource-id index built once from a
// resource tree (or reconstructed from a serialized listing). After
// Build it is safe for concurrent use.
type Registry struct {
	order          []string
	byID           map[string]*Mapping
	root           resource.Node
	rootLoc        string
	renderTrailing bool
}

// BuildOption configures registry construction.
type BuildOption func(*Registry)

// WithRootLocation sets the path prefix the tree is mounted under.
// Generated URLs are prefixed with it and dispatch strips it.
func WithRootLocation(loc string) BuildOption {
	return func(r *Registry) {
		r.rootLoc = "/" + strings.Trim(loc, "/")
		if r.rootLoc == "/" {
			r.rootLoc = ""
		}
	}
}

// WithoutTrailingSlash disables the trailing slash on generated URLs
// of non-terminal (folder root) resources.
func WithoutTrailingSlash() BuildOption {
	return func(r *Registry) { r.renderTrailing = false }
}

// Build traverses the resource tree once, depth first, and registers
// every linkable node under its resource-id. It validates the tree:
// duplicate ids, duplicate variable names along a path, unresolvable
// folder defaults and cycles all abort construction.
func Build(root resource.Node, opts ...BuildOption) (*Registry, error) {
	reg := &Registry{
		byID:           map[string]*Mapping{},
		root:           root,
		renderTrailing: true,
	}
	for _, opt := range opts {
		opt(reg)
	}

	w := &walker{reg: reg, onStack: map[resource.Node]bool{}}
	if err := w.walk(root, resource.Pattern{}, map[string]bool{}); err != nil {
		return nil, err
	}
	return reg, nil
}

// walker performs the build traversal.
type walker struct {
	reg     *Registry
	onStack map[resource.Node]bool
}

func (w *walker) walk(node resource.Node, pat resource.Pattern, vars map[string]bool) error {
	if node == nil {
		return nil
	}
	if w.onStack[node] {
		return errors.Newf(errors.CategoryBuild,
			"resource tree contains a cycle through %q", pat.String())
	}
	w.onStack[node] = true
	defer delete(w.onStack, node)

	// Folder defaults resolve by name lazily; surface a bad name here
	// rather than at dispatch time.
	if f, ok := node.(*resource.Folder); ok {
		if _, err := f.Default(); err != nil {
			return errors.Newf(errors.CategoryBuild, "%v at %q", err, pat.String())
		}
	}

	var v resource.Visitor
	node.Enumerate(&v)

	if v.IsTarget() {
		if err := w.register(node, pat, v.Tail(), vars); err != nil {
			return err
		}
	}

	for _, br := range v.Branches() {
		childPat := pat
		childVars := vars
		switch br.Kind {
		case resource.BranchFixed:
			childPat = pat.Append(br.Comp)
		case resource.BranchVar:
			name := br.Comp.Name()
			if vars[name] {
				return errors.Newf(errors.CategoryBuild,
					"variable %q appears twice on the path to %q", name, pat.Append(br.Comp).String())
			}
			childVars = copyVarSet(vars)
			childVars[name] = true
			childPat = pat.Append(br.Comp)
		case resource.BranchAnon:
			// consumes nothing
		}
		if err := w.walk(br.Child, childPat, childVars); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) register(node resource.Node, pat resource.Pattern, tail *resource.Component, vars map[string]bool) error {
	id := node.ResID()
	if id == "" {
		// Anonymous targets participate in matching but are not
		// linkable and never registered.
		return nil
	}
	if _, dup := w.reg.byID[id]; dup {
		return errors.New(errors.CodeDuplicateID).
			WithMessagef("resource-id %q is registered twice", id)
	}

	m := &Mapping{ResID: id, Doc: node.Doc(), Node: node}

	if a, ok := node.(*resource.Alias); ok {
		m.AliasTarget = a.Target()
		m.AliasArgs = a.FixedArgs()
	} else {
		full := pat
		terminal := true
		if tail != nil {
			if vars[tail.Name()] {
				return errors.Newf(errors.CategoryBuild,
					"variable %q appears twice on the path to %q", tail.Name(), id)
			}
			full = pat.Append(*tail)
		}
		// A registered folder root keeps matching below itself, so its
		// pattern is a prefix, not a complete path.
		if _, isFolder := node.(*resource.Folder); isFolder {
			terminal = false
		}
		m.Pattern = full
		m.Terminal = terminal
	}

	w.reg.order = append(w.reg.order, id)
	w.reg.byID[id] = m
	return nil
}

func copyVarSet(vars map[string]bool) map[string]bool {
	cp := make(map[string]bool, len(vars)+1)
	for k := range vars {
		cp[k] = true
	}
	return cp
}

// AddStatic registers an externally hosted resource under id, mapping
// it to a full URL. Static mappings are generated-only.
func (r *Registry) AddStatic(id, rawurl string) error {
	if _, dup := r.byID[id]; dup {
		return errors.New(errors.CodeDuplicateID).
			WithMessagef("resource-id %q is registered twice", id)
	}
	if _, err := url.Parse(rawurl); err != nil {
		return errors.Newf(errors.CategoryBuild, "invalid static URL %q for %s: %v", rawurl, id, err)
	}
	r.order = append(r.order, id)
	r.byID[id] = &Mapping{ResID: id, External: rawurl}
	return nil
}

// Root returns the tree the registry was built from, or nil for
// registries loaded from a listing.
func (r *Registry) Root() resource.Node { return r.root }

// RootLocation returns the mount prefix, "" when mounted at /.
func (r *Registry) RootLocation() string { return r.rootLoc }

// Lookup returns the mapping for a resource-id.
func (r *Registry) Lookup(id string) (Mapping, error) {
	m, ok := r.byID[id]
	if !ok {
		return Mapping{}, errors.New(errors.CodeUnknownID).
			WithMessagef("unknown resource-id %q", id)
	}
	return *m, nil
}

// Resolve follows alias mappings until a concrete mapping is reached,
// merging alias-fixed argument values along the way. Values fixed
// closer to the requested id win. Resolution depth is bounded; a chain
// deeper than the bound reports a cyclic alias.
func (r *Registry) Resolve(id string) (Mapping, map[string]string, error) {
	fixed := map[string]string{}
	cur := id
	for depth := 0; depth <= maxAliasDepth; depth++ {
		m, err := r.Lookup(cur)
		if err != nil {
			return Mapping{}, nil, err
		}
		if !m.IsAlias() {
			return m, fixed, nil
		}
		for k, v := range m.AliasArgs {
			if _, ok := fixed[k]; !ok {
				fixed[k] = v
			}
		}
		cur = m.AliasTarget
	}
	return Mapping{}, nil, errors.New(errors.CodeCyclicAlias).
		WithMessagef("alias chain from %q exceeds depth %d", id, maxAliasDepth)
}

// IDs returns all registered resource-ids, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	sort.Strings(ids)
	return ids
}

// Unhandled returns the ids that are never directly dispatched to
// (alias and external mappings), sorted.
func (r *Registry) Unhandled() []string {
	var ids []string
	for _, id := range r.order {
		if !r.byID[id].Handled() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered mappings.
func (r *Registry) Len() int { return len(r.byID) }

// Pattern returns the serialized pattern for a resource-id: the path
// pattern (with a trailing slash for folder roots), "->target?args"
// for aliases, or the full URL for external mappings.
func (r *Registry) Pattern(id string) (string, error) {
	m, err := r.Lookup(id)
	if err != nil {
		return "", err
	}
	return r.renderMapping(m), nil
}

func (r *Registry) renderMapping(m Mapping) string {
	switch {
	case m.IsAlias():
		s := "->" + m.AliasTarget
		if len(m.AliasArgs) > 0 {
			vals := url.Values{}
			for k, v := range m.AliasArgs {
				vals.Set(k, v)
			}
			s += "?" + vals.Encode()
		}
		return s
	case m.External != "":
		return m.External
	}
	s := m.Pattern.String()
	if !m.Terminal && r.renderTrailing && s != "/" {
		s += "/"
	}
	return s
}

// Variables returns the variable names of a resource-id's pattern in
// path order, resolving aliases first.
func (r *Registry) Variables(id string) ([]string, error) {
	m, _, err := r.Resolve(id)
	if err != nil {
		return nil, err
	}
	if m.External != "" {
		return nil, nil
	}
	return m.Pattern.Variables(), nil
}

// Match checks whether rawurl addresses the resource-id and, if so,
// extracts its variable values, typed by the pattern's converters.
// Aliases are resolved before matching. This is a tooling operation:
// it never fires reporter events.
func (r *Registry) Match(id, rawurl string) (map[string]any, bool) {
	m, _, err := r.Resolve(id)
	if err != nil || m.External != "" {
		return nil, false
	}

	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, false
	}
	path := u.Path
	if r.rootLoc != "" {
		var ok bool
		path, ok = strings.CutPrefix(path, r.rootLoc)
		if !ok {
			return nil, false
		}
	}

	segs, _ := resource.SplitPath(path)
	comps := m.Pattern.Components()
	if len(segs) != len(comps) {
		return nil, false
	}

	vars := map[string]any{}
	for i, c := range comps {
		v, err := c.Convert(segs[i])
		if err != nil {
			return nil, false
		}
		if c.IsVariable() {
			vars[c.Name()] = v
		}
	}
	return vars, true
}

// formatPattern renders a pattern as a concrete path, filling variable
// components from raw string values. Missing or unconvertible values
// abort with generation errors naming the variable.
func formatPattern(id string, p resource.Pattern, values map[string]string) (string, error) {
	var b strings.Builder
	for _, c := range p.Components() {
		b.WriteByte('/')
		if !c.IsVariable() {
			b.WriteString(c.Name())
			continue
		}
		v, ok := values[c.Name()]
		if !ok {
			return "", errors.New(errors.CodeMissingArg).
				WithMessagef("missing value for variable %q of %s", c.Name(), id)
		}
		seg, err := c.Type().Format(v)
		if err != nil {
			return "", errors.New(errors.CodeTypeMismatch).
				WithMessagef("value for variable %q of %s: %v", c.Name(), id, err)
		}
		b.WriteString(seg)
	}
	if b.Len() == 0 {
		return "/", nil
	}
	return b.String(), nil
}

// String implements fmt.Stringer for debugging.
func (r *Registry) String() string {
	return fmt.Sprintf("mapper.Registry(%d mappings, root %q)", len(r.byID), r.rootLoc)
}
