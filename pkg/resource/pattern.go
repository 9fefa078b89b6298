package resource

import (
	"fmt"
	"regexp"
	"strings"
)

// Component is one element of a path pattern: either a fixed literal
// or a named, typed variable. Components are value types and immutable
// once built.
type Component struct {
	name       string
	vtype      VarType // nil for fixed components
	constraint *regexp.Regexp
}

// Fixed returns a fixed (literal) component.
func Fixed(name string) Component {
	return Component{name: name}
}

// Variable returns a variable component with the given type converter.
// A nil type means string.
func Variable(name string, t VarType) Component {
	if t == nil {
		t = String
	}
	return Component{name: name, vtype: t}
}

// VariableConstrained returns a variable component whose raw segment
// must additionally match re before type conversion. The constraint is
// a build-side refinement; it is not carried by the serialized listing.
func VariableConstrained(name string, t VarType, re *regexp.Regexp) Component {
	c := Variable(name, t)
	c.constraint = re
	return c
}

// Name returns the literal for fixed components, the variable name otherwise.
func (c Component) Name() string { return c.name }

// IsVariable reports whether the component is a variable.
func (c Component) IsVariable() bool { return c.vtype != nil }

// Type returns the variable's type converter, or nil for fixed components.
func (c Component) Type() VarType { return c.vtype }

// Convert matches a raw path segment against the component. Fixed
// components require literal equality; variables apply the constraint
// (if any) and then the type converter.
func (c Component) Convert(seg string) (any, error) {
	if c.vtype == nil {
		if seg != c.name {
			return nil, fmt.Errorf("segment %q does not match literal %q", seg, c.name)
		}
		return seg, nil
	}
	if c.constraint != nil && !c.constraint.MatchString(seg) {
		return nil, fmt.Errorf("segment %q does not match constraint for %q", seg, c.name)
	}
	return c.vtype.Parse(seg)
}

// String renders the component in listing form: the literal itself, or
// "(name)" / "(name:type)" for variables.
func (c Component) String() string {
	if c.vtype == nil {
		return c.name
	}
	if c.vtype.Name() == "string" {
		return "(" + c.name + ")"
	}
	return "(" + c.name + ":" + c.vtype.Name() + ")"
}

// Pattern is an ordered sequence of components describing the request
// paths a resource matches. Patterns are immutable once built; Append
// returns a new pattern.
type Pattern struct {
	comps []Component
}

// NewPattern builds a pattern from components.
func NewPattern(comps ...Component) Pattern {
	cp := make([]Component, len(comps))
	copy(cp, comps)
	return Pattern{comps: cp}
}

// Append returns a new pattern with c added at the end.
func (p Pattern) Append(c Component) Pattern {
	cp := make([]Component, 0, len(p.comps)+1)
	cp = append(cp, p.comps...)
	cp = append(cp, c)
	return Pattern{comps: cp}
}

// Components returns a copy of the component sequence.
func (p Pattern) Components() []Component {
	cp := make([]Component, len(p.comps))
	copy(cp, p.comps)
	return cp
}

// Len returns the number of components.
func (p Pattern) Len() int { return len(p.comps) }

// Variables returns the names of the variable components in order.
func (p Pattern) Variables() []string {
	var names []string
	for _, c := range p.comps {
		if c.IsVariable() {
			names = append(names, c.name)
		}
	}
	return names
}

// String renders the pattern as an absolute path, e.g.
// "/users/(id:int)/photos". The empty pattern renders as "/".
func (p Pattern) String() string {
	if len(p.comps) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, c := range p.comps {
		b.WriteByte('/')
		b.WriteString(c.String())
	}
	return b.String()
}

// varSegRe matches serialized variable components: "(name)" or "(name:type)".
var varSegRe = regexp.MustCompile(`^\(([A-Za-z_][A-Za-z0-9_]*)(?::([a-z]+))?\)$`)

// ParsePattern parses the listing form produced by Pattern.String.
// Regex constraints are not part of the wire form and are not restored.
func ParsePattern(s string) (Pattern, error) {
	s = strings.TrimSuffix(strings.TrimPrefix(s, "/"), "/")
	if s == "" {
		return Pattern{}, nil
	}

	var comps []Component
	for _, seg := range strings.Split(s, "/") {
		m := varSegRe.FindStringSubmatch(seg)
		if m == nil {
			if strings.ContainsAny(seg, "()") {
				return Pattern{}, fmt.Errorf("malformed component %q", seg)
			}
			comps = append(comps, Fixed(seg))
			continue
		}
		t, ok := TypeByName(m[2])
		if !ok {
			return Pattern{}, fmt.Errorf("unknown variable type %q in %q", m[2], seg)
		}
		comps = append(comps, Variable(m[1], t))
	}
	return Pattern{comps: comps}, nil
}

// SplitPath splits a request path into its segments, dropping empty
// ones. Reports whether the path carried a trailing slash.
func SplitPath(path string) (segs []string, trailing bool) {
	trailing = strings.HasSuffix(path, "/") && path != "/"
	for _, s := range strings.Split(strings.Trim(path, "/"), "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs, trailing
}
