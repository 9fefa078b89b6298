package resource

// Leaf is a terminal, content-serving resource. It may optionally
// consume one trailing variable component (a trailing identifier such
// as /photos/(id:int)); its pattern already covers that component.
type Leaf struct {
	resid   string
	doc     string
	handler Handler
	tail    *Component
}

// LeafOption configures a Leaf.
type LeafOption func(*Leaf)

// LeafDoc sets the one-line docstring.
func LeafDoc(doc string) LeafOption {
	return func(l *Leaf) { l.doc = doc }
}

// LeafVar makes the leaf consume one trailing variable component.
// c must be a variable component.
func LeafVar(c Component) LeafOption {
	return func(l *Leaf) { l.tail = &c }
}

// NewLeaf creates a leaf resource. The resource-id must be non-empty;
// leaves are always linkable.
func NewLeaf(resid string, handler Handler, opts ...LeafOption) *Leaf {
	l := &Leaf{resid: resid, handler: handler}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ResID implements Node.
func (l *Leaf) ResID() string { return l.resid }

// Doc implements Node.
func (l *Leaf) Doc() string { return l.doc }

// Match implements Node. A plain leaf terminates on zero remaining
// components; a leaf with a trailing variable requires exactly one,
// converts it and captures the value.
func (l *Leaf) Match(remaining []string, ctx *Context) Match {
	if l.tail == nil {
		if len(remaining) != 0 {
			return Match{}
		}
		return Terminal(l, l.handler, 0)
	}

	if len(remaining) != 1 {
		return Match{}
	}
	v, err := l.tail.Convert(remaining[0])
	if err != nil {
		return Match{}
	}
	ctx.SetVar(l.tail.Name(), v)
	return Terminal(l, l.handler, 1)
}

// Enumerate implements Node.
func (l *Leaf) Enumerate(v *Visitor) {
	if l.tail != nil {
		v.TargetVar(*l.tail)
		return
	}
	v.Target()
}
