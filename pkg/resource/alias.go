package resource

// Alias forwards both dispatch and URL generation to another
// resource-id, optionally substituting fixed argument values. It owns
// no pattern and no content of its own and is excluded from "handled"
// coverage accounting.
type Alias struct {
	resid  string
	doc    string
	target string
	args   map[string]string
}

// AliasOption configures an Alias.
type AliasOption func(*Alias)

// AliasDoc sets the one-line docstring.
func AliasDoc(doc string) AliasOption {
	return func(a *Alias) { a.doc = doc }
}

// AliasArg fixes a variable of the target pattern to a constant value.
// Fixed values override caller-supplied ones.
func AliasArg(name, value string) AliasOption {
	return func(a *Alias) {
		if a.args == nil {
			a.args = map[string]string{}
		}
		a.args[name] = value
	}
}

// NewAlias creates an alias from resid to target.
func NewAlias(resid, target string, opts ...AliasOption) *Alias {
	a := &Alias{resid: resid, target: target}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Target returns the aliased resource-id.
func (a *Alias) Target() string { return a.target }

// FixedArgs returns a copy of the alias's fixed argument values.
func (a *Alias) FixedArgs() map[string]string {
	cp := make(map[string]string, len(a.args))
	for k, v := range a.args {
		cp[k] = v
	}
	return cp
}

// ResID implements Node.
func (a *Alias) ResID() string { return a.resid }

// Doc implements Node.
func (a *Alias) Doc() string { return a.doc }

// Match implements Node. Aliases are not independently matchable; the
// dispatcher resolves them through the registry before matching
// continues at the target node.
func (a *Alias) Match(remaining []string, ctx *Context) Match {
	return Match{}
}

// Enumerate implements Node.
func (a *Alias) Enumerate(v *Visitor) {
	v.Target()
}
