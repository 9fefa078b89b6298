package resource

// Handler is the terminal operation of a resource.
type Handler interface {
	Handle(ctx *Context) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx *Context) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx *Context) error { return f(ctx) }

// MatchKind discriminates the outcome of a node's match step.
type MatchKind int

const (
	// KindNoMatch means the node cannot place the remaining components.
	KindNoMatch MatchKind = iota

	// KindDelegated means a child consumes some components next.
	KindDelegated

	// KindTerminated means a handler should be invoked here.
	KindTerminated
)

// Match is the result of one step of chain-of-responsibility matching.
type Match struct {
	// Kind discriminates the variant.
	Kind MatchKind

	// Node is the delegate child (KindDelegated) or the terminal node
	// (KindTerminated).
	Node Node

	// Handler is the invocation target when Kind is KindTerminated.
	Handler Handler

	// Consumed is how many leading components this step consumed.
	Consumed int
}

// Delegate builds a delegation match.
func Delegate(child Node, consumed int) Match {
	return Match{Kind: KindDelegated, Node: child, Consumed: consumed}
}

// Terminal builds a terminal match.
func Terminal(node Node, h Handler, consumed int) Match {
	return Match{Kind: KindTerminated, Node: node, Handler: h, Consumed: consumed}
}

// Node is one resource in the tree. The variant set is closed: Leaf,
// Folder (plain, with default, with menu) and Alias.
type Node interface {
	// ResID returns the node's resource-id, or "" for anonymous nodes.
	// Anonymous nodes participate in matching but are not registered
	// and cannot be linked to.
	ResID() string

	// Doc returns a one-line docstring for listings.
	Doc() string

	// Match inspects the remaining path components and yields a
	// delegation, a terminal invocation, or no match.
	Match(remaining []string, ctx *Context) Match

	// Enumerate declares the node's branches and linkable targets for
	// the registry build traversal.
	Enumerate(v *Visitor)
}
