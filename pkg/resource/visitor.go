package resource

// BranchKind discriminates the ways a node can delegate during the
// registry build traversal.
type BranchKind int

const (
	// BranchFixed consumes a fixed path component.
	BranchFixed BranchKind = iota

	// BranchVar consumes a variable path component.
	BranchVar

	// BranchAnon delegates without consuming a component (default
	// children reachable only through their folder).
	BranchAnon
)

// Branch is one declared delegation of a node.
type Branch struct {
	Kind  BranchKind
	Comp  Component // fixed literal or variable component; zero for anon
	Child Node
}

// Visitor collects a node's declarations during the registry build.
// Nodes declare which children they delegate to and whether they are
// themselves linkable at this point in the path.
type Visitor struct {
	target   bool
	tail     *Component
	branches []Branch
}

// Target declares the visited node linkable at the current path.
func (v *Visitor) Target() {
	v.target = true
}

// TargetVar declares the node linkable while consuming one trailing
// variable component.
func (v *Visitor) TargetVar(c Component) {
	v.target = true
	v.tail = &c
}

// Fixed declares a fixed-component delegation.
func (v *Visitor) Fixed(name string, child Node) {
	v.branches = append(v.branches, Branch{Kind: BranchFixed, Comp: Fixed(name), Child: child})
}

// Var declares a variable-component delegation.
func (v *Visitor) Var(c Component, child Node) {
	v.branches = append(v.branches, Branch{Kind: BranchVar, Comp: c, Child: child})
}

// Anon declares a delegation that consumes no component.
func (v *Visitor) Anon(child Node) {
	v.branches = append(v.branches, Branch{Kind: BranchAnon, Child: child})
}

// IsTarget reports whether the node declared itself linkable.
func (v *Visitor) IsTarget() bool { return v.target }

// Tail returns the trailing variable component, if any.
func (v *Visitor) Tail() *Component { return v.tail }

// Branches returns the declared delegations in declaration order.
func (v *Visitor) Branches() []Branch { return v.branches }
