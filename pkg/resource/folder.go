package resource

import (
	"fmt"
	"sort"
	"strings"
)

// Folder consumes exactly one path component and delegates to a child.
// Fixed-name children are tried first (exact match), then variable
// children in declaration order; the first successful type conversion
// wins. The tie-break is declaration order, never specificity.
//
// A folder with a default child delegates to it when no components
// remain. Per the original coverage policy, such a folder is only
// registered (and coverage-counted) when it carries an explicit
// resource-id; otherwise the default child absorbs the access event.
type Folder struct {
	resid string
	doc   string

	names []string
	fixed map[string]Node
	vars  []varChild

	def     Node
	defName string

	menu bool
}

type varChild struct {
	comp  Component
	child Node
}

// FolderOption configures a Folder.
type FolderOption func(*Folder)

// FolderID gives the folder an explicit resource-id, making the folder
// itself linkable (used with defaults and menus).
func FolderID(resid string) FolderOption {
	return func(f *Folder) { f.resid = resid }
}

// FolderDoc sets the one-line docstring.
func FolderDoc(doc string) FolderOption {
	return func(f *Folder) { f.doc = doc }
}

// NewFolder creates a folder with no default.
func NewFolder(opts ...FolderOption) *Folder {
	f := &Folder{fixed: map[string]Node{}}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewFolderWithDefault creates a folder whose root delegates to def
// when no path components remain.
func NewFolderWithDefault(def Node, opts ...FolderOption) *Folder {
	f := NewFolder(opts...)
	f.def = def
	return f
}

// NewFolderWithDefaultName creates a folder whose default is the fixed
// child registered under name. The name is resolved lazily; the
// registry build verifies it exists.
func NewFolderWithDefaultName(name string, opts ...FolderOption) *Folder {
	f := NewFolder(opts...)
	f.defName = name
	return f
}

// NewFolderWithMenu creates a folder that serves an enumeration of its
// children when requested as a leaf. Matching semantics are otherwise
// identical to Folder.
func NewFolderWithMenu(opts ...FolderOption) *Folder {
	f := NewFolder(opts...)
	f.menu = true
	return f
}

// Set adds or replaces a fixed-name child. Insertion order is
// significant and preserved across replacement.
func (f *Folder) Set(name string, child Node) *Folder {
	if _, ok := f.fixed[name]; !ok {
		f.names = append(f.names, name)
	}
	f.fixed[name] = child
	return f
}

// SetVar appends a variable-typed child, tried in declaration order
// after all fixed children. c must be a variable component.
func (f *Folder) SetVar(c Component, child Node) *Folder {
	f.vars = append(f.vars, varChild{comp: c, child: child})
	return f
}

// Default returns the folder's default child, resolving a by-name
// default. Returns an error if the name does not resolve.
func (f *Folder) Default() (Node, error) {
	if f.def != nil {
		return f.def, nil
	}
	if f.defName == "" {
		return nil, nil
	}
	child, ok := f.fixed[f.defName]
	if !ok {
		return nil, fmt.Errorf("folder default child %q not found", f.defName)
	}
	f.def = child
	return child, nil
}

// HasMenu reports whether the folder serves a child menu at its root.
func (f *Folder) HasMenu() bool { return f.menu }

// ResID implements Node.
func (f *Folder) ResID() string { return f.resid }

// Doc implements Node.
func (f *Folder) Doc() string { return f.doc }

// Match implements Node.
func (f *Folder) Match(remaining []string, ctx *Context) Match {
	if len(remaining) == 0 {
		if def, err := f.Default(); err == nil && def != nil {
			return Delegate(def, 0)
		}
		if f.menu {
			return Terminal(f, HandlerFunc(f.serveMenu), 0)
		}
		return Match{}
	}

	head := remaining[0]
	if child, ok := f.fixed[head]; ok {
		return Delegate(child, 1)
	}

	for _, vc := range f.vars {
		v, err := vc.comp.Convert(head)
		if err != nil {
			continue
		}
		ctx.SetVar(vc.comp.Name(), v)
		return Delegate(vc.child, 1)
	}

	return Match{}
}

// MenuEntry describes one child of a menu folder.
type MenuEntry struct {
	// Name is the fixed path component, or the "(name:type)" form for
	// variable children.
	Name string

	// ResID is the child's resource-id, "" for anonymous children.
	ResID string
}

// Menu enumerates the folder's children for navigation. Fixed children
// come first in name order, then variable children in declaration
// order. This is a read operation; it has no effect on matching.
func (f *Folder) Menu() []MenuEntry {
	names := make([]string, len(f.names))
	copy(names, f.names)
	sort.Strings(names)

	entries := make([]MenuEntry, 0, len(names)+len(f.vars))
	for _, name := range names {
		entries = append(entries, MenuEntry{Name: name, ResID: f.fixed[name].ResID()})
	}
	for _, vc := range f.vars {
		entries = append(entries, MenuEntry{Name: vc.comp.String(), ResID: vc.child.ResID()})
	}
	return entries
}

// serveMenu writes the menu as plain text, one "name<TAB>resid" line
// per child. Hosting layers wanting HTML render from Menu directly.
func (f *Folder) serveMenu(ctx *Context) error {
	if ctx.Response == nil {
		return nil
	}
	ctx.Response.SetContentType("text/plain; charset=utf-8")
	var b strings.Builder
	for _, e := range f.Menu() {
		b.WriteString(e.Name)
		b.WriteByte('\t')
		b.WriteString(e.ResID)
		b.WriteByte('\n')
	}
	_, err := ctx.Response.Write([]byte(b.String()))
	return err
}

// Enumerate implements Node.
func (f *Folder) Enumerate(v *Visitor) {
	for _, name := range f.names {
		v.Fixed(name, f.fixed[name])
	}
	for _, vc := range f.vars {
		v.Var(vc.comp, vc.child)
	}

	def, _ := f.Default()
	if def != nil {
		if f.resid != "" {
			// The folder root itself is linkable only when it was
			// explicitly named. See the type doc for the policy.
			v.Target()
		} else if !f.linked(def) {
			v.Anon(def)
		}
		return
	}

	if f.menu {
		v.Target()
	}
}

// linked reports whether n is already reachable as a named child.
func (f *Folder) linked(n Node) bool {
	for _, name := range f.names {
		if f.fixed[name] == n {
			return true
		}
	}
	for _, vc := range f.vars {
		if vc.child == n {
			return true
		}
	}
	return false
}
