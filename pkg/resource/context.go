package resource

import (
	"context"
	"fmt"
)

// Responder is the minimal response sink handlers write to. The hosting
// adapter (HTTP, CGI, test buffer) supplies the implementation; the
// resolver core never interprets what is written.
type Responder interface {
	SetContentType(ct string)
	Write(p []byte) (int, error)
}

// Lookup supplies values for variable components by name during URL
// generation. Implementations should be O(1) per lookup.
type Lookup interface {
	Lookup(name string) (any, bool)
}

// Args is a map-based Lookup.
type Args map[string]any

// Lookup implements Lookup.
func (a Args) Lookup(name string) (any, bool) {
	v, ok := a[name]
	return v, ok
}

// NoArgs is an empty Lookup for resources without variables.
var NoArgs = Args{}

// BuildFunc reverse-generates a URL for a resource-id. The caller id is
// the resource currently handling the request, or "" outside a
// dispatch; it feeds call-graph reporting.
type BuildFunc func(callerID, id string, args Lookup) (string, error)

// Context is the per-dispatch mutable bag: captured variable values,
// request arguments and handler-attached fields. It is created at
// dispatch start, owned by exactly one in-flight resolution, and
// discarded at dispatch end. It is not safe for concurrent use.
type Context struct {
	// Method is the request method as given by the hosting layer.
	Method string

	// Path is the request path, root prefix already stripped.
	Path string

	// Args are the request arguments (query or form variables).
	Args map[string]string

	// Response is the sink handlers write to. May be nil when the
	// hosting layer does not expect output (e.g. probing dispatches).
	Response Responder

	std       context.Context
	vars      map[string]any
	fields    map[string]any
	currentID string
	build     BuildFunc
}

// NewContext creates a dispatch context.
func NewContext(method, path string, args map[string]string) *Context {
	if args == nil {
		args = map[string]string{}
	}
	return &Context{
		Method: method,
		Path:   path,
		Args:   args,
		std:    context.Background(),
		vars:   map[string]any{},
		fields: map[string]any{},
	}
}

// Std returns the standard library context carried by the dispatch.
func (c *Context) Std() context.Context { return c.std }

// WithStd attaches a standard library context.
func (c *Context) WithStd(ctx context.Context) *Context {
	if ctx != nil {
		c.std = ctx
	}
	return c
}

// SetVar records a captured variable value. Later captures of the same
// name overwrite; the registry build rejects patterns with duplicate
// variable names, so overwrites only happen on alias substitution.
func (c *Context) SetVar(name string, v any) {
	c.vars[name] = v
}

// Var returns a captured variable value.
func (c *Context) Var(name string) (any, bool) {
	v, ok := c.vars[name]
	return v, ok
}

// Vars returns a copy of all captured variables.
func (c *Context) Vars() map[string]any {
	cp := make(map[string]any, len(c.vars))
	for k, v := range c.vars {
		cp[k] = v
	}
	return cp
}

// Int returns a captured variable as an int.
func (c *Context) Int(name string) (int, bool) {
	switch v := c.vars[name].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}

// String returns a captured variable as a string, converting typed
// values through fmt.
func (c *Context) String(name string) (string, bool) {
	v, ok := c.vars[name]
	if !ok {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprint(v), true
}

// SetField attaches an arbitrary handler-visible field.
func (c *Context) SetField(key string, v any) {
	c.fields[key] = v
}

// Field returns a handler-attached field.
func (c *Context) Field(key string) (any, bool) {
	v, ok := c.fields[key]
	return v, ok
}

// CurrentID is the resource-id currently being handled, or "" before a
// terminal node is reached.
func (c *Context) CurrentID() string { return c.currentID }

// SetCurrentID is called by the dispatcher when a terminal node is
// reached, before its handler runs.
func (c *Context) SetCurrentID(id string) { c.currentID = id }

// SetBuilder wires the URL builder used by URL. The dispatcher installs
// this at dispatch start.
func (c *Context) SetBuilder(f BuildFunc) { c.build = f }

// URL reverse-generates the URL for a resource-id, filling variables
// from args. When called from inside a handler it also records a
// call-graph edge from the handling resource to id.
func (c *Context) URL(id string, args Lookup) (string, error) {
	if c.build == nil {
		return "", fmt.Errorf("no URL builder attached to context")
	}
	if args == nil {
		args = NoArgs
	}
	return c.build(c.currentID, id, args)
}
