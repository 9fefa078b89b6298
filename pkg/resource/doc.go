// Package resource defines the building blocks of a resource tree:
// path patterns, typed variable components, the closed set of node
// variants and the per-dispatch Context.
//
// A tree is assembled once at startup from folders, leaves and aliases:
//
//	root := resource.NewFolder().
//	    Set("home", resource.NewLeaf("@@Home", homeHandler)).
//	    Set("photos", resource.NewFolder().
//	        SetVar(resource.Variable("id", resource.Int),
//	            resource.NewLeaf("@@PhotoView", photoHandler)))
//
// Matching follows chain-of-responsibility: each node places the
// remaining path components as a delegation to a child, a terminal
// handler invocation, or no match. Folders try fixed children first,
// then variable children in declaration order; the first successful
// type conversion wins. Once a component is consumed there is no
// backtracking across sibling alternatives — ambiguous trees can
// misroute, which is a documented limitation of the resolver.
//
// Registration, dispatch and reverse URL generation live in
// package mapper.
package resource
