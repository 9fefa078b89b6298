package report

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// CallGraphEdge is one recorded caller→callee link: while handling
// caller, a URL for callee was generated.
type CallGraphEdge struct {
	Caller string
	Callee string
}

// CallGraph accumulates unique call-graph edges in memory and
// optionally appends them to a writer, one "caller callee" line per
// edge, suitable for post-processing into a graphviz file.
//
// It is pure observation: it never affects dispatch outcome.
type CallGraph struct {
	mu    sync.Mutex
	seen  map[CallGraphEdge]bool
	edges []CallGraphEdge
	out   io.Writer
}

// NewCallGraph creates a call-graph reporter. out may be nil to only
// accumulate in memory.
func NewCallGraph(out io.Writer) *CallGraph {
	return &CallGraph{seen: map[CallGraphEdge]bool{}, out: out}
}

// Accessed implements Reporter.
func (g *CallGraph) Accessed(id string) {}

// Rendered implements Reporter.
func (g *CallGraph) Rendered(id string) {}

// Edge implements EdgeReporter. Duplicate edges are recorded once.
func (g *CallGraph) Edge(caller, callee string) {
	e := CallGraphEdge{Caller: caller, Callee: callee}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.seen[e] {
		return
	}
	g.seen[e] = true
	g.edges = append(g.edges, e)
	if g.out != nil {
		fmt.Fprintf(g.out, "%s %s\n", caller, callee)
	}
}

// Edges returns the recorded edges sorted by caller then callee.
func (g *CallGraph) Edges() []CallGraphEdge {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]CallGraphEdge, len(g.edges))
	copy(out, g.edges)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Caller != out[j].Caller {
			return out[i].Caller < out[j].Caller
		}
		return out[i].Callee < out[j].Callee
	})
	return out
}
