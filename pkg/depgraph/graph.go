package depgraph

import (
	"github.com/jkarls/resgraph/pkg/model"
	"gonum.org/v1/gonum/graph/simple"
)

// Graph holds the derived dependency graph for one dataset: a forward
// adjacency map ("A depends on B" lives in forward[A]) and a reverse
// adjacency map ("B is depended on by A" lives in reverse[B]).
//
// A Graph is a disposable projection of one document+overrides pair. It is
// rebuilt from scratch whenever either changes and never patched in place.
type Graph struct {
	forward map[string]map[string]struct{}
	reverse map[string]map[string]struct{}

	// Edge store mirroring the adjacency maps, used for node/edge counts
	// and whole-graph enumeration.
	dg     *simple.DirectedGraph
	ids    map[string]int64
	names  map[int64]string
	nextID int64
}

func newGraph() *Graph {
	return &Graph{
		forward: make(map[string]map[string]struct{}),
		reverse: make(map[string]map[string]struct{}),
		dg:      simple.NewDirectedGraph(),
		ids:     make(map[string]int64),
		names:   make(map[int64]string),
	}
}

// Build constructs the graph from a dependency document in a single pass.
//
// A nil document, or one without a resource list, yields an empty graph.
// Records whose type is empty are skipped whole. Repeated records for the
// same type accumulate into one node (union of their dependency lists).
// Every type that appears anywhere, as a declaring record or as a dependency
// target, ends up as a reverse-map key so zero-fan-in nodes stay enumerable.
// Forward-map keys exist only for declared record types; a type that is only
// ever a dependency target has no forward entry.
//
// Build never mutates the document.
func Build(doc *model.Document) *Graph {
	g := newGraph()
	if doc == nil || doc.Resources == nil {
		return g
	}

	for _, res := range doc.Resources {
		if res.Type == "" {
			continue
		}
		from := res.Type
		if g.forward[from] == nil {
			g.forward[from] = make(map[string]struct{})
		}
		g.ensureNode(from)

		for _, dep := range res.Dependencies {
			g.forward[from][dep] = struct{}{}
			if g.reverse[dep] == nil {
				g.reverse[dep] = make(map[string]struct{})
			}
			g.reverse[dep][from] = struct{}{}
			g.ensureNode(dep)
			g.addEdge(from, dep)
		}

		if g.reverse[from] == nil {
			g.reverse[from] = make(map[string]struct{})
		}
	}

	return g
}

func (g *Graph) ensureNode(name string) {
	if _, ok := g.ids[name]; ok {
		return
	}
	id := g.nextID
	g.nextID++
	g.ids[name] = id
	g.names[id] = name
	g.dg.AddNode(simple.Node(id))
}

func (g *Graph) addEdge(from, to string) {
	// simple.DirectedGraph rejects self loops; the adjacency maps still
	// record them.
	if from == to {
		return
	}
	fid, tid := g.ids[from], g.ids[to]
	if !g.dg.HasEdgeFromTo(fid, tid) {
		g.dg.SetEdge(g.dg.NewEdge(simple.Node(fid), simple.Node(tid)))
	}
}

// NodeCount returns the number of distinct types in the graph.
func (g *Graph) NodeCount() int {
	return g.dg.Nodes().Len()
}

// EdgeCount returns the number of distinct dependency edges, self-edges
// excluded.
func (g *Graph) EdgeCount() int {
	return g.dg.Edges().Len()
}

// Edges returns every dependency edge as [from, to] pairs, in no particular
// order.
func (g *Graph) Edges() [][2]string {
	var edges [][2]string
	iter := g.dg.Edges()
	for iter.Next() {
		e := iter.Edge()
		edges = append(edges, [2]string{g.names[e.From().ID()], g.names[e.To().ID()]})
	}
	return edges
}
