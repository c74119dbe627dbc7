package depgraph

import (
	"sort"
	"strings"
)

// Types returns every type known to the graph, sorted lexicographically.
// Because the reverse map is complete (every declared type and every
// dependency target has a key), the union with forward keys is taken
// defensively rather than out of need.
func (g *Graph) Types() []string {
	seen := make(map[string]struct{}, len(g.reverse))
	for t := range g.reverse {
		seen[t] = struct{}{}
	}
	for t := range g.forward {
		seen[t] = struct{}{}
	}

	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Filter narrows Types to entries containing the query as a case-insensitive
// substring. The query is trimmed first; an empty or whitespace-only query
// returns the full list. Sort order is preserved among matches.
func (g *Graph) Filter(query string) []string {
	all := g.Types()
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all
	}

	matches := make([]string, 0, len(all))
	for _, t := range all {
		if strings.Contains(strings.ToLower(t), query) {
			matches = append(matches, t)
		}
	}
	return matches
}

// DependsOn returns the sorted set of types the given type depends on.
// Unknown or empty types yield an empty slice, never a panic.
func (g *Graph) DependsOn(typ string) []string {
	return sortedSet(g.forward[typ])
}

// DependencyFor returns the sorted set of types that depend on the given
// type. Unknown or empty types yield an empty slice.
func (g *Graph) DependencyFor(typ string) []string {
	return sortedSet(g.reverse[typ])
}

// Declared reports whether the type appears as a record in the source
// document, as opposed to only ever being named as a dependency target.
func (g *Graph) Declared(typ string) bool {
	_, ok := g.forward[typ]
	return ok
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
