package depgraph

import (
	"strings"

	"github.com/jkarls/resgraph/pkg/model"
)

// Apply patches a dependency document with overrides before graph
// construction. It is an identity transform whenever there is nothing to do:
// a nil document, a document without a resource list, or nil/empty overrides
// all return the document as-is.
//
// Otherwise Apply returns a deep copy of the document with, per record:
//
//  1. replaceDependencies applied first: each dependency entry equal to a
//     "bad" key in the record type's substitution map is swapped for its
//     replacement, everything else passes through in order.
//  2. addDependencies applied second: the record's dependency list becomes
//     the deduplicated union of its current entries and the added ones
//     (trimmed, empty-after-trim dropped).
//
// Override entries naming a type with no record are ignored; overrides never
// fabricate nodes. Neither input is mutated.
func Apply(doc *model.Document, ov *model.Overrides) *model.Document {
	if doc == nil || doc.Resources == nil {
		return doc
	}
	if ov.Empty() {
		return doc
	}

	out := doc.Clone()
	for i := range out.Resources {
		res := &out.Resources[i]
		if res.Type == "" {
			continue
		}

		if repl, ok := ov.ReplaceDependencies[res.Type]; ok && len(repl) > 0 {
			for j, dep := range res.Dependencies {
				if fixed, ok := repl[dep]; ok {
					res.Dependencies[j] = fixed
				}
			}
		}

		if added, ok := ov.AddDependencies[res.Type]; ok {
			res.Dependencies = unionDeps(res.Dependencies, added)
		}
	}

	return out
}

// unionDeps merges added entries into existing ones, preserving first
// occurrence order and dropping duplicates and blank additions.
func unionDeps(existing, added []string) []string {
	out := make([]string, 0, len(existing)+len(added))
	seen := make(map[string]struct{}, len(existing)+len(added))

	for _, dep := range existing {
		if _, ok := seen[dep]; ok {
			continue
		}
		seen[dep] = struct{}{}
		out = append(out, dep)
	}
	for _, dep := range added {
		dep = strings.TrimSpace(dep)
		if dep == "" {
			continue
		}
		if _, ok := seen[dep]; ok {
			continue
		}
		seen[dep] = struct{}{}
		out = append(out, dep)
	}

	return out
}
