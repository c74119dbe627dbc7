package output

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/jkarls/resgraph/pkg/store"
)

// PrintReport prints a colorized per-version summary of the loaded datasets
func PrintReport(dataDir string, snaps []*store.Snapshot) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	bold.Println("Resource Graph Explorer - Dataset Report")
	bold.Println("========================================")
	fmt.Printf("Data directory: %s\n", dataDir)

	if len(snaps) == 0 {
		yellow.Println("No datasets found")
		return
	}
	fmt.Printf("Datasets: %d\n\n", len(snaps))

	for _, snap := range snaps {
		header := snap.Version
		if snap.Label != "" && snap.Label != snap.Version {
			header = fmt.Sprintf("%s (%s)", snap.Version, snap.Label)
		}
		green.Printf("%s\n", header)
		fmt.Printf("  Types: %d\n", snap.Graph.NodeCount())
		fmt.Printf("  Dependencies: %d\n", snap.Graph.EdgeCount())

		top := mostDependedOn(snap, 5)
		if len(top) > 0 {
			fmt.Println("  Most depended upon:")
			for _, entry := range top {
				cyan.Printf("    %-40s", entry.typ)
				fmt.Printf(" %d\n", entry.count)
			}
		}
		fmt.Println()
	}
}

type fanIn struct {
	typ   string
	count int
}

// mostDependedOn ranks types by reverse-edge fan-in, ties broken by name
func mostDependedOn(snap *store.Snapshot, limit int) []fanIn {
	var entries []fanIn
	for _, typ := range snap.Graph.Types() {
		if n := len(snap.Graph.DependencyFor(typ)); n > 0 {
			entries = append(entries, fanIn{typ: typ, count: n})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].typ < entries[j].typ
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
