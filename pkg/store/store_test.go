package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestStoreReload(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "v1.json", `{"version": "one", "resources": [{"type": "A", "dependencies": ["B"]}]}`)
	writeFile(t, dir, "v2.json", `{"resources": [{"type": "A", "dependencies": ["C"]}]}`)
	writeFile(t, dir, "notes.txt", "not a dataset")

	s := New(dir)
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	if got := s.Versions(); !reflect.DeepEqual(got, []string{"v1", "v2"}) {
		t.Errorf("Versions() = %v, want [v1 v2]", got)
	}

	latest, ok := s.Latest()
	if !ok || latest != "v2" {
		t.Errorf("Latest() = %q/%v, want v2", latest, ok)
	}

	snap, ok := s.Snapshot("v1")
	if !ok {
		t.Fatal("Snapshot(v1) not found")
	}
	if snap.Label != "one" {
		t.Errorf("Snapshot label = %q, want one", snap.Label)
	}
	if got := snap.Graph.DependsOn("A"); !reflect.DeepEqual(got, []string{"B"}) {
		t.Errorf("v1 DependsOn(A) = %v, want [B]", got)
	}
}

func TestStoreSnapshotLatestSelector(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "v1.json", `{"resources": [{"type": "A", "dependencies": ["B"]}]}`)
	writeFile(t, dir, "v2.json", `{"resources": [{"type": "A", "dependencies": ["C"]}]}`)

	s := New(dir)
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	snap, ok := s.Snapshot("")
	if !ok || snap.Version != "v2" {
		t.Errorf("Snapshot(\"\") = %v/%v, want latest v2", snap, ok)
	}
	if _, ok := s.Snapshot("v99"); ok {
		t.Error("Snapshot(v99) should not exist")
	}
}

func TestStoreAppliesOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "v1.json", `{"resources": [{"type": "A", "dependencies": ["B_old"]}]}`)
	writeFile(t, dir, OverridesFile, `{
		"addDependencies": {"A": ["D"]},
		"replaceDependencies": {"A": {"B_old": "B"}}
	}`)

	s := New(dir)
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	// overrides.json must not show up as a dataset version.
	if got := s.Versions(); !reflect.DeepEqual(got, []string{"v1"}) {
		t.Fatalf("Versions() = %v, want [v1]", got)
	}

	snap, _ := s.Snapshot("v1")
	if got := snap.Graph.DependsOn("A"); !reflect.DeepEqual(got, []string{"B", "D"}) {
		t.Errorf("DependsOn(A) = %v, want [B D]", got)
	}
	if s.Overrides().Empty() {
		t.Error("Overrides() should report the loaded overrides")
	}
}

func TestStoreSkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.json", `{"resources": []}`)
	writeFile(t, dir, "broken.json", `{"resources": [`)

	s := New(dir)
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	if got := s.Versions(); !reflect.DeepEqual(got, []string{"good"}) {
		t.Errorf("Versions() = %v, want [good]", got)
	}
}

func TestStoreBadOverridesIgnored(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "v1.json", `{"resources": [{"type": "A", "dependencies": ["B"]}]}`)
	writeFile(t, dir, OverridesFile, `{{{`)

	s := New(dir)
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	snap, _ := s.Snapshot("v1")
	if got := snap.Graph.DependsOn("A"); !reflect.DeepEqual(got, []string{"B"}) {
		t.Errorf("DependsOn(A) = %v, want untouched [B]", got)
	}
}

func TestStoreReloadSwapsWholesale(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "v1.json", `{"resources": [{"type": "A", "dependencies": ["B"]}]}`)

	s := New(dir)
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	before, _ := s.Snapshot("v1")

	writeFile(t, dir, "v1.json", `{"resources": [{"type": "A", "dependencies": ["C"]}]}`)
	if err := s.Reload(); err != nil {
		t.Fatalf("second Reload failed: %v", err)
	}

	after, _ := s.Snapshot("v1")
	if before == after {
		t.Error("Reload should replace snapshots, not reuse them")
	}
	if got := before.Graph.DependsOn("A"); !reflect.DeepEqual(got, []string{"B"}) {
		t.Errorf("Old snapshot changed after reload: %v", got)
	}
	if got := after.Graph.DependsOn("A"); !reflect.DeepEqual(got, []string{"C"}) {
		t.Errorf("New snapshot DependsOn(A) = %v, want [C]", got)
	}
}

func TestStoreMissingDirectory(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing"))
	if err := s.Reload(); err == nil {
		t.Error("Reload on a missing directory should fail")
	}
	if got := s.Versions(); len(got) != 0 {
		t.Errorf("Versions() after failed reload = %v", got)
	}
}
