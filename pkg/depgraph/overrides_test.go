package depgraph

import (
	"reflect"
	"testing"

	"github.com/jkarls/resgraph/pkg/model"
)

func TestApplyNilOverrides(t *testing.T) {
	d := doc(res("A", "B"))
	if got := Apply(d, nil); got != d {
		t.Error("Apply with nil overrides should return the document unchanged")
	}
}

func TestApplyNilDocument(t *testing.T) {
	ov := &model.Overrides{AddDependencies: map[string][]string{"A": {"B"}}}
	if got := Apply(nil, ov); got != nil {
		t.Errorf("Apply(nil, ov) = %v, want nil", got)
	}
}

func TestApplyMissingResources(t *testing.T) {
	d := &model.Document{Version: "v1"}
	ov := &model.Overrides{AddDependencies: map[string][]string{"A": {"B"}}}
	if got := Apply(d, ov); got != d {
		t.Error("Apply should be identity when the document has no resource list")
	}
}

func TestApplyAddDependencies(t *testing.T) {
	d := doc(res("A", "B", "C"), res("B"))
	ov := &model.Overrides{AddDependencies: map[string][]string{"A": {"D"}}}

	g := Build(Apply(d, ov))
	if got := g.DependsOn("A"); !reflect.DeepEqual(got, []string{"B", "C", "D"}) {
		t.Errorf("DependsOn(A) = %v, want [B C D]", got)
	}
}

func TestApplyAddUnknownTypeIgnored(t *testing.T) {
	d := doc(res("A", "B"))
	ov := &model.Overrides{AddDependencies: map[string][]string{"Z": {"D"}}}

	patched := Apply(d, ov)
	if !reflect.DeepEqual(patched.Resources, d.Resources) {
		t.Errorf("Unknown type override changed the document: %+v", patched.Resources)
	}
	g := Build(patched)
	for _, typ := range g.Types() {
		if typ == "Z" {
			t.Error("Override fabricated node Z")
		}
	}
}

func TestApplyAddTrimsAndDedupes(t *testing.T) {
	d := doc(res("A", "B", "B"))
	ov := &model.Overrides{AddDependencies: map[string][]string{"A": {" C ", "", "B", "  "}}}

	patched := Apply(d, ov)
	if got := patched.Resources[0].Dependencies; !reflect.DeepEqual(got, []string{"B", "C"}) {
		t.Errorf("Dependencies = %v, want deduplicated [B C]", got)
	}
}

func TestApplyReplaceDependencies(t *testing.T) {
	d := doc(res("A", "B_old"))
	ov := &model.Overrides{ReplaceDependencies: map[string]map[string]string{
		"A": {"B_old": "B_new"},
	}}

	g := Build(Apply(d, ov))
	if got := g.DependsOn("A"); !reflect.DeepEqual(got, []string{"B_new"}) {
		t.Errorf("DependsOn(A) = %v, want [B_new]", got)
	}
	if got := g.DependencyFor("B_old"); len(got) != 0 {
		t.Errorf("B_old still has incoming edges: %v", got)
	}
}

func TestApplyReplaceBeforeAdd(t *testing.T) {
	// Added entries are not retroactively replaced: replace runs first.
	d := doc(res("A", "B_old"))
	ov := &model.Overrides{
		ReplaceDependencies: map[string]map[string]string{"A": {"B_old": "B_new"}},
		AddDependencies:     map[string][]string{"A": {"B_old"}},
	}

	patched := Apply(d, ov)
	if got := patched.Resources[0].Dependencies; !reflect.DeepEqual(got, []string{"B_new", "B_old"}) {
		t.Errorf("Dependencies = %v, want [B_new B_old]", got)
	}
}

func TestApplyAddIdempotent(t *testing.T) {
	d := doc(res("A", "B"), res("B"))
	ov := &model.Overrides{AddDependencies: map[string][]string{"A": {"C", "D"}}}

	once := Apply(d, ov)
	twice := Apply(once, ov)
	if !reflect.DeepEqual(once.Resources, twice.Resources) {
		t.Errorf("Apply not idempotent for additions: %+v vs %+v", once.Resources, twice.Resources)
	}
}

func TestApplyDoesNotMutateInputs(t *testing.T) {
	d := doc(res("A", "B_old", "C"))
	ov := &model.Overrides{
		ReplaceDependencies: map[string]map[string]string{"A": {"B_old": "B_new"}},
		AddDependencies:     map[string][]string{"A": {"D"}},
	}

	Apply(d, ov)

	if !reflect.DeepEqual(d.Resources[0].Dependencies, []string{"B_old", "C"}) {
		t.Errorf("Apply mutated the document: %v", d.Resources[0].Dependencies)
	}
	if !reflect.DeepEqual(ov.AddDependencies["A"], []string{"D"}) {
		t.Errorf("Apply mutated the overrides: %v", ov.AddDependencies["A"])
	}
}

func TestApplyDuplicateRecordsPatchedIndividually(t *testing.T) {
	d := doc(res("A", "B"), res("A", "C"))
	ov := &model.Overrides{AddDependencies: map[string][]string{"A": {"D"}}}

	g := Build(Apply(d, ov))
	if got := g.DependsOn("A"); !reflect.DeepEqual(got, []string{"B", "C", "D"}) {
		t.Errorf("DependsOn(A) = %v, want [B C D]", got)
	}
}
