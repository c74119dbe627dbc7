package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestOverridesDecode(t *testing.T) {
	data := `{
		"addDependencies": {"A": ["D", "E"]},
		"replaceDependencies": {"A": {"B_old": "B_new"}}
	}`

	var ov Overrides
	if err := json.Unmarshal([]byte(data), &ov); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(ov.AddDependencies["A"], []string{"D", "E"}) {
		t.Errorf("AddDependencies[A] = %v", ov.AddDependencies["A"])
	}
	if ov.ReplaceDependencies["A"]["B_old"] != "B_new" {
		t.Errorf("ReplaceDependencies[A] = %v", ov.ReplaceDependencies["A"])
	}
}

func TestOverridesDecodeAddOnly(t *testing.T) {
	var ov Overrides
	if err := json.Unmarshal([]byte(`{"addDependencies": {"A": ["B"]}}`), &ov); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if ov.ReplaceDependencies != nil {
		t.Errorf("ReplaceDependencies = %v, want nil", ov.ReplaceDependencies)
	}
	if ov.Empty() {
		t.Error("Overrides with additions should not be Empty")
	}
}

func TestOverridesDecodeMalformedSections(t *testing.T) {
	data := `{
		"addDependencies": {"A": ["B", 5, null], "Bad": "nope"},
		"replaceDependencies": {"A": {"old": "new", "num": 3}, "Bad": ["x"]}
	}`

	var ov Overrides
	if err := json.Unmarshal([]byte(data), &ov); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(ov.AddDependencies["A"], []string{"B"}) {
		t.Errorf("AddDependencies[A] = %v, want [B]", ov.AddDependencies["A"])
	}
	if _, ok := ov.AddDependencies["Bad"]; ok {
		t.Error("Non-array addDependencies entry should be dropped")
	}
	if !reflect.DeepEqual(ov.ReplaceDependencies["A"], map[string]string{"old": "new"}) {
		t.Errorf("ReplaceDependencies[A] = %v, want {old: new}", ov.ReplaceDependencies["A"])
	}
	if _, ok := ov.ReplaceDependencies["Bad"]; ok {
		t.Error("Non-object replaceDependencies entry should be dropped")
	}
}

func TestOverridesDecodeNonObjectSection(t *testing.T) {
	data := `{"addDependencies": "nope", "replaceDependencies": {"A": {"old": "new"}}}`

	var ov Overrides
	if err := json.Unmarshal([]byte(data), &ov); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if ov.AddDependencies != nil {
		t.Errorf("Non-object addDependencies should decode to nil, got %v", ov.AddDependencies)
	}
	if ov.ReplaceDependencies["A"]["old"] != "new" {
		t.Error("Valid replaceDependencies section should survive a bad sibling")
	}
}

func TestOverridesDecodeNonObject(t *testing.T) {
	var ov Overrides
	if err := json.Unmarshal([]byte(`["not", "an", "object"]`), &ov); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !ov.Empty() {
		t.Errorf("Non-object overrides should decode empty, got %+v", ov)
	}
}

func TestOverridesEmpty(t *testing.T) {
	var nilOv *Overrides
	if !nilOv.Empty() {
		t.Error("nil overrides should be Empty")
	}
	if !(&Overrides{}).Empty() {
		t.Error("zero-value overrides should be Empty")
	}
}
