package model

import "encoding/json"

// Overrides is a user-supplied patch applied to a dataset before graph
// construction: extra edges to union in, and misnamed edges to substitute.
// Overrides never create nodes; entries naming an unknown type are ignored.
type Overrides struct {
	AddDependencies     map[string][]string          `json:"addDependencies,omitempty"`
	ReplaceDependencies map[string]map[string]string `json:"replaceDependencies,omitempty"`
}

// UnmarshalJSON decodes an overrides document with the same tolerance as
// Document: sections or entries with the wrong shape are dropped, never
// fatal. Earlier dataset revisions shipped overrides with only
// addDependencies; both sections are optional.
func (o *Overrides) UnmarshalJSON(data []byte) error {
	*o = Overrides{}

	var raw struct {
		AddDependencies     json.RawMessage `json:"addDependencies"`
		ReplaceDependencies json.RawMessage `json:"replaceDependencies"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		var probe interface{}
		if jsonErr := json.Unmarshal(data, &probe); jsonErr != nil {
			return jsonErr
		}
		return nil
	}

	var add map[string]json.RawMessage
	if raw.AddDependencies != nil {
		// Non-object section: ignored, the other section may still be fine
		_ = json.Unmarshal(raw.AddDependencies, &add)
	}
	var replace map[string]json.RawMessage
	if raw.ReplaceDependencies != nil {
		_ = json.Unmarshal(raw.ReplaceDependencies, &replace)
	}

	for typ, entry := range add {
		var elems []json.RawMessage
		if err := json.Unmarshal(entry, &elems); err != nil {
			continue
		}
		deps := make([]string, 0, len(elems))
		for _, e := range elems {
			var s string
			if err := json.Unmarshal(e, &s); err == nil {
				deps = append(deps, s)
			}
		}
		if o.AddDependencies == nil {
			o.AddDependencies = make(map[string][]string)
		}
		o.AddDependencies[typ] = deps
	}

	for typ, entry := range replace {
		var subs map[string]json.RawMessage
		if err := json.Unmarshal(entry, &subs); err != nil {
			continue
		}
		repl := make(map[string]string, len(subs))
		for bad, val := range subs {
			var s string
			if err := json.Unmarshal(val, &s); err == nil {
				repl[bad] = s
			}
		}
		if o.ReplaceDependencies == nil {
			o.ReplaceDependencies = make(map[string]map[string]string)
		}
		o.ReplaceDependencies[typ] = repl
	}

	return nil
}

// Empty reports whether the overrides carry no patches at all.
func (o *Overrides) Empty() bool {
	return o == nil || (len(o.AddDependencies) == 0 && len(o.ReplaceDependencies) == 0)
}
