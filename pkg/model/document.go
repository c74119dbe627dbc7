package model

import "encoding/json"

// Resource is one entry in a dependency document: a resource type and the
// types it depends on.
type Resource struct {
	Type         string   `json:"type"`
	Dependencies []string `json:"dependencies"`
}

// Document is the top-level parsed dataset. Version is display-only and takes
// no part in graph construction. A nil Resources slice means the document had
// no usable resource list and is treated as an empty graph downstream.
type Document struct {
	Version   string     `json:"version,omitempty"`
	Resources []Resource `json:"resources"`
}

// rawResource mirrors Resource with every field deferred, so a single bad
// field never fails the record around it.
type rawResource struct {
	Type         json.RawMessage   `json:"type"`
	Dependencies []json.RawMessage `json:"dependencies"`
}

// UnmarshalJSON decodes a dependency document leniently. Datasets are
// external and versioned independently of this tool, so shape problems
// degrade instead of erroring:
//
//   - top-level value that is not an object: empty document
//   - missing or non-array "resources": nil resource list
//   - non-string "type": empty type (the graph builder skips the record)
//   - non-string entries in "dependencies": dropped, the rest kept
//
// Only syntactically invalid JSON returns an error.
func (d *Document) UnmarshalJSON(data []byte) error {
	*d = Document{}

	var raw struct {
		Version   json.RawMessage `json:"version"`
		Resources json.RawMessage `json:"resources"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		// Not an object at all. Still valid JSON, so degrade to empty.
		var probe interface{}
		if jsonErr := json.Unmarshal(data, &probe); jsonErr != nil {
			return jsonErr
		}
		return nil
	}

	if raw.Version != nil {
		var v string
		if err := json.Unmarshal(raw.Version, &v); err == nil {
			d.Version = v
		}
	}

	var entries []json.RawMessage
	if raw.Resources == nil || json.Unmarshal(raw.Resources, &entries) != nil {
		// Missing or non-array resources: empty graph downstream.
		return nil
	}

	d.Resources = make([]Resource, 0, len(entries))
	for _, entry := range entries {
		var rr rawResource
		if err := json.Unmarshal(entry, &rr); err != nil {
			// Not object-shaped. Keep a typeless record so positions stay
			// stable; the builder ignores it.
			d.Resources = append(d.Resources, Resource{})
			continue
		}

		var res Resource
		if rr.Type != nil {
			var t string
			if err := json.Unmarshal(rr.Type, &t); err == nil {
				res.Type = t
			}
		}
		for _, dep := range rr.Dependencies {
			var s string
			if err := json.Unmarshal(dep, &s); err == nil {
				res.Dependencies = append(res.Dependencies, s)
			}
		}
		d.Resources = append(d.Resources, res)
	}

	return nil
}

// Clone returns a structurally independent copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{Version: d.Version}
	if d.Resources == nil {
		return out
	}
	out.Resources = make([]Resource, len(d.Resources))
	for i, r := range d.Resources {
		out.Resources[i] = Resource{Type: r.Type}
		if r.Dependencies != nil {
			out.Resources[i].Dependencies = append([]string(nil), r.Dependencies...)
		}
	}
	return out
}
