package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Merge applies a deployment overlay to base and returns a new snapshot.
// Only the keys present in the overlay are touched; nested mappings are
// merged key by key, while scalars and lists are replaced. Neither input is
// mutated. Overlay keys that do not exist in the schema are rejected, so a
// misspelled override fails here rather than being silently dropped.
//
// This is the extension point for the deployment substitution step that
// replaces placeholder sentinels; the substitution mechanism itself lives
// outside this package.
func Merge(base *Document, overlay map[string]any) (*Document, error) {
	generic, err := base.asMap()
	if err != nil {
		return nil, fmt.Errorf("merge overlay: %w", err)
	}

	merged := deepMerge(generic, overlay)

	buf, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("merge overlay: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.DisallowUnknownFields()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("merge overlay: %w", err)
	}
	return &doc, nil
}

// asMap round-trips the document through its serialized form, yielding the
// generic nested mapping used by the placeholder scan and the merge step.
func (d *Document) asMap() (map[string]any, error) {
	buf, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}

	var generic map[string]any
	if err := json.Unmarshal(buf, &generic); err != nil {
		return nil, err
	}
	return generic, nil
}

func deepMerge(base, overlay map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overlay))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range overlay {
		existing, ok := out[key].(map[string]any)
		incoming, nested := value.(map[string]any)
		if ok && nested {
			out[key] = deepMerge(existing, incoming)
			continue
		}
		out[key] = value
	}
	return out
}
