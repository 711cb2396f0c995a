package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Resource names the three managed collections. They double as cache key
// prefixes and audit rows, so keep them stable.
const (
	ResourceCandidates = "candidates"
	ResourceDemands    = "demands"
	ResourceInterviews = "interviews"
)

// Document is the whole local fallback store: one JSON file, three arrays.
type Document struct {
	Candidates []Candidate `json:"candidates"`
	Demands    []Demand    `json:"demands"`
	Interviews []Interview `json:"interviews"`
}

// ApplyPatch shallow-merges a sparse JSON patch into rec (a pointer to a
// record struct). Keys the struct doesn't declare are dropped; the field
// sets are closed on purpose. "id" is never patched.
func ApplyPatch(rec any, patch map[string]any) error {
	cur, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	var m map[string]any
	if err := json.Unmarshal(cur, &m); err != nil {
		return err
	}
	for k, v := range patch {
		if k == "id" {
			continue
		}
		m[k] = v
	}
	merged, err := json.Marshal(m)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(merged))
	if err := dec.Decode(rec); err != nil {
		return fmt.Errorf("apply patch: %w", err)
	}
	return nil
}
