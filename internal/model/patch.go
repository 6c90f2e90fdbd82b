package model

import (
	"encoding/json"
	"fmt"
)

// ApplyPatch overwrites the whitelisted fields of a record with values from
// patch, leaving every other stored field untouched. Patch keys outside the
// whitelist are ignored. The record is round-tripped through its JSON form
// so the closed record shape still applies to the patched values.
func ApplyPatch(r Record, patch map[string]any, allowed []string) error {
	current, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("apply patch: %w", err)
	}
	fields := make(map[string]any)
	if err := json.Unmarshal(current, &fields); err != nil {
		return fmt.Errorf("apply patch: %w", err)
	}

	touched := false
	for _, key := range allowed {
		v, ok := patch[key]
		if !ok {
			continue
		}
		fields[key] = v
		touched = true
	}
	if !touched {
		return &ValidationError{Errors: []FieldError{{Field: "patch", Message: "no patchable fields supplied"}}}
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("apply patch: %w", err)
	}
	if err := json.Unmarshal(merged, r); err != nil {
		return fmt.Errorf("apply patch: %w", err)
	}
	return nil
}
