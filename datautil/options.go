// Package datautil collects small list, map and statistics helpers shared by
// downstream application code.
package datautil

import (
	"fmt"
	"strings"
)

// DefaultOptions combines two maps into a new one, where keys in override
// replace keys in defaults. Neither input is mutated. Override keys without
// a default are dropped unless allowUnknown is set. A nil override returns a
// copy of the defaults.
func DefaultOptions[V any](defaults, override map[string]V, allowUnknown bool) map[string]V {
	if defaults == nil {
		return nil
	}

	result := make(map[string]V, len(defaults))
	for key, value := range defaults {
		result[key] = value
	}
	for key, value := range override {
		if _, known := defaults[key]; known || allowUnknown {
			result[key] = value
		}
	}
	return result
}

// ListJoin stringifies a slice of arbitrary values and joins them with a
// separator.
func ListJoin[V any](parts []V, separator string) string {
	rendered := make([]string, len(parts))
	for i, part := range parts {
		rendered[i] = fmt.Sprintf("%v", part)
	}
	return strings.Join(rendered, separator)
}
