// Package jsonmap provides a dot-path wrapper around map[string]any and a
// document mapping base for moving values between structs and JSON shapes.
package jsonmap

import (
	"encoding/json"
	"strings"
)

// Map wraps a map[string]any with dot-path traversal, so nested values can be
// read and written without chained index expressions and type assertions.
// Nested maps (including maps inside slices) are converted to Map on the way
// in, mirroring how values were provided.
type Map map[string]any

// New creates a Map from the provided data, converting nested map structures
// recursively. A nil input yields an empty Map.
func New(data map[string]any) Map {
	if data == nil {
		return Map{}
	}
	result := make(Map, len(data))
	for key, value := range data {
		result[key] = convertValue(value)
	}
	return result
}

// convertValue converts nested maps and slices of maps into Map values.
func convertValue(value any) any {
	switch typed := value.(type) {
	case Map:
		return typed
	case map[string]any:
		return New(typed)
	case []map[string]any:
		converted := make([]any, len(typed))
		for i, item := range typed {
			converted[i] = New(item)
		}
		return converted
	case []any:
		converted := make([]any, len(typed))
		for i, item := range typed {
			converted[i] = convertValue(item)
		}
		return converted
	default:
		return value
	}
}

// Get traverses the map along a dot-separated path and reports whether the
// full path exists.
func (m Map) Get(path string) (any, bool) {
	parts := strings.Split(path, ".")
	current := m
	for i, part := range parts {
		value, ok := current[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return value, true
		}
		next, ok := value.(Map)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

// Set writes a value at a dot-separated path, creating intermediate maps as
// needed. Map-shaped values are converted the same way New converts them.
func (m Map) Set(path string, value any) {
	parts := strings.Split(path, ".")
	current := m
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(Map)
		if !ok {
			next = Map{}
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = convertValue(value)
}

// Has reports whether the full dot-separated path exists.
func (m Map) Has(path string) bool {
	_, ok := m.Get(path)
	return ok
}

// Delete removes the value at a dot-separated path. Missing intermediate
// segments are ignored.
func (m Map) Delete(path string) {
	parts := strings.Split(path, ".")
	current := m
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(Map)
		if !ok {
			return
		}
		current = next
	}
	delete(current, parts[len(parts)-1])
}

// Keys returns the top-level keys of the map.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}

// GetString returns the string at path or the fallback.
func (m Map) GetString(path, fallback string) string {
	if value, ok := m.Get(path); ok {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return fallback
}

// GetInt returns the integer at path or the fallback. JSON-decoded numbers
// arrive as float64 and are truncated.
func (m Map) GetInt(path string, fallback int) int {
	value, ok := m.Get(path)
	if !ok {
		return fallback
	}
	switch typed := value.(type) {
	case int:
		return typed
	case int64:
		return int(typed)
	case float64:
		return int(typed)
	default:
		return fallback
	}
}

// GetFloat returns the float at path or the fallback.
func (m Map) GetFloat(path string, fallback float64) float64 {
	value, ok := m.Get(path)
	if !ok {
		return fallback
	}
	switch typed := value.(type) {
	case float64:
		return typed
	case float32:
		return float64(typed)
	case int:
		return float64(typed)
	case int64:
		return float64(typed)
	default:
		return fallback
	}
}

// GetBool returns the boolean at path or the fallback.
func (m Map) GetBool(path string, fallback bool) bool {
	if value, ok := m.Get(path); ok {
		if b, ok := value.(bool); ok {
			return b
		}
	}
	return fallback
}

// GetMap returns the nested Map at path or nil.
func (m Map) GetMap(path string) Map {
	if value, ok := m.Get(path); ok {
		if nested, ok := value.(Map); ok {
			return nested
		}
	}
	return nil
}

// GetSlice returns the slice at path or nil.
func (m Map) GetSlice(path string) []any {
	if value, ok := m.Get(path); ok {
		if slice, ok := value.([]any); ok {
			return slice
		}
	}
	return nil
}

// ToMap reverts the Map into a plain map[string]any, deeply.
func (m Map) ToMap() map[string]any {
	result := make(map[string]any, len(m))
	for key, value := range m {
		result[key] = revertValue(value)
	}
	return result
}

func revertValue(value any) any {
	switch typed := value.(type) {
	case Map:
		return typed.ToMap()
	case []any:
		reverted := make([]any, len(typed))
		for i, item := range typed {
			reverted[i] = revertValue(item)
		}
		return reverted
	default:
		return value
	}
}

// MarshalJSON serialises the Map as a plain JSON object.
func (m Map) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ToMap())
}

// UnmarshalJSON decodes a JSON object into the Map, converting nested
// structures.
func (m *Map) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = New(raw)
	return nil
}
