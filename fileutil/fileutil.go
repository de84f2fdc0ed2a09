// Package fileutil provides JSON file read/write helpers.
package fileutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
)

// WriteJSON writes a map or slice to a JSON file. Nil values and payloads
// that are neither maps nor slices are rejected.
func WriteJSON(path string, data any) error {
	if data == nil {
		return errors.New("no data provided")
	}
	kind := reflect.ValueOf(data).Kind()
	if kind == reflect.Ptr {
		kind = reflect.ValueOf(data).Elem().Kind()
	}
	if kind != reflect.Map && kind != reflect.Slice {
		return fmt.Errorf("invalid data provided, expected map or slice, got %T", data)
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to serialise data: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadJSON reads a JSON file into a generic value. A missing file returns
// (nil, nil).
func ReadJSON(path string) (any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return result, nil
}

// ReadJSONInto reads a JSON file into the provided target. A missing file
// returns os.ErrNotExist.
func ReadJSONInto(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
