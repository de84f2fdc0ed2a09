package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	t.Run("WritesMap", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data.json")
		require.NoError(t, WriteJSON(path, map[string]any{"key": "value"}))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.JSONEq(t, `{"key":"value"}`, string(content))
	})

	t.Run("WritesSlice", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "list.json")
		require.NoError(t, WriteJSON(path, []int{1, 2, 3}))
	})

	t.Run("RejectsNil", func(t *testing.T) {
		assert.Error(t, WriteJSON(filepath.Join(t.TempDir(), "nil.json"), nil))
	})

	t.Run("RejectsScalar", func(t *testing.T) {
		assert.Error(t, WriteJSON(filepath.Join(t.TempDir(), "scalar.json"), 42))
	})
}

func TestReadJSON(t *testing.T) {
	t.Parallel()

	t.Run("RoundTrip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data.json")
		require.NoError(t, WriteJSON(path, map[string]any{"count": 3}))

		result, err := ReadJSON(path)
		require.NoError(t, err)
		decoded, ok := result.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, 3.0, decoded["count"])
	})

	t.Run("MissingFile", func(t *testing.T) {
		result, err := ReadJSON(filepath.Join(t.TempDir(), "absent.json"))
		assert.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("InvalidContent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

		_, err := ReadJSON(path)
		assert.Error(t, err)
	})
}

func TestReadJSONInto(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	t.Run("DecodesIntoTarget", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data.json")
		require.NoError(t, WriteJSON(path, map[string]any{"name": "alice", "count": 2}))

		var target payload
		require.NoError(t, ReadJSONInto(path, &target))
		assert.Equal(t, payload{Name: "alice", Count: 2}, target)
	})

	t.Run("MissingFile", func(t *testing.T) {
		var target payload
		err := ReadJSONInto(filepath.Join(t.TempDir(), "absent.json"), &target)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}
