package datautil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	defaults := map[string]int{"timeout": 30, "retries": 3}

	t.Run("NilOverride", func(t *testing.T) {
		result := DefaultOptions(defaults, nil, false)
		assert.Equal(t, defaults, result)
	})

	t.Run("OverrideWins", func(t *testing.T) {
		result := DefaultOptions(defaults, map[string]int{"timeout": 60}, false)
		assert.Equal(t, 60, result["timeout"])
		assert.Equal(t, 3, result["retries"])
	})

	t.Run("UnknownKeysDropped", func(t *testing.T) {
		result := DefaultOptions(defaults, map[string]int{"extra": 1}, false)
		assert.NotContains(t, result, "extra")
	})

	t.Run("UnknownKeysAllowed", func(t *testing.T) {
		result := DefaultOptions(defaults, map[string]int{"extra": 1}, true)
		assert.Equal(t, 1, result["extra"])
	})

	t.Run("NilDefaults", func(t *testing.T) {
		assert.Nil(t, DefaultOptions(nil, map[string]int{"a": 1}, true))
	})

	t.Run("InputsNotMutated", func(t *testing.T) {
		override := map[string]int{"timeout": 60}
		result := DefaultOptions(defaults, override, false)
		result["timeout"] = 99
		assert.Equal(t, 30, defaults["timeout"])
		assert.Equal(t, 60, override["timeout"])
	})
}

func TestListJoin(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a, b, c", ListJoin([]string{"a", "b", "c"}, ", "))
	assert.Equal(t, "1-2-3", ListJoin([]int{1, 2, 3}, "-"))
	assert.Equal(t, "", ListJoin[string](nil, ","))
}
