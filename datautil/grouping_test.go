package datautil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type groupItem struct {
	Category string
	Rank     int
}

func TestGroupObjects(t *testing.T) {
	t.Parallel()

	items := []groupItem{
		{"a", 3},
		{"b", 1},
		{"a", 2},
	}

	grouping := GroupObjects(items, func(item groupItem) string { return item.Category })

	require.Len(t, grouping, 2)
	assert.Equal(t, []groupItem{{"a", 3}, {"a", 2}}, grouping["a"])
	assert.Equal(t, []groupItem{{"b", 1}}, grouping["b"])

	t.Run("EmptyInput", func(t *testing.T) {
		empty := GroupObjects(nil, func(item groupItem) string { return item.Category })
		assert.Empty(t, empty)
	})
}

func TestSortGrouping(t *testing.T) {
	t.Parallel()

	grouping := map[string][]groupItem{
		"a": {{"a", 3}, {"a", 1}, {"a", 2}},
		"b": {{"b", 2}, {"b", 1}},
	}

	sorted := SortGrouping(grouping, func(x, y groupItem) bool { return x.Rank < y.Rank })

	assert.Equal(t, []groupItem{{"a", 1}, {"a", 2}, {"a", 3}}, sorted["a"])
	assert.Equal(t, []groupItem{{"b", 1}, {"b", 2}}, sorted["b"])
}
