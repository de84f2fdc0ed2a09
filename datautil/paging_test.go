package datautil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaging(t *testing.T) {
	t.Parallel()

	t.Run("Defaults", func(t *testing.T) {
		paging := NewPaging(0, 0)
		assert.Equal(t, 0, paging.Page)
		assert.Equal(t, 25, paging.PageSize)
	})

	t.Run("NegativesClamped", func(t *testing.T) {
		paging := NewPaging(-3, -10)
		assert.Equal(t, 0, paging.Page)
		assert.Equal(t, 25, paging.PageSize)
	})

	t.Run("OffsetAndLimit", func(t *testing.T) {
		paging := NewPaging(3, 10)
		assert.Equal(t, 30, paging.Offset())
		assert.Equal(t, 10, paging.Limit())
	})
}
