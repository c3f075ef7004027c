package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		n, per, want int
	}{
		{0, 5, 1},
		{5, 5, 1},
		{6, 5, 2},
		{13, 12, 2},
		{7, 0, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.n, tt.per), "n=%d per=%d", tt.n, tt.per)
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	assert.Equal(t, []int{1, 2, 3}, Slice(items, 1, 3))
	assert.Equal(t, []int{7}, Slice(items, 3, 3))
	assert.Equal(t, []int{7}, Slice(items, 9, 3))
	assert.Equal(t, []int{1, 2, 3}, Slice(items, 0, 3))
	assert.Equal(t, []int{}, Slice([]int{}, 1, 3))
}

func TestNew(t *testing.T) {
	p := New([]string{"a", "b", "c", "d", "e", "f"}, 2, CartPerPage)

	assert.Equal(t, []string{"f"}, p.Items)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 6, p.TotalItems)
	assert.Equal(t, 2, p.TotalPages)
}
