package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnrolledSetReplaceAddRemove(t *testing.T) {
	set := NewEnrolledSet()
	assert.False(t, set.Seeded())
	assert.Empty(t, set.IDs())

	set.Replace([]int{9, 3, 3, 5})
	assert.True(t, set.Seeded())
	assert.Equal(t, []int{3, 5, 9}, set.IDs())

	set.Add(1, 5)
	set.Remove(9, 42)
	assert.Equal(t, []int{1, 3, 5}, set.IDs())
	assert.Equal(t, 3, set.Len())
	assert.True(t, set.Contains(1))
	assert.False(t, set.Contains(9))

	set.Replace(nil)
	assert.True(t, set.Seeded())
	assert.Zero(t, set.Len())
}
