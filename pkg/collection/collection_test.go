package collection_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/catalogue/pkg/collection"
)

func TestMapNeverReturnsNil(t *testing.T) {
	out := collection.Map([]int(nil), func(i int) string { return "x" })
	assert.NotNil(t, out)
	assert.Empty(t, out)

	assert.Equal(t, []int{2, 4}, collection.Map([]int{1, 2}, func(i int) int { return i * 2 }))
}

func TestFilterKeepsOrder(t *testing.T) {
	odd := collection.Filter([]int{1, 2, 3, 4, 5}, func(i int) bool { return i%2 == 1 })
	assert.Equal(t, []int{1, 3, 5}, odd)
}

func TestUniqueByKeepsFirst(t *testing.T) {
	tags := []string{"Retail", "pos", "retail", "POS", "guides"}
	got := collection.UniqueBy(tags, strings.ToLower)
	assert.Equal(t, []string{"Retail", "pos", "guides"}, got)
}

func TestPointersAlias(t *testing.T) {
	s := []int{1, 2}
	p := collection.Pointers(s)
	*p[1] = 7
	assert.Equal(t, 7, s[1])
}
