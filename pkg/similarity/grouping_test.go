package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"semsim-be/pkg/store"
)

func frag(text string, vector ...float32) store.Fragment {
	return store.Fragment{Text: text, Vector: vector}
}

func TestGroupEmptyInput(t *testing.T) {
	groups, err := Group(nil, 0.75)

	assert.NoError(t, err)
	assert.Empty(t, groups)
}

func TestGroupPairsSimilarFragments(t *testing.T) {
	fragments := []store.Fragment{
		frag("cats are great", 1, 0, 0),
		frag("cats are wonderful", 0.9, 0.43589, 0),
		frag("the stock market fell", 0.1, 0, 0.99499),
	}

	groups, err := Group(fragments, 0.75)

	assert.NoError(t, err)
	assert.Len(t, groups, 1)
	assert.Equal(t, []string{"cats are great", "cats are wonderful"}, groups[0])
}

func TestGroupDropsSingletons(t *testing.T) {
	fragments := []store.Fragment{
		frag("alpha", 1, 0, 0),
		frag("beta", 0, 1, 0),
		frag("gamma", 0, 0, 1),
	}

	groups, err := Group(fragments, 0.75)

	assert.NoError(t, err)
	assert.Empty(t, groups)
}

func TestGroupPreservesInputOrder(t *testing.T) {
	// Two clusters interleaved in the input. Group order must follow the
	// order references appear; member order follows match order.
	fragments := []store.Fragment{
		frag("a1", 1, 0, 0),
		frag("b1", 0, 1, 0),
		frag("a2", 0.99, 0.14, 0),
		frag("b2", 0, 0.98, 0.19),
		frag("a3", 0.98, 0.19, 0),
	}

	groups, err := Group(fragments, 0.9)

	assert.NoError(t, err)
	assert.Equal(t, [][]string{
		{"a1", "a2", "a3"},
		{"b1", "b2"},
	}, groups)
}

func TestGroupComparesAgainstReferenceOnly(t *testing.T) {
	// b is similar to the reference a; c is similar to b but not to a.
	// c must not join the group: membership is measured against the
	// reference, never transitively through other members.
	fragments := []store.Fragment{
		frag("a", 1, 0),
		frag("b", 0.82, 0.573),
		frag("c", 0.4, 0.917),
	}

	groups, err := Group(fragments, 0.8)

	assert.NoError(t, err)
	assert.Len(t, groups, 1)
	assert.Equal(t, []string{"a", "b"}, groups[0])
}

func TestGroupIsDeterministic(t *testing.T) {
	fragments := []store.Fragment{
		frag("one", 1, 0, 0),
		frag("two", 0.95, 0.31, 0),
		frag("three", 0, 1, 0),
		frag("four", 0.1, 0.99, 0),
	}

	first, err := Group(fragments, 0.8)
	assert.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := Group(fragments, 0.8)
		assert.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestGroupDimensionMismatch(t *testing.T) {
	fragments := []store.Fragment{
		frag("a", 1, 0, 0),
		frag("b", 1, 0),
	}

	_, err := Group(fragments, 0.5)

	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestGroupThresholdBoundaryIsInclusive(t *testing.T) {
	// Exactly at the threshold counts as similar.
	fragments := []store.Fragment{
		frag("x", 1, 0),
		frag("y", 1, 0),
	}

	groups, err := Group(fragments, 1.0)

	assert.NoError(t, err)
	assert.Len(t, groups, 1)
	assert.Equal(t, []string{"x", "y"}, groups[0])
}
