package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanonicalPairIsOrderIndependent(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	low1, high1 := CanonicalPair(a, b)
	low2, high2 := CanonicalPair(b, a)

	assert.Equal(t, low1, low2)
	assert.Equal(t, high1, high2)
	assert.True(t, low1.String() < high1.String())
}

func TestCanonicalPairKeepsBothIDs(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	low, high := CanonicalPair(a, b)
	assert.ElementsMatch(t, []uuid.UUID{a, b}, []uuid.UUID{low, high})
}
