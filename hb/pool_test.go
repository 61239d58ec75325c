package hb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeaturePoolEmpty(t *testing.T) {
	p := NewFeaturePool(4)
	s, err := p.Acquire(0)
	require.NoError(t, err)
	assert.Nil(t, s.Features())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 1, p.Outstanding())

	s.Release()
	assert.Equal(t, 0, p.Outstanding())
}

func TestFeaturePoolAcquireRelease(t *testing.T) {
	p := NewFeaturePool(0)
	kern := NewFeature(TagFromString("kern"), 1, FeatureGlobalStart, FeatureGlobalEnd)

	s, err := p.Acquire(3)
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())
	s.Set(1, kern)
	assert.Equal(t, kern, s.Features()[1])

	s.Release()
	s.Release()
	assert.Equal(t, 0, p.Outstanding())
	assert.Nil(t, s.Features())

	// A reused array must come back zeroed.
	s, err = p.Acquire(2)
	require.NoError(t, err)
	for _, f := range s.Features() {
		assert.Equal(t, Feature{}, f)
	}
	s.Release()
}

func TestFeaturePoolLimit(t *testing.T) {
	p := NewFeaturePool(2)
	assert.Equal(t, 2, p.Max())

	_, err := p.Acquire(3)
	assert.ErrorIs(t, err, ErrAllocation)
	assert.Equal(t, 0, p.Outstanding())

	_, err = p.Acquire(-1)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, p.Outstanding())
}

func TestFeatureScratchNilRelease(t *testing.T) {
	var s *FeatureScratch
	assert.NotPanics(t, s.Release)
}
