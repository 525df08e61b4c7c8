package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	for _, nPar := range []int{1, 2, 3, 7, 16} {
		for _, maxIndex := range []int{16, 17, 100, 101} {
			if nPar > maxIndex {
				continue
			}
			pm := NewPartitionMap(nPar, maxIndex)
			var covered int
			prevEnd := 0
			for np := 0; np < nPar; np++ {
				iMin, iMax := pm.GetBucketRange(np)
				assert.Equal(t, prevEnd, iMin)
				assert.True(t, iMax > iMin)
				// Imbalance of at most one item
				assert.True(t, pm.GetBucketDimension(np)-maxIndex/nPar <= 1)
				covered += iMax - iMin
				prevEnd = iMax
			}
			assert.Equal(t, maxIndex, covered)
			assert.Equal(t, maxIndex, prevEnd)
		}
	}
}

func TestMathHelpers(t *testing.T) {
	assert.Equal(t, 8., POW(2, 3))
	assert.Equal(t, 0.25, POW(2, -2))
	assert.Equal(t, 1., POW(5, 0))
	assert.InEpsilon(t, math.Pow(2, 7), POW(2, 7), 1.e-14)

	assert.Equal(t, 3., PositivePart(3))
	assert.Equal(t, 0., PositivePart(-3))
	// NegativePart returns the magnitude of the negative part
	assert.Equal(t, 3., NegativePart(-3))
	assert.Equal(t, 0., NegativePart(3))
}
