package mesh

import (
	"testing"

	"github.com/james-bowman/sparse"
	"github.com/stretchr/testify/assert"
)

func TestLineMesh(t *testing.T) {
	var (
		K          = 50
		xMin, xMax = -1., 1.
	)
	g, err := NewLineMesh(K, xMin, xMax, BC_Dirichlet, BC_Dirichlet)
	assert.NoError(t, err)
	assert.Equal(t, K+1, g.NumNodes)
	assert.Equal(t, 1, g.Dim)

	{ // Total lumped mass equals the interval length
		var total float64
		for _, m := range g.Mass {
			assert.True(t, m > 0)
			total += m
		}
		assert.InEpsilon(t, xMax-xMin, total, 1.e-13)
	}
	{ // Interior rows sum to zero, all rows are antisymmetric
		cij := func(i, j int) (c float64, found bool) {
			g.ForEachNeighbor(i, func(jj int, v []float64) {
				if jj == j {
					c, found = v[0], true
				}
			})
			return
		}
		for i := 0; i < g.NumNodes; i++ {
			var rowSum float64
			g.ForEachNeighbor(i, func(j int, v []float64) {
				rowSum += v[0]
				cji, found := cij(j, i)
				assert.True(t, found)
				assert.Equal(t, -v[0], cji)
			})
			if i != 0 && i != g.NumNodes-1 {
				assert.InDelta(t, 0., rowSum, 1.e-14)
				assert.Equal(t, 2, g.NumNeighbors(i))
			} else {
				assert.Equal(t, 1, g.NumNeighbors(i))
			}
		}
	}
	{ // End nodes carry outward normals
		bn := g.BoundaryNodes()
		assert.Equal(t, 2, len(bn))
		assert.Equal(t, 0, bn[0].Index)
		assert.Equal(t, -1., bn[0].Normal[0])
		assert.Equal(t, K, bn[1].Index)
		assert.Equal(t, 1., bn[1].Normal[0])
		assert.Equal(t, "dirichlet", bn[0].Type.String())
	}
	{ // Node coordinates are uniform
		assert.Equal(t, xMin, g.X[0][0])
		assert.InDelta(t, xMax, g.X[K][0], 1.e-13)
		h := (xMax - xMin) / float64(K)
		assert.InDelta(t, h, g.X[1][0]-g.X[0][0], 1.e-13)
	}
}

func TestLineMeshErrors(t *testing.T) {
	_, err := NewLineMesh(1, 0, 1, BC_None, BC_None)
	assert.Error(t, err)
	_, err = NewLineMesh(10, 1, 1, BC_None, BC_None)
	assert.Error(t, err)
}

func TestNewGraphErrors(t *testing.T) {
	var (
		dok = sparse.NewDOK(2, 2)
		X   = [][]float64{{0}, {1}}
	)
	dok.Set(0, 1, 0.5)
	dok.Set(1, 0, -0.5)
	_, err := NewGraph(X, []float64{1}, []*sparse.DOK{dok}, nil)
	assert.Error(t, err) // mass count mismatch
	_, err = NewGraph(X, []float64{1, 0}, []*sparse.DOK{dok}, nil)
	assert.Error(t, err) // non positive mass
	_, err = NewGraph([][]float64{{0, 0}, {1, 0}}, []float64{1, 1}, []*sparse.DOK{dok}, nil)
	assert.Error(t, err) // coordinate dimension mismatch
	_, err = NewGraph(X, []float64{1, 1}, []*sparse.DOK{sparse.NewDOK(3, 3)}, nil)
	assert.Error(t, err) // matrix shape mismatch
	_, err = NewGraph(X, []float64{1, 1}, []*sparse.DOK{dok},
		[]BoundaryNode{{Index: 5, Type: BC_None, Normal: []float64{1}}})
	assert.Error(t, err) // boundary index out of range

	g, err := NewGraph(X, []float64{1, 1}, []*sparse.DOK{dok}, nil)
	assert.NoError(t, err)
	assert.Equal(t, 2, g.NumEdges())
	assert.Empty(t, g.BoundaryNodes())
}
