package mesh

import (
	"fmt"

	"github.com/james-bowman/sparse"
)

type BCType uint8

const (
	BC_None BCType = iota
	BC_Dirichlet
	BC_Reflecting
)

func (bc BCType) String() string {
	switch bc {
	case BC_None:
		return "none"
	case BC_Dirichlet:
		return "dirichlet"
	case BC_Reflecting:
		return "reflecting"
	}
	return "unknown"
}

// BoundaryNode ties a node index to its condition and outward unit normal
type BoundaryNode struct {
	Index  int
	Type   BCType
	Normal []float64
}

/*
	Graph is the assembled stencil of a continuous finite element mesh with
	lumped mass: for each node i, the neighbors j and the coefficient vectors

		c_ij = integral( phi_j * grad(phi_i) )

	Interior rows are skew symmetric, c_ij = -c_ji, and sum to zero, which is
	what makes the graph viscosity update conservative. The coefficients are
	assembled into sparse DOK matrices, one per space dimension, converted to
	CSR, then flattened into adjacency arrays for the solver inner loop.
*/
type Graph struct {
	Dim      int
	NumNodes int
	X        [][]float64 // node coordinates, NumNodes x Dim
	Mass     []float64   // lumped mass per node

	rowPtr []int
	cols   []int
	coeffs []float64 // Dim entries per adjacency slot

	boundary []BoundaryNode
}

// ForEachNeighbor visits every neighbor j of node i with its coefficient
// vector. The slice passed to visit aliases internal storage and must not be
// retained.
func (g *Graph) ForEachNeighbor(i int, visit func(j int, cij []float64)) {
	for k := g.rowPtr[i]; k < g.rowPtr[i+1]; k++ {
		visit(g.cols[k], g.coeffs[k*g.Dim:(k+1)*g.Dim])
	}
}

// ForEachEdge is ForEachNeighbor with the global adjacency slot exposed,
// letting callers keep per-edge data in flat arrays of length NumEdges
func (g *Graph) ForEachEdge(i int, visit func(slot, j int, cij []float64)) {
	for k := g.rowPtr[i]; k < g.rowPtr[i+1]; k++ {
		visit(k, g.cols[k], g.coeffs[k*g.Dim:(k+1)*g.Dim])
	}
}

func (g *Graph) NumNeighbors(i int) (n int) {
	n = g.rowPtr[i+1] - g.rowPtr[i]
	return
}

func (g *Graph) NumEdges() (n int) {
	n = len(g.cols)
	return
}

func (g *Graph) BoundaryNodes() (bn []BoundaryNode) {
	bn = g.boundary
	return
}

// assemble flattens per-dimension DOK matrices sharing one sparsity pattern.
// The pattern is taken from the first dimension's CSR rows.
func assemble(dim, numNodes int, dok []*sparse.DOK) (rowPtr []int, cols []int, coeffs []float64) {
	var (
		csr = make([]*sparse.CSR, dim)
	)
	for d := 0; d < dim; d++ {
		csr[d] = dok[d].ToCSR()
	}
	rowPtr = make([]int, numNodes+1)
	for i := 0; i < numNodes; i++ {
		rowPtr[i+1] = rowPtr[i] + csr[0].RowNNZ(i)
	}
	cols = make([]int, rowPtr[numNodes])
	coeffs = make([]float64, rowPtr[numNodes]*dim)
	for i := 0; i < numNodes; i++ {
		k := rowPtr[i]
		csr[0].DoRowNonZero(i, func(_, j int, v float64) {
			cols[k] = j
			coeffs[k*dim] = v
			for d := 1; d < dim; d++ {
				coeffs[k*dim+d] = csr[d].At(i, j)
			}
			k++
		})
	}
	return
}

/*
	NewGraph assembles a stencil graph from per dimension coefficient
	matrices in DOK form, one square matrix per space dimension, all
	sharing the sparsity pattern of the first. The coordinate slice fixes
	the node count. Boundary nodes may be nil for a graph without strong
	boundary data.
*/
func NewGraph(X [][]float64, mass []float64, dok []*sparse.DOK,
	boundary []BoundaryNode) (g *Graph, err error) {
	var (
		numNodes = len(X)
		dim      = len(dok)
	)
	if numNodes == 0 || dim == 0 {
		err = fmt.Errorf("need at least one node and one dimension, have %d and %d",
			numNodes, dim)
		return
	}
	if len(mass) != numNodes {
		err = fmt.Errorf("have %d mass entries for %d nodes", len(mass), numNodes)
		return
	}
	for i := range X {
		if len(X[i]) != dim {
			err = fmt.Errorf("node %d has %d coordinates in %d dimensions",
				i, len(X[i]), dim)
			return
		}
		if mass[i] <= 0 {
			err = fmt.Errorf("non positive lumped mass %v at node %d", mass[i], i)
			return
		}
	}
	for d := range dok {
		if r, c := dok[d].Dims(); r != numNodes || c != numNodes {
			err = fmt.Errorf("coefficient matrix %d is %dx%d, need %dx%d",
				d, r, c, numNodes, numNodes)
			return
		}
	}
	for _, bn := range boundary {
		if bn.Index < 0 || bn.Index >= numNodes {
			err = fmt.Errorf("boundary node index %d out of range", bn.Index)
			return
		}
	}
	g = &Graph{
		Dim:      dim,
		NumNodes: numNodes,
		X:        X,
		Mass:     mass,
		boundary: boundary,
	}
	g.rowPtr, g.cols, g.coeffs = assemble(dim, numNodes, dok)
	return
}

/*
	NewLineMesh builds the P1 finite element graph of the interval
	[xMin, xMax] split into K cells of equal width h. Node i sits at
	xMin + i*h. With lumped mass the interior rows are

		m_i = h,  c_i,i+1 = +1/2,  c_i,i-1 = -1/2

	and the end rows carry half mass. The two end nodes are registered as
	boundary nodes with outward normals -1 and +1.
*/
func NewLineMesh(K int, xMin, xMax float64, leftBC, rightBC BCType) (g *Graph, err error) {
	if K < 2 {
		err = fmt.Errorf("line mesh needs at least 2 cells, have %d", K)
		return
	}
	if xMax <= xMin {
		err = fmt.Errorf("empty interval [%v,%v]", xMin, xMax)
		return
	}
	var (
		numNodes = K + 1
		h        = (xMax - xMin) / float64(K)
		dok      = []*sparse.DOK{sparse.NewDOK(numNodes, numNodes)}
		X        = make([][]float64, numNodes)
		mass     = make([]float64, numNodes)
	)
	for i := 0; i < numNodes; i++ {
		X[i] = []float64{xMin + float64(i)*h}
		mass[i] = h
	}
	mass[0] = 0.5 * h
	mass[numNodes-1] = 0.5 * h
	for i := 0; i < K; i++ {
		dok[0].Set(i, i+1, 0.5)
		dok[0].Set(i+1, i, -0.5)
	}
	g, err = NewGraph(X, mass, dok, []BoundaryNode{
		{Index: 0, Type: leftBC, Normal: []float64{-1}},
		{Index: numNodes - 1, Type: rightBC, Normal: []float64{1}},
	})
	return
}
