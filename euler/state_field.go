package euler

// StateField holds the conserved states of all nodes in one flat backing
// slice, NumComp values per node. Per-node views alias the backing store.
type StateField struct {
	NumNodes, NumComp int
	Data              []float64
}

func NewStateField(numNodes, numComp int) (sf *StateField) {
	sf = &StateField{
		NumNodes: numNodes,
		NumComp:  numComp,
		Data:     make([]float64, numNodes*numComp),
	}
	return
}

func (sf *StateField) At(i int) (U []float64) {
	U = sf.Data[i*sf.NumComp : (i+1)*sf.NumComp]
	return
}

func (sf *StateField) Assign(i int, U []float64) {
	copy(sf.At(i), U)
}

func (sf *StateField) CopyFrom(src *StateField) {
	copy(sf.Data, src.Data)
}

func (sf *StateField) Copy() (dup *StateField) {
	dup = NewStateField(sf.NumNodes, sf.NumComp)
	dup.CopyFrom(sf)
	return
}
