package solver

import "fmt"

// InadmissibleStateError reports a state that left the invariant domain
// during an update stage
type InadmissibleStateError struct {
	Node     int
	Quantity string
	Value    float64
	Stage    int
}

func (e *InadmissibleStateError) Error() string {
	if e.Stage <= 0 {
		return fmt.Sprintf("inadmissible state at node %d after the completed step: %s = %g",
			e.Node, e.Quantity, e.Value)
	}
	return fmt.Sprintf("inadmissible state at node %d, stage %d: %s = %g",
		e.Node, e.Stage, e.Quantity, e.Value)
}

// CFLViolationError reports a stage whose admissible time step shrank below
// the step size chosen at the first stage
type CFLViolationError struct {
	Tau    float64
	TauMax float64
	CFL    float64
	Stage  int
}

func (e *CFLViolationError) Error() string {
	return fmt.Sprintf("CFL violation at stage %d: tau = %g exceeds %g * %g",
		e.Stage, e.Tau, e.CFL, e.TauMax)
}
