package solver

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/idflow/euler"
)

type TimeSteppingScheme string

const (
	SSPRK33 TimeSteppingScheme = "ssprk_33"
	ERK33   TimeSteppingScheme = "erk_33"
	ERK43   TimeSteppingScheme = "erk_43"
)

type CFLRecoveryStrategy string

const (
	RecoveryNone    CFLRecoveryStrategy = "none"
	BangBangControl CFLRecoveryStrategy = "bang_bang_control"
)

/*
	TimeIntegrator composes forward Euler sub-steps of the HyperbolicModule
	into one of three explicit Runge Kutta schemes:

		ssprk_33  Shu Osher SSPRK(3,3), convex combinations only
		erk_33    RK(3,3) with b = (1/4, 0, 3/4)
		erk_43    RK(4,3) with b = (0, 2/3, -1/3, 2/3)

	The first stage picks tau = cfl update * tauMax; later stages reuse
	that tau and flag a CFLViolationError once it exceeds
	cfl max * tauMax for their own state. The gap between cfl update and
	cfl max absorbs the ordinary step to step drift of the wavespeed
	estimate.

	What a flagged stage means depends on the recovery strategy. Under
	none the violation is printed as a warning and the step is kept,
	trading the guarantees for speed. Under bang_bang_control the step is
	discarded with U untouched and recomputed once at cfl min; the repeat
	is kept best effort, residual violations again only warn, and the run
	aborts only when the repeat still ends in an inadmissible state.
*/
type TimeIntegrator struct {
	Module *HyperbolicModule

	Scheme   TimeSteppingScheme
	Recovery CFLRecoveryStrategy

	CFLMin, CFLUpdate, CFLMax float64

	// Scratch state fields, allocated by Prepare
	s []*euler.StateField
}

func NewTimeIntegrator(hm *HyperbolicModule, scheme TimeSteppingScheme,
	recovery CFLRecoveryStrategy, cflMin, cflUpdate,
	cflMax float64) (ti *TimeIntegrator, err error) {
	switch scheme {
	case SSPRK33, ERK33, ERK43:
	default:
		err = fmt.Errorf("unknown time stepping scheme %q", scheme)
		return
	}
	switch recovery {
	case RecoveryNone, BangBangControl:
	default:
		err = fmt.Errorf("unknown CFL recovery strategy %q", recovery)
		return
	}
	if cflMin <= 0 || cflMin > cflUpdate || cflUpdate > cflMax {
		err = fmt.Errorf("need 0 < cfl min <= cfl update <= cfl max, have %v, %v, %v",
			cflMin, cflUpdate, cflMax)
		return
	}
	ti = &TimeIntegrator{
		Module:    hm,
		Scheme:    scheme,
		Recovery:  recovery,
		CFLMin:    cflMin,
		CFLUpdate: cflUpdate,
		CFLMax:    cflMax,
	}
	return
}

// Prepare allocates the temporary state fields. Must be called once before
// Step, with a field of the final shape.
func (ti *TimeIntegrator) Prepare(U *euler.StateField) {
	var (
		need = 3
	)
	if ti.Scheme == ERK43 {
		need = 5
	}
	ti.s = make([]*euler.StateField, need)
	for n := range ti.s {
		ti.s[n] = euler.NewStateField(U.NumNodes, U.NumComp)
	}
	ti.Module.Prepare(U)
}

// violationPolicy selects how a scheme stepper treats a flagged stage:
// reject the whole step, or print a warning and keep going
type violationPolicy int

const (
	failOnViolation violationPolicy = iota
	warnOnViolation
)

// noteViolation applies the policy to a stage error. Under warnOnViolation
// the error is consumed and reported, so the stepper proceeds.
func (ti *TimeIntegrator) noteViolation(err error, pol violationPolicy) error {
	if err != nil && pol == warnOnViolation {
		fmt.Printf("warning: %v, proceeding with the step\n", err)
		return nil
	}
	return err
}

// Step advances U in place by one time step and returns the step size
// taken. A positive tauCap bounds the step, used to land exactly on the
// final time. With bang_bang_control, U is untouched by a rejected first
// attempt; the cfl min repeat is accepted best effort and only an
// inadmissible end state is returned as an error. With no recovery the
// step always completes, violations print as warnings.
func (ti *TimeIntegrator) Step(U *euler.StateField, tauCap float64) (tau float64, err error) {
	if ti.s == nil {
		err = fmt.Errorf("time integrator used before Prepare")
		return
	}
	if ti.Recovery == RecoveryNone {
		tau, err = ti.attempt(U, ti.CFLUpdate, tauCap, warnOnViolation)
		return
	}
	tau, err = ti.attempt(U, ti.CFLUpdate, tauCap, failOnViolation)
	if err != nil {
		fmt.Printf("%v, retrying the step at cfl = %v\n", err, ti.CFLMin)
		if tau, err = ti.attempt(U, ti.CFLMin, tauCap, warnOnViolation); err != nil {
			return
		}
		// Recovery is exhausted here, a result outside the invariant
		// domain is fatal
		err = ti.Module.Validate(U, 0)
	}
	return
}

func (ti *TimeIntegrator) attempt(U *euler.StateField, cfl, tauCap float64,
	pol violationPolicy) (tau float64, err error) {
	switch ti.Scheme {
	case SSPRK33:
		tau, err = ti.stepSSPRK33(U, cfl, tauCap, pol)
	case ERK33:
		tau, err = ti.stepERK33(U, cfl, tauCap, pol)
	case ERK43:
		tau, err = ti.stepERK43(U, cfl, tauCap, pol)
	}
	return
}

// stageOne performs the first forward Euler sub-step, choosing the step
// size and re-running once when the cap undercuts the chosen size
func (ti *TimeIntegrator) stageOne(U, s1 *euler.StateField, cfl,
	tauCap float64, pol violationPolicy) (tau float64, err error) {
	tau, _, err = ti.Module.EulerStep(U, s1, 0, cfl, 1)
	if err = ti.noteViolation(err, pol); err != nil {
		return
	}
	if tauCap > 0 && tau > tauCap {
		tau, _, err = ti.Module.EulerStep(U, s1, tauCap, cfl, 1)
		err = ti.noteViolation(err, pol)
	}
	return
}

// axpbyTo forms dst = a*x + b*y over whole state fields
func axpbyTo(dst *euler.StateField, a float64, x *euler.StateField,
	b float64, y *euler.StateField) {
	floats.ScaleTo(dst.Data, a, x.Data)
	floats.AddScaled(dst.Data, b, y.Data)
}

func (ti *TimeIntegrator) stepSSPRK33(U *euler.StateField, cfl,
	tauCap float64, pol violationPolicy) (tau float64, err error) {
	var (
		hm         = ti.Module
		s1, s2, s3 = ti.s[0], ti.s[1], ti.s[2]
	)
	// U1 = U + tau L(U)
	if tau, err = ti.stageOne(U, s1, cfl, tauCap, pol); err != nil {
		return
	}
	// U2 = 3/4 U + 1/4 (U1 + tau L(U1))
	_, _, err = hm.EulerStep(s1, s2, tau, ti.CFLMax, 2)
	if err = ti.noteViolation(err, pol); err != nil {
		return
	}
	axpbyTo(s2, 0.25, s2, 0.75, U)
	// U_new = 1/3 U + 2/3 (U2 + tau L(U2))
	_, _, err = hm.EulerStep(s2, s3, tau, ti.CFLMax, 3)
	if err = ti.noteViolation(err, pol); err != nil {
		return
	}
	axpbyTo(U, 2./3., s3, 1./3., U)
	return
}

func (ti *TimeIntegrator) stepERK33(U *euler.StateField, cfl,
	tauCap float64, pol violationPolicy) (tau float64, err error) {
	var (
		hm         = ti.Module
		s1, s2, s3 = ti.s[0], ti.s[1], ti.s[2]
	)
	// s1 = U + tau L(U), reused for both the second stage state and b1
	if tau, err = ti.stageOne(U, s1, cfl, tauCap, pol); err != nil {
		return
	}
	// U2 = U + 1/3 tau L(U)
	axpbyTo(s2, 2./3., U, 1./3., s1)
	// s3 = U2 + tau L(U2), U3 = U + 2/3 tau L(U2)
	_, _, err = hm.EulerStep(s2, s3, tau, ti.CFLMax, 2)
	if err = ti.noteViolation(err, pol); err != nil {
		return
	}
	axpbyTo(s3, -2./3., s2, 2./3., s3)
	floats.AddScaled(s3.Data, 1, U.Data) // s3 is now U3
	if err = ti.noteViolation(hm.Validate(s3, 2), pol); err != nil {
		return
	}
	// U_new = U + 1/4 tau L(U) + 3/4 tau L(U3)
	_, _, err = hm.EulerStep(s3, s2, tau, ti.CFLMax, 3)
	if err = ti.noteViolation(err, pol); err != nil {
		return
	}
	// tau L(U3) = s2 - s3, tau L(U) = s1 - U
	axpbyTo(s2, 0.75, s2, -0.75, s3)
	floats.AddScaled(s2.Data, 0.25, s1.Data)
	floats.AddScaled(s2.Data, 0.75, U.Data)
	if err = ti.noteViolation(hm.Validate(s2, 3), pol); err != nil {
		return
	}
	U.CopyFrom(s2)
	return
}

func (ti *TimeIntegrator) stepERK43(U *euler.StateField, cfl,
	tauCap float64, pol violationPolicy) (tau float64, err error) {
	var (
		hm                 = ti.Module
		s1, s2, s3, k2, k3 = ti.s[0], ti.s[1], ti.s[2], ti.s[3], ti.s[4]
	)
	// s1 = U + tau L(U)
	if tau, err = ti.stageOne(U, s1, cfl, tauCap, pol); err != nil {
		return
	}
	// U2 = U + 1/4 tau L(U)
	axpbyTo(s2, 0.75, U, 0.25, s1)
	// k2 = tau L(U2)
	_, _, err = hm.EulerStep(s2, s3, tau, ti.CFLMax, 2)
	if err = ti.noteViolation(err, pol); err != nil {
		return
	}
	axpbyTo(k2, 1, s3, -1, s2)
	// U3 = U + 1/2 k2
	axpbyTo(s2, 1, U, 0.5, k2)
	if err = ti.noteViolation(hm.Validate(s2, 2), pol); err != nil {
		return
	}
	// k3 = tau L(U3)
	_, _, err = hm.EulerStep(s2, s3, tau, ti.CFLMax, 3)
	if err = ti.noteViolation(err, pol); err != nil {
		return
	}
	axpbyTo(k3, 1, s3, -1, s2)
	// U4 = U + 1/4 k2 + 1/2 k3
	axpbyTo(s2, 1, U, 0.25, k2)
	floats.AddScaled(s2.Data, 0.5, k3.Data)
	if err = ti.noteViolation(hm.Validate(s2, 3), pol); err != nil {
		return
	}
	// k4 = tau L(U4), via s3
	_, _, err = hm.EulerStep(s2, s3, tau, ti.CFLMax, 4)
	if err = ti.noteViolation(err, pol); err != nil {
		return
	}
	floats.AddScaled(s3.Data, -1, s2.Data) // s3 is now k4
	// U_new = U + 2/3 k2 - 1/3 k3 + 2/3 k4
	axpbyTo(s2, 1, U, 2./3., k2)
	floats.AddScaled(s2.Data, -1./3., k3.Data)
	floats.AddScaled(s2.Data, 2./3., s3.Data)
	if err = ti.noteViolation(hm.Validate(s2, 4), pol); err != nil {
		return
	}
	U.CopyFrom(s2)
	return
}
