package eos

/*
	An EquationOfState closes the compressible Euler system by relating
	pressure, density and specific internal energy (sie). Implementations are
	immutable after construction and safe for concurrent use.

	The two oracle functions are mutual inverses over the admissible domain
	rho > 0, sie >= 0:
		SpecificInternalEnergy(rho, Pressure(rho, sie)) == sie
	Out of domain inputs produce mathematically meaningless values (NaN or
	negative pressure) - callers validate admissibility, the EOS never does.
*/
type EquationOfState interface {
	Name() string
	// Pressure is the pressure oracle p(rho, sie)
	Pressure(rho, sie float64) (p float64)
	// SpecificInternalEnergy inverts the pressure oracle at fixed density
	SpecificInternalEnergy(rho, p float64) (sie float64)
	// EffectiveGamma is the adiabatic exponent proxy consumed by the
	// wavespeed estimate
	EffectiveGamma(rho, sie float64) (gamma float64)
	// SoundSpeed returns the speed of sound at (rho, p)
	SoundSpeed(rho, p float64) (a float64)
	// Covolume returns the maximum compressibility constant b, zero for
	// ideal gases
	Covolume() (b float64)
}
