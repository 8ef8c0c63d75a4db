// Package eos supplies the gamma-law closure used by the flux and recovery
// kernels. The EOS is a small value type constructed once outside parallel
// regions and passed by value into the per-cell kernels.
package eos

type GammaLaw struct {
	Gamma float64
}

func NewGammaLaw(gamma float64) GammaLaw {
	return GammaLaw{Gamma: gamma}
}

// Pressure of a calorically perfect fluid from density and internal energy.
func (e GammaLaw) Pressure(rho, u float64) float64 {
	return (e.Gamma - 1) * u
}

// Enthalpy is the gas enthalpy density rho + u + p.
func (e GammaLaw) Enthalpy(rho, u float64) float64 {
	return rho + u + e.Pressure(rho, u)
}

// SoundSpeedSq is the relativistic sound speed squared, cs^2 = Gamma p / w.
func (e GammaLaw) SoundSpeedSq(rho, u float64) float64 {
	w := e.Enthalpy(rho, u)
	if w <= 0 {
		return 0
	}
	return e.Gamma * e.Pressure(rho, u) / w
}
