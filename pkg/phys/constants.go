// Package phys carries the physical constants the diode model may use to
// compute a temperature-dependent thermal voltage.
package phys

const (
	// ElementaryChargeC is the elementary charge, in coulombs.
	ElementaryChargeC = 1.6021918e-19
	// BoltzmannJPerK is the Boltzmann constant, in joules per kelvin.
	BoltzmannJPerK = 1.3806226e-23
	// CelsiusToKelvin is the additive offset from Celsius to kelvin.
	CelsiusToKelvin = 273.15
)

// BoltzmannOverChargeVPerK is kB/q, in volts per kelvin (~8.617e-5 V/K).
// Multiplying by a temperature in kelvin gives the thermal voltage Vt.
const BoltzmannOverChargeVPerK = BoltzmannJPerK / ElementaryChargeC
