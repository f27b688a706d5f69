// Package mna implements Modified Nodal Analysis stamping: translating a
// network.Network's components into contributions to a Jacobian and
// right-hand side, split into a linear pass (run once per solve) and a
// nonlinear pass (re-run and re-linearised every Newton iteration). The
// stamping is a single switch over the closed, fixed set of four
// component kinds rather than one method per device type, since there is
// only one analysis mode to serve.
package mna

import (
	"math"

	"github.com/ananas-dev/pixie/pkg/linalg"
	"github.com/ananas-dev/pixie/pkg/network"
	"github.com/ananas-dev/pixie/pkg/phys"
	"github.com/ananas-dev/pixie/pkg/sparse"
)

// DefaultThermalVoltage is the fixed Vt (volts) used to linearise every
// diode regardless of its declared temperature.
const DefaultThermalVoltage = 2.5852e-2

// ThermalVoltage returns kB*T/q for a diode at temperature t (kelvin). It is
// an alternative to DefaultThermalVoltage for callers that want the diode's
// declared temperature to affect the linearisation; see
// dcsolve.Options.TemperatureAware.
func ThermalVoltage(t float64) float64 {
	return phys.BoltzmannOverChargeVPerK * t
}

// row converts a 1-based non-ground node id to its 0-based MNA row/column.
// Callers must have already excluded node == network.Ground.
func row(node int) int {
	return node - 1
}

// StampLinear runs the linear pass once per solve: resistors and ideal
// current/voltage sources. Diodes are skipped (handled by StampNonlinear).
// Voltage-source branch rows are assigned num_nodes, num_nodes+1, ... in
// the order voltage sources appear in net's component list.
func StampLinear(net *network.Network, j *sparse.COOMatrix, rhs linalg.Vector) {
	numNodes := net.NumNodes()
	vsrcIdx := 0

	for _, c := range net.Components() {
		switch c.Kind {
		case network.Resistor:
			stampResistor(c, j)
		case network.CurrentSource:
			stampCurrentSource(c, rhs)
		case network.VoltageSource:
			stampVoltageSource(c, numNodes, vsrcIdx, j, rhs)
			vsrcIdx++
		case network.Diode:
			// Nonlinear; handled each Newton iteration by StampNonlinear.
		}
	}
}

func stampResistor(c network.Component, j *sparse.COOMatrix) {
	g := 1.0 / c.R
	a, b := c.A, c.B

	if a != network.Ground {
		j.Add(row(a), row(a), g)
	}
	if b != network.Ground {
		j.Add(row(b), row(b), g)
	}
	if a != network.Ground && b != network.Ground {
		j.Add(row(a), row(b), -g)
		j.Add(row(b), row(a), -g)
	}
}

func stampCurrentSource(c network.Component, rhs linalg.Vector) {
	if c.P != network.Ground {
		rhs[row(c.P)] += c.I
	}
	if c.N != network.Ground {
		rhs[row(c.N)] -= c.I
	}
}

func stampVoltageSource(c network.Component, numNodes, vsrcIdx int, j *sparse.COOMatrix, rhs linalg.Vector) {
	m := numNodes + vsrcIdx

	if c.P != network.Ground {
		j.Set(m, row(c.P), 1)
		j.Set(row(c.P), m, 1)
	}
	if c.N != network.Ground {
		j.Set(m, row(c.N), -1)
		j.Set(row(c.N), m, -1)
	}

	rhs[m] = c.V
}

// StampNonlinear runs the nonlinear pass: every diode is linearised around
// the previous Newton iterate xPrev and its companion model is stamped
// into the working copy of J and RHS. vt is the thermal voltage to use;
// pass DefaultThermalVoltage for the reference behaviour, or
// ThermalVoltage(c.T) per-diode for a temperature-aware variant.
func StampNonlinear(net *network.Network, j *sparse.COOMatrix, rhs linalg.Vector, xPrev linalg.Vector, vt float64) {
	for _, c := range net.Components() {
		if c.Kind != network.Diode {
			continue
		}
		stampDiode(c, j, rhs, xPrev, vt)
	}
}

// StampNonlinearPerDiode is the temperature-aware counterpart to
// StampNonlinear: instead of a single Vt for every diode, each diode is
// linearised at its own declared temperature via ThermalVoltage(c.T).
func StampNonlinearPerDiode(net *network.Network, j *sparse.COOMatrix, rhs linalg.Vector, xPrev linalg.Vector) {
	for _, c := range net.Components() {
		if c.Kind != network.Diode {
			continue
		}
		stampDiode(c, j, rhs, xPrev, ThermalVoltage(c.T))
	}
}

func stampDiode(c network.Component, j *sparse.COOMatrix, rhs linalg.Vector, xPrev linalg.Vector, vt float64) {
	var vd float64
	if c.P != network.Ground {
		vd += xPrev[row(c.P)]
	}
	if c.N != network.Ground {
		vd -= xPrev[row(c.N)]
	}

	id := c.Is * (math.Exp(vd/vt) - 1)
	// gd is only the true derivative dId/dVd when id >> is (forward
	// bias, well away from is); the reference linearisation uses it
	// unconditionally, including in reverse bias where it diverges
	// from the analytic conductance (is/vt)*exp(vd/vt). That fragility
	// is intentional — see SPEC_FULL.md §11 and scenario 6.
	gd := id / vt
	ieq := id * (1 - vd/vt)

	if c.P != network.Ground {
		j.Add(row(c.P), row(c.P), gd)
		rhs[row(c.P)] += ieq
	}
	if c.N != network.Ground {
		j.Add(row(c.N), row(c.N), gd)
		rhs[row(c.N)] -= ieq
	}
	if c.P != network.Ground && c.N != network.Ground {
		j.Add(row(c.P), row(c.N), -gd)
		j.Add(row(c.N), row(c.P), -gd)
	}
}

// HasDiodes reports whether net contains any nonlinear (diode) components.
// dcsolve uses this to decide whether the fixed-point iteration can be
// short-circuited.
func HasDiodes(net *network.Network) bool {
	for _, c := range net.Components() {
		if c.Kind == network.Diode {
			return true
		}
	}
	return false
}
