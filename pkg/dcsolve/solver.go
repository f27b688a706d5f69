// Package dcsolve drives the Newton-style fixed-point iteration that turns
// an MNA linearisation into a DC operating point: stamp once, linearise and
// re-solve per iteration, stop at convergence or fail after a fixed budget.
// There is no Gmin stepping and no source stepping; a circuit this simple
// iteration can't converge on fails outright rather than being rescued by a
// fallback strategy.
package dcsolve

import (
	"errors"
	"fmt"

	"github.com/ananas-dev/pixie/pkg/linalg"
	"github.com/ananas-dev/pixie/pkg/mna"
	"github.com/ananas-dev/pixie/pkg/network"
	"github.com/ananas-dev/pixie/pkg/sparse"
)

// ErrInvalidCircuit wraps a linear-algebra failure (typically
// linalg.ErrSingularMatrix) encountered while solving a Newton iteration. It
// indicates an ill-posed circuit, e.g. a voltage source shorted by an ideal
// wire or a floating subnetwork.
var ErrInvalidCircuit = errors.New("dcsolve: invalid circuit")

// ErrNoConvergence indicates the iteration budget was exhausted without the
// solution settling within tolerance.
var ErrNoConvergence = errors.New("dcsolve: failed to converge")

const (
	// DefaultMaxIterations is the fixed-point iteration budget.
	DefaultMaxIterations = 10_000
	// DefaultTolerance is the squared-Euclidean-distance convergence bound.
	DefaultTolerance = 1e-5
)

// Options configures SolveDC. The zero value is not meant to be used
// directly; construct one via defaultOptions and Option functions.
type Options struct {
	MaxIterations    int
	Tolerance        float64
	TemperatureAware bool
}

// Option configures a SolveDC call with a functional-options knob, so new
// settings can be added without breaking SolveDC's signature.
type Option func(*Options)

// WithMaxIterations overrides the default 10,000-iteration budget.
func WithMaxIterations(n int) Option {
	return func(o *Options) { o.MaxIterations = n }
}

// WithTolerance overrides the default 1e-5 convergence tolerance.
func WithTolerance(tol float64) Option {
	return func(o *Options) { o.Tolerance = tol }
}

// WithTemperatureAware makes diode linearisation honour each diode's
// declared temperature (Vt = kB*T/q) instead of the reference's fixed
// 25.852 mV thermal voltage.
func WithTemperatureAware(on bool) Option {
	return func(o *Options) { o.TemperatureAware = on }
}

func defaultOptions() Options {
	return Options{
		MaxIterations:    DefaultMaxIterations,
		Tolerance:        DefaultTolerance,
		TemperatureAware: false,
	}
}

// SolveDC computes the DC operating point of net: the non-ground node
// voltages followed by the branch currents of its ideal voltage sources, in
// netlist order. For networks with no diodes, the nonlinear pass is a
// provable no-op every iteration, so this implementation stamps and solves
// once and returns directly rather than looping to rediscover that the
// second solve matches the first.
func SolveDC(net *network.Network, opts ...Option) (linalg.Vector, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	n := net.Dim()
	if n == 0 {
		return linalg.ZerosVector(0), nil
	}

	jStatic := sparse.NewCOOMatrix(n, n)
	rhsStatic := linalg.ZerosVector(n)
	mna.StampLinear(net, jStatic, rhsStatic)

	if !mna.HasDiodes(net) {
		x, err := linalg.Solve(jStatic.ToDense(), rhsStatic)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCircuit, err)
		}
		return x, nil
	}

	xPrev := linalg.ZerosVector(n)

	for iter := 0; iter < options.MaxIterations; iter++ {
		jWork := jStatic.Clone()
		rhsWork := rhsStatic.Clone()

		if options.TemperatureAware {
			mna.StampNonlinearPerDiode(net, jWork, rhsWork, xPrev)
		} else {
			mna.StampNonlinear(net, jWork, rhsWork, xPrev, mna.DefaultThermalVoltage)
		}

		x, err := linalg.Solve(jWork.ToDense(), rhsWork)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCircuit, err)
		}

		if linalg.SquaredDiff(x, xPrev) <= options.Tolerance {
			return x, nil
		}

		xPrev = x
	}

	return nil, ErrNoConvergence
}
