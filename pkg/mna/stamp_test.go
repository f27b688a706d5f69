package mna

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ananas-dev/pixie/pkg/linalg"
	"github.com/ananas-dev/pixie/pkg/network"
	"github.com/ananas-dev/pixie/pkg/sparse"
)

func TestStampResistorIsSymmetric(t *testing.T) {
	net := network.NewBuilder().Add(network.NewResistor(1, 2, 1000)).Build()

	j := sparse.NewCOOMatrix(net.Dim(), net.Dim())
	rhs := linalg.ZerosVector(net.Dim())
	StampLinear(net, j, rhs)

	dense := j.ToDense()
	g := 1.0 / 1000.0
	require.InDelta(t, g, dense.At(0, 0), 1e-15)
	require.InDelta(t, g, dense.At(1, 1), 1e-15)
	require.InDelta(t, -g, dense.At(0, 1), 1e-15)
	require.InDelta(t, -g, dense.At(1, 0), 1e-15)
}

func TestStampResistorToGroundOnlyTouchesOneRow(t *testing.T) {
	net := network.NewBuilder().Add(network.NewResistor(1, network.Ground, 500)).Build()

	j := sparse.NewCOOMatrix(net.Dim(), net.Dim())
	rhs := linalg.ZerosVector(net.Dim())
	StampLinear(net, j, rhs)

	dense := j.ToDense()
	require.InDelta(t, 1.0/500.0, dense.At(0, 0), 1e-15)
}

func TestStampCurrentSourcePolarity(t *testing.T) {
	net := network.NewBuilder().Add(network.NewCurrentSource(1, 2, 2e-3)).Build()

	j := sparse.NewCOOMatrix(net.Dim(), net.Dim())
	rhs := linalg.ZerosVector(net.Dim())
	StampLinear(net, j, rhs)

	require.InDelta(t, 2e-3, rhs[0], 1e-15)
	require.InDelta(t, -2e-3, rhs[1], 1e-15)
}

func TestStampVoltageSourceBranchRow(t *testing.T) {
	net := network.NewBuilder().
		Add(network.NewResistor(1, network.Ground, 1000)).
		Add(network.NewVoltageSource(1, network.Ground, 5)).
		Build()

	j := sparse.NewCOOMatrix(net.Dim(), net.Dim())
	rhs := linalg.ZerosVector(net.Dim())
	StampLinear(net, j, rhs)

	dense := j.ToDense()
	branchRow := net.NumNodes() // the single voltage source's branch row
	require.Equal(t, 1.0, dense.At(branchRow, 0))
	require.Equal(t, 1.0, dense.At(0, branchRow))
	require.Equal(t, 5.0, rhs[branchRow])
}

func TestStampLinearSkipsDiodes(t *testing.T) {
	net := network.NewBuilder().Add(network.NewDiode(1, network.Ground, 1e-12, 300)).Build()

	j := sparse.NewCOOMatrix(net.Dim(), net.Dim())
	rhs := linalg.ZerosVector(net.Dim())
	StampLinear(net, j, rhs)

	require.Equal(t, 0.0, j.ToDense().At(0, 0))
}

func TestHasDiodes(t *testing.T) {
	withDiode := network.NewBuilder().Add(network.NewDiode(1, network.Ground, 1e-12, 300)).Build()
	require.True(t, HasDiodes(withDiode))

	withoutDiode := network.NewBuilder().Add(network.NewResistor(1, network.Ground, 100)).Build()
	require.False(t, HasDiodes(withoutDiode))
}

func TestThermalVoltageScalesWithTemperature(t *testing.T) {
	vt300 := ThermalVoltage(300)
	vt600 := ThermalVoltage(600)
	require.InDelta(t, vt300*2, vt600, 1e-12)
}

func TestStampNonlinearAddsDiodeCompanionModel(t *testing.T) {
	net := network.NewBuilder().Add(network.NewDiode(1, network.Ground, 1e-12, 300)).Build()

	j := sparse.NewCOOMatrix(net.Dim(), net.Dim())
	rhs := linalg.ZerosVector(net.Dim())
	xPrev := linalg.Vector{0.6}

	StampNonlinear(net, j, rhs, xPrev, DefaultThermalVoltage)

	require.Greater(t, j.ToDense().At(0, 0), 0.0, "forward-biased diode conductance should be positive")
}
