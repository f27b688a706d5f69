// Package report formats a solved DC operating point for human-readable
// output. There is no frequency or magnitude/phase formatting here; this
// solver has no AC analysis mode to report.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ananas-dev/pixie/pkg/linalg"
	"github.com/ananas-dev/pixie/pkg/network"
)

// FormatValueFactor renders value with an engineering-style prefix (m, u, n,
// p) scaled to keep the mantissa near unit magnitude, suffixed with unit.
func FormatValueFactor(value float64, unit string) string {
	absValue := math.Abs(value)
	switch {
	case absValue >= 1:
		return fmt.Sprintf("%.6f %s", value, unit)
	case absValue >= 1e-3:
		return fmt.Sprintf("%.6f m%s", value*1e3, unit)
	case absValue >= 1e-6:
		return fmt.Sprintf("%.6f u%s", value*1e6, unit)
	case absValue >= 1e-9:
		return fmt.Sprintf("%.6f n%s", value*1e9, unit)
	case absValue >= 1e-12:
		return fmt.Sprintf("%.6f p%s", value*1e12, unit)
	default:
		return fmt.Sprintf("%.6e %s", value, unit)
	}
}

// OperatingPoint is the solved DC state of a network: every non-ground
// node's voltage, and every ideal voltage source's branch current, each
// paired with the label it should be reported under.
type OperatingPoint struct {
	NodeVoltages   map[string]float64
	BranchCurrents map[string]float64
}

// FromSolution builds an OperatingPoint from a solved MNA vector x (as
// returned by dcsolve.SolveDC) and the network it was solved for. Node i
// (1-based) is labeled "V(i)"; the k-th voltage source in netlist order is
// labeled "I(Vk)".
func FromSolution(net *network.Network, x linalg.Vector) OperatingPoint {
	op := OperatingPoint{
		NodeVoltages:   make(map[string]float64, net.NumNodes()),
		BranchCurrents: make(map[string]float64, net.NumVsrc()),
	}

	for i := 1; i <= net.NumNodes(); i++ {
		op.NodeVoltages[fmt.Sprintf("V(%d)", i)] = x[i-1]
	}

	vsrcIdx := 0
	for _, c := range net.Components() {
		if c.Kind != network.VoltageSource {
			continue
		}
		op.BranchCurrents[fmt.Sprintf("I(V%d)", vsrcIdx+1)] = x[net.NumNodes()+vsrcIdx]
		vsrcIdx++
	}

	return op
}

// String renders the operating point as a "Node Voltages" / "Branch
// Currents" block, with labels sorted for deterministic output.
func (op OperatingPoint) String() string {
	var b strings.Builder

	b.WriteString("Node Voltages:\n")
	for _, name := range sortedKeys(op.NodeVoltages) {
		fmt.Fprintf(&b, "%s = %s\n", name, FormatValueFactor(op.NodeVoltages[name], "V"))
	}

	b.WriteString("\nBranch Currents:\n")
	for _, name := range sortedKeys(op.BranchCurrents) {
		fmt.Fprintf(&b, "%s = %s\n", name, FormatValueFactor(op.BranchCurrents[name], "A"))
	}

	return b.String()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
