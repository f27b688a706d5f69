package netlist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ananas-dev/pixie/pkg/network"
)

func TestParseValueSuffixes(t *testing.T) {
	cases := []struct {
		tok  string
		want float64
	}{
		{"1000", 1000},
		{"1k", 1000},
		{"1.5k", 1500},
		{"1meg", 1e6},
		{"10n", 10e-9},
		{"2.2u", 2.2e-6},
		{"1p", 1e-12},
		{"-5m", -5e-3},
		{"3.3e-3", 3.3e-3},
	}

	for _, tc := range cases {
		t.Run(tc.tok, func(t *testing.T) {
			got, err := ParseValue(tc.tok)
			require.NoError(t, err)
			require.InDelta(t, tc.want, got, math.Abs(tc.want)*1e-12+1e-18)
		})
	}
}

func TestParseValueRejectsGarbage(t *testing.T) {
	_, err := ParseValue("not-a-number")
	require.Error(t, err)
}

func TestParseVoltageDivider(t *testing.T) {
	net, err := Parse(`
* simple voltage divider
V1 1 0 10
R1 1 2 1k
R2 2 0 1k
`)
	require.NoError(t, err)
	require.Equal(t, 2, net.NumNodes())
	require.Equal(t, 1, net.NumVsrc())
	require.Len(t, net.Components(), 3)
}

func TestParseSkipsBlankLinesAndComments(t *testing.T) {
	net, err := Parse(`

* a comment
R1 1 0 1k

`)
	require.NoError(t, err)
	require.Len(t, net.Components(), 1)
}

func TestParseGndAlias(t *testing.T) {
	net, err := Parse("R1 1 gnd 1k\n")
	require.NoError(t, err)
	require.Equal(t, network.Ground, net.Components()[0].B)
}

func TestParseDiode(t *testing.T) {
	net, err := Parse("D1 1 0 1n 300\n")
	require.NoError(t, err)
	c := net.Components()[0]
	require.Equal(t, network.Diode, c.Kind)
	require.Equal(t, 1e-9, c.Is)
	require.Equal(t, 300.0, c.T)
}

func TestParseErrorReportsLineNumber(t *testing.T) {
	_, err := Parse("R1 1 0 1k\nX1 bogus\n")
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, 2, parseErr.Line)
}

func TestParseRejectsNonPositiveResistance(t *testing.T) {
	_, err := Parse("R1 1 0 0\n")
	require.Error(t, err)
}

func TestParseRejectsWrongFieldCount(t *testing.T) {
	_, err := Parse("R1 1 0\n")
	require.Error(t, err)
}

func TestParseRejectsUnknownElementKind(t *testing.T) {
	_, err := Parse("X1 1 0 1\n")
	require.Error(t, err)
}
