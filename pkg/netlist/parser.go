// Package netlist tokenises the text netlist format this solver accepts
// into a network.Network. It understands the four element kinds the MNA
// stamper supports (R, I, V, D); there are no analysis directives
// (.op/.tran/.ac/.dc) since this system only ever computes one DC
// operating point.
package netlist

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ananas-dev/pixie/pkg/network"
)

// ParseError reports a netlist line this parser could not make sense of.
// It is a concrete type rather than a sentinel because the line number and
// offending text are part of what callers need to report the problem.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("netlist: line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }

var unitSuffix = map[string]float64{
	"T":   1e12,
	"G":   1e9,
	"meg": 1e6,
	"K":   1e3,
	"k":   1e3,
	"m":   1e-3,
	"u":   1e-6,
	"n":   1e-9,
	"p":   1e-12,
	"f":   1e-15,
}

var valuePattern = regexp.MustCompile(`^([-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)(meg|[TGKkmunpf])?$`)

// ParseValue parses a netlist numeric token, applying the SPICE-style
// engineering suffix (k, meg, u, ...) if present.
func ParseValue(tok string) (float64, error) {
	tok = strings.TrimSpace(tok)
	matches := valuePattern.FindStringSubmatch(tok)
	if matches == nil {
		return 0, fmt.Errorf("invalid value %q", tok)
	}

	num, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, err
	}

	if matches[2] != "" {
		num *= unitSuffix[matches[2]]
	}

	return num, nil
}

// parseNode parses a node token. "0" and "gnd" both mean ground.
func parseNode(tok string) (int, error) {
	if tok == "gnd" {
		return network.Ground, nil
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("invalid node %q", tok)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative node id %q", tok)
	}
	return n, nil
}

// Parse reads a netlist and returns the network.Network it describes.
// Blank lines are skipped; lines starting with * are comments. Every other
// non-blank line must be a component line: R, I, V, or D followed by its
// node and value tokens. Parse errors report the 1-based line number.
func Parse(input string) (*network.Network, error) {
	builder := network.NewBuilder()

	scanner := bufio.NewScanner(strings.NewReader(input))
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := strings.TrimSpace(raw)

		if line == "" || strings.HasPrefix(line, "*") {
			continue
		}

		c, err := parseLine(line)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: raw, Err: err}
		}

		builder.Add(c)
	}

	return builder.Build(), nil
}

func parseLine(line string) (network.Component, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return network.Component{}, fmt.Errorf("empty element line")
	}

	kind := strings.ToUpper(fields[0][:1])

	switch kind {
	case "R":
		return parseResistor(fields)
	case "I":
		return parseCurrentSource(fields)
	case "V":
		return parseVoltageSource(fields)
	case "D":
		return parseDiode(fields)
	default:
		return network.Component{}, fmt.Errorf("unknown element kind %q", fields[0])
	}
}

func parseResistor(fields []string) (network.Component, error) {
	if len(fields) != 4 {
		return network.Component{}, fmt.Errorf("resistor needs \"R a b r\", got %d fields", len(fields))
	}

	a, err := parseNode(fields[1])
	if err != nil {
		return network.Component{}, err
	}
	b, err := parseNode(fields[2])
	if err != nil {
		return network.Component{}, err
	}
	r, err := ParseValue(fields[3])
	if err != nil {
		return network.Component{}, err
	}
	if r <= 0 {
		return network.Component{}, fmt.Errorf("resistance must be positive, got %g", r)
	}

	return network.NewResistor(a, b, r), nil
}

func parseCurrentSource(fields []string) (network.Component, error) {
	if len(fields) != 4 {
		return network.Component{}, fmt.Errorf("current source needs \"I n p i\", got %d fields", len(fields))
	}

	n, err := parseNode(fields[1])
	if err != nil {
		return network.Component{}, err
	}
	p, err := parseNode(fields[2])
	if err != nil {
		return network.Component{}, err
	}
	i, err := ParseValue(fields[3])
	if err != nil {
		return network.Component{}, err
	}

	return network.NewCurrentSource(p, n, i), nil
}

func parseVoltageSource(fields []string) (network.Component, error) {
	if len(fields) != 4 {
		return network.Component{}, fmt.Errorf("voltage source needs \"V n p v\", got %d fields", len(fields))
	}

	n, err := parseNode(fields[1])
	if err != nil {
		return network.Component{}, err
	}
	p, err := parseNode(fields[2])
	if err != nil {
		return network.Component{}, err
	}
	v, err := ParseValue(fields[3])
	if err != nil {
		return network.Component{}, err
	}

	return network.NewVoltageSource(p, n, v), nil
}

func parseDiode(fields []string) (network.Component, error) {
	if len(fields) != 5 {
		return network.Component{}, fmt.Errorf("diode needs \"D n p is t\", got %d fields", len(fields))
	}

	n, err := parseNode(fields[1])
	if err != nil {
		return network.Component{}, err
	}
	p, err := parseNode(fields[2])
	if err != nil {
		return network.Component{}, err
	}
	is, err := ParseValue(fields[3])
	if err != nil {
		return network.Component{}, err
	}
	if is <= 0 {
		return network.Component{}, fmt.Errorf("saturation current must be positive, got %g", is)
	}
	t, err := ParseValue(fields[4])
	if err != nil {
		return network.Component{}, err
	}

	return network.NewDiode(p, n, is, t), nil
}
