// Package sparse implements the coordinate-format (COO) staging matrix the
// MNA stamper accumulates into. It exists so repeated contributions to the
// same cell (two resistors sharing a node pair, a diode's linearised
// conductance landing on a node a resistor already touched) are summed
// without paying for random-access writes into a dense matrix during
// stamping. The handoff to a dense solve happens once, via ToDense.
package sparse

import (
	"sort"

	"github.com/ananas-dev/pixie/pkg/linalg"
)

// entry is one (row, col, value) triple, kept as a single slice of
// structs rather than three parallel slices — equivalent, and plays
// nicer with Go's sort.Search.
type entry struct {
	row, col int
	val      float64
}

// COOMatrix is a sorted, deduplicated coordinate-format accumulator over
// (rows, cols). At most one entry exists per (row, col); repeated Add calls
// accumulate into that entry's value.
type COOMatrix struct {
	Rows, Cols int
	entries    []entry
}

// NewCOOMatrix returns an empty accumulator over the given shape.
func NewCOOMatrix(rows, cols int) *COOMatrix {
	return &COOMatrix{Rows: rows, Cols: cols}
}

// less reports whether (r1,c1) sorts before (r2,c2) under the row-major
// ordering key (row ASC, col ASC).
func less(r1, c1, r2, c2 int) bool {
	if r1 != r2 {
		return r1 < r2
	}
	return c1 < c2
}

// search returns the index of the entry for (row, col) if present, and
// whether it was found; otherwise the index is the sorted insertion point.
func (m *COOMatrix) search(row, col int) (int, bool) {
	n := len(m.entries)
	idx := sort.Search(n, func(i int) bool {
		e := m.entries[i]
		return !less(e.row, e.col, row, col)
	})

	if idx < n && m.entries[idx].row == row && m.entries[idx].col == col {
		return idx, true
	}
	return idx, false
}

// Add accumulates val into the (row, col) entry, creating it at the sorted
// position if it does not yet exist.
func (m *COOMatrix) Add(row, col int, val float64) {
	idx, found := m.search(row, col)
	if found {
		m.entries[idx].val += val
		return
	}

	m.entries = append(m.entries, entry{})
	copy(m.entries[idx+1:], m.entries[idx:])
	m.entries[idx] = entry{row: row, col: col, val: val}
}

// Set overwrites the (row, col) entry with val, rather than accumulating.
// Used by the voltage-source branch-equation stamp, which assigns exactly
// once per row and must not pick up a stray accumulation from elsewhere.
func (m *COOMatrix) Set(row, col int, val float64) {
	idx, found := m.search(row, col)
	if found {
		m.entries[idx].val = val
		return
	}

	m.entries = append(m.entries, entry{})
	copy(m.entries[idx+1:], m.entries[idx:])
	m.entries[idx] = entry{row: row, col: col, val: val}
}

// ToDense materializes the staged entries into a dense r x c matrix; cells
// without an entry are zero.
func (m *COOMatrix) ToDense() *linalg.Matrix {
	dense := linalg.Zeros(m.Rows, m.Cols)
	for _, e := range m.entries {
		dense.Set(e.row, e.col, e.val)
	}
	return dense
}

// Clone returns a deep copy, used each Newton iteration to derive a
// working copy of the static linear stamp without re-running the linear
// pass.
func (m *COOMatrix) Clone() *COOMatrix {
	out := &COOMatrix{Rows: m.Rows, Cols: m.Cols, entries: make([]entry, len(m.entries))}
	copy(out.entries, m.entries)
	return out
}
