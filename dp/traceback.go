// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dp

// fullMatrix stores one trace byte per (row, band-column) cell, enough
// to recover the exact alignment path by walking backward from the
// best cell, per spec.md §4.E's "full traceback matrix" flavor.
type fullMatrix struct {
	width int
	rows  [][]trace
}

func newFullMatrix(rows, width int) *fullMatrix {
	m := &fullMatrix{width: width, rows: make([][]trace, rows)}
	for i := range m.rows {
		m.rows[i] = make([]trace, width)
	}
	return m
}

func (m *fullMatrix) set(row, col int, t trace) {
	m.rows[row][col] = t
}

// walk reconstructs the edit transcript by following traces backward
// from (row, col) until a traceStop cell, returning operations in
// query order (forward).
func (m *fullMatrix) walk(row, col int, bandOf func(row int) int32) []EditOp {
	var rev []EditOp
	for row > 0 || col >= 0 {
		if row >= len(m.rows) {
			break
		}
		t := m.rows[row][col]
		switch t {
		case traceDiag:
			rev = append(rev, OpMatch) // caller refines Match/Mismatch by re-scoring
			row--
			col += int(bandOf(row)) - int(bandOf(row+1))
		case traceUp:
			rev = append(rev, OpDeletion)
			row--
			col += int(bandOf(row)) - int(bandOf(row+1)) + 1
		case traceLeft:
			rev = append(rev, OpInsertion)
			col--
		default:
			col = -1 // traceStop: force loop exit below
		}
		if col < 0 {
			break
		}
	}
	// reverse in place
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}
