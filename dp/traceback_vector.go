// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dp

// vectorMatrix packs one 2-bit trace per cell instead of fullMatrix's
// one byte, the "traceback-vector" flavor of spec.md §4.E: 4x smaller
// than TraceFull. No score is stored per cell.
type vectorMatrix struct {
	width int
	rows  [][]byte // packed 4 cells/byte
}

func newVectorMatrix(rows, width int) *vectorMatrix {
	packedWidth := (width + 3) / 4
	m := &vectorMatrix{width: width, rows: make([][]byte, rows)}
	for i := range m.rows {
		m.rows[i] = make([]byte, packedWidth)
	}
	return m
}

func (m *vectorMatrix) set(row, col int, t trace) {
	byteIdx := col / 4
	shift := uint(col%4) * 2
	m.rows[row][byteIdx] &^= 0x3 << shift
	m.rows[row][byteIdx] |= byte(t&0x3) << shift
}

func (m *vectorMatrix) get(row, col int) trace {
	byteIdx := col / 4
	shift := uint(col%4) * 2
	return trace((m.rows[row][byteIdx] >> shift) & 0x3)
}

// walk recovers the transcript the same way fullMatrix.walk does, but
// unpacking 2-bit codes instead of reading a trace byte directly; no
// score is stored here, and the HSP's score is the DP's best cell.
func (m *vectorMatrix) walk(row, col int, bandOf func(row int) int32) []EditOp {
	var rev []EditOp
	for row > 0 || col >= 0 {
		if row >= len(m.rows) {
			break
		}
		t := m.get(row, col)
		switch t {
		case traceDiag:
			rev = append(rev, OpMatch)
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
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}
