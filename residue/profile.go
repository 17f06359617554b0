// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package residue

// LongScoreProfile precomputes, for each query position, the Size scores
// against every possible target letter, with left/right padding so that
// windowed loads never read past the query's real extent. This mirrors spec.md §4.A and the vectorised layout described
// in _examples/original_source/src/dp/score_profile.cpp, collapsed here
// to a plain Go slice-of-slices since the module has no SIMD backend
// (see DESIGN.md's note on the dropped SIMD-intrinsics abstraction).
type LongScoreProfile struct {
	query []Letter
	rows  [][Size]int32 // len(rows) == len(query) + 2*Pad
	bias  []int32        // per-position composition bias, may be nil
}

// Pad is the number of sentinel positions added on each side of the
// profile so that a window load centred anywhere within [0, len(query))
// with radius <= Pad never runs off the slice.
const Pad = 64

// BuildProfile constructs a LongScoreProfile for query against matrix m,
// optionally folding in a per-position composition bias (nil for none).
func BuildProfile(m *Matrix, query []Letter, bias []int32) *LongScoreProfile {
	p := &LongScoreProfile{
		query: query,
		rows:  make([][Size]int32, len(query)+2*Pad),
		bias:  bias,
	}
	fillPadding(p.rows, len(query))
	for i, q := range query {
		row := *m.Row(q)
		if bias != nil {
			b := bias[i]
			for j := range row {
				row[j] += b
			}
		}
		p.rows[i+Pad] = row
	}
	return p
}

// fillPadding sets the Pad sentinel rows on both sides of the n real
// rows in rows (len(rows) == n+2*Pad) to padRow.
func fillPadding(rows [][Size]int32, n int) {
	for i := 0; i < Pad; i++ {
		rows[i] = padRow
	}
	for i := Pad + n; i < len(rows); i++ {
		rows[i] = padRow
	}
}

// padRow scores no better than any real pair against any target letter;
// spec.md §4.D requires the clipped-window neutral letter to have this
// property.
var padRow = func() [Size]int32 {
	var r [Size]int32
	for i := range r {
		r[i] = -1 << 20
	}
	return r
}()

// Row returns the score row for query position i (may be negative or
// >= len(query), within [-Pad, len(query)+Pad)).
func (p *LongScoreProfile) Row(i int) *[Size]int32 {
	return &p.rows[i+Pad]
}

// Len returns the real (unpadded) query length the profile was built
// over.
func (p *LongScoreProfile) Len() int { return len(p.query) }

// Reversed returns a new LongScoreProfile over the reverse of the
// original query, for right-to-left extensions (spec.md §4.A, §4.F).
func (p *LongScoreProfile) Reversed() *LongScoreProfile {
	n := len(p.query)
	rq := make([]Letter, n)
	var rb []int32
	if p.bias != nil {
		rb = make([]int32, n)
	}
	for i := 0; i < n; i++ {
		rq[i] = p.query[n-1-i]
		if rb != nil {
			rb[i] = p.bias[n-1-i]
		}
	}
	out := &LongScoreProfile{query: rq, rows: make([][Size]int32, n+2*Pad), bias: rb}
	fillPadding(out.rows, n)
	for i := 0; i < n; i++ {
		out.rows[i+Pad] = *p.Row(n - 1 - i)
	}
	return out
}
