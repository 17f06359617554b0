// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package residue

import (
	"math"

	"gonum.org/v1/gonum/interp"
)

// KarlinTable holds a small Karlin-Altschul statistics table — effective
// length correction points sampled at a handful of query lengths — and
// interpolates between them with gonum's PiecewiseLinear fitter, rather
// than the single closed-form edge-effect correction diamond's
// statistics.h applies. This is the "Karlin-Altschul table" spec.md §4.A
// says is consumed, not derived, by the core.
type KarlinTable struct {
	m           *Matrix
	lengths     []float64
	effectiveK  *interp.PiecewiseLinear
}

// NewKarlinTable builds a table from matched slices of query length and
// the multiplicative effective-length correction at that length (both
// must be sorted ascending by length and non-empty).
func NewKarlinTable(m *Matrix, lengths, correction []float64) (*KarlinTable, error) {
	pl := new(interp.PiecewiseLinear)
	if err := pl.Fit(lengths, correction); err != nil {
		return nil, err
	}
	return &KarlinTable{m: m, lengths: lengths, effectiveK: pl}, nil
}

// DefaultKarlinTable returns a table with a single flat correction of 1
// across all lengths, suitable for tests and for callers that do not
// have a precomputed table; gonum's PiecewiseLinear still performs the
// (degenerate) interpolation so the code path is exercised uniformly.
func DefaultKarlinTable(m *Matrix) *KarlinTable {
	t, err := NewKarlinTable(m, []float64{1, 1 << 30}, []float64{1, 1})
	if err != nil {
		panic(err) // a two-point monotone fit cannot fail
	}
	return t
}

// correctionAt clamps length into the fitted domain before evaluating,
// since PiecewiseLinear.Predict is only defined on [min(lengths),
// max(lengths)].
func (t *KarlinTable) correctionAt(length float64) float64 {
	lo, hi := t.lengths[0], t.lengths[len(t.lengths)-1]
	switch {
	case length < lo:
		length = lo
	case length > hi:
		length = hi
	}
	return t.effectiveK.Predict(length)
}

// Evalue computes the E-value of a local alignment with the given raw
// score over a query of length qlen and a target of length tlen, per
// spec.md §4.A's evalue(score, qlen, tlen).
func (t *KarlinTable) Evalue(score int32, qlen, tlen int) float64 {
	bits := t.m.BitScore(score)
	corr := t.correctionAt(float64(qlen))
	effQ := float64(qlen) * corr
	effT := float64(tlen) * corr
	searchSpace := effQ * effT
	if searchSpace <= 0 {
		searchSpace = 1
	}
	return searchSpace * math.Exp2(-bits)
}
