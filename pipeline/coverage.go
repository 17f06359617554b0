// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"github.com/kortschak/swipe/dp"
	"github.com/kortschak/swipe/residue"
	"github.com/kortschak/swipe/seq"
)

// QCovHSP returns the percentage of the query sequence (length qlen)
// spanned by hsp, spec.md §6's `qcovhsp` wire field.
func QCovHSP(hsp dp.HSP, qlen int) float32 {
	if qlen <= 0 {
		return 0
	}
	return 100 * float32(hsp.QueryRange.End-hsp.QueryRange.Begin) / float32(qlen)
}

// SCovHSP returns the percentage of the subject sequence (length tlen)
// spanned by hsp, spec.md §6's `scovhsp` wire field.
func SCovHSP(hsp dp.HSP, tlen int) float32 {
	if tlen <= 0 {
		return 0
	}
	return 100 * float32(hsp.SubjRange.End-hsp.SubjRange.Begin) / float32(tlen)
}

// PercentIdentity returns 100*identities/length, the approximate percent
// identity spec.md §6's `approx_min_id` option filters on.
func PercentIdentity(hsp dp.HSP) float64 {
	if hsp.Length <= 0 {
		return 0
	}
	return 100 * float64(hsp.Identities) / float64(hsp.Length)
}

// BuildEdges converts accepted HSPs into the clustering Edge records
// spec.md §6 defines, computing qcovhsp/scovhsp/evalue against the
// originating query/target blocks. Self-pairs (a sequence against
// itself) are skipped since they never need a clustering edge.
func BuildEdges(hsps []dp.HSP, queryBlock, targetBlock *seq.Block, m *residue.Matrix, karlin *residue.KarlinTable) []Edge {
	edges := make([]Edge, 0, len(hsps))
	for _, h := range hsps {
		if h.QueryID == h.TargetID && queryBlock == targetBlock {
			continue
		}
		qs := queryBlock.Set.At(int(h.QueryID))
		ts := targetBlock.Set.At(int(h.TargetID))
		evalue := karlin.Evalue(h.Score, len(qs.Letter), len(ts.Letter))
		edges = append(edges, Edge{
			Query:   uint32(h.QueryID),
			Target:  uint32(h.TargetID),
			QCovHSP: QCovHSP(h, len(qs.Letter)),
			SCovHSP: SCovHSP(h, len(ts.Letter)),
			EValue:  evalue,
		})
	}
	return edges
}
