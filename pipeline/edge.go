// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"encoding/binary"
	"math"
)

// Edge is the clustering edge record spec.md §6 defines: a candidate
// pair of sequences whose alignment cleared the coverage and identity
// cutoffs for cluster membership, in the exact 24-byte wire layout
// `{ uint32 query, uint32 target, float qcovhsp, float scovhsp, double
// evalue }`, little-endian. Query and Target fit in a uint32 because a
// block's sequence count is bounded by int32 elsewhere in the module
// (seq.OId); the wire format is the record swipe-cluster's -edges-out
// file holds and swipe-gvc reads from stdin.
type Edge struct {
	Query, Target    uint32
	QCovHSP, SCovHSP float32
	EValue           float64
}

// EdgeSize is the wire size of one Edge record.
const EdgeSize = 24

var order = binary.LittleEndian

// Marshal encodes e into buf, which must be at least EdgeSize bytes.
func (e Edge) Marshal(buf []byte) {
	order.PutUint32(buf[0:4], e.Query)
	order.PutUint32(buf[4:8], e.Target)
	order.PutUint32(buf[8:12], math.Float32bits(e.QCovHSP))
	order.PutUint32(buf[12:16], math.Float32bits(e.SCovHSP))
	order.PutUint64(buf[16:24], math.Float64bits(e.EValue))
}

// UnmarshalEdge is the inverse of Edge.Marshal; data must be at least
// EdgeSize bytes.
func UnmarshalEdge(data []byte) Edge {
	return Edge{
		Query:   order.Uint32(data[0:4]),
		Target:  order.Uint32(data[4:8]),
		QCovHSP: math.Float32frombits(order.Uint32(data[8:12])),
		SCovHSP: math.Float32frombits(order.Uint32(data[12:16])),
		EValue:  math.Float64frombits(order.Uint64(data[16:24])),
	}
}
