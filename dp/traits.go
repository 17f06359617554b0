// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dp implements spec.md §4.E: the banded/full SWIPE dynamic
// programming engine, in three score widths (8/16/32-bit) and three
// matrix flavors (score-only, traceback-vector, traceback-full).
//
// The corpus has no SIMD-intrinsics dependency (see DESIGN.md), so
// "inter-sequence vectorization" is realised here as a loop over
// DpTargets that all share one Traits width for the purposes of
// overflow/saturation bookkeeping, rather than as literal narrow-integer
// SIMD lanes: the recurrence itself accumulates in int32 and is checked
// against the active Traits' Max after every cell, exactly the point at
// which a real 8/16-bit SIMD lane would saturate.
package dp

import "math"

// Score is the type-level trait spec.md §9 asks for: "a generic
// parameterized over a ScoreTraits trait... monomorphized per width".
type Score interface {
	~int8 | ~int16 | ~int32
}

// Traits describes one of the three score-width bins.
type Traits[S Score] struct {
	Max S
	// Channels is the number of lanes a real SIMD register of this
	// width would hold; retained as documentation of the vectorization
	// factor spec.md §4.E describes, even though this port processes
	// channels sequentially.
	Channels int
}

// Score8, Score16 and Score32 are the three bins of spec.md §4.E,
// cheapest (narrowest, most lanes) first.
var (
	Score8  = Traits[int8]{Max: math.MaxInt8, Channels: 32}
	Score16 = Traits[int16]{Max: math.MaxInt16, Channels: 16}
	Score32 = Traits[int32]{Max: math.MaxInt32, Channels: 8}
)

// Saturate clamps v into S, reporting whether it overflowed. Saturation
// is not an error (spec.md §7): it is the signal that a DpTarget must be
// re-dispatched to the next wider bin.
func (t Traits[S]) Saturate(v int32) (out S, saturated bool) {
	// Local-alignment cell values are never negative (the recurrence
	// floors at 0), so only the upper bound can saturate.
	if int64(v) >= int64(t.Max) {
		return t.Max, true
	}
	return S(v), false
}

// Bin identifies a score width without committing to a Go type, used
// where callers need to talk about "the next wider bin" generically
// (the pipeline driver's re-submission logic).
type Bin int

const (
	Bin8 Bin = iota
	Bin16
	Bin32
)

// Next returns the next wider bin, or ok=false if already at Bin32 (in
// which case overflow is impossible to escape and indicates the
// alignment genuinely does not fit — spec.md treats this as "degrade to
// no HSP" for malformed input, never as a crash).
func (b Bin) Next() (Bin, bool) {
	if b >= Bin32 {
		return Bin32, false
	}
	return b + 1, true
}

func (b Bin) String() string {
	switch b {
	case Bin8:
		return "8-bit"
	case Bin16:
		return "16-bit"
	case Bin32:
		return "32-bit"
	default:
		return "unknown-bit"
	}
}
