// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"github.com/kortschak/swipe/dp"
	"github.com/kortschak/swipe/residue"
)

// WorkSet is per-worker scratch reused across buckets within a block
// pair, avoiding an allocation per seed-join bucket: the score profile
// for the query currently being extended, and a reusable slice of
// DpTargets for the current extension batch. Spec.md §9's design notes
// ask for thread-local scratch rather than allocating inside the hot
// loop; no fine-grained lock is ever held across a dp.Run call.
type WorkSet struct {
	Profile      *residue.LongScoreProfile
	Reversed     *residue.LongScoreProfile
	Targets      []dp.DpTarget
	queryLetters []residue.Letter
}

// NewWorkSet returns an empty WorkSet ready for reuse across many
// (query, target-block) extensions.
func NewWorkSet() *WorkSet {
	return &WorkSet{}
}

// Reset loads query into the WorkSet's profiles, discarding any
// previous query's profile, and truncates Targets (keeping its backing
// array) ready for a fresh extension batch.
func (w *WorkSet) Reset(m *residue.Matrix, query []residue.Letter, bias []int32) {
	w.Profile = residue.BuildProfile(m, query, bias)
	w.Reversed = w.Profile.Reversed()
	w.Targets = w.Targets[:0]
	w.queryLetters = query
}

// AddTarget appends a DpTarget to the current batch.
func (w *WorkSet) AddTarget(t dp.DpTarget) {
	w.Targets = append(w.Targets, t)
}
