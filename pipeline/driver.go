// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"sort"
	"sync"

	"github.com/biogo/store/interval"

	"github.com/kortschak/swipe/anchor"
	"github.com/kortschak/swipe/dp"
	"github.com/kortschak/swipe/hamming"
	"github.com/kortschak/swipe/residue"
	"github.com/kortschak/swipe/seed"
	"github.com/kortschak/swipe/seedjoin"
	"github.com/kortschak/swipe/seq"
)

// Sensitivity is one entry of the per-round schedule spec.md §4.G
// describes, weakest first. CoverageCutoff, MutualCoverCutoff and
// ApproxMinID gate which HSPs a round accepts as clustering candidates
// (spec.md §4.H, §6's `member_cover`/`mutual_cover`/`approx_min_id`); a
// zero value disables the corresponding gate, matching how a plain
// search run (no clustering) leaves them unset.
type Sensitivity struct {
	Name              string
	Shape             seed.Shape
	Stage1            hamming.Config
	Stage2            hamming.Stage2Config
	CoverageCutoff    float64
	MutualCoverCutoff float64
	ApproxMinID       float64
}

// accepts reports whether hsp clears this round's coverage/identity
// gates, given the true (unpadded) query and target lengths. A zero
// cutoff leaves the corresponding gate open.
func (s Sensitivity) accepts(hsp dp.HSP, qlen, tlen int) bool {
	if s.CoverageCutoff <= 0 && s.MutualCoverCutoff <= 0 && s.ApproxMinID <= 0 {
		return true
	}
	qcov := float64(QCovHSP(hsp, qlen))
	scov := float64(SCovHSP(hsp, tlen))
	if s.CoverageCutoff > 0 && qcov < s.CoverageCutoff {
		return false
	}
	if s.MutualCoverCutoff > 0 && (qcov < s.MutualCoverCutoff || scov < s.MutualCoverCutoff) {
		return false
	}
	if s.ApproxMinID > 0 && PercentIdentity(hsp) < s.ApproxMinID {
		return false
	}
	return true
}

// Config parametrises a full Driver run.
type Config struct {
	Matrix      *residue.Matrix
	Partitions  int
	Workers     int
	Sensitivity []Sensitivity
	XDrop       int32
	Bin         dp.Bin
}

// Driver runs spec.md §4.G's loop: per sensitivity round, per
// query-block/target-block pair, build-or-reuse the seed index, walk
// the seed-join iterator, run the hamming cascade, and extend surviving
// hits with the DP engine.
type Driver struct {
	cfg Config
}

// New returns a Driver for cfg.
func New(cfg Config) *Driver {
	if cfg.Partitions < 1 {
		cfg.Partitions = 1
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	// cfg.Bin's zero value is dp.Bin8, the cheapest/narrowest bin, which
	// is the correct default starting point for bin escalation.
	return &Driver{cfg: cfg}
}

// Accepted tracks which queries have already cleared a round, so
// subsequent (stronger) rounds can skip them per spec.md §4.G's
// sensitivity schedule.
type Accepted struct {
	mu   sync.Mutex
	seen map[int32]bool
}

// NewAccepted returns an empty Accepted tracker.
func NewAccepted() *Accepted { return &Accepted{seen: make(map[int32]bool)} }

// Mark records that queryID has at least one accepted HSP.
func (a *Accepted) Mark(queryID int32) {
	a.mu.Lock()
	a.seen[queryID] = true
	a.mu.Unlock()
}

// Has reports whether queryID was previously marked.
func (a *Accepted) Has(queryID int32) bool {
	a.mu.Lock()
	ok := a.seen[queryID]
	a.mu.Unlock()
	return ok
}

// Run executes every sensitivity round in order over one
// (queryBlock, targetBlock) pair, returning the accepted HSPs. It stops
// consulting a query once Accepted has marked it in an earlier round.
func (d *Driver) Run(queryBlock, targetBlock *seq.Block, accepted *Accepted) []dp.HSP {
	var all []dp.HSP
	for _, sens := range d.cfg.Sensitivity {
		hsps := d.runRound(queryBlock, targetBlock, sens, accepted)
		for _, h := range hsps {
			accepted.Mark(h.QueryID)
		}
		all = append(all, hsps...)
	}
	return all
}

func (d *Driver) runRound(queryBlock, targetBlock *seq.Block, sens Sensitivity, accepted *Accepted) []dp.HSP {
	qArr := seed.Build(queryBlock, sens.Shape, d.cfg.Partitions, 0, 0)
	tArr := seed.Build(targetBlock, sens.Shape, d.cfg.Partitions, 0, 0)
	qHist := seed.BuildHistogram(qArr)
	tHist := seed.BuildHistogram(tArr)

	buf := NewAsyncBuffer(queryBlock.Len()/max1(d.cfg.Partitions) + 1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer buf.CloseSend()
		for p := 0; p < d.cfg.Partitions; p++ {
			it := seedjoin.New(qArr.Partition(p), tArr.Partition(p), qHist, tHist, p)
			it.Each(func(qBucket, tBucket seedjoin.Bucket) {
				pairs := hamming.Run(queryBlock, targetBlock, qBucket, tBucket, sens.Stage1)
				if len(pairs) == 0 {
					return
				}
				hits := hamming.RunStage2(d.cfg.Matrix, queryBlock, targetBlock, pairs, sens.Stage2, nil)
				for _, h := range hits {
					if accepted.Has(h.QueryID) {
						continue
					}
					buf.Send(h)
				}
			})
		}
	}()

	var mu sync.Mutex
	var hsps []dp.HSP
	var workers sync.WaitGroup
	for w := 0; w < d.cfg.Workers; w++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			ws := NewWorkSet()
			var lastQuery int32 = -1
			buf.Each(func(h hamming.Hit) {
				if h.QueryID != lastQuery {
					qs := queryBlock.Set.At(int(h.QueryID))
					ws.Reset(d.cfg.Matrix, qs.Letter, cbsFor(queryBlock, h.QueryID))
					lastQuery = h.QueryID
				}
				ts := targetBlock.Set.At(int(h.TargetID))
				hsp, saturated := d.extend(ws, ts.Letter, h)
				if saturated {
					return
				}
				if hsp.Score <= 0 {
					return
				}
				hsp.QueryID = h.QueryID
				hsp.TargetID = h.TargetID
				if !sens.accepts(hsp, len(ws.queryLetters), len(ts.Letter)) {
					return
				}
				mu.Lock()
				hsps = append(hsps, hsp)
				mu.Unlock()
			})
		}()
	}
	wg.Wait()
	workers.Wait()

	return CullContained(hsps)
}

// extendMargin is the from-scratch banded extension's half-band and the
// anchored extension's sensitivity-dependent band floor, spec.md §4.F's
// `sens_dependent_min`.
const extendMargin = 32

// extend produces one HSP for a surviving stage-2 hit: the seed
// position anchors a two-sided banded extension scored through the
// driver's matrix (spec.md §4.F, the anchor package), falling back to
// a from-scratch banded DP pass over the whole query/target (spec.md
// §4.E) when the anchor is out of range for this hit.
func (d *Driver) extend(ws *WorkSet, target []residue.Letter, h hamming.Hit) (dp.HSP, bool) {
	if hsp, ok := d.extendAnchored(ws, target, h); ok {
		return hsp, false
	}
	return d.extendBanded(ws, target, h)
}

// extendAnchored runs anchor.Run off the single-residue seed core at
// (h.QueryPos, h.TargetPos). It passes along the forward and reversed
// score profiles the WorkSet built in Reset, which anchor.Run does not
// read. ok is
// false if the seed position falls outside either sequence, in which
// case the caller should fall back to extendBanded.
func (d *Driver) extendAnchored(ws *WorkSet, target []residue.Letter, h hamming.Hit) (dp.HSP, bool) {
	if h.QueryPos < 0 || int(h.QueryPos) >= len(ws.queryLetters) {
		return dp.HSP{}, false
	}
	if h.TargetPos < 0 || int(h.TargetPos) >= len(target) {
		return dp.HSP{}, false
	}

	a := dp.Anchor{
		QueryBegin:   h.QueryPos,
		QueryEnd:     h.QueryPos + 1,
		SubjectBegin: h.TargetPos,
		SubjectEnd:   h.TargetPos + 1,
		Score:        h.Score,
	}
	result := anchor.Run(d.cfg.Matrix, ws.Profile, ws.Reversed, ws.queryLetters, target, a, extendMargin, d.cfg.Bin)

	coreMatch := ws.queryLetters[h.QueryPos] == target[h.TargetPos]

	hsp := dp.HSP{
		QueryRange: dp.Range{
			Begin: a.QueryBegin - result.Left.HSP.QueryRange.End,
			End:   a.QueryEnd + result.Right.HSP.QueryRange.End,
		},
		SubjRange: dp.Range{
			Begin: a.SubjectBegin - result.Left.HSP.SubjRange.End,
			End:   a.SubjectEnd + result.Right.HSP.SubjRange.End,
		},
		Score:  result.TotalScore,
		Length: result.Left.HSP.Length + result.Right.HSP.Length + 1,
		Gaps:   result.Left.HSP.Gaps + result.Right.HSP.Gaps,
	}
	if coreMatch {
		hsp.Identities = result.Left.HSP.Identities + result.Right.HSP.Identities + 1
	} else {
		hsp.Mismatches = result.Left.HSP.Mismatches + result.Right.HSP.Mismatches + 1
		hsp.Identities = result.Left.HSP.Identities + result.Right.HSP.Identities
	}
	return hsp, true
}

// extendBanded runs a full banded DP pass centred on the diagonal the
// seed hit landed on, with a fixed margin on either side to absorb
// indels near the seed.
func (d *Driver) extendBanded(ws *WorkSet, target []residue.Letter, h hamming.Hit) (dp.HSP, bool) {
	centerDiag := h.TargetPos - h.QueryPos
	target2 := dp.DpTarget{
		Letters: target,
		DBegin:  centerDiag - extendMargin,
		DEnd:    centerDiag + extendMargin,
	}
	cfg := dp.Config{Mode: dp.TraceFull, Bin: d.cfg.Bin, XDrop: d.cfg.XDrop}
	hsp, saturated := dp.Run(ws.queryLetters, d.cfg.Matrix, target2, cfg)
	if saturated {
		if next, ok := d.cfg.Bin.Next(); ok {
			cfg.Bin = next
			hsp, saturated = dp.Run(ws.queryLetters, d.cfg.Matrix, target2, cfg)
		}
	}
	return hsp, saturated
}

func cbsFor(block *seq.Block, localID int32) []int32 {
	if block.CBS == nil {
		return nil
	}
	return block.CBS[localID]
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// CullContained removes any HSP whose subject range is fully contained
// within a higher-scoring HSP against the same target, the same
// disjointness test ins/cmd/ins/main.go's cullContained performs with
// an interval.IntTree, adapted from nucleotide repeat intervals to
// protein/DNA HSP subject ranges.
func CullContained(hsps []dp.HSP) []dp.HSP {
	if len(hsps) == 0 {
		return hsps
	}
	var tree interval.IntTree
	for i, h := range hsps {
		err := tree.Insert(hspInterval{uid: uintptr(i), HSP: h}, true)
		if err != nil {
			panic(err)
		}
	}
	tree.AdjustRanges()
	var culled []dp.HSP
outer:
	for _, h := range hsps {
		overlaps := tree.Get(hspInterval{HSP: h})
		for _, o := range overlaps {
			other := o.(hspInterval).HSP
			if other.Score > h.Score && other.TargetID == h.TargetID {
				continue outer
			}
		}
		culled = append(culled, h)
	}
	return culled
}

type hspInterval struct {
	uid uintptr
	dp.HSP
}

func (i hspInterval) Overlap(b interval.IntRange) bool {
	return b.Start <= int(i.SubjRange.Begin) && int(i.SubjRange.End) <= b.End
}
func (i hspInterval) ID() uintptr { return i.uid }
func (i hspInterval) Range() interval.IntRange {
	return interval.IntRange{Start: int(i.SubjRange.Begin), End: int(i.SubjRange.End)}
}

// sortByTargetOId sorts hsps by target id, then by query id.
func sortByTargetOId(hsps []dp.HSP) {
	sort.Slice(hsps, func(i, j int) bool {
		if hsps[i].TargetID != hsps[j].TargetID {
			return hsps[i].TargetID < hsps[j].TargetID
		}
		return hsps[i].QueryID < hsps[j].QueryID
	})
}
