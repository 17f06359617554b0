// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// swipe-cluster groups a sequence set into similarity clusters by
// self-aligning it and running cascaded greedy vertex cover over the
// resulting edge graph, per spec.md §4.H/§4.I.
//
// usage: swipe-cluster -query <seqs.fa> >clusters.tsv
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/kortschak/swipe/cluster"
	"github.com/kortschak/swipe/dp"
	"github.com/kortschak/swipe/hamming"
	"github.com/kortschak/swipe/internal/config"
	"github.com/kortschak/swipe/pipeline"
	"github.com/kortschak/swipe/residue"
	"github.com/kortschak/swipe/seed"
	"github.com/kortschak/swipe/seq"
)

// loadMatrix returns the built-in BLOSUM62 matrix, or the matrix parsed
// from cfg.MatrixFile if one was given (spec.md §1's Non-goal "does not
// define new scoring matrices" treats the matrix as externally
// supplied).
func loadMatrix(cfg config.Config) (*residue.Matrix, error) {
	if cfg.MatrixFile == "" {
		return residue.Blosum62(), nil
	}
	f, err := os.Open(cfg.MatrixFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return residue.LoadMatrix(f, 11, 1, 0.267, 0.041)
}

func main() {
	cfg := config.Default()
	validate := config.Register(flag.CommandLine, &cfg)
	edgesOut := flag.String("edges-out", "", "also write the 24-byte clustering edge stream here (consumable by swipe-gvc)")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), `Usage of %[1]s:
  $ %[1]s [options] -query <seqs.fa> >clusters.tsv 2>out.log

Options:
`, os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()
	if err := validate(); err != nil {
		fmt.Fprintln(flag.CommandLine.Output(), err)
		flag.Usage()
		os.Exit(2)
	}

	log.Println(os.Args)

	tmpDir, err := ioutil.TempDir(cfg.WorkDir, "swipe-cluster-*")
	if err != nil {
		log.Fatal(err)
	}
	if cfg.KeepWork {
		log.Println("keeping work")
	} else {
		defer os.RemoveAll(tmpDir)
	}

	f, err := os.Open(cfg.Query)
	if err != nil {
		log.Fatal(err)
	}
	block, err := seq.LoadBlock(f, true)
	f.Close()
	if err != nil {
		log.Fatal(err)
	}

	m, err := loadMatrix(cfg)
	if err != nil {
		log.Fatal(err)
	}
	karlin := residue.DefaultKarlinTable(m)
	driver := pipeline.New(pipeline.Config{
		Matrix:     m,
		Partitions: max1(cfg.Threads),
		Workers:    max1(cfg.Threads),
		Sensitivity: []pipeline.Sensitivity{{
			Name:              "self",
			Shape:             seed.Default16,
			Stage1:            hamming.Config{Mode: hamming.Self, HammingFilterID: cfg.HammingFilterID, TileSize: cfg.TileSize},
			Stage2:            hamming.Stage2Config{Window: cfg.UngappedWindow, Cutoff: hamming.DefaultCutoff(20, 0.2)},
			CoverageCutoff:    cfg.MemberCover,
			MutualCoverCutoff: cfg.MutualCover,
			ApproxMinID:       cfg.ApproxMinID,
		}},
		XDrop: int32(cfg.XDrop),
		Bin:   dp.Bin8,
	})
	hsps := driver.Run(block, block, pipeline.NewAccepted())

	if *edgesOut != "" {
		if err := writeEdges(*edgesOut, hsps, block, m, karlin); err != nil {
			log.Fatal(err)
		}
	}

	n := block.Len()
	scores := newScoreIndex(hsps, block)

	rounds := buildRounds(cfg)
	edges := func(members []int32, round cluster.Round) *cluster.Graph {
		return scores.inducedGraph(members, max(cfg.MemberCover, round.CoverageCutoff), max(cfg.ApproxMinID, round.ApproxID))
	}

	result := cluster.Cascade(n, rounds, edges)

	cluster.Reassign(result.Centroid, uniqueCentroids(result.Centroid), func(member, centroid int32) int32 {
		return scores.scoreOf(member, centroid)
	})

	if cfg.ClusterSteps > 1 {
		result.Centroid = cluster.Recluster(result.Centroid, func(member, centroid int32) bool {
			return scores.coverageOK(member, centroid, cfg.RoundCoverage, cfg.ApproxMinID)
		}, rounds, edges)
	}

	for i := 0; i < n; i++ {
		s := block.Set.At(i)
		c := block.Set.At(int(result.Centroid[i]))
		fmt.Printf("%s\t%s\n", c.ID, s.ID)
	}
}

// writeEdges streams hsps through pipeline.BuildEdges and writes the
// resulting fixed-width records to path, giving swipe-gvc a real
// producer for the wire format spec.md §6 defines.
func writeEdges(path string, hsps []dp.HSP, block *seq.Block, m *residue.Matrix, karlin *residue.KarlinTable) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	buf := make([]byte, pipeline.EdgeSize)
	for _, e := range pipeline.BuildEdges(hsps, block, block, m, karlin) {
		e.Marshal(buf)
		if _, err := f.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// buildRounds expands cfg's flat cluster schedule into the per-round
// list Cascade expects, coarsest (most permissive coverage) first.
func buildRounds(cfg config.Config) []cluster.Round {
	steps := cfg.ClusterSteps
	if steps < 1 {
		steps = 1
	}
	rounds := make([]cluster.Round, steps)
	for i := range rounds {
		rounds[i] = cluster.Round{
			Sensitivity:    cfg.Sensitivity,
			CoverageCutoff: cfg.RoundCoverage,
			ApproxID:       cfg.RoundApproxID,
			CCD:            cfg.ConnectedComponentDepth,
		}
	}
	return rounds
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// uniqueCentroids returns the distinct centroid ids appearing in
// mapping, in order of first appearance.
func uniqueCentroids(mapping []int32) []int32 {
	seen := make(map[int32]bool)
	var out []int32
	for _, c := range mapping {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// coverageEdge is the per-pair self-alignment summary scoreIndex keeps:
// the best (by combined coverage) HSP between two members, recording
// exactly the fields spec.md §6's clustering edge schedule gates on
// (qcovhsp, scovhsp, approximate percent identity).
type coverageEdge struct {
	qcov, scov float32
	pctID      float64
}

// rank is the scalar scoreIndex ranks candidate centroids by: higher
// combined coverage is a closer match, per spec.md §4.H's reassignment
// pass.
func (e coverageEdge) rank() int32 {
	return int32((e.qcov + e.scov) * 100)
}

func (e coverageEdge) passes(coverageCutoff, approxMinID float64) bool {
	if coverageCutoff > 0 && (float64(e.qcov) < coverageCutoff || float64(e.scov) < coverageCutoff) {
		return false
	}
	if approxMinID > 0 && e.pctID < approxMinID {
		return false
	}
	return true
}

// scoreIndex is an adjacency-by-coverage index over self-alignment
// HSPs, used to answer Cascade's EdgeSource callback for an arbitrary
// member subset and cutoff without re-running the search per round.
type scoreIndex struct {
	best map[[2]int32]coverageEdge
	adj  map[int32][]int32
}

func newScoreIndex(hsps []dp.HSP, block *seq.Block) *scoreIndex {
	idx := &scoreIndex{best: make(map[[2]int32]coverageEdge), adj: make(map[int32][]int32)}
	for _, h := range hsps {
		if h.QueryID == h.TargetID {
			continue
		}
		qlen := block.Set.At(int(h.QueryID)).Len()
		tlen := block.Set.At(int(h.TargetID)).Len()
		fwd := coverageEdge{qcov: pipeline.QCovHSP(h, int(qlen)), scov: pipeline.SCovHSP(h, int(tlen)), pctID: pipeline.PercentIdentity(h)}
		rev := coverageEdge{qcov: fwd.scov, scov: fwd.qcov, pctID: fwd.pctID}
		idx.add(h.QueryID, h.TargetID, fwd)
		idx.add(h.TargetID, h.QueryID, rev)
	}
	return idx
}

func (idx *scoreIndex) add(a, b int32, e coverageEdge) {
	key := [2]int32{a, b}
	if prev, ok := idx.best[key]; !ok || e.rank() > prev.rank() {
		if !ok {
			idx.adj[a] = append(idx.adj[a], b)
		}
		idx.best[key] = e
	}
}

func (idx *scoreIndex) scoreOf(a, b int32) int32 {
	if a == b {
		return 1 << 30 // a sequence always covers itself perfectly
	}
	e, ok := idx.best[[2]int32{a, b}]
	if !ok {
		return -(1 << 30) // no alignment at all: never preferred over any real edge
	}
	return e.rank()
}

func (idx *scoreIndex) coverageOK(member, centroid int32, coverageCutoff, approxMinID float64) bool {
	if member == centroid {
		return true
	}
	e, ok := idx.best[[2]int32{member, centroid}]
	return ok && e.passes(coverageCutoff, approxMinID)
}

// inducedGraph restricts the full adjacency to members, relabelling
// neighbours to local indices into members (the coordinate space
// cluster.Cascade's EdgeSource contract requires), keeping only pairs
// whose coverage and identity clear this round's cutoffs.
func (idx *scoreIndex) inducedGraph(members []int32, coverageCutoff, approxMinID float64) *cluster.Graph {
	local := make(map[int32]int32, len(members))
	for i, v := range members {
		local[v] = int32(i)
	}
	g := &cluster.Graph{Neighbors: make([][]int32, len(members))}
	for i, v := range members {
		for _, n := range idx.adj[v] {
			li, ok := local[n]
			if !ok {
				continue
			}
			if !idx.best[[2]int32{v, n}].passes(coverageCutoff, approxMinID) {
				continue
			}
			g.Neighbors[i] = append(g.Neighbors[i], li)
		}
	}
	return g
}
