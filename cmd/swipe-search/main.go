// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// swipe-search is a protein/DNA sequence similarity search tool. It
// seeds, filters and extends a query set against a target set and
// reports high-scoring pairs in BLAST-style tabular form.
//
// usage: swipe-search -query <query.fa> -target <target.fa> >out.tsv
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"sort"

	"github.com/kortschak/swipe/dp"
	"github.com/kortschak/swipe/hamming"
	"github.com/kortschak/swipe/internal/config"
	"github.com/kortschak/swipe/pipeline"
	"github.com/kortschak/swipe/refdb"
	"github.com/kortschak/swipe/residue"
	"github.com/kortschak/swipe/seed"
	"github.com/kortschak/swipe/seq"
	"github.com/kortschak/swipe/workstack"
)

// targetChunk is one chunk_size-bounded batch of the target database,
// backed by a packed cache file that is mmapped back in rather than
// kept as a second in-memory copy once written (spec.md §3's
// "contiguous storage... O(1) random access" over a reference too large
// to hold comfortably in full).
type targetChunk struct {
	block *seq.Block
	mm    *seq.MappedLetters
}

func (c *targetChunk) Close() error {
	if c.mm == nil {
		return nil
	}
	return c.mm.Close()
}

func main() {
	cfg := config.Default()
	validate := config.Register(flag.CommandLine, &cfg)

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), `Usage of %[1]s:
  $ %[1]s [options] -query <query.fa> -target <target.fa> >out.tsv 2>out.log

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

	tmpDir, err := ioutil.TempDir(cfg.WorkDir, "swipe-search-*")
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("working in %s", tmpDir)
	if cfg.KeepWork {
		log.Println("keeping work")
	} else {
		defer os.RemoveAll(tmpDir)
	}

	queryBlock, err := loadBlock(cfg.Query, true)
	if err != nil {
		log.Fatal(err)
	}
	target := cfg.Target
	if target == "" {
		target = cfg.Query
	}

	sf, err := refdb.Open(target)
	if err != nil {
		log.Fatal(err)
	}
	defer sf.Close()
	chunks := sf.Chunks(cfg.ChunkSize)
	log.Printf("target database split into %d chunk_size-bounded block(s)", len(chunks))

	dict, err := refdb.CreateDictionary(tmpDir + "/dict.kv")
	if err != nil {
		log.Fatal(err)
	}
	defer dict.Close()
	if err := recordDictionary(dict, 0, queryBlock); err != nil {
		log.Fatal(err)
	}

	manifest, err := workstack.Create(tmpDir + "/manifest.kv")
	if err != nil {
		log.Fatal(err)
	}
	defer manifest.Close()

	m := residue.Blosum62()
	if cfg.MatrixFile != "" {
		f, err := os.Open(cfg.MatrixFile)
		if err != nil {
			log.Fatal(err)
		}
		m, err = residue.LoadMatrix(f, 11, 1, 0.267, 0.041)
		f.Close()
		if err != nil {
			log.Fatal(err)
		}
	}
	karlin := residue.DefaultKarlinTable(m)

	driver := pipeline.New(pipeline.Config{
		Matrix:      m,
		Partitions:  max1(cfg.Threads),
		Workers:     max1(cfg.Threads),
		Sensitivity: schedule(cfg),
		XDrop:       int32(cfg.XDrop),
		Bin:         dp.Bin8,
	})

	for i, accs := range chunks {
		wc := workstack.Chunk{Phase: 0, QueryBlock: 0, TargetBlock: int32(i)}
		claimed, err := manifest.Claim(wc)
		if err != nil {
			log.Fatal(err)
		}
		if !claimed {
			log.Printf("target block %d already completed by a previous run, skipping", i)
			continue
		}

		tc, err := loadTargetChunk(sf, accs, tmpDir, i)
		if err != nil {
			log.Fatal(err)
		}
		if err := recordDictionary(dict, int32(1+i), tc.block); err != nil {
			log.Fatal(err)
		}

		accepted := pipeline.NewAccepted()
		hsps := driver.Run(queryBlock, tc.block, accepted)
		report(hsps, queryBlock, tc.block, m, karlin, cfg.MaxEValue)

		if err := tc.Close(); err != nil {
			log.Fatal(err)
		}
		if err := manifest.Mark(wc, workstack.Done); err != nil {
			log.Fatal(err)
		}
	}
}

// loadBlock opens a FASTA file and reads it into a single Block.
func loadBlock(path string, query bool) (*seq.Block, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return seq.LoadBlock(f, query)
}

// loadTargetChunk reads accs out of sf's indexed FASTA, packs them into
// one delimiter-concatenated buffer, writes it to tmpDir and mmaps it
// back as the chunk's backing SequenceSet. The file is rewritten from
// the source FASTA on every call; an existing file is not reused.
func loadTargetChunk(sf *refdb.SequenceFile, accs []string, tmpDir string, idx int) (*targetChunk, error) {
	offsets := make([]int64, 1, len(accs)+1)
	ids := make([]string, len(accs))
	var data []residue.Letter
	for i, acc := range accs {
		letters, err := sf.Full(acc)
		if err != nil {
			return nil, err
		}
		data = append(data, letters...)
		data = append(data, residue.Sentry)
		offsets = append(offsets, int64(len(data)))
		ids[i] = acc
	}

	cachePath := fmt.Sprintf("%s/target-%d.packed", tmpDir, idx)
	raw := make([]byte, len(data))
	for i, l := range data {
		raw[i] = byte(l)
	}
	if err := ioutil.WriteFile(cachePath, raw, 0o600); err != nil {
		return nil, fmt.Errorf("swipe-search: caching target block %d: %w", idx, err)
	}

	mm, mapped, err := seq.OpenMappedLetters(cachePath)
	if err != nil {
		return nil, fmt.Errorf("swipe-search: mapping target block %d: %w", idx, err)
	}

	set := seq.NewPackedSequenceSet(mapped, offsets, ids)
	oids := make([]seq.OId, len(ids))
	for i := range oids {
		oids[i] = seq.OId(i)
	}
	return &targetChunk{block: &seq.Block{Set: set, OIds: oids}, mm: mm}, nil
}

func recordDictionary(dict *refdb.Dictionary, blockID int32, block *seq.Block) error {
	entries := make([]refdb.DictionaryEntry, block.Len())
	for i := range entries {
		s := block.Set.At(i)
		entries[i] = refdb.DictionaryEntry{
			BlockID:   blockID,
			LocalID:   int32(i),
			Accession: s.ID,
			Length:    int32(s.Len()),
		}
	}
	return dict.Put(entries)
}

// schedule builds the sensitivity round list spec.md §4.G describes
// for the named preset, weakest round first.
func schedule(cfg config.Config) []pipeline.Sensitivity {
	cutoff := hamming.DefaultCutoff(20, 0.2)
	stage2 := hamming.Stage2Config{Window: cfg.UngappedWindow, Cutoff: cutoff}
	fast := pipeline.Sensitivity{
		Name:   "fast",
		Shape:  seed.ContiguousShape(12),
		Stage1: hamming.Config{Mode: hamming.Full, HammingFilterID: cfg.HammingFilterID, TileSize: cfg.TileSize},
		Stage2: stage2,
	}
	sensitive := pipeline.Sensitivity{
		Name:   "sensitive",
		Shape:  seed.Default16,
		Stage1: hamming.Config{Mode: hamming.Full, HammingFilterID: cfg.HammingFilterID, TileSize: cfg.TileSize},
		Stage2: stage2,
	}
	verySensitive := pipeline.Sensitivity{
		Name:   "very-sensitive",
		Shape:  seed.ContiguousShape(8),
		Stage1: hamming.Config{Mode: hamming.Full, HammingFilterID: cfg.HammingFilterID, TileSize: cfg.TileSize},
		Stage2: stage2,
	}

	switch cfg.Sensitivity {
	case string(config.Fast):
		return []pipeline.Sensitivity{fast}
	case string(config.VerySensitive):
		return []pipeline.Sensitivity{fast, sensitive, verySensitive}
	case string(config.Ultra):
		return []pipeline.Sensitivity{fast, sensitive, verySensitive,
			{Name: "ultra-sensitive", Shape: seed.ContiguousShape(6), Stage1: hamming.Config{Mode: hamming.Full, HammingFilterID: cfg.HammingFilterID, TileSize: cfg.TileSize}, Stage2: stage2}}
	default:
		return []pipeline.Sensitivity{fast, sensitive}
	}
}

// report writes one BLAST-tabular-style line per reported HSP, sorted
// by query id and then by ascending E-value, filtered by maxEValue.
func report(hsps []dp.HSP, queryBlock, targetBlock *seq.Block, m *residue.Matrix, karlin *residue.KarlinTable, maxEValue float64) {
	type row struct {
		dp.HSP
		qid, tid string
	}
	var rows []row
	for _, h := range hsps {
		qs := queryBlock.Set.At(int(h.QueryID))
		ts := targetBlock.Set.At(int(h.TargetID))
		h.EValue = karlin.Evalue(h.Score, len(qs.Letter), len(ts.Letter))
		if h.EValue > maxEValue {
			continue
		}
		rows = append(rows, row{HSP: h, qid: qs.ID, tid: ts.ID})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].qid != rows[j].qid {
			return rows[i].qid < rows[j].qid
		}
		return rows[i].EValue < rows[j].EValue
	})

	for _, r := range rows {
		pctID := 0.0
		if r.Length > 0 {
			pctID = 100 * float64(r.Identities) / float64(r.Length)
		}
		fmt.Printf("%s\t%s\t%.2f\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%.2e\t%.1f\n",
			r.qid, r.tid, pctID, r.Length, r.Mismatches, r.Gaps,
			r.QueryRange.Begin+1, r.QueryRange.End, r.SubjRange.Begin+1, r.SubjRange.End,
			r.EValue, r.Bits)
	}
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
