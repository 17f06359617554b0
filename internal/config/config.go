// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config parses the command-line option set spec.md §6 lists,
// following the teacher's plain flag.FlagSet-driven style rather than a
// struct-tag based flags library (no such library appears anywhere in
// the corpus).
package config

import (
	"flag"
	"fmt"
)

// Error is a configuration error: an unknown sensitivity name or an
// incompatible combination of flags, surfaced fatally before any block
// is loaded, per spec.md §7.
type Error struct {
	Flag   string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Flag, e.Reason)
}

// Sensitivity names the presets spec.md §6's `sensitivity` option
// selects between.
type Sensitivity string

const (
	Fast          Sensitivity = "fast"
	Sensitive     Sensitivity = "sensitive"
	VerySensitive Sensitivity = "very-sensitive"
	Ultra         Sensitivity = "ultra-sensitive"
)

var validSensitivities = map[Sensitivity]bool{
	Fast: true, Sensitive: true, VerySensitive: true, Ultra: true,
}

// Config is the full option set spec.md §6's table names.
type Config struct {
	Query, Target string
	WorkDir       string
	Threads       int

	Sensitivity string
	MatrixFile  string

	MaxEValue       float64
	MemberCover     float64
	MutualCover     float64
	ApproxMinID     float64
	MinLengthRatio  float64
	HammingFilterID int
	UngappedWindow  int
	UngappedEValue  float64
	XDrop           int
	Band            int
	SwipeTaskSize   int
	TileSize        int
	CBSMatrixScale  int
	ChunkSize       int64

	ChainingStackedHSPRatio float64

	ClusterSteps            int
	RoundCoverage           float64
	RoundApproxID           float64
	ConnectedComponentDepth int

	KeepWork bool
	Verbose  bool
}

// Default returns a Config populated with the "normal" operating point
// of spec.md's worked examples: sensitive-enough seeding, a permissive
// E-value cutoff, and no clustering-specific overrides.
func Default() Config {
	return Config{
		WorkDir:                 ".",
		Threads:                 0,
		Sensitivity:             string(Sensitive),
		MaxEValue:               10,
		MemberCover:             80,
		MutualCover:             80,
		ApproxMinID:             0,
		MinLengthRatio:          0.9,
		HammingFilterID:         0,
		UngappedWindow:          16,
		UngappedEValue:          1,
		XDrop:                   20,
		Band:                    0,
		SwipeTaskSize:           4096,
		TileSize:                0,
		CBSMatrixScale:          100,
		ChunkSize:               4 << 20,
		ChainingStackedHSPRatio: 0.9,
		ClusterSteps:            1,
		RoundCoverage:           80,
		RoundApproxID:           0,
		ConnectedComponentDepth: 0,
	}
}

// Register installs every option as a flag on fs, defaulting each to
// cfg's current values, and returns a function that must be called
// after fs.Parse to validate the result.
func Register(fs *flag.FlagSet, cfg *Config) func() error {
	fs.StringVar(&cfg.Query, "query", cfg.Query, "query FASTA file (required)")
	fs.StringVar(&cfg.Target, "target", cfg.Target, "reference/target FASTA file (default: the query file)")
	fs.StringVar(&cfg.WorkDir, "work-dir", cfg.WorkDir, "scratch directory for temporary files and the resumable manifest")
	fs.IntVar(&cfg.Threads, "threads", cfg.Threads, "worker thread count (<=0 is one worker)")

	fs.StringVar(&cfg.Sensitivity, "sensitivity", cfg.Sensitivity, "shape set / seed frequency cut / band width preset")
	fs.StringVar(&cfg.MatrixFile, "matrix-file", cfg.MatrixFile, "NCBI-format scoring matrix file (default: built-in BLOSUM62)")

	fs.Float64Var(&cfg.MaxEValue, "max-evalue", cfg.MaxEValue, "HSP reporting cutoff")
	fs.Float64Var(&cfg.MemberCover, "member-cover", cfg.MemberCover, "percent coverage cutoff for clustering edge emission (0-100)")
	fs.Float64Var(&cfg.MutualCover, "mutual-cover", cfg.MutualCover, "percent coverage cutoff for clustering edge emission, both directions (0-100)")
	fs.Float64Var(&cfg.ApproxMinID, "approx-min-id", cfg.ApproxMinID, "minimum approximate percent identity for clustering (0-100)")
	fs.Float64Var(&cfg.MinLengthRatio, "min-length-ratio", cfg.MinLengthRatio, "mutual-cover length ratio filter")
	fs.IntVar(&cfg.HammingFilterID, "hamming-filter-id", cfg.HammingFilterID, "stage-1 passing threshold")
	fs.IntVar(&cfg.UngappedWindow, "ungapped-window", cfg.UngappedWindow, "stage-2 ungapped extension window")
	fs.Float64Var(&cfg.UngappedEValue, "ungapped-evalue", cfg.UngappedEValue, "stage-2 E-value cutoff")
	fs.IntVar(&cfg.XDrop, "xdrop", cfg.XDrop, "extension termination margin")
	fs.IntVar(&cfg.Band, "band", cfg.Band, "override DP band (0 is automatic)")
	fs.IntVar(&cfg.SwipeTaskSize, "swipe-task-size", cfg.SwipeTaskSize, "target cells per parallel task")
	fs.IntVar(&cfg.TileSize, "tile-size", cfg.TileSize, "stage-1 tile dimension")
	fs.IntVar(&cfg.CBSMatrixScale, "cbs-matrix-scale", cfg.CBSMatrixScale, "integer scaling factor for composition-adjusted scores")
	fs.Int64Var(&cfg.ChunkSize, "chunk-size", cfg.ChunkSize, "bytes of sequence per target block")

	fs.Float64Var(&cfg.ChainingStackedHSPRatio, "chaining-stacked-hsp-ratio", cfg.ChainingStackedHSPRatio, "chaining disjointness threshold")

	fs.IntVar(&cfg.ClusterSteps, "cluster-steps", cfg.ClusterSteps, "number of cascaded clustering rounds")
	fs.Float64Var(&cfg.RoundCoverage, "round-coverage", cfg.RoundCoverage, "per-round clustering coverage floor")
	fs.Float64Var(&cfg.RoundApproxID, "round-approx-id", cfg.RoundApproxID, "per-round clustering identity floor")
	fs.IntVar(&cfg.ConnectedComponentDepth, "connected-component-depth", cfg.ConnectedComponentDepth, "transitive expansion depth for greedy vertex cover")

	fs.BoolVar(&cfg.KeepWork, "work", cfg.KeepWork, "keep temporary files")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "verbose logging")

	return func() error { return cfg.Validate() }
}

// Validate reports a *Error for any unknown or incompatible setting,
// surfaced fatally before any block is loaded (spec.md §7).
func (c *Config) Validate() error {
	if c.Query == "" {
		return &Error{Flag: "query", Reason: "required"}
	}
	if !validSensitivities[Sensitivity(c.Sensitivity)] {
		return &Error{Flag: "sensitivity", Reason: fmt.Sprintf("unknown sensitivity %q", c.Sensitivity)}
	}
	if c.MemberCover < 0 || c.MemberCover > 100 {
		return &Error{Flag: "member-cover", Reason: "must be in [0,100]"}
	}
	if c.MutualCover < 0 || c.MutualCover > 100 {
		return &Error{Flag: "mutual-cover", Reason: "must be in [0,100]"}
	}
	if c.ApproxMinID < 0 || c.ApproxMinID > 100 {
		return &Error{Flag: "approx-min-id", Reason: "must be in [0,100]"}
	}
	if c.RoundCoverage < 0 || c.RoundCoverage > 100 {
		return &Error{Flag: "round-coverage", Reason: "must be in [0,100]"}
	}
	if c.RoundApproxID < 0 || c.RoundApproxID > 100 {
		return &Error{Flag: "round-approx-id", Reason: "must be in [0,100]"}
	}
	if c.ChunkSize <= 0 {
		return &Error{Flag: "chunk-size", Reason: "must be positive"}
	}
	return nil
}
