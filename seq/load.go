// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package seq

import (
	"io"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// ReadFasta scans every record out of src using the same
// seqio.NewScanner(fasta.NewReader(...)) idiom the teacher's fragment
// splitter uses, converting each to a Sequence via FromBiogo.
func ReadFasta(src io.Reader) ([]Sequence, error) {
	sc := seqio.NewScanner(fasta.NewReader(src, linear.NewSeq("", nil, alphabet.Protein)))
	var out []Sequence
	for sc.Next() {
		out = append(out, FromBiogo(sc.Seq().(*linear.Seq)))
	}
	if err := sc.Error(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadBlock reads every record from src into a single Block, assigning
// block-local ids 0..n-1 and original ids equal to the block-local ids
// (a caller merging several files renumbers OIds itself, as
// refdb.DictionaryEntry is built).
func LoadBlock(src io.Reader, query bool) (*Block, error) {
	seqs, err := ReadFasta(src)
	if err != nil {
		return nil, err
	}
	oids := make([]OId, len(seqs))
	for i := range oids {
		oids[i] = OId(i)
	}
	return NewBlock(seqs, oids, query), nil
}
