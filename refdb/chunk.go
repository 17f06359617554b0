// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refdb

// Chunks groups sf's accessions into ordered batches whose cumulative
// sequence length is approximately chunkSize residues, the target-block
// batching spec.md §4.G's chunk_size option drives so a reference
// database far larger than memory is searched one bounded block at a
// time rather than loaded whole. A single sequence longer than
// chunkSize gets its own batch rather than being split. chunkSize<=0
// disables batching: every accession lands in one chunk.
func (s *SequenceFile) Chunks(chunkSize int64) [][]string {
	if chunkSize <= 0 {
		return [][]string{s.Accessions()}
	}
	var chunks [][]string
	var cur []string
	var size int64
	for _, acc := range s.Accessions() {
		n, _ := s.Len(acc)
		if len(cur) > 0 && size+int64(n) > chunkSize {
			chunks = append(chunks, cur)
			cur = nil
			size = 0
		}
		cur = append(cur, acc)
		size += int64(n)
	}
	if len(cur) > 0 {
		chunks = append(chunks, cur)
	}
	return chunks
}
