// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hamming implements spec.md §4.D stages 1 and 2: the
// Hamming-fingerprint match filter and the ungapped window extension
// that together turn seed-join buckets into Hits.
package hamming

import "github.com/kortschak/swipe/residue"

// FingerprintWidth is the number of letters compared by stage 1,
// centred on the seed location — spec.md §4.D's "48 letters centered on
// the seed in a packed 48-byte vector".
const FingerprintWidth = 48

// Fingerprint extracts the FingerprintWidth-letter window of sequence
// centred on pos, substituting residue.Mask at any position that falls
// outside the sequence (the "neutral mask letter" clipping policy of
// spec.md §4.D, shared with stage 2's window clipping).
func Fingerprint(sequence []residue.Letter, pos int) [FingerprintWidth]residue.Letter {
	var fp [FingerprintWidth]residue.Letter
	start := pos - FingerprintWidth/2
	for i := range fp {
		p := start + i
		if p < 0 || p >= len(sequence) {
			fp[i] = residue.Mask
		} else {
			fp[i] = sequence[p]
		}
	}
	return fp
}

// Matches counts the number of positions at which a and b are bit-exact
// equal, the test spec.md §8 requires ("the two 48-letter fingerprints
// match in >= k positions").
func Matches(a, b [FingerprintWidth]residue.Letter) int {
	n := 0
	for i := range a {
		if a[i] == b[i] {
			n++
		}
	}
	return n
}
