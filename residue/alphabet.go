// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package residue implements the scoring substrate: the 32-symbol
// alphabet, integer scoring matrices, composition-biased score profiles
// and the Karlin-Altschul E-value lookup used by every other package in
// the module.
package residue

import "fmt"

// Letter is a single encoded residue. Values in [0, Size) are valid;
// other values are never produced by Encode.
type Letter byte

// Size is the number of symbols in the alphabet: 20 standard amino acids,
// 3 ambiguity codes, gap, stop, mask, unknown, selenocysteine (U),
// pyrrolysine (O), 2 reserved slots and the seed sentinel.
const Size = 32

// Sentinel letters with fixed positions, matching the layout used by the
// scoring matrix and the LongScoreProfile padding.
const (
	Gap    Letter = 23
	Stop   Letter = 24
	Mask   Letter = 25
	Unk    Letter = 26
	Sentry Letter = 31 // the empty/masked seed sentinel value, never a real residue
)

// letters is the canonical ordering: 20 amino acids, 3 ambiguity codes
// (B, Z, J) plus an explicitly-indexed tail of special symbols. Indices
// are keyed explicitly so they line up with the Gap/Stop/Mask/Unk/Sentry
// constants above regardless of array literal order.
var letters = [Size]byte{
	0: 'A', 1: 'R', 2: 'N', 3: 'D', 4: 'C', 5: 'Q', 6: 'E', 7: 'G', 8: 'H', 9: 'I',
	10: 'L', 11: 'K', 12: 'M', 13: 'F', 14: 'P', 15: 'S', 16: 'T', 17: 'W', 18: 'Y', 19: 'V',
	20: 'B', 21: 'Z', 22: 'J', // ambiguity codes

	int(Gap):  '-',
	int(Stop): '*',
	int(Mask): 'x',
	int(Unk):  'X',

	27: 'U', 28: 'O', // selenocysteine, pyrrolysine
	29: '+', 30: '+', // reserved
	int(Sentry): '.',
}

var byteToLetter [256]Letter

func init() {
	for i := range byteToLetter {
		byteToLetter[i] = Unk
	}
	for l, b := range letters {
		if b == 0 {
			continue
		}
		byteToLetter[b] = Letter(l)
		if b >= 'A' && b <= 'Z' {
			byteToLetter[b-'A'+'a'] = Letter(l)
		}
	}
	byteToLetter['-'] = Gap
	byteToLetter['*'] = Stop
}

// Encode maps an ASCII residue code to a Letter. Unrecognised bytes map
// to Unk rather than erroring: malformed input degrades gracefully the
// way the stage-2 window clipping expects (see hamming.RunStage2).
func Encode(b byte) Letter { return byteToLetter[b] }

// EncodeAll encodes a whole byte slice into a freshly allocated
// []Letter, leaving s unchanged.
func EncodeAll(s []byte) []Letter {
	out := make([]Letter, len(s))
	for i, b := range s {
		out[i] = Encode(b)
	}
	return out
}

// Byte returns the canonical ASCII representation of l.
func (l Letter) Byte() byte {
	if int(l) < 0 || int(l) >= Size {
		return '?'
	}
	return letters[l]
}

func (l Letter) String() string {
	if l == Sentry {
		return "<sentry>"
	}
	return fmt.Sprintf("%c", l.Byte())
}

// IsAmbiguous reports whether l is one of the three ambiguity codes
// (B, Z, J).
func (l Letter) IsAmbiguous() bool { return l >= 20 && l <= 22 }
