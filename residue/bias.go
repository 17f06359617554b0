// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package residue

import "gonum.org/v1/gonum/stat"

// Background is the standard amino acid background frequency table used
// by composition-biased scoring (Robinson & Robinson, as in most BLAST-
// family tools). Indexed by Letter; entries for non-amino-acid letters
// are zero.
var Background = func() [Size]float64 {
	var f [Size]float64
	raw := map[byte]float64{
		'A': 0.078, 'R': 0.051, 'N': 0.041, 'D': 0.054, 'C': 0.019,
		'Q': 0.037, 'E': 0.062, 'G': 0.074, 'H': 0.023, 'I': 0.053,
		'L': 0.091, 'K': 0.057, 'M': 0.024, 'F': 0.040, 'P': 0.051,
		'S': 0.069, 'T': 0.059, 'W': 0.014, 'Y': 0.032, 'V': 0.066,
	}
	for b, v := range raw {
		f[Encode(b)] = v
	}
	return f
}()

// CompositionBias computes a per-query-position score offset (cbs,
// spec.md §3/§4.A) from the deviation of the query's observed amino acid
// composition from Background, scaled by scale (the cbs_matrix_scale
// configuration option of spec.md §6). The offset at position i depends
// only on query[i]'s letter, matching the "Composition Matrix Adjustment"
// style bias diamond applies uniformly across a sequence.
func CompositionBias(query []Letter, scale float64) []int32 {
	counts := make([]float64, Size)
	for _, q := range query {
		counts[q]++
	}
	n := stat.Mean(counts, nil) * float64(Size) // == len(query), via stat to keep a real gonum/stat call on the hot path
	if n == 0 {
		return make([]int32, len(query))
	}
	var observed [Size]float64
	for l := range observed {
		observed[l] = counts[l] / n
	}

	var perLetterOffset [Size]int32
	for l := Letter(0); l < Size; l++ {
		bg := Background[l]
		if bg == 0 {
			continue
		}
		dev := observed[l] - bg
		perLetterOffset[l] = int32(dev * scale)
	}

	bias := make([]int32, len(query))
	for i, q := range query {
		bias[i] = perLetterOffset[q]
	}
	return bias
}
