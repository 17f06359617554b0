// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package seq

import (
	"os"
	"unsafe"

	"github.com/edsrzf/mmap-go"

	"github.com/kortschak/swipe/residue"
)

// MappedLetters memory-maps a file of already residue-encoded bytes (as
// written by swipe-search's packed target-block cache) and exposes it as a
// []residue.Letter without copying, giving the "contiguous storage...
// O(1) random access" SequenceSet (spec.md §3) a zero-copy backing for
// large reference databases. The mapping must be closed with Close once
// the caller is done with the returned slice; using the slice after
// Close is undefined, matching the underlying mmap-go contract.
type MappedLetters struct {
	m mmap.MMap
}

// OpenMappedLetters maps the whole of the file at path read-only.
func OpenMappedLetters(path string) (*MappedLetters, []residue.Letter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, nil, err
	}
	letters := bytesToLetters(m)
	return &MappedLetters{m: m}, letters, nil
}

// Close unmaps the file.
func (ml *MappedLetters) Close() error { return ml.m.Unmap() }

// bytesToLetters reinterprets a []byte as a []residue.Letter without
// copying: residue.Letter is defined as `type Letter byte`, so the two
// types share an identical memory layout and this conversion is safe as
// long as the []byte's lifetime (here, the mmap) outlives the returned
// slice.
func bytesToLetters(b []byte) []residue.Letter {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*residue.Letter)(unsafe.Pointer(&b[0])), len(b))
}
