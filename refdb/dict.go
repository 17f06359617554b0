// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refdb

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"modernc.org/kv"
)

// DictionaryEntry is the per-sequence side record spec.md §3 asks for
// alongside the packed letter array: enough metadata to map a
// (block id, local id) pair back to its accession and original length
// without touching the reference FASTA file.
type DictionaryEntry struct {
	BlockID   int32
	LocalID   int32
	Accession string
	Length    int32
}

var order = binary.BigEndian

// MarshalDictKey encodes (blockID, localID) as a sort-stable key, big
// endian so kv's default byte-lexical ordering also orders numerically.
func MarshalDictKey(blockID, localID int32) []byte {
	var buf [8]byte
	order.PutUint32(buf[0:4], uint32(blockID))
	order.PutUint32(buf[4:8], uint32(localID))
	return buf[:]
}

// UnmarshalDictKey is the inverse of MarshalDictKey.
func UnmarshalDictKey(data []byte) (blockID, localID int32) {
	return int32(order.Uint32(data[0:4])), int32(order.Uint32(data[4:8]))
}

// ByBlockThenLocal is a kv compare function ordering dictionary entries
// by block id then local id, in the style of internal/store's
// GroupByQueryOrderSubjectLeft.
func ByBlockThenLocal(x, y []byte) int {
	if bytes.Equal(x, y) {
		return 0
	}
	xb, xl := UnmarshalDictKey(x)
	yb, yl := UnmarshalDictKey(y)
	switch {
	case xb < yb:
		return -1
	case xb > yb:
		return 1
	case xl < yl:
		return -1
	case xl > yl:
		return 1
	}
	panic("unreachable")
}

// Dictionary is a kv-backed table of DictionaryEntry records keyed by
// (block id, local id).
type Dictionary struct {
	db *kv.DB
}

// CreateDictionary creates a new dictionary at path, truncating any
// existing file.
func CreateDictionary(path string) (*Dictionary, error) {
	db, err := kv.Create(path, &kv.Options{Compare: ByBlockThenLocal})
	if err != nil {
		return nil, fmt.Errorf("refdb: creating dictionary %s: %w", path, err)
	}
	return &Dictionary{db: db}, nil
}

// OpenDictionary opens an existing dictionary at path.
func OpenDictionary(path string) (*Dictionary, error) {
	db, err := kv.Open(path, &kv.Options{Compare: ByBlockThenLocal})
	if err != nil {
		return nil, fmt.Errorf("refdb: opening dictionary %s: %w", path, err)
	}
	return &Dictionary{db: db}, nil
}

// Close closes the underlying kv.DB.
func (d *Dictionary) Close() error {
	return d.db.Close()
}

// Put records a batch of entries in a single transaction, following the
// teacher's batched-commit pattern (blast.go's `runBlastTabular`).
func (d *Dictionary) Put(entries []DictionaryEntry) error {
	if err := d.db.BeginTransaction(); err != nil {
		return err
	}
	for _, e := range entries {
		value, err := json.Marshal(e)
		if err != nil {
			d.db.Rollback()
			return err
		}
		if err := d.db.Set(MarshalDictKey(e.BlockID, e.LocalID), value); err != nil {
			d.db.Rollback()
			return err
		}
	}
	return d.db.Commit()
}

// Get looks up a single dictionary entry.
func (d *Dictionary) Get(blockID, localID int32) (DictionaryEntry, bool, error) {
	value, err := d.db.Get(nil, MarshalDictKey(blockID, localID))
	if err != nil {
		return DictionaryEntry{}, false, err
	}
	if value == nil {
		return DictionaryEntry{}, false, nil
	}
	var e DictionaryEntry
	if err := json.Unmarshal(value, &e); err != nil {
		return DictionaryEntry{}, false, err
	}
	return e, true, nil
}
