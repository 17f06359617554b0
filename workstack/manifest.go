// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package workstack implements spec.md §6's persistent state
// requirement: a resumable manifest of {phase, block_pair, state}
// records so a pipeline run can be restarted after a crash without
// redoing completed block-pair work, in the style of the teacher's
// kv-backed hit store.
package workstack

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"modernc.org/kv"
)

// State is the claim/completion state of one chunk of work.
type State byte

const (
	Pending State = iota
	Claimed
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Claimed:
		return "claimed"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Chunk identifies one unit of pipeline work: a sensitivity round and a
// query-block/target-block pair, per spec.md §4.G's per-round,
// per-query-block, per-target-block driver loop.
type Chunk struct {
	Phase      int32
	QueryBlock int32
	TargetBlock int32
}

// Record is a manifest entry: a Chunk plus its current State.
type Record struct {
	Chunk Chunk
	State State
}

var order = binary.BigEndian

// MarshalChunkKey encodes a Chunk as a sort-stable key ordered by
// phase, then query block, then target block, mirroring
// internal/store's MarshalBlastRecordKey layout.
func MarshalChunkKey(c Chunk) []byte {
	var buf [12]byte
	order.PutUint32(buf[0:4], uint32(c.Phase))
	order.PutUint32(buf[4:8], uint32(c.QueryBlock))
	order.PutUint32(buf[8:12], uint32(c.TargetBlock))
	return buf[:]
}

// UnmarshalChunkKey is the inverse of MarshalChunkKey.
func UnmarshalChunkKey(data []byte) Chunk {
	return Chunk{
		Phase:       int32(order.Uint32(data[0:4])),
		QueryBlock:  int32(order.Uint32(data[4:8])),
		TargetBlock: int32(order.Uint32(data[8:12])),
	}
}

// ByPhaseThenBlockPair is the manifest's kv compare function.
func ByPhaseThenBlockPair(x, y []byte) int {
	if bytes.Equal(x, y) {
		return 0
	}
	cx, cy := UnmarshalChunkKey(x), UnmarshalChunkKey(y)
	switch {
	case cx.Phase < cy.Phase:
		return -1
	case cx.Phase > cy.Phase:
		return 1
	case cx.QueryBlock < cy.QueryBlock:
		return -1
	case cx.QueryBlock > cy.QueryBlock:
		return 1
	case cx.TargetBlock < cy.TargetBlock:
		return -1
	case cx.TargetBlock > cy.TargetBlock:
		return 1
	}
	panic("unreachable")
}

// Manifest is a kv-backed resumable work log.
type Manifest struct {
	db *kv.DB
}

// Create makes a new manifest file at path.
func Create(path string) (*Manifest, error) {
	db, err := kv.Create(path, &kv.Options{Compare: ByPhaseThenBlockPair})
	if err != nil {
		return nil, fmt.Errorf("workstack: creating manifest %s: %w", path, err)
	}
	return &Manifest{db: db}, nil
}

// Open opens an existing manifest, for resuming after a restart.
func Open(path string) (*Manifest, error) {
	db, err := kv.Open(path, &kv.Options{Compare: ByPhaseThenBlockPair})
	if err != nil {
		return nil, fmt.Errorf("workstack: opening manifest %s: %w", path, err)
	}
	return &Manifest{db: db}, nil
}

// Close closes the underlying kv.DB.
func (m *Manifest) Close() error {
	return m.db.Close()
}

// Claim atomically transitions a chunk from Pending (or absent) to
// Claimed, returning false without error if it was already claimed or
// done by a previous run.
func (m *Manifest) Claim(c Chunk) (bool, error) {
	if err := m.db.BeginTransaction(); err != nil {
		return false, err
	}
	key := MarshalChunkKey(c)
	existing, err := m.db.Get(nil, key)
	if err != nil {
		m.db.Rollback()
		return false, err
	}
	if existing != nil {
		var rec Record
		if err := json.Unmarshal(existing, &rec); err != nil {
			m.db.Rollback()
			return false, err
		}
		if rec.State != Pending && rec.State != Failed {
			m.db.Rollback()
			return false, nil
		}
	}
	value, err := json.Marshal(Record{Chunk: c, State: Claimed})
	if err != nil {
		m.db.Rollback()
		return false, err
	}
	if err := m.db.Set(key, value); err != nil {
		m.db.Rollback()
		return false, err
	}
	return true, m.db.Commit()
}

// Mark records the final State of a chunk (Done or Failed).
func (m *Manifest) Mark(c Chunk, state State) error {
	if err := m.db.BeginTransaction(); err != nil {
		return err
	}
	value, err := json.Marshal(Record{Chunk: c, State: state})
	if err != nil {
		m.db.Rollback()
		return err
	}
	if err := m.db.Set(MarshalChunkKey(c), value); err != nil {
		m.db.Rollback()
		return err
	}
	return m.db.Commit()
}

// Get returns the recorded state of a chunk, or Pending/false if it has
// never been touched.
func (m *Manifest) Get(c Chunk) (State, bool, error) {
	value, err := m.db.Get(nil, MarshalChunkKey(c))
	if err != nil {
		return Pending, false, err
	}
	if value == nil {
		return Pending, false, nil
	}
	var rec Record
	if err := json.Unmarshal(value, &rec); err != nil {
		return Pending, false, err
	}
	return rec.State, true, nil
}

// PendingChunks returns every chunk not yet Done, in manifest order, for a
// resumed run to pick up where a previous one left off.
func (m *Manifest) PendingChunks() ([]Chunk, error) {
	enum, _, err := m.db.Seek(nil)
	if err != nil {
		return nil, err
	}
	var out []Chunk
	for {
		k, v, err := enum.Next()
		if err != nil {
			break
		}
		var rec Record
		if err := json.Unmarshal(v, &rec); err != nil {
			return nil, err
		}
		if rec.State != Done {
			out = append(out, UnmarshalChunkKey(k))
		}
	}
	return out, nil
}
