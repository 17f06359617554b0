// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The swipe-audit-db command allows the kv stores a swipe-search run
// leaves behind to be queried directly. Two stores
// are persisted when -work is given:
//   - dict.kv — the refdb.Dictionary side table, keyed by
//     (block id, local id), mapping to accession/length.
//   - manifest.kv — the workstack.Manifest resumable work log, keyed
//     by (phase, query block, target block), mapping to claim state.
//
// Each database must be named as described here for swipe-audit-db to
// know which comparator and record layout to use. Output is a JSON
// stream on stdout.
package main

import (
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"

	"modernc.org/kv"

	"github.com/kortschak/swipe/refdb"
	"github.com/kortschak/swipe/workstack"
)

func main() {
	path := flag.String("db", "", "specify db file to audit (base must be 'dict.kv' or 'manifest.kv')")
	flag.Parse()
	base := filepath.Base(*path)
	switch base {
	case "dict.kv", "manifest.kv":
	default:
		flag.Usage()
		os.Exit(2)
	}

	orderFor := map[string]func(x, y []byte) int{
		"dict.kv":     refdb.ByBlockThenLocal,
		"manifest.kv": workstack.ByPhaseThenBlockPair,
	}
	db, err := kv.Open(*path, &kv.Options{Compare: orderFor[base]})
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	it, err := db.SeekFirst()
	if err != nil {
		if err == io.EOF {
			return
		}
		log.Fatal(err)
	}

	enc := json.NewEncoder(os.Stdout)
	for {
		k, v, err := it.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			log.Fatal(err)
		}
		switch base {
		case "dict.kv":
			blockID, localID := refdb.UnmarshalDictKey(k)
			var entry refdb.DictionaryEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				log.Fatal(err)
			}
			entry.BlockID, entry.LocalID = blockID, localID
			if err := enc.Encode(entry); err != nil {
				log.Fatal(err)
			}
		case "manifest.kv":
			var rec workstack.Record
			if err := json.Unmarshal(v, &rec); err != nil {
				log.Fatal(err)
			}
			rec.Chunk = workstack.UnmarshalChunkKey(k)
			if err := enc.Encode(rec); err != nil {
				log.Fatal(err)
			}
		default:
			panic("unreachable")
		}
	}
}
