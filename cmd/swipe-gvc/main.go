// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// swipe-gvc is a standalone debugging tool: it reads a stream of
// 24-byte pipeline.Edge records from stdin and writes the greedy
// vertex cover clustering (spec.md §4.I) as a centroid/member TSV to
// stdout, without running any part of the search pipeline itself.
//
// usage: swipe-gvc < edges.bin > clusters.tsv
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/kortschak/swipe/cluster"
	"github.com/kortschak/swipe/pipeline"
)

func main() {
	ccd := flag.Int("ccd", 0, "connected-component expansion depth")
	flag.Usage = func() {
		fmt.Println(`usage: swipe-gvc [-ccd N] < edges.bin > clusters.tsv`)
		os.Exit(0)
	}
	flag.Parse()

	edges, err := readEdges(os.Stdin)
	if err != nil {
		log.Fatal(err)
	}

	ids, g := buildGraph(edges)
	centroid := cluster.GreedyVertexCover(g, *ccd)

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	for i, c := range centroid {
		fmt.Fprintf(w, "%d\t%d\n", ids[c], ids[i])
	}
}

// readEdges decodes every fixed-width pipeline.Edge record from r.
func readEdges(r io.Reader) ([]pipeline.Edge, error) {
	buf := make([]byte, pipeline.EdgeSize)
	var out []pipeline.Edge
	for {
		_, err := io.ReadFull(r, buf)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, pipeline.UnmarshalEdge(buf))
	}
}

// buildGraph assigns each distinct original id a dense local index and
// builds the adjacency list GreedyVertexCover expects, discarding the
// per-edge coverage/E-value fields (the debugging tool clusters on
// connectivity alone, matching the committed edge stream's job: feed a
// pre-filtered candidate set, not re-filter it).
func buildGraph(edges []pipeline.Edge) (ids []uint32, g *cluster.Graph) {
	local := make(map[uint32]int32)
	for _, e := range edges {
		if _, ok := local[e.Target]; !ok {
			local[e.Target] = int32(len(ids))
			ids = append(ids, e.Target)
		}
		if _, ok := local[e.Query]; !ok {
			local[e.Query] = int32(len(ids))
			ids = append(ids, e.Query)
		}
	}
	neighbors := make([][]int32, len(ids))
	for _, e := range edges {
		a, b := local[e.Target], local[e.Query]
		if a == b {
			continue
		}
		neighbors[a] = append(neighbors[a], b)
		neighbors[b] = append(neighbors[b], a)
	}
	for i := range neighbors {
		sort.Slice(neighbors[i], func(x, y int) bool { return neighbors[i][x] < neighbors[i][y] })
	}
	return ids, &cluster.Graph{Neighbors: neighbors}
}
