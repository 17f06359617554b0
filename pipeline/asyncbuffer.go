// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pipeline implements spec.md §4.G's driver loop: per
// sensitivity round, per query-block, per target-block, it builds or
// reuses a seed index, walks the seed-join iterator, runs the
// hamming/DP cascade, and emits HSPs, with the concurrency and resource
// model of §5: a bounded hit buffer decoupling producer stage-1/2
// workers from extension-stage consumers.
package pipeline

import "github.com/kortschak/swipe/hamming"

// AsyncBuffer is a bounded multi-producer/partitioned-consumer queue of
// hamming.Hit, sized by query_count/query_bins per spec.md §4.G step 2.
// Producers (stage-1/2 workers) block on Send when the buffer is full;
// consumers (the extension stage) block on Recv when it is empty. This
// is the suspension point spec.md §5(a) calls out.
type AsyncBuffer struct {
	ch     chan hamming.Hit
	closed chan struct{}
}

// NewAsyncBuffer creates a buffer with the given capacity.
func NewAsyncBuffer(capacity int) *AsyncBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &AsyncBuffer{ch: make(chan hamming.Hit, capacity), closed: make(chan struct{})}
}

// Send enqueues a hit, blocking if the buffer is full. It is safe to
// call concurrently from multiple producer goroutines.
func (b *AsyncBuffer) Send(h hamming.Hit) {
	b.ch <- h
}

// CloseSend signals that no further hits will be sent; callers must
// call it exactly once after all producers have finished.
func (b *AsyncBuffer) CloseSend() {
	close(b.ch)
}

// Recv returns the next hit and true, or the zero value and false once
// the buffer is closed and drained.
func (b *AsyncBuffer) Recv() (hamming.Hit, bool) {
	h, ok := <-b.ch
	return h, ok
}

// Each drains the buffer until closed, calling fn for every hit. It is
// the consumer-side counterpart used by the extension stage.
func (b *AsyncBuffer) Each(fn func(hamming.Hit)) {
	for {
		h, ok := b.Recv()
		if !ok {
			return
		}
		fn(h)
	}
}
