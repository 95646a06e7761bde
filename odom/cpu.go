// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package odom

import (
	"runtime"
	"sync"
)

// backendState is the per-call execution strategy: the CPU thread pool
// or the GPU compute pipeline. Both implement the identical
// linearize contract, so the driver is backend-agnostic.
type backendState interface {

	// linearize runs one correspondence + reduction pass for the given
	// pyramid level at the pose in kp, producing the reduced system.
	// Errors are device failures only; an empty system is a statistic.
	linearize(kp *kernelParams, level int) (*LinearSystem, error)

	// release frees any per-call device or buffer state.
	release()
}

// cpuState runs the kernels data-parallel across a worker pool.
// There is no shared mutable state between pixels: each worker owns a
// partial accumulator, merged after one WaitGroup barrier per pass.
type cpuState struct {
	workers int
}

func newCPUState() *cpuState {
	return &cpuState{workers: runtime.GOMAXPROCS(0)}
}

func (cs *cpuState) linearize(kp *kernelParams, level int) (*LinearSystem, error) {
	h := kp.intr.Height
	w := kp.intr.Width
	nw := min(cs.workers, h)
	parts := make([]LinearSystem, nw)
	var wg sync.WaitGroup
	for wi := range nw {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ls := &parts[wi]
			var rows [2]pixelRow
			for y := wi; y < h; y += nw { // strided rows balance load
				for x := 0; x < w; x++ {
					n, ok := kp.correspond(x, y, &rows)
					if !ok {
						continue
					}
					for i := 0; i < n; i++ {
						ls.Add(&rows[i].j, rows[i].r, rows[i].w)
					}
					ls.Count++
				}
			}
		}()
	}
	wg.Wait()
	total := &LinearSystem{}
	for i := range parts {
		total.Merge(&parts[i])
	}
	return total, nil
}

func (cs *cpuState) release() {}
