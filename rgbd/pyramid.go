// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rgbd

import (
	"fmt"

	"cogentcore.org/lab/tensor"
)

// Level is one resolution tier of a frame pair: the source and target
// frames downsampled to the same size, with the intrinsics scaled to
// match. Levels never reference each other.
type Level struct {
	Source *Frame
	Target *Frame
	Intr   Intrinsics
}

// Pyramid holds the coarse-to-fine levels for one odometry call.
// Levels[0] is full resolution; each subsequent level halves the
// width and height. It is a transient working structure owned by
// the odometry driver, released at call completion.
type Pyramid struct {
	Levels []Level
}

// NewPyramid builds an n-level pyramid for the given frame pair,
// computing the vertex, normal, and (when intensity is present)
// gradient maps at every level. The depth validity range applies
// during vertex map construction at each level.
func NewPyramid(source, target *Frame, n int, depthMin, depthMax float32) (*Pyramid, error) {
	if n < 1 {
		return nil, fmt.Errorf("rgbd.NewPyramid: level count %d < 1: %w", n, ErrInvalidInput)
	}
	if source.Intr != target.Intr {
		return nil, fmt.Errorf("rgbd.NewPyramid: source %dx%d and target %dx%d dimensions differ: %w",
			source.Intr.Width, source.Intr.Height, target.Intr.Width, target.Intr.Height, ErrInvalidInput)
	}
	py := &Pyramid{Levels: make([]Level, n)}
	src, tgt := source, target
	for li := 0; li < n; li++ {
		if li > 0 {
			src = src.Downsample()
			tgt = tgt.Downsample()
			if src.Intr.Width < 8 || src.Intr.Height < 8 {
				return nil, fmt.Errorf("rgbd.NewPyramid: level %d is %dx%d, too small for %d levels: %w",
					li, src.Intr.Width, src.Intr.Height, n, ErrInvalidInput)
			}
		}
		src.ComputeVertexMap(depthMin, depthMax)
		tgt.ComputeVertexMap(depthMin, depthMax)
		tgt.ComputeNormalMap()
		tgt.ComputeGradients()
		py.Levels[li] = Level{Source: src, Target: tgt, Intr: src.Intr}
	}
	return py, nil
}

// Downsample returns a half-resolution copy of the frame: depth by
// validity-aware 2x2 averaging (invalid samples excluded, all-invalid
// blocks map to 0), intensity by binomial smoothing followed by 2x2
// averaging. Derived maps are not carried over; they are recomputed
// at the new resolution.
func (fr *Frame) Downsample() *Frame {
	it := fr.Intr.Downsample()
	w, h := it.Width, it.Height
	sw := fr.Intr.Width
	down := &Frame{Intr: it}

	down.Depth = tensor.NewFloat32(h, w)
	dst := down.Depth.Values
	src := fr.Depth.Values
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := 2*y*sw + 2*x
			sum := float32(0)
			n := 0
			for _, d := range [4]float32{src[i], src[i+1], src[i+sw], src[i+sw+1]} {
				if DepthValid(d, 0, maxDepthBound) {
					sum += d
					n++
				}
			}
			if n > 0 {
				dst[y*w+x] = sum / float32(n)
			}
		}
	}

	if fr.Intensity != nil {
		sm := smooth3x3(fr.Intensity, sw, fr.Intr.Height)
		down.Intensity = tensor.NewFloat32(h, w)
		ist := down.Intensity.Values
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := 2*y*sw + 2*x
				ist[y*w+x] = 0.25 * (sm[i] + sm[i+1] + sm[i+sw] + sm[i+sw+1])
			}
		}
	}
	return down
}

// maxDepthBound bounds depth validity during downsampling only;
// the configured range is applied when vertex maps are built.
const maxDepthBound = float32(1e10)

// smooth3x3 applies a separable binomial [1 2 1]/4 filter,
// replicating edges, returning the smoothed values.
func smooth3x3(t *tensor.Float32, w, h int) []float32 {
	src := t.Values
	tmp := make([]float32, len(src))
	out := make([]float32, len(src))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			xm, xp := max(x-1, 0), min(x+1, w-1)
			tmp[i] = 0.25 * (src[y*w+xm] + 2*src[i] + src[y*w+xp])
		}
	}
	for y := 0; y < h; y++ {
		ym, yp := max(y-1, 0), min(y+1, h-1)
		for x := 0; x < w; x++ {
			out[y*w+x] = 0.25 * (tmp[ym*w+x] + 2*tmp[y*w+x] + tmp[yp*w+x])
		}
	}
	return out
}
