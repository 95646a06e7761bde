// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rgbd provides the data model for depth (+ color) camera
// frames: pinhole intrinsics, per-frame depth / intensity maps with
// derived vertex, normal, and gradient maps, and the coarse-to-fine
// image pyramids used by the odom package.
package rgbd

import (
	"errors"
	"fmt"

	"cogentcore.org/core/math32"
	"cogentcore.org/lab/tensor"
)

// ErrInvalidInput is the base error for malformed inputs: mismatched
// dimensions, non-positive intrinsics, or missing required maps.
// It is detected before any computation starts.
var ErrInvalidInput = errors.New("invalid input")

// Frame is one depth (+ optional intensity) camera frame, with maps
// derived from them as needed. A Frame is immutable for the duration
// of an odometry call, and remains owned by the caller.
// All maps are row-major [Height, Width] (or [Height, Width, 3]).
type Frame struct {

	// Depth is the metric depth map. Zero or NaN entries are invalid.
	Depth *tensor.Float32

	// Intensity is the optional normalized grayscale map, required
	// for the intensity and hybrid cost functions.
	Intensity *tensor.Float32

	// Vertex is the back-projected camera-space point map,
	// shape [Height, Width, 3], with NaN for invalid depth.
	// Computed by [Frame.ComputeVertexMap].
	Vertex *tensor.Float32

	// Normal is the per-pixel surface normal map derived from Vertex,
	// shape [Height, Width, 3], oriented toward the camera,
	// with NaN where undefined. Computed by [Frame.ComputeNormalMap].
	Normal *tensor.Float32

	// GradX, GradY are the central-difference intensity gradients,
	// zero at borders. Computed by [Frame.ComputeGradients].
	GradX, GradY *tensor.Float32

	// Intr is the camera model for this frame's resolution.
	Intr Intrinsics

	// Valid is the number of depth pixels accepted by the validity
	// range in the last ComputeVertexMap call.
	Valid int
}

// NewFrame returns a Frame for the given depth map, optional intensity
// map (nil if none), and intrinsics, validating that dimensions agree.
func NewFrame(depth, intensity *tensor.Float32, intr Intrinsics) (*Frame, error) {
	if err := intr.Validate(); err != nil {
		return nil, err
	}
	if depth == nil || depth.NumDims() != 2 {
		return nil, fmt.Errorf("rgbd.NewFrame: depth map must be a 2D tensor: %w", ErrInvalidInput)
	}
	if depth.DimSize(0) != intr.Height || depth.DimSize(1) != intr.Width {
		return nil, fmt.Errorf("rgbd.NewFrame: depth map is %dx%d but intrinsics specify %dx%d: %w",
			depth.DimSize(1), depth.DimSize(0), intr.Width, intr.Height, ErrInvalidInput)
	}
	if intensity != nil {
		if intensity.NumDims() != 2 || intensity.DimSize(0) != intr.Height || intensity.DimSize(1) != intr.Width {
			return nil, fmt.Errorf("rgbd.NewFrame: intensity map does not match depth dimensions: %w", ErrInvalidInput)
		}
	}
	return &Frame{Depth: depth, Intensity: intensity, Intr: intr}, nil
}

// DepthValid reports whether given depth value is usable:
// finite, positive, and within the given range.
func DepthValid(d, depthMin, depthMax float32) bool {
	return !math32.IsNaN(d) && d >= depthMin && d <= depthMax && d > 0
}

// ComputeVertexMap back-projects every valid depth pixel into a
// camera-space point using the frame intrinsics, storing NaN for
// pixels outside the [depthMin, depthMax] validity range.
// It sets Valid to the number of accepted pixels.
func (fr *Frame) ComputeVertexMap(depthMin, depthMax float32) {
	w, h := fr.Intr.Width, fr.Intr.Height
	fr.Vertex = tensor.NewFloat32(h, w, 3)
	vtx := fr.Vertex.Values
	dpt := fr.Depth.Values
	nan := math32.NaN()
	fr.Valid = 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			d := dpt[i]
			if !DepthValid(d, depthMin, depthMax) {
				vtx[3*i] = nan
				vtx[3*i+1] = nan
				vtx[3*i+2] = nan
				continue
			}
			v := fr.Intr.Unproject(float32(x), float32(y), d)
			vtx[3*i] = v.X
			vtx[3*i+1] = v.Y
			vtx[3*i+2] = v.Z
			fr.Valid++
		}
	}
}

// VertexAt returns the camera-space point at given pixel,
// and whether it is valid. ComputeVertexMap must have been called.
func (fr *Frame) VertexAt(x, y int) (math32.Vector3, bool) {
	i := 3 * (y*fr.Intr.Width + x)
	v := math32.Vec3(fr.Vertex.Values[i], fr.Vertex.Values[i+1], fr.Vertex.Values[i+2])
	return v, !math32.IsNaN(v.Z)
}

// NormalAt returns the surface normal at given pixel,
// and whether it is valid. ComputeNormalMap must have been called.
func (fr *Frame) NormalAt(x, y int) (math32.Vector3, bool) {
	i := 3 * (y*fr.Intr.Width + x)
	n := math32.Vec3(fr.Normal.Values[i], fr.Normal.Values[i+1], fr.Normal.Values[i+2])
	return n, !math32.IsNaN(n.Z)
}

// ComputeNormalMap derives the per-pixel surface normal map from the
// vertex map, as the normalized cross product of the +x and +y vertex
// differences, oriented to face the camera. Pixels whose neighborhood
// has any invalid vertex get NaN normals.
func (fr *Frame) ComputeNormalMap() {
	w, h := fr.Intr.Width, fr.Intr.Height
	fr.Normal = tensor.NewFloat32(h, w, 3)
	nrm := fr.Normal.Values
	nan := math32.NaN()
	for i := range nrm {
		nrm[i] = nan
	}
	for y := 0; y < h-1; y++ {
		for x := 0; x < w-1; x++ {
			v, ok := fr.VertexAt(x, y)
			if !ok {
				continue
			}
			vx, okx := fr.VertexAt(x+1, y)
			vy, oky := fr.VertexAt(x, y+1)
			if !okx || !oky {
				continue
			}
			n := vx.Sub(v).Cross(vy.Sub(v))
			lsq := n.LengthSquared()
			if lsq == 0 {
				continue
			}
			n = n.MulScalar(1 / math32.Sqrt(lsq))
			if n.Dot(v) > 0 { // orient toward the camera at the origin
				n = n.MulScalar(-1)
			}
			i := 3 * (y*w + x)
			nrm[i] = n.X
			nrm[i+1] = n.Y
			nrm[i+2] = n.Z
		}
	}
}

// ComputeGradients computes the central-difference gradients of the
// intensity map, used by the intensity and hybrid cost functions.
// Border pixels get zero gradients. No-op if there is no intensity map.
func (fr *Frame) ComputeGradients() {
	if fr.Intensity == nil {
		return
	}
	w, h := fr.Intr.Width, fr.Intr.Height
	fr.GradX = tensor.NewFloat32(h, w)
	fr.GradY = tensor.NewFloat32(h, w)
	its := fr.Intensity.Values
	gx := fr.GradX.Values
	gy := fr.GradY.Values
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			gx[i] = 0.5 * (its[i+1] - its[i-1])
			gy[i] = 0.5 * (its[i+w] - its[i-w])
		}
	}
}

// SampleBilinear returns the bilinear interpolation of given [H, W]
// map at continuous pixel coordinates, and false if out of bounds.
func SampleBilinear(t *tensor.Float32, w, h int, x, y float32) (float32, bool) {
	x0 := int(math32.Floor(x))
	y0 := int(math32.Floor(y))
	if x0 < 0 || y0 < 0 || x0+1 >= w || y0+1 >= h {
		return 0, false
	}
	fx := x - float32(x0)
	fy := y - float32(y0)
	vs := t.Values
	i := y0*w + x0
	v := vs[i]*(1-fx)*(1-fy) + vs[i+1]*fx*(1-fy) +
		vs[i+w]*(1-fx)*fy + vs[i+w+1]*fx*fy
	return v, !math32.IsNaN(v)
}
