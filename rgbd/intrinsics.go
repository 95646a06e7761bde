// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rgbd

import (
	"fmt"

	"cogentcore.org/core/math32"
)

// Intrinsics specifies the pinhole camera model for a depth or color
// camera: focal lengths and principal point in pixels, and the image
// dimensions that the model applies to.
type Intrinsics struct {

	// Fx, Fy are the focal lengths in pixels.
	Fx, Fy float32

	// Cx, Cy are the principal point coordinates in pixels.
	Cx, Cy float32

	// Width, Height are the image dimensions in pixels.
	Width, Height int
}

// NewIntrinsics returns Intrinsics for given focal lengths,
// principal point, and image size.
func NewIntrinsics(fx, fy, cx, cy float32, width, height int) Intrinsics {
	return Intrinsics{Fx: fx, Fy: fy, Cx: cx, Cy: cy, Width: width, Height: height}
}

// IntrinsicsFromMatrix returns Intrinsics from a 3x3 camera matrix
// (column-major [math32.Matrix3]) and image size.
func IntrinsicsFromMatrix(k math32.Matrix3, width, height int) Intrinsics {
	return Intrinsics{Fx: k[0], Fy: k[4], Cx: k[6], Cy: k[7], Width: width, Height: height}
}

// Matrix returns the 3x3 camera matrix in column-major [math32.Matrix3] form.
func (it Intrinsics) Matrix() math32.Matrix3 {
	return math32.Matrix3{
		it.Fx, 0, 0,
		0, it.Fy, 0,
		it.Cx, it.Cy, 1,
	}
}

// Validate returns an error if the focal lengths or dimensions
// are not positive.
func (it Intrinsics) Validate() error {
	if it.Fx <= 0 || it.Fy <= 0 {
		return fmt.Errorf("rgbd.Intrinsics: non-positive focal lengths: fx=%g fy=%g: %w", it.Fx, it.Fy, ErrInvalidInput)
	}
	if it.Width <= 0 || it.Height <= 0 {
		return fmt.Errorf("rgbd.Intrinsics: non-positive dimensions: %dx%d: %w", it.Width, it.Height, ErrInvalidInput)
	}
	return nil
}

// Downsample returns the intrinsics for an image downsampled by a
// factor of 2, per pyramid level construction.
func (it Intrinsics) Downsample() Intrinsics {
	return Intrinsics{
		Fx:     it.Fx * 0.5,
		Fy:     it.Fy * 0.5,
		Cx:     it.Cx * 0.5,
		Cy:     it.Cy * 0.5,
		Width:  it.Width / 2,
		Height: it.Height / 2,
	}
}

// Project maps a camera-space point to pixel coordinates.
// The point must have positive Z.
func (it Intrinsics) Project(p math32.Vector3) math32.Vector2 {
	return math32.Vec2(it.Fx*p.X/p.Z+it.Cx, it.Fy*p.Y/p.Z+it.Cy)
}

// Unproject maps pixel coordinates and a depth value to a
// camera-space point.
func (it Intrinsics) Unproject(x, y, depth float32) math32.Vector3 {
	return math32.Vec3((x-it.Cx)*depth/it.Fx, (y-it.Cy)*depth/it.Fy, depth)
}
