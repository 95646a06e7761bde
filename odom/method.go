// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package odom

//go:generate core generate

// Method selects the per-pixel cost function used for alignment.
// It is a tagged variant dispatched once per call: the per-pixel hot
// loop never branches on interface dispatch.
type Method int32 //enums:enum

const (
	// PointToPlane measures the signed distance from the transformed
	// source point to the target point's tangent plane (geometric ICP).
	PointToPlane Method = iota

	// Intensity measures the grayscale difference between the source
	// pixel and the target image sampled at the projected location
	// (photometric, aka direct odometry).
	Intensity

	// Hybrid stacks the point-to-plane and intensity residuals with a
	// configurable relative weight, solved as one least squares problem.
	Hybrid
)

// Backend selects the execution model for the per-pixel computation.
// Both backends implement the identical kernel contract and must agree
// within floating point summation-order tolerance.
type Backend int32 //enums:enum

const (
	// CPU runs the per-pixel kernels data-parallel on a thread pool,
	// with per-worker partial sums merged at a single barrier.
	CPU Backend = iota

	// GPU runs one compute-shader thread per source pixel via WebGPU,
	// with workgroup tree reduction and a host-side final merge.
	GPU
)

// Status is the terminal state of one odometry call.
type Status int32 //enums:enum

const (
	// Converged means all levels stopped on the convergence criteria.
	Converged Status = iota

	// MaxIterations means at least one level used its full iteration
	// budget; the best available pose is still returned.
	MaxIterations

	// Failed means no pyramid level produced any valid correspondence;
	// the result holds the identity transform with zero fitness.
	Failed
)
