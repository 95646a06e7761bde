// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package odom

import (
	"fmt"

	"cogentcore.org/core/math32"
	"gonum.org/v1/gonum/mat"
)

// LevelStats are the per-pyramid-level diagnostics of one call.
type LevelStats struct {

	// Level is the pyramid level index (0 = finest).
	Level int

	// Iterations is the number of Gauss-Newton iterations run.
	Iterations int

	// Count is the valid correspondence count of the last iteration.
	Count int

	// R2 is the total squared residual of the last iteration.
	R2 float64

	// Skipped is set when the level produced no correspondences or a
	// degenerate system on its first iteration and contributed nothing.
	Skipped bool
}

// Result is the outcome of one odometry call, created once and
// immutable thereafter; the caller owns it. A best-effort pose is
// always present: callers distinguish success from failure via
// Status and Fitness, not errors.
type Result struct {

	// Transform maps source-frame points into the target frame.
	Transform math32.Matrix4

	// Info is the 6x6 information matrix (the converged normal matrix
	// of the finest level), for downstream pose-graph weighting.
	// It is nil when Status is Failed.
	Info *mat.SymDense

	// Fitness is the inlier fraction at the finest level, in [0, 1].
	Fitness float32

	// RMSE is the root mean square residual at the finest level,
	// 0 when there are no inliers.
	RMSE float32

	// Status is the terminal state: Converged, MaxIterations, or Failed.
	Status Status

	// Levels holds per-level diagnostics, coarsest first.
	Levels []LevelStats
}

func (rs *Result) String() string {
	return fmt.Sprintf("odom.Result{%s fitness: %.3f rmse: %.4g}", rs.Status, rs.Fitness, rs.RMSE)
}
