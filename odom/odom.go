// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package odom implements frame-to-frame RGBD visual odometry: it
// estimates the rigid 6 degree-of-freedom transform aligning two
// consecutive depth (+ color) camera frames by iterative linearized
// least squares over an image pyramid, coarse to fine.
//
// The per-pixel correspondence and Jacobian computation runs either
// data-parallel on a CPU worker pool or as a WebGPU compute shader,
// selected by [Config.Backend]; the two paths implement the identical
// kernel contract and agree within floating point summation-order
// tolerance. One call to [RGBDOdometry] is synchronous end-to-end and
// bounded by the pyramid depth and iteration budget; input frames are
// read-only for the duration of the call and remain owned by the
// caller.
package odom

import (
	"fmt"
	"log/slog"
	"math"

	"cogentcore.org/core/math32"
	"cogentcore.org/vision/rgbd"
)

// divergenceRatio is the tolerated growth in mean squared residual
// between iterations before the driver reverts the last update and
// moves on to the next level.
const divergenceRatio = 1.05

// RGBDOdometry estimates the rigid transform mapping points in the
// source frame to the target frame, starting from cfg.InitialPose.
// It always returns a best-effort [Result] unless the inputs are
// malformed ([rgbd.ErrInvalidInput]) or the GPU backend fails
// (device errors); algorithmic failure is reported via
// [Result.Status] and Fitness, never as an error.
func RGBDOdometry(source, target *rgbd.Frame, cfg *Config) (*Result, error) {
	cfg.Defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if source == nil || target == nil {
		return nil, fmt.Errorf("odom.RGBDOdometry: nil frame: %w", rgbd.ErrInvalidInput)
	}
	if cfg.Method != PointToPlane && (source.Intensity == nil || target.Intensity == nil) {
		return nil, fmt.Errorf("odom.RGBDOdometry: method %s requires intensity maps: %w", cfg.Method, rgbd.ErrInvalidInput)
	}
	py, err := rgbd.NewPyramid(source, target, cfg.Levels, cfg.DepthMin, cfg.DepthMax)
	if err != nil {
		return nil, err
	}
	var be backendState
	if cfg.Backend == GPU {
		gs, err := newGPUState(py, cfg)
		if err != nil {
			return nil, fmt.Errorf("odom.RGBDOdometry: GPU backend: %w", err)
		}
		be = gs
	} else {
		be = newCPUState()
	}
	defer be.release()
	return run(py, cfg, be)
}

// run is the driver state machine: per level, coarsest first, iterate
// linearize / solve / update until convergence, divergence, or the
// level's iteration budget is exhausted.
func run(py *rgbd.Pyramid, cfg *Config, be backendState) (*Result, error) {
	pose := cfg.InitialPose
	res := &Result{Status: Converged}
	anyCorr := false
	hitMax := false
	var finest *LinearSystem

	for li := cfg.Levels - 1; li >= 0; li-- {
		lv := &py.Levels[li]
		maxIter := cfg.LevelIterations(li)
		stats := LevelStats{Level: li}
		prevMean := math.Inf(1)
		prevPose := pose
		converged := false

		for it := 0; it < maxIter; it++ {
			kp := newKernelParams(pose, lv, cfg)
			ls, err := be.linearize(&kp, li)
			if err != nil {
				return nil, err
			}
			if ls.Count == 0 {
				if it == 0 {
					stats.Skipped = true
				}
				slog.Warn("odom: skipping level", "reason", ErrNoCorrespondences, "level", li, "iteration", it)
				converged = true
				break
			}
			anyCorr = true
			mean := ls.MeanR2()
			if mean > prevMean*divergenceRatio {
				// bad correspondence set: revert and move on rather
				// than propagating a worse estimate
				pose = prevPose
				slog.Warn("odom: residual diverged, reverting", "level", li, "iteration", it)
				converged = true
				break
			}
			stats.Count = ls.Count
			stats.R2 = ls.R2
			if li == 0 {
				finest = ls
			}
			delta, err := ls.Solve()
			if err != nil {
				// degenerate system: keep the last good pose
				if it == 0 {
					stats.Skipped = true
				}
				slog.Warn("odom: ending level", "reason", err, "level", li, "iteration", it)
				converged = true
				break
			}
			dm, err := ToTransform(delta)
			if err != nil {
				return nil, err
			}
			prevPose = pose
			pose = Compose(&dm, &pose)
			stats.Iterations = it + 1

			dt := delta.Translation().Length()
			dr := delta.Rotation().Length()
			relDrop := (prevMean - mean) / math.Max(prevMean, 1e-30)
			slog.Debug("odom: iteration", "level", li, "iteration", it,
				"count", ls.Count, "meanR2", mean, "dt", dt, "dr", dr)
			if dt < cfg.TranslationEps && dr < cfg.RotationEps {
				converged = true
				break
			}
			if it > 0 && relDrop >= 0 && relDrop < float64(cfg.RelativeResidualEps) {
				converged = true
				break
			}
			prevMean = mean
		}
		if !converged && stats.Iterations == maxIter {
			hitMax = true
		}
		res.Levels = append(res.Levels, stats)
	}

	if !anyCorr {
		res.Transform = *math32.Identity4()
		res.Status = Failed
		return res, nil
	}
	if hitMax {
		res.Status = MaxIterations
	}
	res.Transform = pose
	if finest != nil && finest.Count > 0 {
		res.Info = finest.Sym()
		res.RMSE = float32(math.Sqrt(finest.MeanR2()))
		if valid := py.Levels[0].Source.Valid; valid > 0 {
			res.Fitness = float32(finest.Count) / float32(valid)
		}
	}
	return res, nil
}
