// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package odom

import (
	"fmt"

	"cogentcore.org/core/base/iox/tomlx"
	"cogentcore.org/core/math32"
	"cogentcore.org/vision/rgbd"
)

// Config has all the parameters for one odometry call.
// Zero-value fields are filled in by [Config.Defaults];
// use [NewConfig] to get a fully defaulted instance.
type Config struct {

	// Backend selects CPU or GPU execution. Both produce the same
	// results within floating point summation-order tolerance.
	Backend Backend

	// Method is the cost function variant to optimize.
	Method Method

	// HybridSigma is the relative weight of the intensity term for
	// [Hybrid]: intensity rows scale by sqrt(sigma), geometric rows
	// by sqrt(1-sigma). Only used by Hybrid.
	HybridSigma float32 `default:"0.968"`

	// Levels is the number of pyramid levels; level 0 is full
	// resolution and each additional level halves width and height.
	Levels int `default:"3" min:"1"`

	// Iterations is the maximum Gauss-Newton iterations per pyramid
	// level, indexed by level (0 = finest). If shorter than Levels,
	// the last entry repeats for the missing coarse levels.
	Iterations []int

	// DepthDiffMax is the occlusion / outlier threshold: a
	// correspondence whose transformed-source and target depths
	// differ by more than this is rejected.
	DepthDiffMax float32 `default:"0.07"`

	// DepthMin, DepthMax bound the valid metric depth range.
	DepthMin float32 `default:"0"`
	DepthMax float32 `default:"4"`

	// TranslationEps and RotationEps stop a level's iterations early
	// when the pose update's translation norm and rotation angle both
	// fall below them.
	TranslationEps float32 `default:"1e-6"`
	RotationEps    float32 `default:"1e-6"`

	// RelativeResidualEps stops a level's iterations early when the
	// relative reduction in total squared residual falls below it.
	RelativeResidualEps float32 `default:"1e-6"`

	// InitialPose is the initial source-to-target transform guess
	// (identity if unset).
	InitialPose math32.Matrix4 `display:"-"`
}

// NewConfig returns a Config with all defaults applied.
func NewConfig() *Config {
	cfg := &Config{}
	cfg.Defaults()
	return cfg
}

// Defaults sets default values for any unset (zero) fields.
func (cfg *Config) Defaults() {
	if cfg.HybridSigma == 0 {
		cfg.HybridSigma = 0.968
	}
	if cfg.Levels == 0 {
		cfg.Levels = 3
	}
	if len(cfg.Iterations) == 0 {
		cfg.Iterations = []int{10, 5, 4}
	}
	if cfg.DepthDiffMax == 0 {
		cfg.DepthDiffMax = 0.07
	}
	if cfg.DepthMax == 0 {
		cfg.DepthMax = 4
	}
	if cfg.TranslationEps == 0 {
		cfg.TranslationEps = 1e-6
	}
	if cfg.RotationEps == 0 {
		cfg.RotationEps = 1e-6
	}
	if cfg.RelativeResidualEps == 0 {
		cfg.RelativeResidualEps = 1e-6
	}
	if cfg.InitialPose == (math32.Matrix4{}) {
		cfg.InitialPose = *math32.Identity4()
	}
}

// Validate returns an error for configurations that cannot run.
func (cfg *Config) Validate() error {
	if cfg.Levels < 1 {
		return fmt.Errorf("odom.Config: Levels %d < 1: %w", cfg.Levels, rgbd.ErrInvalidInput)
	}
	if cfg.Method >= MethodN {
		return fmt.Errorf("odom.Config: unknown Method %d: %w", cfg.Method, rgbd.ErrInvalidInput)
	}
	if cfg.HybridSigma < 0 || cfg.HybridSigma > 1 {
		return fmt.Errorf("odom.Config: HybridSigma %g outside [0, 1]: %w", cfg.HybridSigma, rgbd.ErrInvalidInput)
	}
	if cfg.DepthMax <= cfg.DepthMin {
		return fmt.Errorf("odom.Config: DepthMax %g <= DepthMin %g: %w", cfg.DepthMax, cfg.DepthMin, rgbd.ErrInvalidInput)
	}
	for i, v := range cfg.InitialPose {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return fmt.Errorf("odom.Config: InitialPose[%d] is %g: %w", i, v, rgbd.ErrInvalidInput)
		}
	}
	return nil
}

// LevelIterations returns the iteration budget for given pyramid level,
// repeating the last configured entry for coarser levels.
func (cfg *Config) LevelIterations(level int) int {
	if level < len(cfg.Iterations) {
		return cfg.Iterations[level]
	}
	return cfg.Iterations[len(cfg.Iterations)-1]
}

// Save saves the config to a TOML file.
func (cfg *Config) Save(filename string) error {
	return tomlx.Save(cfg, filename)
}

// Open loads the config from a TOML file, then applies defaults
// to any fields the file leaves unset.
func (cfg *Config) Open(filename string) error {
	if err := tomlx.Open(cfg, filename); err != nil {
		return err
	}
	cfg.Defaults()
	return nil
}
