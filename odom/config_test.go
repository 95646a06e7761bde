// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package odom

import (
	"path/filepath"
	"testing"

	"cogentcore.org/core/math32"
	"cogentcore.org/vision/rgbd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, CPU, cfg.Backend)
	assert.Equal(t, PointToPlane, cfg.Method)
	assert.Equal(t, float32(0.968), cfg.HybridSigma)
	assert.Equal(t, 3, cfg.Levels)
	assert.Equal(t, []int{10, 5, 4}, cfg.Iterations)
	assert.Equal(t, float32(0.07), cfg.DepthDiffMax)
	assert.Equal(t, float32(4), cfg.DepthMax)
	assert.Equal(t, *math32.Identity4(), cfg.InitialPose)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	cfg := NewConfig()
	cfg.Levels = 0
	assert.ErrorIs(t, cfg.Validate(), rgbd.ErrInvalidInput)

	cfg = NewConfig()
	cfg.Method = MethodN
	assert.ErrorIs(t, cfg.Validate(), rgbd.ErrInvalidInput)

	cfg = NewConfig()
	cfg.HybridSigma = 2
	assert.ErrorIs(t, cfg.Validate(), rgbd.ErrInvalidInput)

	cfg = NewConfig()
	cfg.DepthMin = 5
	assert.ErrorIs(t, cfg.Validate(), rgbd.ErrInvalidInput)

	cfg = NewConfig()
	cfg.InitialPose[5] = math32.NaN()
	assert.ErrorIs(t, cfg.Validate(), rgbd.ErrInvalidInput)
}

func TestConfigLevelIterations(t *testing.T) {
	cfg := NewConfig()
	cfg.Iterations = []int{20, 10}
	assert.Equal(t, 20, cfg.LevelIterations(0))
	assert.Equal(t, 10, cfg.LevelIterations(1))
	assert.Equal(t, 10, cfg.LevelIterations(2))
	assert.Equal(t, 10, cfg.LevelIterations(5))
}

func TestConfigSaveOpen(t *testing.T) {
	cfg := NewConfig()
	cfg.Method = Hybrid
	cfg.Levels = 4
	cfg.Iterations = []int{7, 3}
	cfg.DepthDiffMax = 0.05

	fn := filepath.Join(t.TempDir(), "odom.toml")
	require.NoError(t, cfg.Save(fn))

	got := &Config{}
	require.NoError(t, got.Open(fn))
	assert.Equal(t, cfg.Method, got.Method)
	assert.Equal(t, cfg.Levels, got.Levels)
	assert.Equal(t, cfg.Iterations, got.Iterations)
	assert.Equal(t, cfg.DepthDiffMax, got.DepthDiffMax)
	assert.Equal(t, cfg.HybridSigma, got.HybridSigma)
}
