// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rgbd

import (
	"testing"

	"cogentcore.org/core/math32"
	"cogentcore.org/lab/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownsampleDepth(t *testing.T) {
	it := NewIntrinsics(40, 40, 7.5, 7.5, 16, 16)
	depth := tensor.NewFloat32(16, 16)
	for i := range depth.Values {
		depth.Values[i] = 2
	}
	// one invalid sample in the (0,0) block, all invalid in (1,0)
	depth.Values[0] = 0
	depth.Values[2], depth.Values[3] = 0, 0
	depth.Values[16+2], depth.Values[16+3] = math32.NaN(), 0
	fr, err := NewFrame(depth, nil, it)
	require.NoError(t, err)

	dn := fr.Downsample()
	assert.Equal(t, 8, dn.Intr.Width)
	assert.Equal(t, 8, dn.Intr.Height)
	assert.Equal(t, float32(20), dn.Intr.Fx)
	assert.Equal(t, float32(3.75), dn.Intr.Cx)

	// invalid samples are excluded from the average, not zero-filled
	assert.Equal(t, float32(2), dn.Depth.Values[0])
	// an all-invalid block downsamples to invalid
	assert.Equal(t, float32(0), dn.Depth.Values[1])
	assert.Equal(t, float32(2), dn.Depth.Values[8+1])
}

func TestDownsampleIntensity(t *testing.T) {
	it := NewIntrinsics(40, 40, 7.5, 7.5, 16, 16)
	depth := tensor.NewFloat32(16, 16)
	its := tensor.NewFloat32(16, 16)
	for i := range its.Values {
		its.Values[i] = 0.5
	}
	fr, err := NewFrame(depth, its, it)
	require.NoError(t, err)
	dn := fr.Downsample()
	require.NotNil(t, dn.Intensity)
	// smoothing and averaging preserve a constant image
	for i, v := range dn.Intensity.Values {
		assert.InDelta(t, 0.5, v, 1e-6, "pixel %d", i)
	}
}

func TestNewPyramid(t *testing.T) {
	it := NewIntrinsics(40, 40, 31.5, 31.5, 64, 64)
	pn := math32.Vec3(0, 0, 1)
	sc := NewScene([]ScenePlane{{N: pn, D: 2}}, nil, func(p math32.Vector3) float32 {
		return 0.5 + 0.2*math32.Sin(p.X)
	})
	src := sc.Render(it)
	tgt := sc.Render(it)

	py, err := NewPyramid(src, tgt, 3, 0, 4)
	require.NoError(t, err)
	require.Len(t, py.Levels, 3)
	for li, lv := range py.Levels {
		w := 64 >> li
		assert.Equal(t, w, lv.Intr.Width)
		assert.Equal(t, w, lv.Intr.Height)
		assert.Equal(t, float32(40)/float32(int(1)<<li), lv.Intr.Fx)
		assert.NotNil(t, lv.Source.Vertex)
		assert.NotNil(t, lv.Target.Normal)
		assert.NotNil(t, lv.Target.GradX)
		assert.Greater(t, lv.Source.Valid, w*w*9/10)
	}
}

func TestNewPyramidErrors(t *testing.T) {
	it := NewIntrinsics(40, 40, 7.5, 7.5, 16, 16)
	fr, err := NewFrame(tensor.NewFloat32(16, 16), nil, it)
	require.NoError(t, err)

	_, err = NewPyramid(fr, fr, 0, 0, 4)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// 16 -> 8 -> 4 is below the minimum level size
	_, err = NewPyramid(fr, fr, 3, 0, 4)
	assert.ErrorIs(t, err, ErrInvalidInput)

	other := NewIntrinsics(40, 40, 15.5, 15.5, 32, 32)
	of, err := NewFrame(tensor.NewFloat32(32, 32), nil, other)
	require.NoError(t, err)
	_, err = NewPyramid(fr, of, 1, 0, 4)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// TestSceneTransformed checks that rendering a transformed scene gives
// the depth the transform predicts.
func TestSceneTransformed(t *testing.T) {
	it := NewIntrinsics(40, 40, 15.5, 15.5, 32, 32)
	pn := math32.Vec3(0, 0, 1)
	sc := NewScene([]ScenePlane{{N: pn, D: 2}}, nil, nil)

	var m math32.Matrix4
	m.SetIdentity()
	m[14] = 0.5 // translate along +z: the wall moves away
	ts := sc.Transformed(&m)
	fr := ts.Render(it)
	assert.InDelta(t, 2.5, fr.Depth.Values[15*32+15], 1e-4)
}
