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

func TestIntrinsicsRoundTrip(t *testing.T) {
	it := NewIntrinsics(525, 525, 319.5, 239.5, 640, 480)
	require.NoError(t, it.Validate())
	p := it.Unproject(100, 200, 1.5)
	uv := it.Project(p)
	assert.InDelta(t, 100, uv.X, 1e-4)
	assert.InDelta(t, 200, uv.Y, 1e-4)
	assert.Equal(t, float32(1.5), p.Z)

	k := it.Matrix()
	got := IntrinsicsFromMatrix(k, it.Width, it.Height)
	assert.Equal(t, it, got)
}

func TestIntrinsicsValidate(t *testing.T) {
	assert.ErrorIs(t, NewIntrinsics(0, 525, 320, 240, 640, 480).Validate(), ErrInvalidInput)
	assert.ErrorIs(t, NewIntrinsics(525, -1, 320, 240, 640, 480).Validate(), ErrInvalidInput)
	assert.ErrorIs(t, NewIntrinsics(525, 525, 320, 240, 0, 480).Validate(), ErrInvalidInput)
}

func TestIntrinsicsDownsample(t *testing.T) {
	it := NewIntrinsics(525, 520, 319.5, 239.5, 640, 480)
	dn := it.Downsample()
	assert.Equal(t, float32(262.5), dn.Fx)
	assert.Equal(t, float32(260), dn.Fy)
	assert.Equal(t, 320, dn.Width)
	assert.Equal(t, 240, dn.Height)
}

func TestNewFrameValidation(t *testing.T) {
	it := NewIntrinsics(40, 40, 16, 16, 32, 32)
	_, err := NewFrame(nil, nil, it)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = NewFrame(tensor.NewFloat32(16, 32), nil, it)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = NewFrame(tensor.NewFloat32(32, 32), tensor.NewFloat32(16, 16), it)
	assert.ErrorIs(t, err, ErrInvalidInput)
	fr, err := NewFrame(tensor.NewFloat32(32, 32), nil, it)
	require.NoError(t, err)
	assert.Nil(t, fr.Intensity)
}

func TestVertexMap(t *testing.T) {
	it := NewIntrinsics(40, 40, 7.5, 7.5, 16, 16)
	depth := tensor.NewFloat32(16, 16)
	for i := range depth.Values {
		depth.Values[i] = 2
	}
	depth.Values[0] = 0             // invalid
	depth.Values[1] = math32.NaN()  // invalid
	depth.Values[2] = 10            // outside range
	fr, err := NewFrame(depth, nil, it)
	require.NoError(t, err)
	fr.ComputeVertexMap(0, 4)
	assert.Equal(t, 16*16-3, fr.Valid)

	_, ok := fr.VertexAt(0, 0)
	assert.False(t, ok)
	_, ok = fr.VertexAt(1, 0)
	assert.False(t, ok)
	_, ok = fr.VertexAt(2, 0)
	assert.False(t, ok)

	v, ok := fr.VertexAt(8, 4)
	require.True(t, ok)
	assert.Equal(t, float32(2), v.Z)
	assert.InDelta(t, float64(8-7.5)*2/40, float64(v.X), 1e-6)
	assert.InDelta(t, float64(4-7.5)*2/40, float64(v.Y), 1e-6)
}

// TestNormalMap renders a slanted plane and checks that normals are
// unit length, face the camera, and match the analytic plane normal.
func TestNormalMap(t *testing.T) {
	it := NewIntrinsics(40, 40, 15.5, 15.5, 32, 32)
	pn := math32.Vec3(0.2, -0.1, 1).Normal()
	sc := NewScene([]ScenePlane{{N: pn, D: pn.Z * 2}}, nil, nil)
	fr := sc.Render(it)
	fr.ComputeVertexMap(0, 10)
	fr.ComputeNormalMap()

	for y := 2; y < 30; y++ {
		for x := 2; x < 30; x++ {
			n, ok := fr.NormalAt(x, y)
			require.True(t, ok, "pixel %d,%d", x, y)
			assert.InDelta(t, 1, n.Length(), 1e-4)
			v, _ := fr.VertexAt(x, y)
			assert.LessOrEqual(t, n.Dot(v), float32(0), "faces the camera")
			// plane normal, oriented toward the camera
			assert.InDelta(t, float64(-pn.X), float64(n.X), 1e-2)
			assert.InDelta(t, float64(-pn.Y), float64(n.Y), 1e-2)
			assert.InDelta(t, float64(-pn.Z), float64(n.Z), 1e-2)
		}
	}
}

func TestGradients(t *testing.T) {
	it := NewIntrinsics(40, 40, 7.5, 7.5, 16, 16)
	depth := tensor.NewFloat32(16, 16)
	its := tensor.NewFloat32(16, 16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			its.Values[y*16+x] = 0.1*float32(x) + 0.05*float32(y)
		}
	}
	fr, err := NewFrame(depth, its, it)
	require.NoError(t, err)
	fr.ComputeGradients()
	// linear ramp: constant interior gradients, zero borders
	assert.InDelta(t, 0.1, fr.GradX.Values[5*16+5], 1e-6)
	assert.InDelta(t, 0.05, fr.GradY.Values[5*16+5], 1e-6)
	assert.Equal(t, float32(0), fr.GradX.Values[0])
	assert.Equal(t, float32(0), fr.GradY.Values[15*16+15])
}

func TestSampleBilinear(t *testing.T) {
	m := tensor.NewFloat32(2, 2)
	m.Values[0], m.Values[1], m.Values[2], m.Values[3] = 1, 2, 3, 4

	v, ok := SampleBilinear(m, 2, 2, 0, 0)
	require.True(t, ok)
	assert.Equal(t, float32(1), v)

	v, ok = SampleBilinear(m, 2, 2, 0.5, 0.5)
	require.True(t, ok)
	assert.InDelta(t, 2.5, v, 1e-6)

	_, ok = SampleBilinear(m, 2, 2, 1.5, 0.5)
	assert.False(t, ok)
	_, ok = SampleBilinear(m, 2, 2, -0.5, 0)
	assert.False(t, ok)

	m.Values[3] = math32.NaN()
	_, ok = SampleBilinear(m, 2, 2, 0.5, 0.5)
	assert.False(t, ok)
}
