// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package odom

import (
	"errors"
	"fmt"
	"math"

	"cogentcore.org/core/math32"
)

// ErrInvalidPose indicates a pose with non-finite components,
// or a transform whose rotation block is not orthonormal.
var ErrInvalidPose = errors.New("invalid pose")

// Pose6 is a rigid transform expressed in the tangent space of SE(3):
// rotation as an angle-axis vector followed by translation,
// [wx, wy, wz, tx, ty, tz].
type Pose6 [6]float32

// Rotation returns the angle-axis rotation part.
func (p Pose6) Rotation() math32.Vector3 { return math32.Vec3(p[0], p[1], p[2]) }

// Translation returns the translation part.
func (p Pose6) Translation() math32.Vector3 { return math32.Vec3(p[3], p[4], p[5]) }

// Transform element access: [math32.Matrix4] is column-major, so the
// rotation element at row r, column c is m[4*c+r], and the translation
// is the last column. Pose algebra is computed in float64 internally so
// that conversion error is dominated by the float32 matrix storage.

// rot returns the rotation element at row r, column c.
func rot(m *math32.Matrix4, r, c int) float64 { return float64(m[4*c+r]) }

// ToTransform converts a tangent-space pose to a 4x4 rigid transform,
// building the rotation with the closed-form Rodrigues exponential map.
// It fails with [ErrInvalidPose] if any component is not finite.
func ToTransform(p Pose6) (math32.Matrix4, error) {
	var m math32.Matrix4
	for i, v := range p {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return m, fmt.Errorf("odom.ToTransform: component %d is %g: %w", i, v, ErrInvalidPose)
		}
	}
	wx, wy, wz := float64(p[0]), float64(p[1]), float64(p[2])
	th := math.Sqrt(wx*wx + wy*wy + wz*wz)
	var a, b float64 // sin th / th, (1 - cos th) / th^2
	if th < 1e-8 {
		a, b = 1, 0.5
	} else {
		a = math.Sin(th) / th
		b = (1 - math.Cos(th)) / (th * th)
	}
	// R = I + a [w]x + b [w]x^2
	r00 := 1 - b*(wy*wy+wz*wz)
	r11 := 1 - b*(wx*wx+wz*wz)
	r22 := 1 - b*(wx*wx+wy*wy)
	r01 := b*wx*wy - a*wz
	r10 := b*wx*wy + a*wz
	r02 := b*wx*wz + a*wy
	r20 := b*wx*wz - a*wy
	r12 := b*wy*wz - a*wx
	r21 := b*wy*wz + a*wx
	m = math32.Matrix4{
		float32(r00), float32(r10), float32(r20), 0,
		float32(r01), float32(r11), float32(r21), 0,
		float32(r02), float32(r12), float32(r22), 0,
		p[3], p[4], p[5], 1,
	}
	return m, nil
}

// ToPose6 converts a rigid transform to its tangent-space pose via the
// matrix logarithm of the rotation block. The rotation angle comes from
// atan2 of the symmetric and antisymmetric parts, which stays accurate
// over the whole (-pi, pi) range; the axis uses the first-order form
// for vanishing angles and the largest-diagonal branch near pi.
func ToPose6(m *math32.Matrix4) Pose6 {
	// vee(R - R^T) = 2 sin(th) * axis
	vx := rot(m, 2, 1) - rot(m, 1, 2)
	vy := rot(m, 0, 2) - rot(m, 2, 0)
	vz := rot(m, 1, 0) - rot(m, 0, 1)
	sin2 := 0.5 * math.Sqrt(vx*vx+vy*vy+vz*vz)
	cos := 0.5 * (rot(m, 0, 0) + rot(m, 1, 1) + rot(m, 2, 2) - 1)
	th := math.Atan2(sin2, cos)

	var wx, wy, wz float64
	switch {
	case th < 1e-7:
		// first-order: R ~ I + [w]x
		wx, wy, wz = 0.5*vx, 0.5*vy, 0.5*vz
	case cos > -0.99:
		s := th / (2 * math.Sin(th))
		wx, wy, wz = s*vx, s*vy, s*vz
	default:
		// near pi the antisymmetric part vanishes; recover the axis
		// from the dominant diagonal of R ~ 2 k k^T - I.
		d0 := rot(m, 0, 0) - cos
		d1 := rot(m, 1, 1) - cos
		d2 := rot(m, 2, 2) - cos
		c := 1 - cos
		var k [3]float64
		switch {
		case d0 >= d1 && d0 >= d2:
			k[0] = math.Sqrt(math.Max(d0/c, 0))
			k[1] = 0.5 * (rot(m, 0, 1) + rot(m, 1, 0)) / (c * k[0])
			k[2] = 0.5 * (rot(m, 0, 2) + rot(m, 2, 0)) / (c * k[0])
		case d1 >= d2:
			k[1] = math.Sqrt(math.Max(d1/c, 0))
			k[0] = 0.5 * (rot(m, 0, 1) + rot(m, 1, 0)) / (c * k[1])
			k[2] = 0.5 * (rot(m, 1, 2) + rot(m, 2, 1)) / (c * k[1])
		default:
			k[2] = math.Sqrt(math.Max(d2/c, 0))
			k[0] = 0.5 * (rot(m, 0, 2) + rot(m, 2, 0)) / (c * k[2])
			k[1] = 0.5 * (rot(m, 1, 2) + rot(m, 2, 1)) / (c * k[2])
		}
		if k[0]*vx+k[1]*vy+k[2]*vz < 0 { // sign from the antisymmetric part
			k[0], k[1], k[2] = -k[0], -k[1], -k[2]
		}
		wx, wy, wz = th*k[0], th*k[1], th*k[2]
	}
	return Pose6{float32(wx), float32(wy), float32(wz), m[12], m[13], m[14]}
}

// Compose returns the rigid composition a * b, re-orthonormalizing the
// rotation block to bound floating point drift over repeated updates.
func Compose(a, b *math32.Matrix4) math32.Matrix4 {
	var m math32.Matrix4
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			m[4*c+r] = float32(rot(a, r, 0)*rot(b, 0, c) + rot(a, r, 1)*rot(b, 1, c) + rot(a, r, 2)*rot(b, 2, c))
		}
	}
	for r := 0; r < 3; r++ {
		m[12+r] = float32(rot(a, r, 0)*float64(b[12]) + rot(a, r, 1)*float64(b[13]) + rot(a, r, 2)*float64(b[14]) + float64(a[12+r]))
	}
	m[15] = 1
	Orthonormalize(&m)
	return m
}

// Invert returns the exact rigid inverse [R^T | -R^T t].
func Invert(a *math32.Matrix4) math32.Matrix4 {
	var m math32.Matrix4
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			m[4*c+r] = a[4*r+c]
		}
	}
	tx, ty, tz := float64(a[12]), float64(a[13]), float64(a[14])
	for r := 0; r < 3; r++ {
		m[12+r] = float32(-(rot(a, 0, r)*tx + rot(a, 1, r)*ty + rot(a, 2, r)*tz))
	}
	m[15] = 1
	return m
}

// Orthonormalize projects the rotation block of m onto the nearest
// orthonormal frame by Gram-Schmidt on its columns.
func Orthonormalize(m *math32.Matrix4) {
	c0 := math32.Vec3(m[0], m[1], m[2]).Normal()
	c1 := math32.Vec3(m[4], m[5], m[6])
	c1 = c1.Sub(c0.MulScalar(c0.Dot(c1))).Normal()
	c2 := c0.Cross(c1)
	m[0], m[1], m[2] = c0.X, c0.Y, c0.Z
	m[4], m[5], m[6] = c1.X, c1.Y, c1.Z
	m[8], m[9], m[10] = c2.X, c2.Y, c2.Z
}

// RotationAngle returns the rotation angle of the transform in radians.
func RotationAngle(m *math32.Matrix4) float32 {
	p := ToPose6(m)
	return p.Rotation().Length()
}

// transformPoint applies the rigid transform to a point.
func transformPoint(m *math32.Matrix4, v math32.Vector3) math32.Vector3 {
	return math32.Vec3(
		m[0]*v.X+m[4]*v.Y+m[8]*v.Z+m[12],
		m[1]*v.X+m[5]*v.Y+m[9]*v.Z+m[13],
		m[2]*v.X+m[6]*v.Y+m[10]*v.Z+m[14],
	)
}
