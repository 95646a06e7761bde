// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rgbd

import (
	"cogentcore.org/core/math32"
	"cogentcore.org/lab/tensor"
)

// Scene is an analytic test scene of planes and spheres that can be
// rendered to a depth (+ intensity) Frame from any rigid camera pose,
// used for synthetic odometry tests and examples: the same surfaces
// rendered from two poses give a frame pair whose true relative
// transform is known exactly.
type Scene struct {

	// Planes are surfaces n . x = d with unit normal n.
	Planes []ScenePlane

	// Spheres are surfaces |x - c| = r.
	Spheres []SceneSphere

	// Intensity is an optional texture over source-frame points.
	Intensity func(p math32.Vector3) float32

	// toSource maps points in the current camera frame back to the
	// frame the Intensity texture is defined in.
	toSource math32.Matrix4
}

// ScenePlane is the plane n . x = d.
type ScenePlane struct {
	N math32.Vector3
	D float32
}

// SceneSphere is the sphere of radius R about C.
type SceneSphere struct {
	C math32.Vector3
	R float32
}

// NewScene returns a scene observed from the source camera frame.
func NewScene(planes []ScenePlane, spheres []SceneSphere, intensity func(p math32.Vector3) float32) *Scene {
	return &Scene{Planes: planes, Spheres: spheres, Intensity: intensity, toSource: *math32.Identity4()}
}

// Transformed returns the scene as observed by a camera such that
// points map from this scene's frame to the new one by the rigid
// transform m: planes and spheres move with the points, and the
// intensity texture stays attached to the surfaces.
func (sc *Scene) Transformed(m *math32.Matrix4) *Scene {
	rot := func(v math32.Vector3) math32.Vector3 {
		return math32.Vec3(
			m[0]*v.X+m[4]*v.Y+m[8]*v.Z,
			m[1]*v.X+m[5]*v.Y+m[9]*v.Z,
			m[2]*v.X+m[6]*v.Y+m[10]*v.Z,
		)
	}
	t := math32.Vec3(m[12], m[13], m[14])
	ns := &Scene{Intensity: sc.Intensity}
	for _, pl := range sc.Planes {
		n := rot(pl.N)
		ns.Planes = append(ns.Planes, ScenePlane{N: n, D: pl.D + n.Dot(t)})
	}
	for _, sp := range sc.Spheres {
		ns.Spheres = append(ns.Spheres, SceneSphere{C: rot(sp.C).Add(t), R: sp.R})
	}
	inv := rigidInverse(m)
	var cmp math32.Matrix4
	cmp.MulMatrices(&sc.toSource, &inv)
	ns.toSource = cmp
	return ns
}

// Render renders the scene to a Frame at given intrinsics, taking the
// nearest surface hit along each pixel ray; pixels hitting nothing get
// zero (invalid) depth. An intensity map is rendered when the scene
// has an Intensity texture.
func (sc *Scene) Render(intr Intrinsics) *Frame {
	w, h := intr.Width, intr.Height
	depth := tensor.NewFloat32(h, w)
	var its *tensor.Float32
	if sc.Intensity != nil {
		its = tensor.NewFloat32(h, w)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ray := math32.Vec3((float32(x)-intr.Cx)/intr.Fx, (float32(y)-intr.Cy)/intr.Fy, 1)
			z := sc.hit(ray)
			if z <= 0 {
				continue
			}
			i := y*w + x
			depth.Values[i] = z
			if its != nil {
				p := ray.MulScalar(z)
				sp := math32.Vec3(
					sc.toSource[0]*p.X+sc.toSource[4]*p.Y+sc.toSource[8]*p.Z+sc.toSource[12],
					sc.toSource[1]*p.X+sc.toSource[5]*p.Y+sc.toSource[9]*p.Z+sc.toSource[13],
					sc.toSource[2]*p.X+sc.toSource[6]*p.Y+sc.toSource[10]*p.Z+sc.toSource[14],
				)
				its.Values[i] = sc.Intensity(sp)
			}
		}
	}
	fr, _ := NewFrame(depth, its, intr)
	return fr
}

// hit returns the depth of the nearest surface along the ray
// direction (x, y, 1), or 0 for no hit.
func (sc *Scene) hit(ray math32.Vector3) float32 {
	best := float32(0)
	take := func(z float32) {
		if z > 1e-4 && (best == 0 || z < best) {
			best = z
		}
	}
	for _, pl := range sc.Planes {
		nr := pl.N.Dot(ray)
		if math32.Abs(nr) > 1e-8 {
			take(pl.D / nr)
		}
	}
	for _, sp := range sc.Spheres {
		// |z ray - c|^2 = r^2
		a := ray.LengthSquared()
		b := -2 * ray.Dot(sp.C)
		c := sp.C.LengthSquared() - sp.R*sp.R
		disc := b*b - 4*a*c
		if disc < 0 {
			continue
		}
		sq := math32.Sqrt(disc)
		take((-b - sq) / (2 * a))
	}
	return best
}

// rigidInverse returns the inverse of a rigid transform.
func rigidInverse(m *math32.Matrix4) math32.Matrix4 {
	var r math32.Matrix4
	for c := 0; c < 3; c++ {
		for r2 := 0; r2 < 3; r2++ {
			r[4*c+r2] = m[4*r2+c]
		}
	}
	r[12] = -(m[0]*m[12] + m[1]*m[13] + m[2]*m[14])
	r[13] = -(m[4]*m[12] + m[5]*m[13] + m[6]*m[14])
	r[14] = -(m[8]*m[12] + m[9]*m[13] + m[10]*m[14])
	r[15] = 1
	return r
}
