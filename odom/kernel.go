// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package odom

import (
	"errors"

	"cogentcore.org/core/math32"
	"cogentcore.org/vision/rgbd"
)

// ErrNoCorrespondences indicates that a pyramid level produced no
// valid correspondence at the current pose. The driver skips the
// level; it is not a fatal error.
var ErrNoCorrespondences = errors.New("no correspondences")

// kernelParams is the read-only state shared by every pixel of one
// linearization pass: the current pose estimate, the level frames,
// and the cost function selection. The method dispatch is resolved
// here, once per pass, keeping the pixel loop branch-light.
type kernelParams struct {
	pose     math32.Matrix4
	src      *rgbd.Frame
	tgt      *rgbd.Frame
	intr     rgbd.Intrinsics
	needGeom bool
	needInt  bool
	wGeom    float32 // row weight for the geometric term
	wInt     float32 // row weight for the intensity term
	diffMax  float32
}

func newKernelParams(pose math32.Matrix4, lv *rgbd.Level, cfg *Config) kernelParams {
	kp := kernelParams{
		pose:    pose,
		src:     lv.Source,
		tgt:     lv.Target,
		intr:    lv.Intr,
		diffMax: cfg.DepthDiffMax,
	}
	switch cfg.Method {
	case PointToPlane:
		kp.needGeom = true
		kp.wGeom = 1
	case Intensity:
		kp.needInt = true
		kp.wInt = 1
	case Hybrid:
		kp.needGeom = true
		kp.needInt = true
		kp.wGeom = 1 - cfg.HybridSigma
		kp.wInt = cfg.HybridSigma
	}
	return kp
}

// pixelRow is one residual row: 6-element Jacobian with respect to
// the tangent-space pose update, residual, and weight.
type pixelRow struct {
	j [6]float32
	r float32
	w float32
}

// correspond computes the residual rows for source pixel (x, y) at the
// current pose, reporting false if the pixel has no valid
// correspondence. Every pixel is independent of every other: the same
// computation runs on the CPU thread pool and as the WGSL kernel.
func (kp *kernelParams) correspond(x, y int, rows *[2]pixelRow) (n int, ok bool) {
	v, vok := kp.src.VertexAt(x, y)
	if !vok {
		return 0, false
	}
	p := transformPoint(&kp.pose, v) // source point in the target camera frame
	if p.Z <= 0 {
		return 0, false
	}
	uv := kp.intr.Project(p)
	xi := int(uv.X + 0.5)
	yi := int(uv.Y + 0.5)
	if xi < 1 || yi < 1 || xi >= kp.intr.Width-1 || yi >= kp.intr.Height-1 {
		return 0, false
	}
	q, qok := kp.tgt.VertexAt(xi, yi)
	if !qok {
		return 0, false
	}
	if math32.Abs(p.Z-q.Z) > kp.diffMax { // occlusion / outlier rejection
		return 0, false
	}

	if kp.needGeom {
		nrm, nok := kp.tgt.NormalAt(xi, yi)
		if !nok {
			return 0, false
		}
		rows[n] = pixelRow{r: nrm.Dot(p.Sub(q)), w: kp.wGeom}
		jacobianRow(p, nrm, &rows[n].j)
		n++
	}
	if kp.needInt {
		it, iok := rgbd.SampleBilinear(kp.tgt.Intensity, kp.intr.Width, kp.intr.Height, uv.X, uv.Y)
		if !iok {
			return 0, false
		}
		gx, gok := rgbd.SampleBilinear(kp.tgt.GradX, kp.intr.Width, kp.intr.Height, uv.X, uv.Y)
		gy, gok2 := rgbd.SampleBilinear(kp.tgt.GradY, kp.intr.Width, kp.intr.Height, uv.X, uv.Y)
		if !gok || !gok2 {
			return 0, false
		}
		is := kp.src.Intensity.Values[y*kp.intr.Width+x]
		// chain rule through the pinhole projection: the image
		// gradient pulled back to a 3D direction at p.
		a := gx * kp.intr.Fx / p.Z
		b := gy * kp.intr.Fy / p.Z
		g := math32.Vec3(a, b, -(a*p.X+b*p.Y)/p.Z)
		rows[n] = pixelRow{r: it - is, w: kp.wInt}
		jacobianRow(p, g, &rows[n].j)
		n++
	}
	return n, n > 0
}

// jacobianRow fills the 6-element Jacobian for a scalar residual whose
// gradient with respect to the transformed point p is g: the
// rotational part is p x g and the translational part is g, from
// linearizing the exponential-map update about the identity.
func jacobianRow(p, g math32.Vector3, j *[6]float32) {
	c := p.Cross(g)
	j[0], j[1], j[2] = c.X, c.Y, c.Z
	j[3], j[4], j[5] = g.X, g.Y, g.Z
}
