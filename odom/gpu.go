// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package odom

import (
	"embed"
	"errors"
	"unsafe"

	"cogentcore.org/core/gpu"
	"cogentcore.org/core/math32"
	"cogentcore.org/vision/rgbd"
)

//go:embed shaders/odometry.wgsl
var shaders embed.FS

// nAccum is the number of accumulator slots reduced per workgroup:
// 21 upper-triangle JtJ + 6 Jtr + squared residual + count.
const nAccum = 29

// gpuThreads is the compute workgroup size; must match the WGSL.
const gpuThreads = 64

// gpuParams is the uniform block for one linearize dispatch.
// Field order and padding must match the Params struct in
// shaders/odometry.wgsl exactly.
type gpuParams struct {
	Pose           math32.Matrix4
	Fx, Fy, Cx, Cy float32

	Width, Height uint32
	Off, Off3     uint32 // element offsets of this level's maps

	NPix, Method uint32
	NGroups, pad uint32
	DiffMax      float32
	WGeom, WInt  float32
	pad2         float32
}

// gpuLevel is the location of one pyramid level within the
// concatenated device buffers.
type gpuLevel struct {
	off     int // scalar map offset, in elements
	off3    int // vertex/normal map offset, in elements
	npix    int
	ngroups int
}

// gpuState runs the linearize kernel as a WebGPU compute shader:
// one thread per source pixel, workgroup tree reduction, host-side
// final merge. All pyramid-level maps are uploaded to device buffers
// once per odometry call, concatenated per map kind, and reused
// across levels and iterations; only the small uniform block and the
// per-workgroup partials cross the bus per iteration.
type gpuState struct {
	gp      *gpu.GPU
	sy      *gpu.ComputeSystem
	pl      *gpu.ComputePipeline
	levels  []gpuLevel
	partial []float32 // host read-back buffer, nAccum per workgroup
}

// newGPUState acquires the compute device, uploads every level of the
// pyramid, and configures the pipeline. Device acquisition or
// allocation failures are returned to the caller; they are distinct
// from algorithmic failures, which never produce errors.
func newGPUState(py *rgbd.Pyramid, cfg *Config) (*gpuState, error) {
	gp := gpu.NewComputeGPU()
	if gp == nil {
		return nil, errors.New("no WebGPU adapter available")
	}
	gs := &gpuState{gp: gp}
	gs.sy = gpu.NewComputeSystem(gp, "odom")
	gs.pl = gpu.NewComputePipelineShaderFS(shaders, "shaders/odometry.wgsl", gs.sy)

	n := len(py.Levels)
	gs.levels = make([]gpuLevel, n)
	total := 0
	for li := range py.Levels {
		lv := &py.Levels[li]
		npix := lv.Intr.Width * lv.Intr.Height
		gs.levels[li] = gpuLevel{
			off:     total,
			off3:    3 * total,
			npix:    npix,
			ngroups: gpu.Warps(npix, gpuThreads),
		}
		total += npix
	}
	maxGroups := gs.levels[0].ngroups

	vars := gs.sy.Vars()
	ugp := vars.AddGroup(gpu.Uniform, "Params")
	ugp.AddStruct("Params", int(unsafe.Sizeof(gpuParams{})), 1, gpu.ComputeShader)
	ugp.SetNValues(1)

	sgp := vars.AddGroup(gpu.Storage, "Maps")
	sgp.Add("SrcVertex", gpu.Float32, 3*total, gpu.ComputeShader)
	sgp.Add("SrcIntensity", gpu.Float32, total, gpu.ComputeShader)
	sgp.Add("TgtVertex", gpu.Float32, 3*total, gpu.ComputeShader)
	sgp.Add("TgtNormal", gpu.Float32, 3*total, gpu.ComputeShader)
	sgp.Add("TgtIntensity", gpu.Float32, total, gpu.ComputeShader)
	sgp.Add("TgtGradX", gpu.Float32, total, gpu.ComputeShader)
	sgp.Add("TgtGradY", gpu.Float32, total, gpu.ComputeShader)
	sgp.SetNValues(1)

	ogp := vars.AddGroup(gpu.Storage, "Out")
	ogp.Add("Partials", gpu.Float32, nAccum*maxGroups, gpu.ComputeShader)
	ogp.SetNValues(1)

	gs.sy.Config()
	ogp.CreateReadBuffers()

	if err := gs.upload(py, vars, total); err != nil {
		gs.release()
		return nil, err
	}
	gs.partial = make([]float32, nAccum*maxGroups)
	return gs, nil
}

// upload concatenates each map kind across levels and copies it to
// the device, sanitizing NaN invalid markers to zeros so that the
// shader's validity checks are plain comparisons.
func (gs *gpuState) upload(py *rgbd.Pyramid, vars *gpu.Vars, total int) error {
	srcVtx := make([]float32, 3*total)
	srcInt := make([]float32, total)
	tgtVtx := make([]float32, 3*total)
	tgtNrm := make([]float32, 3*total)
	tgtInt := make([]float32, total)
	tgtGx := make([]float32, total)
	tgtGy := make([]float32, total)
	for li := range py.Levels {
		lv := &py.Levels[li]
		gl := &gs.levels[li]
		copyClean(srcVtx[gl.off3:], lv.Source.Vertex.Values)
		copyClean(tgtVtx[gl.off3:], lv.Target.Vertex.Values)
		copyClean(tgtNrm[gl.off3:], lv.Target.Normal.Values)
		if lv.Source.Intensity != nil {
			copy(srcInt[gl.off:], lv.Source.Intensity.Values)
			copy(tgtInt[gl.off:], lv.Target.Intensity.Values)
			copy(tgtGx[gl.off:], lv.Target.GradX.Values)
			copy(tgtGy[gl.off:], lv.Target.GradY.Values)
		}
	}
	for name, vals := range map[string][]float32{
		"SrcVertex": srcVtx, "SrcIntensity": srcInt,
		"TgtVertex": tgtVtx, "TgtNormal": tgtNrm, "TgtIntensity": tgtInt,
		"TgtGradX": tgtGx, "TgtGradY": tgtGy,
	} {
		vl := vars.ValueByIndex(1, name, 0)
		if vl == nil {
			return errors.New("odom: gpu value not found: " + name)
		}
		if err := gpu.SetValueFrom(vl, vals); err != nil {
			return err
		}
	}
	return nil
}

// copyClean copies src into dst replacing NaNs with zero; the shader
// tests validity as z > 0 (vertices) and a nonzero normal, because
// NaN comparisons are not portable across drivers.
func copyClean(dst, src []float32) {
	for i, v := range src {
		if math32.IsNaN(v) {
			dst[i] = 0
		} else {
			dst[i] = v
		}
	}
}

func (gs *gpuState) linearize(kp *kernelParams, level int) (*LinearSystem, error) {
	gl := &gs.levels[level]
	pm := gpuParams{
		Pose:    kp.pose,
		Fx:      kp.intr.Fx,
		Fy:      kp.intr.Fy,
		Cx:      kp.intr.Cx,
		Cy:      kp.intr.Cy,
		Width:   uint32(kp.intr.Width),
		Height:  uint32(kp.intr.Height),
		Off:     uint32(gl.off),
		Off3:    uint32(gl.off3),
		NPix:    uint32(gl.npix),
		NGroups: uint32(gl.ngroups),
		DiffMax: kp.diffMax,
	}
	switch {
	case kp.needGeom && kp.needInt:
		pm.Method = uint32(Hybrid)
	case kp.needInt:
		pm.Method = uint32(Intensity)
	default:
		pm.Method = uint32(PointToPlane)
	}
	pm.WGeom = kp.wGeom
	pm.WInt = kp.wInt

	vars := gs.sy.Vars()
	uvl := vars.ValueByIndex(0, "Params", 0)
	if err := gpu.SetValueFrom(uvl, []gpuParams{pm}); err != nil {
		return nil, err
	}
	ovl := vars.ValueByIndex(2, "Partials", 0)

	ce, err := gs.sy.BeginComputePass()
	if err != nil {
		return nil, err
	}
	gs.pl.Dispatch1D(ce, gl.npix, gpuThreads)
	ce.End()
	ovl.GPUToRead(gs.sy.CommandEncoder)
	if err := gs.sy.EndComputePass(ce); err != nil {
		return nil, err
	}
	if err := ovl.ReadSync(); err != nil {
		return nil, err
	}
	gpu.ReadToBytes(ovl, gs.partial)

	ls := &LinearSystem{}
	for g := 0; g < gl.ngroups; g++ {
		p := gs.partial[g*nAccum:]
		for k := 0; k < 21; k++ {
			ls.JtJ[k] += float64(p[k])
		}
		for k := 0; k < 6; k++ {
			ls.Jtr[k] += float64(p[21+k])
		}
		ls.R2 += float64(p[27])
		ls.Count += int(p[28] + 0.5)
	}
	return ls, nil
}

func (gs *gpuState) release() {
	if gs.sy != nil {
		gs.sy.Release()
		gs.sy = nil
	}
	if gs.gp != nil {
		gs.gp.Release()
		gs.gp = nil
	}
}
