// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package odom

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ErrDegenerateSystem indicates that the accumulated normal matrix is
// singular or too ill-conditioned to solve. The driver treats it as an
// early stop for the current level, keeping the last good pose.
var ErrDegenerateSystem = errors.New("degenerate linear system")

// maxCondition is the Cholesky condition number beyond which the
// system counts as degenerate.
const maxCondition = 1e12

// LinearSystem is the Gauss-Newton normal system reduced over all
// valid pixel contributions: JtJ = sum J J^T, Jtr = sum J r, plus the
// total squared residual and the inlier count. Accumulation is in
// float64; the matrix is symmetric positive semi-definite by
// construction, so only the 21 upper-triangle entries are kept and
// mirrored on demand.
type LinearSystem struct {

	// JtJ holds the upper triangle of the 6x6 normal matrix,
	// row-major: (0,0), (0,1) ... (0,5), (1,1) ... (5,5).
	JtJ [21]float64

	// Jtr is the gradient vector sum J * r.
	Jtr [6]float64

	// R2 is the total squared residual.
	R2 float64

	// Count is the number of valid correspondences accumulated.
	Count int
}

// Add accumulates one residual row with the given weight applied as
// w * (J J^T, J r, r^2). Count is managed by the caller, per valid
// correspondence rather than per row: the hybrid cost adds two rows
// for one correspondence.
func (ls *LinearSystem) Add(j *[6]float32, r, w float32) {
	jf := [6]float64{float64(j[0]), float64(j[1]), float64(j[2]), float64(j[3]), float64(j[4]), float64(j[5])}
	rf := float64(r)
	wf := float64(w)
	k := 0
	for a := 0; a < 6; a++ {
		for b := a; b < 6; b++ {
			ls.JtJ[k] += wf * jf[a] * jf[b]
			k++
		}
		ls.Jtr[a] += wf * jf[a] * rf
	}
	ls.R2 += wf * rf * rf
}

// Merge adds another partial accumulator into this one. Merging is
// commutative and associative, so partial sums from workers or GPU
// workgroups can combine in any order.
func (ls *LinearSystem) Merge(o *LinearSystem) {
	for i := range ls.JtJ {
		ls.JtJ[i] += o.JtJ[i]
	}
	for i := range ls.Jtr {
		ls.Jtr[i] += o.Jtr[i]
	}
	ls.R2 += o.R2
	ls.Count += o.Count
}

// Sym returns the full symmetric 6x6 normal matrix, mirroring the
// accumulated upper triangle.
func (ls *LinearSystem) Sym() *mat.SymDense {
	sym := mat.NewSymDense(6, nil)
	k := 0
	for a := 0; a < 6; a++ {
		for b := a; b < 6; b++ {
			sym.SetSym(a, b, ls.JtJ[k])
			k++
		}
	}
	return sym
}

// Solve computes the Gauss-Newton update delta from
// JtJ * delta = -Jtr by Cholesky decomposition, returning
// [ErrDegenerateSystem] if the factorization fails or the system is
// too ill-conditioned.
func (ls *LinearSystem) Solve() (Pose6, error) {
	var delta Pose6
	if ls.Count == 0 {
		return delta, ErrDegenerateSystem
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(ls.Sym()); !ok {
		return delta, ErrDegenerateSystem
	}
	if chol.Cond() > maxCondition {
		return delta, ErrDegenerateSystem
	}
	b := mat.NewVecDense(6, []float64{
		-ls.Jtr[0], -ls.Jtr[1], -ls.Jtr[2], -ls.Jtr[3], -ls.Jtr[4], -ls.Jtr[5],
	})
	var x mat.VecDense
	if err := chol.SolveVecTo(&x, b); err != nil {
		return delta, ErrDegenerateSystem
	}
	for i := 0; i < 6; i++ {
		delta[i] = float32(x.AtVec(i))
	}
	return delta, nil
}

// MeanR2 returns the mean squared residual, or 0 with no inliers.
func (ls *LinearSystem) MeanR2() float64 {
	if ls.Count == 0 {
		return 0
	}
	return ls.R2 / float64(ls.Count)
}
