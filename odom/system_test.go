// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package odom

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randRow(rng *rand.Rand) (j [6]float32, r, w float32) {
	for i := range j {
		j[i] = float32(2*rng.Float64() - 1)
	}
	return j, float32(2*rng.Float64() - 1), float32(rng.Float64() + 0.1)
}

func TestLinearSystemMerge(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	type row struct {
		j [6]float32
		r float32
		w float32
	}
	rows := make([]row, 200)
	for i := range rows {
		rows[i].j, rows[i].r, rows[i].w = randRow(rng)
	}

	serial := &LinearSystem{}
	for i := range rows {
		serial.Add(&rows[i].j, rows[i].r, rows[i].w)
		serial.Count++
	}

	var parts [4]LinearSystem
	for i := range rows {
		p := &parts[i%4]
		p.Add(&rows[i].j, rows[i].r, rows[i].w)
		p.Count++
	}
	merged := &LinearSystem{}
	for i := range parts {
		merged.Merge(&parts[i])
	}

	assert.Equal(t, serial.Count, merged.Count)
	assert.InDelta(t, serial.R2, merged.R2, 1e-9)
	for k := range serial.JtJ {
		assert.InDelta(t, serial.JtJ[k], merged.JtJ[k], 1e-9, "JtJ[%d]", k)
	}
	for k := range serial.Jtr {
		assert.InDelta(t, serial.Jtr[k], merged.Jtr[k], 1e-9, "Jtr[%d]", k)
	}
}

func TestLinearSystemSym(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	ls := &LinearSystem{}
	for i := 0; i < 20; i++ {
		j, r, w := randRow(rng)
		ls.Add(&j, r, w)
		ls.Count++
	}
	sym := ls.Sym()
	for a := 0; a < 6; a++ {
		for b := 0; b < 6; b++ {
			assert.Equal(t, sym.At(a, b), sym.At(b, a))
		}
	}
	// diagonal entries are weighted sums of squares
	for a := 0; a < 6; a++ {
		assert.GreaterOrEqual(t, sym.At(a, a), 0.0)
	}
}

// TestSolveRecovers checks that a system built from residuals that are
// exactly the negated projection of a known update recovers that update.
func TestSolveRecovers(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	want := Pose6{0.01, -0.02, 0.005, 0.1, -0.05, 0.2}
	ls := &LinearSystem{}
	for i := 0; i < 50; i++ {
		j, _, w := randRow(rng)
		var r float32
		for k := 0; k < 6; k++ {
			r -= j[k] * want[k]
		}
		ls.Add(&j, r, w)
		ls.Count++
	}
	got, err := ls.Solve()
	require.NoError(t, err)
	for k := 0; k < 6; k++ {
		assert.InDelta(t, want[k], got[k], 1e-4, "component %d", k)
	}
}

func TestSolveDegenerate(t *testing.T) {
	empty := &LinearSystem{}
	_, err := empty.Solve()
	assert.ErrorIs(t, err, ErrDegenerateSystem)

	// identical rows give a rank-1 normal matrix
	ls := &LinearSystem{}
	j := [6]float32{1, 2, 3, 4, 5, 6}
	for i := 0; i < 100; i++ {
		ls.Add(&j, 0.5, 1)
		ls.Count++
	}
	_, err = ls.Solve()
	assert.ErrorIs(t, err, ErrDegenerateSystem)
}

func TestMeanR2(t *testing.T) {
	ls := &LinearSystem{}
	assert.Equal(t, 0.0, ls.MeanR2())
	j := [6]float32{1, 0, 0, 0, 0, 0}
	ls.Add(&j, 2, 1) // r^2 = 4
	ls.Count++
	ls.Add(&j, 0, 1)
	ls.Count++
	assert.InDelta(t, 2.0, ls.MeanR2(), 1e-12)
}
