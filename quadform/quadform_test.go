// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package quadform

import (
	"math"
	"testing"

	"github.com/curioloop/descent/dense"
)

func TestEval(t *testing.T) {
	a := dense.NewMatrix(2)
	a.Set(0, 0, 2)
	a.Set(1, 1, 20)
	a.Set(0, 1, 1)
	a.Set(1, 0, 1)
	q := New(a, []float64{-1, 3})

	cases := []struct {
		p    []float64
		want float64
	}{
		{[]float64{0, 0}, 0},
		{[]float64{1, 0}, 0},    // ½·2 - 1
		{[]float64{0, 1}, 13},   // ½·20 + 3
		{[]float64{1, 1}, 14},   // ½·(2+1+1+20) - 1 + 3
		{[]float64{-2, 0.5}, 9}, // ½·(8-2+5) + 2 + 1.5
	}
	for i, c := range cases {
		if got := q.Eval(c.p); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("case %d: Q(%v) = %g, want %g", i, c.p, got, c.want)
		}
	}
	if q.Dim() != 2 {
		t.Fatalf("dim = %d", q.Dim())
	}
}

func TestMinimizer(t *testing.T) {
	// The minimizer of ½pᵀ𝐀p + bᵀp is -𝐀⁻¹b, and no other point is lower.
	a := dense.Identity(3)
	a.Set(1, 1, 4)
	b := []float64{1, -2, 0.5}
	q := New(a, b)

	opt := []float64{-1, 0.5, -0.5}
	fopt := q.Eval(opt)
	for _, d := range [][]float64{{1e-3, 0, 0}, {0, -1e-3, 0}, {0, 0, 1e-3}, {1, 1, 1}} {
		p := make([]float64, 3)
		dense.AddScaled(p, opt, 1, d)
		if q.Eval(p) <= fopt {
			t.Fatalf("Q(%v) = %g is not above the minimum %g", p, q.Eval(p), fopt)
		}
	}
}

func TestDimensionMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on dimension mismatch")
		}
	}()
	New(dense.Identity(2), []float64{1, 2}).Eval([]float64{1})
}
