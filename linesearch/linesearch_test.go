// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"math"
	"slices"
	"testing"

	"github.com/curioloop/descent/dense"
	"github.com/curioloop/descent/objective"
)

// phi returns 𝜙(λ) and 𝜙′(λ) for f along x + λd.
func phi(f objective.Function, x, d []float64, stp float64) (float64, float64) {
	xt := make([]float64, len(x))
	g := make([]float64, len(x))
	dense.AddScaled(xt, x, stp, d)
	f.Grad(xt, g)
	return f.Eval(xt), dense.Dot(g, d)
}

func steepest(f objective.Function, x []float64) []float64 {
	d := make([]float64, len(x))
	f.Grad(x, d)
	dense.Scal(-1, d)
	return d
}

func TestBrentExact(t *testing.T) {
	f := objective.Ellipse{}
	x := []float64{1, 1}
	d := steepest(f, x)
	want := 404.0 / 8008.0 // -gᵀd / dᵀQd for Q = diag(2, 20)

	b := &Brent{Func: f}
	stp := b.Search(x, d)
	if math.Abs(stp-want) > 1e-8 {
		t.Fatalf("brent step = %.15g, want %.15g", stp, want)
	}
	if !slices.Equal(x, []float64{1, 1}) || !slices.Equal(d, []float64{-2, -20}) {
		t.Fatal("search modified its arguments")
	}
}

func TestBrentExpand(t *testing.T) {
	// minimum far beyond the initial step
	f := objective.Sphere{}
	x := []float64{100, 0}
	d := []float64{-1e-3, 0}
	b := &Brent{Func: f, Tol: 1e-9}
	if stp := b.Search(x, d); math.Abs(stp-1e5)/1e5 > 1e-6 {
		t.Fatalf("brent step = %g, want 1e5", stp)
	}
}

func TestMoreThuenteWolfe(t *testing.T) {
	cases := []struct {
		name string
		f    objective.Function
		x    []float64
		beta float64
	}{
		{"ellipse", objective.Ellipse{}, []float64{1, 1}, 0},
		{"ellipse-strict", objective.Ellipse{}, []float64{1, 1}, 0.1},
		{"rosenbrock", objective.Rosenbrock{}, []float64{-1.2, 1}, 0},
		{"rosenbrock-4d", objective.Rosenbrock{}, []float64{-1.2, 1, -1.2, 1}, 0.1},
		{"sphere", objective.Sphere{}, []float64{3, -4, 12}, 0},
	}
	for _, c := range cases {
		d := steepest(c.f, c.x)
		m := &MoreThuente{Func: c.f, Beta: c.beta, MaxEval: 50}
		stp := m.Search(c.x, d)

		if m.Last() != TaskConv {
			t.Errorf("%s: search ended with task %d", c.name, m.Last())
			continue
		}
		beta := c.beta
		if beta == 0 {
			beta = wolfeBeta
		}
		f0, g0 := phi(c.f, c.x, d, 0)
		f1, g1 := phi(c.f, c.x, d, stp)
		if f1 > f0+wolfeAlpha*stp*g0 {
			t.Errorf("%s: sufficient decrease violated at %g", c.name, stp)
		}
		if math.Abs(g1) > beta*math.Abs(g0) {
			t.Errorf("%s: curvature condition violated at %g", c.name, stp)
		}
	}
}

func TestBacktracking(t *testing.T) {
	f := objective.Rosenbrock{}
	x := []float64{-1.2, 1}
	d := steepest(f, x)
	s := &Backtracking{Func: f}
	stp := s.Search(x, d)
	if stp <= 0 || stp > 1 {
		t.Fatalf("unexpected step %g", stp)
	}
	f0, g0 := phi(f, x, d, 0)
	if f1, _ := phi(f, x, d, stp); f1 > f0+armijoAlpha*stp*g0 {
		t.Fatalf("armijo condition violated at %g", stp)
	}

	// unit step accepted on the unit sphere
	if stp := (&Backtracking{Func: objective.Sphere{}}).Search([]float64{1, 2}, []float64{-1, -2}); stp != 1 {
		t.Fatalf("expected unit step, got %g", stp)
	}
}

func TestAscentDirection(t *testing.T) {
	f := objective.Ellipse{}
	x := []float64{1, 1}
	d := []float64{2, 20}

	m := &MoreThuente{Func: f}
	if stp := m.Search(x, d); stp != 0 || m.Last() != TaskErrNotDescent {
		t.Errorf("more-thuente: step %g task %d", stp, m.Last())
	}
	if stp := (&Backtracking{Func: f}).Search(x, d); stp != 0 {
		t.Errorf("backtracking: step %g", stp)
	}
	if stp := (&Brent{Func: f}).Search(x, d); stp != 0 {
		t.Errorf("brent: step %g", stp)
	}
}

func TestSearcherInterface(t *testing.T) {
	f := objective.Sphere{}
	for _, s := range []Searcher{&Brent{Func: f}, &MoreThuente{Func: f}, &Backtracking{Func: f}} {
		if stp := s.Search([]float64{1, 1}, []float64{-1, -1}); math.Abs(stp-1) > 1e-6 {
			t.Errorf("%T: step %g, want 1", s, stp)
		}
	}
}
