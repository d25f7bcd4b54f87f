// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cg

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/curioloop/descent/dense"
	"github.com/curioloop/descent/iteration"
	"github.com/curioloop/descent/linesearch"
	"github.com/curioloop/descent/objective"
)

// exactQuad is the closed form line search λ = -gᵀd / dᵀ𝐐d for 𝒇(x) = ½xᵀ𝐐x.
type exactQuad struct {
	q *dense.Matrix
}

func (e exactQuad) Search(x, d []float64) float64 {
	g := make([]float64, len(x))
	e.q.MulVec(g, x)
	return -dense.Dot(g, d) / e.q.Quad(d)
}

// counting records the gradient evaluations of the wrapped function.
type counting struct {
	objective.Function
	grads [][]float64
}

func (c *counting) Grad(x, g []float64) {
	c.grads = append(c.grads, slices.Clone(x))
	c.Function.Grad(x, g)
}

func spd3() *dense.Matrix {
	q := dense.NewMatrix(3)
	for i, v := range []float64{
		4, 1, 0,
		1, 3, 1,
		0, 1, 2,
	} {
		q.Set(i/3, i%3, v)
	}
	return q
}

func newCG(t *testing.T, f objective.Function, s linesearch.Searcher, n int) *Optimizer {
	t.Helper()
	p := Problem{N: n, Func: f, Search: s}
	o, err := p.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return o
}

func TestInitialDirection(t *testing.T) {
	f := objective.Ellipse{}
	o := newCG(t, f, &linesearch.Brent{Func: f}, 2)
	if err := o.Start([]float64{1, 1}); err != nil {
		t.Fatal(err)
	}
	if d := o.Direction(); !slices.Equal(d, []float64{-2, -20}) {
		t.Fatalf("initial direction = %v, want [-2 -20]", d)
	}
	if g := o.Gradient(); !slices.Equal(g, []float64{2, 20}) {
		t.Fatalf("initial gradient = %v, want [2 20]", g)
	}
}

func TestFiniteTermination(t *testing.T) {
	q := spd3()
	f := objective.Quadratic{Q: q}
	o := newCG(t, f, exactQuad{q}, 3)
	if err := o.Start([]float64{1, -2, 3}); err != nil {
		t.Fatal(err)
	}
	for k := 0; k < 3; k++ {
		if out, err := o.Next(); err != nil || out != iteration.Continue {
			t.Fatalf("step %d: outcome %v, err %v", k, out, err)
		}
	}
	if nrm := dense.Nrm2(o.X()); nrm > 1e-10 {
		t.Fatalf("CG did not reach the minimizer in n steps: ‖x‖ = %g", nrm)
	}
}

func TestFletcherReevesUpdate(t *testing.T) {
	q := spd3()
	f := &counting{Function: objective.Quadratic{Q: q}}
	o := newCG(t, f, exactQuad{q}, 3)

	x0 := []float64{1, -2, 3}
	if err := o.Start(x0); err != nil {
		t.Fatal(err)
	}
	g0, d0 := o.Gradient(), o.Direction()
	if _, err := o.Next(); err != nil {
		t.Fatal(err)
	}

	// one gradient at x₀ from Start and one at x₁ from Next
	if len(f.grads) != 2 || !slices.Equal(f.grads[0], x0) || !slices.Equal(f.grads[1], o.X()) {
		t.Fatalf("unexpected gradient evaluations %v", f.grads)
	}

	stp := o.Step()
	x1 := make([]float64, 3)
	dense.AddScaled(x1, x0, stp, d0)
	if !slices.Equal(x1, o.X()) {
		t.Fatalf("x₁ = %v, want %v", o.X(), x1)
	}

	g1 := make([]float64, 3)
	q.MulVec(g1, x1)
	beta := dense.Dot(g1, g1) / dense.Dot(g0, g0)
	d1 := o.Direction()
	for i := range d1 {
		if want := -g1[i] + beta*d0[i]; math.Abs(d1[i]-want) > 1e-12 {
			t.Fatalf("d₁[%d] = %g, want %g", i, d1[i], want)
		}
	}
}

func TestEllipseScenario(t *testing.T) {
	f := objective.Ellipse{}
	o := newCG(t, f, &linesearch.Brent{Func: f}, 2)
	d := iteration.Driver{Method: o, Stop: iteration.Termination{MaxIterations: 50}}
	res, err := d.Run([]float64{1, 1})
	if err != nil {
		t.Fatal(err)
	}
	if nrm := dense.Nrm2(res.X); nrm > 1e-6 {
		t.Fatalf("CG did not converge to (0,0): x = %v", res.X)
	}
}

func TestRosenbrockDecrease(t *testing.T) {
	f := objective.Rosenbrock{}
	s := &linesearch.MoreThuente{Func: f, Beta: 0.1}
	o := newCG(t, f, s, 2)
	x0 := []float64{-1.2, 1}
	d := iteration.Driver{Method: o, Stop: iteration.Termination{MaxIterations: 200}}
	res, err := d.Run(x0)
	if err != nil {
		t.Fatal(err)
	}
	if res.OK || res.NumIter != 200 {
		t.Fatalf("unexpected summary %+v", res.Summary)
	}
	if f.Eval(res.X) >= f.Eval(x0) {
		t.Fatalf("no decrease: f(x) = %g", f.Eval(res.X))
	}
}

func TestStationaryStart(t *testing.T) {
	f := objective.Sphere{}
	o := newCG(t, f, &linesearch.Backtracking{Func: f}, 2)
	if err := o.Start([]float64{0, 0}); err != nil {
		t.Fatal(err)
	}
	out, err := o.Next()
	if err != nil || out != iteration.Converged {
		t.Fatalf("outcome %v, err %v", out, err)
	}
}

func TestPreconditions(t *testing.T) {
	f := objective.Sphere{}
	s := &linesearch.Brent{Func: f}

	for _, p := range []Problem{{N: 0, Func: f, Search: s}, {N: 2, Search: s}, {N: 2, Func: f}} {
		if _, err := p.New(nil); err == nil {
			t.Errorf("expected error for %+v", p)
		}
	}

	o := newCG(t, f, s, 2)
	if _, err := o.Next(); !errors.Is(err, iteration.ErrNotStarted) {
		t.Errorf("expected ErrNotStarted, got %v", err)
	}
	if err := o.Start([]float64{1, 2, 3}); !errors.Is(err, iteration.ErrDimension) {
		t.Errorf("expected ErrDimension, got %v", err)
	}
}
