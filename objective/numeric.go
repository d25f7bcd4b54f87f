// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objective

import (
	"math"
	"slices"
)

var sqrtEps = math.Sqrt(math.Nextafter(1, 2) - 1)
var cubeEps = math.Pow(math.Nextafter(1, 2)-1, float64(1)/3)

// Method selects the finite difference scheme.
type Method int

const (
	// Forward use the first order accuracy forward difference.
	Forward Method = iota
	// Central use the second order accuracy central difference.
	Central
)

// Numeric is a Function whose gradient is estimated by finite differences of F.
//
// # Reference:
//
//   - https://en.wikipedia.org/wiki/Finite_difference
//   - https://github.com/scipy/scipy/blob/main/scipy/optimize/_numdiff.py
//
// Numeric keeps a scratch copy of x, so an instance must not be shared between goroutines.
type Numeric struct {
	// Function of which to estimate the derivatives.
	F func(x []float64) float64
	// Finite difference method to use.
	Method Method
	// Relative step size used to compute absolute step size.
	// The default absolute step size is h = ε * sign(x) * max(1, |x|) with ε selected by Method.
	// Otherwise, absolute step size is computed as h = RelStep * sign(x) * |x|.
	RelStep float64
	// Absolute step size to use. The RelStep is used when AbsStep is not provide.
	AbsStep float64

	work []float64
}

func (nf *Numeric) Eval(x []float64) float64 { return nf.F(x) }

// Grad estimates 𝒇′(𝐱) into g. The caller's x is left untouched.
func (nf *Numeric) Grad(x, g []float64) {
	if len(x) != len(g) {
		panic("bound check error")
	}
	if len(nf.work) != len(x) {
		nf.work = make([]float64, len(x))
	}
	w := nf.work
	copy(w, x)

	switch nf.Method {
	case Forward:
		f0 := nf.F(w)
		for i, v := range x {
			h := nf.step(v, sqrtEps)
			w[i] = v + h
			g[i] = (nf.F(w) - f0) / ((v + h) - v)
			w[i] = v
		}
	case Central:
		for i, v := range x {
			h := math.Abs(nf.step(v, cubeEps))
			w[i] = v - h
			f1 := nf.F(w)
			w[i] = v + h
			f2 := nf.F(w)
			g[i] = (f2 - f1) / ((v + h) - (v - h))
			w[i] = v
		}
	default:
		panic("unknown method")
	}
}

// step returns the absolute step for coordinate value v.
func (nf *Numeric) step(v, eps float64) float64 {
	auto := math.Copysign(eps, v) * math.Max(1.0, math.Abs(v))
	if nf.AbsStep == 0 && nf.RelStep == 0 {
		return auto
	}
	s := nf.AbsStep
	if s == 0 {
		s = math.Copysign(nf.RelStep, v) * math.Abs(v)
	}
	if (v+s)-v == 0 {
		return auto
	}
	return s
}

// WithNumericGrad wraps an existing function and replaces its gradient by a
// finite difference estimate. It is mostly useful to cross-check analytic gradients.
func WithNumericGrad(f Function, method Method) Function {
	return &Numeric{F: f.Eval, Method: method}
}

// GradError returns the largest absolute difference between the analytic
// gradient of f and its central difference estimate at x.
func GradError(f Function, x []float64) float64 {
	x = slices.Clone(x)
	g := make([]float64, len(x))
	h := make([]float64, len(x))
	f.Grad(x, g)
	WithNumericGrad(f, Central).Grad(x, h)
	e := 0.0
	for i := range g {
		e = math.Max(e, math.Abs(g[i]-h[i]))
	}
	return e
}
