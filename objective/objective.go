// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package objective defines the differentiable scalar functions consumed by
// the minimizers, together with a finite-difference gradient and a few
// classical test problems.
package objective

// Function is a differentiable scalar function 𝒇(𝐱) : ℝⁿ → ℝ.
//
// Implementations must be deterministic and must not modify x.
type Function interface {
	// Eval returns 𝒇(𝐱).
	Eval(x []float64) float64
	// Grad stores the gradient 𝒇′(𝐱) into g, which has the same length as x.
	Grad(x, g []float64)
}

// Func adapts a pair of plain functions to Function.
type Func struct {
	F func(x []float64) float64
	G func(x, g []float64)
}

func (f Func) Eval(x []float64) float64 { return f.F(x) }

func (f Func) Grad(x, g []float64) { f.G(x, g) }
