// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linesearch provides step length strategies along a search direction.
//
// A Searcher is given a point xₖ and a direction dₖ and returns a step λ
// intended to (approximately) minimize the restriction
//
//	𝜙(λ) = 𝒇(xₖ + λdₖ)
//
// Searchers own scratch buffers and therefore must not be shared between
// concurrently running optimizers.
package linesearch

import (
	"github.com/curioloop/descent/dense"
	"github.com/curioloop/descent/objective"
)

// Searcher computes a step length along a direction.
type Searcher interface {
	// Search returns the step λ ≥ 0 along d from x.
	// Neither x nor d is modified.
	Search(x, d []float64) float64
}

// ray evaluates the objective restricted to the line x + λd.
type ray struct {
	f    objective.Function
	x, d []float64
	xt   []float64 // x + λd
	gt   []float64 // 𝒇′(x + λd)
}

func (r *ray) reset(f objective.Function, x, d []float64) {
	if len(x) != len(d) {
		panic("bound check error")
	}
	if len(r.xt) != len(x) {
		r.xt = make([]float64, len(x))
		r.gt = make([]float64, len(x))
	}
	r.f, r.x, r.d = f, x, d
}

// value returns 𝜙(λ).
func (r *ray) value(stp float64) float64 {
	dense.AddScaled(r.xt, r.x, stp, r.d)
	return r.f.Eval(r.xt)
}

// slope returns 𝜙(λ) and 𝜙′(λ) = 𝒇′(x + λd)ᵀd.
func (r *ray) slope(stp float64) (float64, float64) {
	dense.AddScaled(r.xt, r.x, stp, r.d)
	f := r.f.Eval(r.xt)
	r.f.Grad(r.xt, r.gt)
	return f, dense.Dot(r.gt, r.d)
}
