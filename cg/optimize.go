// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cg implements the Fletcher–Reeves variant of nonlinear conjugate gradients.
//
// Given the current iterate xₖ and direction dₖ, each step computes
//
//	xₖ₊₁ = xₖ + λₖdₖ                    (λₖ from the line search)
//	βₖ₊₁ = ‖𝒇′(xₖ₊₁)‖² / ‖𝒇′(xₖ)‖²
//	dₖ₊₁ = -𝒇′(xₖ₊₁) + βₖ₊₁dₖ
//
// starting from d₀ = -𝒇′(x₀). The method has no stopping test of its own
// (apart from an exactly vanishing gradient) nor any restart policy, so the
// caller must bound the number of iterations.
//
// # Reference:
//
//   - R. Fletcher and C. M. Reeves (1964), Function minimization by conjugate gradients.
//     The Computer Journal 7, no. 2, pp. 149-154.
package cg

import (
	"errors"
	"slices"

	"github.com/curioloop/descent/dense"
	"github.com/curioloop/descent/iteration"
	"github.com/curioloop/descent/linesearch"
	"github.com/curioloop/descent/objective"
)

// Problem specifies the problem for the conjugate gradients optimizer.
type Problem struct {
	N      int                 // The problem dimension
	Func   objective.Function  // Objective function and gradient
	Search linesearch.Searcher // Line search along the conjugate directions
}

// New creates a new conjugate gradients optimizer for given problem.
func (p *Problem) New(logger *iteration.Logger) (optimizer *Optimizer, err error) {
	switch {
	case p.N <= 0:
		err = errors.New("problem dimension must greater than 0")
	case p.Func == nil:
		err = errors.New("objective function is required")
	case p.Search == nil:
		err = errors.New("line search is required")
	}
	if err != nil {
		return
	}

	n := p.N
	optimizer = &Optimizer{
		n:      n,
		f:      p.Func,
		search: p.Search,
		log:    iteration.NewLogger(logger),
		x:      make([]float64, n),
		d:      make([]float64, n),
		g:      make([]float64, n),
		x1:     make([]float64, n),
		g1:     make([]float64, n),
	}
	return
}

// Optimizer implemented using nonlinear conjugate gradients.
// It satisfies iteration.Method.
type Optimizer struct {
	n      int
	f      objective.Function
	search linesearch.Searcher
	log    iteration.Logger

	started bool
	iter    int
	x, d    []float64 // iterate xₖ and direction dₖ
	g       []float64 // 𝒇′(xₖ)
	gg      float64   // ‖𝒇′(xₖ)‖²
	x1, g1  []float64 // trial xₖ₊₁ and 𝒇′(xₖ₊₁)
	stp     float64   // latest step λₖ
}

// Start sets x₀ and the initial direction d₀ = -𝒇′(x₀).
func (o *Optimizer) Start(x0 []float64) error {
	if len(x0) != o.n {
		return iteration.ErrDimension
	}
	copy(o.x, x0)
	o.f.Grad(o.x, o.g)
	o.gg = dense.Dot(o.g, o.g)
	copy(o.d, o.g)
	dense.Scal(-1, o.d)
	o.iter, o.stp, o.started = 0, 0, true

	if o.log.Enable(iteration.LogLast) {
		o.log.Log("RUNNING THE CONJUGATE GRADIENTS CODE\n")
		o.log.Log("N = %d\n", o.n)
		o.log.Log("At iterate %5d    f= %12.5e    |g|= %12.5e\n", 0, o.f.Eval(o.x), o.gradNorm())
		if o.log.Enable(iteration.LogVerbose) {
			o.log.LogVec("X0", o.x)
		}
	}
	return nil
}

// Next performs one conjugate gradients step.
func (o *Optimizer) Next() (iteration.Outcome, error) {
	if !o.started {
		return iteration.Continue, iteration.ErrNotStarted
	}

	// β would be 0/0 at an exact stationary point.
	if o.gg == 0 {
		o.printExit(iteration.Converged)
		return iteration.Converged, nil
	}

	o.stp = o.search.Search(o.x, o.d)
	dense.AddScaled(o.x1, o.x, o.stp, o.d) // xₖ₊₁ = xₖ + λₖdₖ

	// Both gradients are taken at their own points: 𝒇′(xₖ) was kept from the
	// previous step and 𝒇′(xₖ₊₁) is evaluated once here.
	o.f.Grad(o.x1, o.g1)
	gg1 := dense.Dot(o.g1, o.g1)
	beta := gg1 / o.gg

	// dₖ₊₁ = -𝒇′(xₖ₊₁) + βdₖ
	for i, g := range o.g1 {
		o.d[i] = -g + beta*o.d[i]
	}

	o.x, o.x1 = o.x1, o.x
	o.g, o.g1 = o.g1, o.g
	o.gg = gg1
	o.iter++

	o.printIter(beta)
	return iteration.Continue, nil
}

// X returns the current iterate.
func (o *Optimizer) X() []float64 { return o.x }

// Direction returns the current search direction dₖ.
func (o *Optimizer) Direction() []float64 { return slices.Clone(o.d) }

// Gradient returns 𝒇′(xₖ).
func (o *Optimizer) Gradient() []float64 { return slices.Clone(o.g) }

// Step returns the latest line search step λₖ.
func (o *Optimizer) Step() float64 { return o.stp }

func (o *Optimizer) gradNorm() float64 { return dense.Nrm2(o.g) }

func (o *Optimizer) printIter(beta float64) {
	log := &o.log
	if !log.Every(o.iter) {
		return
	}
	log.Log("At iterate %5d    f= %12.5e    |g|= %12.5e\n", o.iter, o.f.Eval(o.x), o.gradNorm())
	if log.Enable(iteration.LogTrace) {
		log.Log("LINE SEARCH step = %12.5e    beta = %12.5e\n", o.stp, beta)
	}
	if log.Enable(iteration.LogVerbose) {
		log.LogVec(" X", o.x)
		log.LogVec(" D", o.d)
	}
}

func (o *Optimizer) printExit(status iteration.Outcome) {
	if o.log.Enable(iteration.LogLast) {
		o.log.Log("%v at iterate %d    f= %12.5e\n", status, o.iter, o.f.Eval(o.x))
	}
}
