// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trustregion implements a quasi-Newton trust region method for
// unconstrained minimization.
//
// The method keeps two dense symmetric approximations, 𝐀 ≈ 𝒇″ and 𝐇 ≈ (𝒇″)⁻¹,
// both corrected by symmetric rank-one (SR1) updates after every step.
// Steps are computed with the dogleg construction inside a ball of radius Δ
// whose size adapts to the agreement between the quadratic model and 𝒇.
//
// # Reference:
//
//   - Jorge Nocedal and Stephen J. Wright (2006), Numerical Optimization, 2nd edition.
//     Chapter 4 (dogleg method) and section 6.2 (the SR1 method).
package trustregion

import (
	"errors"
	"math"

	"github.com/curioloop/descent/dense"
	"github.com/curioloop/descent/iteration"
	"github.com/curioloop/descent/objective"
	"github.com/curioloop/descent/quadform"
)

const (
	// DeltaInit is the initial trust region size.
	DeltaInit = 1.0
	// DeltaRatio is the ratio by which the region size is either multiplied or divided.
	DeltaRatio = 2.0
	// DeltaMin is the minimal trust region size.
	DeltaMin = 1e-10
	// DeltaMax is the maximal trust region size.
	DeltaMax = 10.0
	// GoodAdequacy is the ratio of actual / predicted reduction above which
	// the quadratic model is considered as good.
	GoodAdequacy = 0.75
	// PoorAdequacy is the ratio of actual / predicted reduction under which
	// the quadratic model is considered as poor.
	PoorAdequacy = 0.25
	// SmallCurvature means that the new measurement (Δx, Δg) is close to be linearly
	// dependent of the previous ones. When the curvature denominator of an update
	// is less than this value, the corresponding matrix is not updated.
	SmallCurvature = 1e-20
	// GradientMinNorm is the gradient norm under which the first-order condition is fulfilled.
	GradientMinNorm = 1e-15
)

// StepKind tells which candidate a step used.
type StepKind int

const (
	NoStep StepKind = iota
	// NewtonStep is the full quasi-Newton step 𝐇(-g).
	NewtonStep
	// DoglegStep is the intersection of the dogleg path with the trust region boundary.
	DoglegStep
	// CauchyStep is the minimizer of the model along the steepest descent inside the region.
	CauchyStep
)

func (k StepKind) String() string {
	switch k {
	case NewtonStep:
		return "newton"
	case DoglegStep:
		return "dogleg"
	case CauchyStep:
		return "cauchy"
	}
	return "-"
}

// Problem specifies the problem for the trust region optimizer.
type Problem struct {
	N    int                // The problem dimension
	Func objective.Function // Objective function and gradient
}

// New creates a new trust region optimizer for given problem.
func (p *Problem) New(logger *iteration.Logger) (optimizer *Optimizer, err error) {
	switch {
	case p.N <= 0:
		err = errors.New("problem dimension must greater than 0")
	case p.Func == nil:
		err = errors.New("objective function is required")
	}
	if err != nil {
		return
	}

	n := p.N
	optimizer = &Optimizer{
		n:   n,
		f:   p.Func,
		log: iteration.NewLogger(logger),
		a:   dense.Identity(n),
		h:   dense.Identity(n),
	}
	optimizer.x, optimizer.g = make([]float64, n), make([]float64, n)
	optimizer.b, optimizer.pn = make([]float64, n), make([]float64, n)
	optimizer.pc, optimizer.p = make([]float64, n), make([]float64, n)
	optimizer.xq, optimizer.gq = make([]float64, n), make([]float64, n)
	optimizer.dg, optimizer.r = make([]float64, n), make([]float64, n)
	return
}

// Optimizer implemented using the quasi-Newton dogleg trust region method.
// It satisfies iteration.Method.
type Optimizer struct {
	n   int
	f   objective.Function
	log iteration.Logger

	started bool
	iter    int

	x, g   []float64     // iterate xₖ and 𝒇′(xₖ)
	fx     float64       // 𝒇(xₖ)
	a, h   *dense.Matrix // 𝐀 ≈ 𝒇″ and 𝐇 ≈ (𝒇″)⁻¹
	dt     float64       // trust region radius Δ
	rho    float64       // latest adequacy ratio
	kind   StepKind      // latest step kind
	skipA  int           // skipped updates of 𝐀
	skipH  int           // skipped updates of 𝐇
	b, pn  []float64     // -g and the quasi-Newton step 𝐇b
	pc, p  []float64     // Cauchy step and accepted step
	xq, gq []float64     // xₖ + p and 𝒇′(xₖ + p)
	dg, r  []float64     // Δg and update residual
}

// Start sets x₀, resets Δ to DeltaInit and both matrices to the identity.
func (o *Optimizer) Start(x0 []float64) error {
	if len(x0) != o.n {
		return iteration.ErrDimension
	}
	copy(o.x, x0)
	o.fx = o.f.Eval(o.x)
	o.f.Grad(o.x, o.g)
	o.dt = DeltaInit
	o.a.SetIdentity()
	o.h.SetIdentity()
	o.iter, o.rho, o.kind = 0, 0, NoStep
	o.skipA, o.skipH = 0, 0
	o.started = true
	o.printInit()
	return nil
}

// X returns the current iterate.
func (o *Optimizer) X() []float64 { return o.x }

// Radius returns the trust region radius Δ.
func (o *Optimizer) Radius() float64 { return o.dt }

// Ratio returns the adequacy ratio of the latest step.
func (o *Optimizer) Ratio() float64 { return o.rho }

// Kind returns the kind of the latest step.
func (o *Optimizer) Kind() StepKind { return o.kind }

// Hessian returns a copy of the Hessian approximation 𝐀.
func (o *Optimizer) Hessian() *dense.Matrix { return o.a.Clone() }

// InverseHessian returns a copy of the inverse Hessian approximation 𝐇.
func (o *Optimizer) InverseHessian() *dense.Matrix { return o.h.Clone() }

// Skipped returns the number of skipped updates of 𝐀 and 𝐇.
func (o *Optimizer) Skipped() (a, h int) { return o.skipA, o.skipH }

// cauchy computes the Cauchy step pᶜ = ɑ(-gΔ/‖g‖) with
//
//	ɑ = 1                         if gᵀ𝐀g ≤ 0
//	ɑ = 𝚖𝚒𝚗(1, ‖g‖³/(Δ gᵀ𝐀g))      otherwise
func (o *Optimizer) cauchy(gNorm float64) {
	alpha := 1.0
	if gAg := o.a.Quad(o.g); gAg > 0 {
		alpha = math.Min(1, gNorm*gNorm*gNorm/(o.dt*gAg))
	}
	s := -alpha * o.dt / gNorm
	for i, g := range o.g {
		o.pc[i] = s * g
	}
}

// dogleg stores into p the point pᶜ + τ(pⁿ - pᶜ) with τ ∈ [0,1] chosen such that
// ‖pᶜ + τ(pⁿ - pᶜ)‖ = Δ. It requires ‖pᶜ‖ ≤ Δ < ‖pⁿ‖.
func (o *Optimizer) dogleg(pc, pn, p []float64) {
	dense.Sub(p, pn, pc) // u = pⁿ - pᶜ
	a := dense.Dot(p, p)
	b := 2 * dense.Dot(pc, p)
	c := dense.Dot(pc, pc) - o.dt*o.dt

	tau := 0.0
	if a > 0 {
		// positive root of aτ² + bτ + c = 0 (c ≤ 0), arranged to avoid cancellation
		sq := math.Sqrt(math.Max(0, b*b-4*a*c))
		if b > 0 {
			tau = -2 * c / (b + sq)
		} else {
			tau = (sq - b) / (2 * a)
		}
		tau = math.Min(1, math.Max(0, tau))
	}
	for i, u := range p {
		p[i] = pc[i] + tau*u
	}
}

// Next performs one trust region step.
func (o *Optimizer) Next() (iteration.Outcome, error) {
	if !o.started {
		return iteration.Continue, iteration.ErrNotStarted
	}

	gNorm := dense.Nrm2(o.g)
	if gNorm <= GradientMinNorm {
		o.printExit(iteration.Converged)
		return iteration.Converged, nil
	}

	// Q(p) = ½pᵀ𝐀p + gᵀp is the model of 𝒇(xₖ + p) - 𝒇(xₖ)
	q := quadform.New(o.a, o.g)

	for i, g := range o.g {
		o.b[i] = -g
	}
	o.h.MulVec(o.pn, o.b) // pⁿ = 𝐇b

	improve := q.Eval(o.pn) < 0
	if improve && dense.Nrm2(o.pn) <= o.dt {
		copy(o.p, o.pn)
		o.kind = NewtonStep
	} else {
		o.cauchy(gNorm)
		if improve {
			o.dogleg(o.pc, o.pn, o.p)
			o.kind = DoglegStep
		} else {
			copy(o.p, o.pc)
			o.kind = CauchyStep
		}
	}

	dense.AddScaled(o.xq, o.x, 1, o.p)
	fq := o.f.Eval(o.xq)

	// ρ = (𝒇(xₖ) - 𝒇(xₖ + p)) / (Q(0) - Q(p))
	o.rho = 0
	if pred := -q.Eval(o.p); pred > 0 {
		o.rho = (o.fx - fq) / pred
	}
	dt := o.dt
	if o.rho >= GoodAdequacy && o.dt < DeltaMax {
		o.dt = math.Min(DeltaRatio*o.dt, DeltaMax)
	} else if o.rho <= PoorAdequacy && o.dt > DeltaMin {
		o.dt = math.Max(o.dt/DeltaRatio, DeltaMin)
	}

	o.f.Grad(o.xq, o.gq)
	dense.Sub(o.dg, o.gq, o.g) // Δg = 𝒇′(xₖ + p) - 𝒇′(xₖ), Δx = p
	o.update()

	o.x, o.xq = o.xq, o.x
	o.g, o.gq = o.gq, o.g
	o.fx = fq
	o.iter++
	o.printIter(dt)

	var status iteration.Outcome
	switch {
	case dense.Nrm2(o.g) <= GradientMinNorm:
		status = iteration.Converged
	case o.dt <= DeltaMin:
		status = iteration.Collapsed
	default:
		return iteration.Continue, nil
	}
	o.printExit(status)
	return status, nil
}

// update applies the SR1 corrections
//
//	𝐀 = 𝐀 + rrᵀ/(Δxᵀr)  with r = Δg - 𝐀Δx
//	𝐇 = 𝐇 + ssᵀ/(Δgᵀs)  with s = Δx - 𝐇Δg
//
// skipping each one whose denominator is below SmallCurvature in magnitude.
func (o *Optimizer) update() {
	dx, dg, r := o.p, o.dg, o.r

	o.a.MulVec(r, dx)
	dense.Sub(r, dg, r)
	if den := dense.Dot(dx, r); math.Abs(den) > SmallCurvature {
		o.a.RankOne(1/den, r)
	} else {
		o.skipA++
	}

	o.h.MulVec(r, dg)
	dense.Sub(r, dx, r)
	if den := dense.Dot(dg, r); math.Abs(den) > SmallCurvature {
		o.h.RankOne(1/den, r)
	} else {
		o.skipH++
	}
}
