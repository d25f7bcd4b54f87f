// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"math"

	"github.com/curioloop/descent/objective"
)

const (
	wolfeAlpha   = 1.0e-3
	wolfeBeta    = 0.9
	wolfeEps     = 0.1
	wolfeMaxStep = 1.0e+10
	wolfeMaxEval = 20
)

const (
	p5         = 0.5
	p66        = 0.66
	xTrapLower = 1.1
	xTrapUpper = 4.0
)

const (
	stageArmijo = 1
	stageWolfe  = 2
)

// Task reports the state of the Moré–Thuente iteration.
type Task int

const (
	TaskStart Task = 0
	TaskConv  Task = 1 << (4 + iota)
	TaskFG
	TaskError
	TaskWarn
)

const (
	TaskErrOverLower = TaskError | (1 + iota)
	TaskErrOverUpper
	TaskErrNotDescent
	TaskErrBadTol
	TaskWarnRoundErr = TaskWarn | (1 + iota)
	TaskWarnReachEps
	TaskWarnReachMax
	TaskWarnReachMin
	TaskWarnMaxEval
)

// MoreThuente finds a step λ that satisfies the strong Wolfe conditions:
//   - sufficient decrease condition: 𝜙(λ) ≤ 𝜙(0) + ɑλ𝜙′(0)
//   - curvature condition: |𝜙′(λ)| ≤ β|𝜙′(0)|
//
// Zero tolerances select the defaults ɑ = 10⁻³, β = 0.9, ε = 0.1.
// Fletcher–Reeves conjugate gradients needs β < ½ to keep generating descent directions.
//
// # Reference:
//
//   - Jorge J. Moré and David J. Thuente (1994), Line search algorithms with guaranteed sufficient decrease.
//     ACM Transactions on Mathematical Software 20, no. 3, pp. 286-307.
type MoreThuente struct {
	Func objective.Function
	// Alpha is a non-negative tolerance for the sufficient decrease condition.
	Alpha float64
	// Beta is a non-negative tolerance for the curvature condition.
	Beta float64
	// Eps is a relative tolerance for an acceptable interval of uncertainty.
	Eps float64
	// Initial is the first trial step (default 1).
	Initial float64
	// MaxStep is the upper bound of the step (default 10¹⁰).
	MaxStep float64
	// MaxEval limits the function and gradient evaluations of one search (default 20).
	MaxEval int

	ray
	ctx  wolfeCtx
	last Task
}

// Last returns the final task of the latest search.
func (m *MoreThuente) Last() Task { return m.last }

func (m *MoreThuente) tolerance() wolfeTol {
	tol := wolfeTol{m.Alpha, m.Beta, m.Eps, 0, m.MaxStep}
	if tol.alpha == 0 {
		tol.alpha = wolfeAlpha
	}
	if tol.beta == 0 {
		tol.beta = wolfeBeta
	}
	if tol.eps == 0 {
		tol.eps = wolfeEps
	}
	if tol.upper == 0 {
		tol.upper = wolfeMaxStep
	}
	return tol
}

// Search implements Searcher. It returns 0 when d is not a descent direction.
func (m *MoreThuente) Search(x, d []float64) float64 {
	m.reset(m.Func, x, d)
	tol := m.tolerance()
	maxEval := m.MaxEval
	if maxEval <= 0 {
		maxEval = wolfeMaxEval
	}
	stp := m.Initial
	if stp <= 0 {
		stp = 1
	}
	stp = math.Min(stp, tol.upper)

	f, g := m.slope(0)
	stp, task := m.ctx.search(f, g, stp, TaskStart, &tol)
	for eval := 0; task == TaskFG; eval++ {
		if eval == maxEval {
			stp, task = m.ctx.stx, TaskWarnMaxEval
			break
		}
		f, g = m.slope(stp)
		stp, task = m.ctx.search(f, g, stp, task, &tol)
	}

	m.last = task
	if task&TaskError > 0 {
		return 0
	}
	return stp
}

type wolfeTol struct {
	alpha, beta, eps float64
	lower, upper     float64
}

type wolfeCtx struct {
	bracket    bool
	stage      int
	g0, gx, gy float64
	f0, fx, fy float64
	stx, sty   float64
	width      [2]float64
	bound      [2]float64
}

// search (dcsrch) is driven by reverse communication.
//
// Each call updates an interval with endpoints stx and sty which is initially chosen
// to contain a minimizer of the modified function
//
//	ψ(λ) = 𝜙(λ) - 𝜙(0) - ɑλ𝜙′(0)
//
// If ψ(λ) ≤ 0 and 𝜙′(λ) ≥ 0 for some step, then the interval is chosen to contain a minimizer of 𝜙.
//
// On entry f and g are 𝜙 and 𝜙′ at stp (at 0 on the initial entry).
// On exit stp is the next trial step when task is TaskFG.
func (c *wolfeCtx) search(f, g, stp float64, task Task, tol *wolfeTol) (float64, Task) {

	if task == TaskStart {
		switch {
		case stp < tol.lower:
			return stp, TaskErrOverLower
		case stp > tol.upper:
			return stp, TaskErrOverUpper
		case g >= 0:
			return stp, TaskErrNotDescent
		case tol.alpha < 0 || tol.beta < 0 || tol.eps < 0 || tol.lower < 0 || tol.upper < tol.lower:
			return stp, TaskErrBadTol
		}

		c.bracket = false
		c.stage = stageArmijo
		c.f0, c.g0 = f, g
		c.width[0] = tol.upper - tol.lower
		c.width[1] = c.width[0] / p5

		c.stx, c.fx, c.gx = 0, c.f0, c.g0
		c.sty, c.fy, c.gy = 0, c.f0, c.g0
		c.bound[0] = 0
		c.bound[1] = stp + xTrapUpper*stp
		return stp, TaskFG
	}

	gTest := tol.alpha * c.g0
	fTest := c.f0 + stp*gTest

	// Test for convergence or warnings
	stpMin, stpMax := c.bound[0], c.bound[1]
	switch {
	case c.bracket && (stp <= stpMin || stp >= stpMax):
		return stp, TaskWarnRoundErr
	case c.bracket && stpMax-stpMin <= tol.eps*stpMax:
		return stp, TaskWarnReachEps
	case stp == tol.upper && f <= fTest && g <= gTest:
		return stp, TaskWarnReachMax
	case stp == tol.lower && (f > fTest || g >= gTest):
		return stp, TaskWarnReachMin
	case f <= fTest && math.Abs(g) <= tol.beta*(-c.g0):
		return stp, TaskConv
	}

	if c.stage == stageArmijo && f <= fTest && g >= 0 {
		c.stage = stageWolfe
	}

	if c.stage == stageArmijo && f <= c.fx && f > fTest {
		// Use the modified function ψ until a step with ψ ≤ 0 and 𝜙′ ≥ 0 is found.
		lo := trial{c.stx, c.fx - c.stx*gTest, c.gx - gTest}
		hi := trial{c.sty, c.fy - c.sty*gTest, c.gy - gTest}
		stp = step(&lo, &hi, trial{stp, f - stp*gTest, g - gTest}, &c.bracket, c.bound)
		c.stx, c.fx, c.gx = lo.stp, lo.f+lo.stp*gTest, lo.g+gTest
		c.sty, c.fy, c.gy = hi.stp, hi.f+hi.stp*gTest, hi.g+gTest
	} else {
		lo := trial{c.stx, c.fx, c.gx}
		hi := trial{c.sty, c.fy, c.gy}
		stp = step(&lo, &hi, trial{stp, f, g}, &c.bracket, c.bound)
		c.stx, c.fx, c.gx = lo.stp, lo.f, lo.g
		c.sty, c.fy, c.gy = hi.stp, hi.f, hi.g
	}

	// Decide if a bisection step is needed.
	if c.bracket {
		if math.Abs(c.sty-c.stx) >= p66*c.width[1] {
			stp = c.stx + p5*(c.sty-c.stx)
		}
		c.width[1] = c.width[0]
		c.width[0] = math.Abs(c.sty - c.stx)
	}

	if c.bracket {
		stpMin = math.Min(c.stx, c.sty)
		stpMax = math.Max(c.stx, c.sty)
	} else {
		stpMin = stp + xTrapLower*(stp-c.stx)
		stpMax = stp + xTrapUpper*(stp-c.stx)
	}
	c.bound[0], c.bound[1] = stpMin, stpMax

	stp = math.Min(math.Max(stp, tol.lower), tol.upper)

	if c.bracket && (stp <= stpMin || stp >= stpMax || stpMax-stpMin <= tol.eps*stpMax) {
		stp = c.stx
	}
	return stp, TaskFG
}

// trial is a step with its function value and derivative.
type trial struct {
	stp, f, g float64
}

// step (dcstep) computes a safeguarded step and updates the interval [x, y]
// that contains a step satisfying the sufficient decrease and curvature conditions.
//
// x holds the step with the least function value, and its derivative must be negative
// in the direction of the step. If bracket is true then a minimizer has been bracketed
// and p.stp lies strictly between x.stp and y.stp.
func step(x, y *trial, p trial, bracket *bool, bound [2]float64) float64 {

	var stpf float64
	stpMin, stpMax := bound[0], bound[1]
	sgnd := p.g * (x.g / math.Abs(x.g))

	switch {
	case p.f > x.f:
		// A higher function value. The minimum is bracketed.
		// If the cubic step is closer to x than the quadratic step, the cubic step is taken,
		// otherwise the average of the cubic and quadratic steps is taken.
		theta := 3*(x.f-p.f)/(p.stp-x.stp) + x.g + p.g
		s := math.Max(math.Max(math.Abs(theta), math.Abs(x.g)), math.Abs(p.g))
		gamma := s * math.Sqrt((theta/s)*(theta/s)-(x.g/s)*(p.g/s))
		if p.stp < x.stp {
			gamma = -gamma
		}
		q := ((gamma - x.g) + gamma) + p.g
		r := ((gamma - x.g) + theta) / q
		stpc := x.stp + r*(p.stp-x.stp)
		stpq := x.stp + ((x.g/((x.f-p.f)/(p.stp-x.stp)+x.g))/2)*(p.stp-x.stp)
		if math.Abs(stpc-x.stp) < math.Abs(stpq-x.stp) {
			stpf = stpc
		} else {
			stpf = stpc + (stpq-stpc)/2
		}
		*bracket = true

	case sgnd < 0:
		// A lower function value and derivatives of opposite sign. The minimum is bracketed.
		// If the cubic step is farther from p than the secant step, the cubic step is taken,
		// otherwise the secant step is taken.
		theta := 3*(x.f-p.f)/(p.stp-x.stp) + x.g + p.g
		s := math.Max(math.Max(math.Abs(theta), math.Abs(x.g)), math.Abs(p.g))
		gamma := s * math.Sqrt((theta/s)*(theta/s)-(x.g/s)*(p.g/s))
		if p.stp > x.stp {
			gamma = -gamma
		}
		q := ((gamma - p.g) + gamma) + x.g
		r := ((gamma - p.g) + theta) / q
		stpc := p.stp + r*(x.stp-p.stp)
		stpq := p.stp + (p.g/(p.g-x.g))*(x.stp-p.stp)
		if math.Abs(stpc-p.stp) > math.Abs(stpq-p.stp) {
			stpf = stpc
		} else {
			stpf = stpq
		}
		*bracket = true

	case math.Abs(p.g) < math.Abs(x.g):
		// A lower function value, derivatives of the same sign, and the magnitude of the derivative decreases.
		// The cubic step is used only if the cubic tends to infinity in the direction of the step
		// or if the minimum of the cubic is beyond p. Otherwise the cubic step is the secant step.
		theta := 3*(x.f-p.f)/(p.stp-x.stp) + x.g + p.g
		s := math.Max(math.Max(math.Abs(theta), math.Abs(x.g)), math.Abs(p.g))
		// gamma = 0 only arises if the cubic does not tend to infinity in the direction of the step.
		gamma := s * math.Sqrt(math.Max(0, (theta/s)*(theta/s)-(x.g/s)*(p.g/s)))
		if p.stp > x.stp {
			gamma = -gamma
		}
		q := (gamma + (x.g - p.g)) + gamma
		r := ((gamma - p.g) + theta) / q
		var stpc float64
		switch {
		case r < 0 && gamma != 0:
			stpc = p.stp + r*(x.stp-p.stp)
		case p.stp > x.stp:
			stpc = stpMax
		default:
			stpc = stpMin
		}
		stpq := p.stp + (p.g/(p.g-x.g))*(x.stp-p.stp)
		if *bracket {
			// If the cubic step is closer to p than the secant step, the cubic step is taken,
			// otherwise the secant step is taken.
			if math.Abs(stpc-p.stp) < math.Abs(stpq-p.stp) {
				stpf = stpc
			} else {
				stpf = stpq
			}
			if p.stp > x.stp {
				stpf = math.Min(p.stp+p66*(y.stp-p.stp), stpf)
			} else {
				stpf = math.Max(p.stp+p66*(y.stp-p.stp), stpf)
			}
		} else {
			// If the cubic step is farther from p than the secant step, the cubic step is taken,
			// otherwise the secant step is taken.
			if math.Abs(stpc-p.stp) > math.Abs(stpq-p.stp) {
				stpf = stpc
			} else {
				stpf = stpq
			}
			stpf = math.Max(stpMin, math.Min(stpMax, stpf))
		}

	default:
		// A lower function value, derivatives of the same sign, and the magnitude of the derivative
		// does not decrease. If the minimum is not bracketed, the step is either stpMin or stpMax,
		// otherwise the cubic step is taken.
		switch {
		case *bracket:
			theta := 3*(p.f-y.f)/(y.stp-p.stp) + y.g + p.g
			s := math.Max(math.Max(math.Abs(theta), math.Abs(y.g)), math.Abs(p.g))
			gamma := s * math.Sqrt((theta/s)*(theta/s)-(y.g/s)*(p.g/s))
			if p.stp > y.stp {
				gamma = -gamma
			}
			q := ((gamma - p.g) + gamma) + y.g
			r := ((gamma - p.g) + theta) / q
			stpf = p.stp + r*(y.stp-p.stp)
		case p.stp > x.stp:
			stpf = stpMax
		default:
			stpf = stpMin
		}
	}

	// Update the interval which contains a minimizer.
	if p.f > x.f {
		*y = p
	} else {
		if sgnd < 0 {
			*y = *x
		}
		*x = p
	}
	return stpf
}
