// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"math"

	"github.com/curioloop/descent/objective"
)

var sqrtEps = math.Sqrt(math.Nextafter(1, 2) - 1) // square root of machine precision
var invPhi2 = 1 / (math.Phi * math.Phi)           // golden section ratio

const (
	brentTol       = 1e-12
	brentMaxEval   = 100
	brentMaxExpand = 60
)

// Brent is a derivative-free (near) exact line search combining golden section
// and successive parabolic interpolation.
//
// The minimizer is first bracketed by doubling the Initial step until 𝜙 stops
// decreasing, then located inside [0, λₘₐₓ] to the tolerance sqrt(ε)|λ| + Tol.
type Brent struct {
	Func objective.Function
	// Tol is the absolute tolerance on the step (default 10⁻¹²).
	Tol float64
	// Initial is the first trial step used for bracketing (default 1).
	Initial float64
	// MaxEval limits the function evaluations of the interval search (default 100).
	MaxEval int

	ray
}

// Search implements Searcher. It returns 0 when no step decreases 𝒇.
func (b *Brent) Search(x, d []float64) float64 {
	b.reset(b.Func, x, d)

	tol, maxEval, hi := b.Tol, b.MaxEval, b.Initial
	if tol <= 0 {
		tol = brentTol
	}
	if maxEval <= 0 {
		maxEval = brentMaxEval
	}
	if hi <= 0 {
		hi = 1
	}

	f0 := b.value(0)
	if fh := b.value(hi); fh < f0 {
		for k := 0; k < brentMaxExpand; k++ {
			fn := b.value(2 * hi)
			hi *= 2
			if !(fn < fh) {
				break
			}
			fh = fn
		}
	}

	stp, fs := brentMin(b.value, 0, hi, tol, maxEval)
	if !(fs < f0) {
		return 0
	}
	return stp
}

// brentMin finds the argument where 𝜙 takes its minimum on [a, b] and returns it with its value.
func brentMin(phi func(float64) float64, a, b, tol float64, maxEval int) (float64, float64) {

	c := invPhi2

	// Initialization
	v := a + c*(b-a)
	w, x := v, v
	d, e := 0.0, 0.0
	fx := phi(x)
	fv, fw := fx, fx

	for eval := 1; eval < maxEval; eval++ {
		m := 0.5 * (a + b)
		tol1 := sqrtEps*math.Abs(x) + tol
		tol2 := 2 * tol1

		// Test for convergence
		if math.Abs(x-m) <= tol2-0.5*(b-a) {
			break
		}

		// Parabolic interpolation or golden-section step
		r, q, p := 0.0, 0.0, 0.0
		if math.Abs(e) > tol1 {
			// Fit parabola
			r = (x - w) * (fx - fv)
			q = (x - v) * (fx - fw)
			p = (x-v)*q - (x-w)*r
			q = 2 * (q - r)
			if q > 0 {
				p = -p
			}
			q = math.Abs(q)
			r, e = e, d
		}

		if math.Abs(p) >= 0.5*math.Abs(q*r) || p <= q*(a-x) || p >= q*(b-x) {
			// Golden-section step
			if x >= m {
				e = a - x
			} else {
				e = b - x
			}
			d = c * e
		} else {
			// Parabolic interpolation step
			d = p / q
			if u := x + d; u-a < tol2 || b-u < tol2 {
				// Ensure not too close to bounds
				d = math.Copysign(tol1, m-x)
			}
		}

		// Ensure not too close to x
		if math.Abs(d) < tol1 {
			d = math.Copysign(tol1, d)
		}

		u := x + d
		fu := phi(u)

		// Update a, b, v, w, and x
		if fu <= fx {
			if u >= x {
				a = x
			} else {
				b = x
			}
			v, fv = w, fw
			w, fw = x, fx
			x, fx = u, fu
		} else {
			if u < x {
				a = u
			} else {
				b = u
			}
			if fu <= fw || w == x {
				v, fv = w, fw
				w, fw = u, fu
			} else if fu <= fv || v == x || v == w {
				v, fv = u, fu
			}
		}
	}
	return x, fx
}
