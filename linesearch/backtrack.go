// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"math"

	"github.com/curioloop/descent/objective"
)

const (
	armijoAlpha   = 1e-4
	armijoLower   = 0.1
	armijoUpper   = 0.5
	armijoMaxEval = 30
)

// Backtracking is an Armijo-type inexact line search.
//
// Starting from the Initial step it accepts the first λ with
//
//	𝜙(λ) ≤ 𝜙(0) + ɑλ𝜙′(0)
//
// and otherwise contracts λ by quadratic interpolation, clipped to [0.1λ, 0.5λ].
type Backtracking struct {
	Func objective.Function
	// Alpha is the sufficient decrease tolerance (default 10⁻⁴).
	Alpha float64
	// Initial is the first trial step (default 1).
	Initial float64
	// MaxEval limits the function evaluations of one search (default 30).
	MaxEval int

	ray
}

// Search implements Searcher. It returns 0 when d is not a descent direction
// or no acceptable step is found.
func (s *Backtracking) Search(x, d []float64) float64 {
	s.reset(s.Func, x, d)

	alpha, stp, maxEval := s.Alpha, s.Initial, s.MaxEval
	if alpha <= 0 {
		alpha = armijoAlpha
	}
	if stp <= 0 {
		stp = 1
	}
	if maxEval <= 0 {
		maxEval = armijoMaxEval
	}

	f0, g0 := s.slope(0)
	if g0 >= 0 {
		return 0
	}

	for eval := 0; eval < maxEval; eval++ {
		f := s.value(stp)
		if f <= f0+alpha*stp*g0 {
			return stp
		}
		// minimizer of the quadratic matching 𝜙(0), 𝜙′(0) and 𝜙(λ)
		next := -g0 * stp * stp / (2 * (f - f0 - g0*stp))
		if math.IsNaN(next) {
			next = armijoUpper * stp
		}
		stp = math.Min(math.Max(next, armijoLower*stp), armijoUpper*stp)
	}
	return 0
}
