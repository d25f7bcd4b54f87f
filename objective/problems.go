// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objective

import (
	"errors"
	"fmt"
	"slices"

	"github.com/curioloop/descent/dense"
)

// Sphere is 𝒇(𝐱) = ½‖𝐱‖².
type Sphere struct{}

func (Sphere) Eval(x []float64) float64 { return 0.5 * dense.Dot(x, x) }

func (Sphere) Grad(x, g []float64) { copy(g, x) }

// Ellipse is the separable quadratic 𝒇(𝐱) = ∑ wᵢxᵢ² with weights spread
// linearly from 1 to 10. In two dimensions it is x² + 10y².
type Ellipse struct{}

func (Ellipse) weight(i, n int) float64 {
	if n == 1 {
		return 1
	}
	return 1 + 9*float64(i)/float64(n-1)
}

func (e Ellipse) Eval(x []float64) (f float64) {
	for i, v := range x {
		f += e.weight(i, len(x)) * v * v
	}
	return
}

func (e Ellipse) Grad(x, g []float64) {
	for i, v := range x {
		g[i] = 2 * e.weight(i, len(x)) * v
	}
}

// Quadratic is 𝒇(𝐱) = ½𝐱ᵀ𝐐𝐱 for a symmetric 𝐐.
type Quadratic struct {
	Q *dense.Matrix
}

func (q Quadratic) Eval(x []float64) float64 { return 0.5 * q.Q.Quad(x) }

func (q Quadratic) Grad(x, g []float64) { q.Q.MulVec(g, x) }

// Rosenbrock is the chained Rosenbrock function
//
//	𝒇(𝐱) = ∑ 100(xᵢ₊₁ - xᵢ²)² + (1 - xᵢ)²
//
// with its global minimum at (1, ..., 1).
type Rosenbrock struct{}

func (Rosenbrock) Eval(x []float64) (f float64) {
	for i := 0; i+1 < len(x); i++ {
		a := x[i+1] - x[i]*x[i]
		b := 1 - x[i]
		f += 100*a*a + b*b
	}
	return
}

func (Rosenbrock) Grad(x, g []float64) {
	dense.Zero(g)
	for i := 0; i+1 < len(x); i++ {
		a := x[i+1] - x[i]*x[i]
		g[i] += -400*a*x[i] - 2*(1-x[i])
		g[i+1] += 200 * a
	}
}

var builtin = map[string]func(n int) Function{
	"sphere":     func(int) Function { return Sphere{} },
	"ellipse":    func(int) Function { return Ellipse{} },
	"rosenbrock": func(int) Function { return Rosenbrock{} },
}

// Names lists the built-in problems accepted by Lookup.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for k := range builtin {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the built-in problem with the given name in dimension n.
func Lookup(name string, n int) (Function, error) {
	mk, ok := builtin[name]
	switch {
	case !ok:
		return nil, fmt.Errorf("unknown function %q", name)
	case n <= 0:
		return nil, errors.New("problem dimension must greater than 0")
	case name == "rosenbrock" && n < 2:
		return nil, errors.New("rosenbrock requires at least 2 dimensions")
	}
	return mk(n), nil
}
