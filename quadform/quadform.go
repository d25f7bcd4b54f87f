// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package quadform evaluates the quadratic model
//
//	Q(p) = ½pᵀ𝐀p + bᵀp
//
// for a fixed symmetric matrix 𝐀 and linear term b.
package quadform

import (
	"github.com/curioloop/descent/dense"
)

// Model is a quadratic form captured at construction.
// It keeps references to 𝐀 and b, so later changes to either are observed.
type Model struct {
	a *dense.Matrix
	b []float64
}

// New builds the model Q(p) = ½pᵀ𝐀p + bᵀp.
func New(a *dense.Matrix, b []float64) *Model {
	if a.Dim() != len(b) {
		panic("bound check error")
	}
	return &Model{a: a, b: b}
}

// Dim returns the dimension of the model.
func (m *Model) Dim() int { return len(m.b) }

// Eval returns Q(p).
func (m *Model) Eval(p []float64) float64 {
	if len(p) != len(m.b) {
		panic("bound check error")
	}
	return 0.5*m.a.Quad(p) + dense.Dot(m.b, p)
}
