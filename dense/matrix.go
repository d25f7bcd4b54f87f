// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dense

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Matrix is a dense n × n matrix stored row-major.
type Matrix struct {
	n    int
	data []float64
}

// NewMatrix returns an n × n zero matrix.
func NewMatrix(n int) *Matrix {
	if n <= 0 {
		panic("matrix dimension must greater than 0")
	}
	return &Matrix{n: n, data: make([]float64, n*n)}
}

// Identity returns the n × n identity matrix.
func Identity(n int) *Matrix {
	m := NewMatrix(n)
	m.SetIdentity()
	return m
}

// SetIdentity overwrites m with the identity.
func (m *Matrix) SetIdentity() {
	Zero(m.data)
	for i := 0; i < m.n; i++ {
		m.data[i*m.n+i] = 1
	}
}

// Dim returns the matrix order n.
func (m *Matrix) Dim() int { return m.n }

// At returns the element 𝐌ᵢⱼ.
func (m *Matrix) At(i, j int) float64 {
	if uint(i) >= uint(m.n) || uint(j) >= uint(m.n) {
		panic("bound check error")
	}
	return m.data[i*m.n+j]
}

// Set assigns the element 𝐌ᵢⱼ.
func (m *Matrix) Set(i, j int, v float64) {
	if uint(i) >= uint(m.n) || uint(j) >= uint(m.n) {
		panic("bound check error")
	}
	m.data[i*m.n+j] = v
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{n: m.n, data: slices.Clone(m.data)}
}

// MulVec stores 𝐌x into dst. dst must not alias x.
func (m *Matrix) MulVec(dst, x []float64) {
	n := m.n
	if len(dst) != n || len(x) != n {
		panic("bound check error")
	}
	for i := 0; i < n; i++ {
		dst[i] = Dot(m.data[i*n:(i+1)*n], x)
	}
}

// Quad computes the quadratic form xᵀ𝐌x.
func (m *Matrix) Quad(x []float64) float64 {
	n := m.n
	if len(x) != n {
		panic("bound check error")
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += x[i] * Dot(m.data[i*n:(i+1)*n], x)
	}
	return sum
}

// RankOne performs the symmetric rank-one update 𝐌 = 𝐌 + ɑvvᵀ.
//
// Each product vᵢvⱼ is formed before scaling so that 𝐌ᵢⱼ and 𝐌ⱼᵢ receive
// bitwise identical corrections and a symmetric 𝐌 stays exactly symmetric.
func (m *Matrix) RankOne(alpha float64, v []float64) {
	n := m.n
	if len(v) != n {
		panic("bound check error")
	}
	for i := 0; i < n; i++ {
		row := m.data[i*n : (i+1)*n]
		for j, vj := range v {
			row[j] += alpha * (v[i] * vj)
		}
	}
}

// IsSymmetric reports whether |𝐌ᵢⱼ - 𝐌ⱼᵢ| ≤ tol × max(1, |𝐌ᵢⱼ|) for all i, j.
func (m *Matrix) IsSymmetric(tol float64) bool {
	n := m.n
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := m.data[i*n+j], m.data[j*n+i]
			if math.Abs(a-b) > tol*math.Max(1, math.Abs(a)) {
				return false
			}
		}
	}
	return true
}

// String formats the matrix with bracket glyphs, one row per line.
func (m *Matrix) String() string {
	var sb strings.Builder
	rows := m.n
	for i := 0; i < rows; i++ {
		switch {
		case rows == 1:
			sb.WriteString("[")
		case i == 0:
			sb.WriteString("⎡")
		case i == rows-1:
			sb.WriteString("⎣")
		default:
			sb.WriteString("⎢")
		}
		for j := 0; j < m.n; j++ {
			sb.WriteString(fmt.Sprintf(" %12.5e", m.data[i*m.n+j]))
		}
		switch {
		case rows == 1:
			sb.WriteString(" ]\n")
		case i == 0:
			sb.WriteString(" ⎤\n")
		case i == rows-1:
			sb.WriteString(" ⎦\n")
		default:
			sb.WriteString(" ⎥\n")
		}
	}
	return sb.String()
}
