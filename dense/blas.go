// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dense provides the small set of dense vector and matrix kernels
// needed by the minimizers: dot products, axpy, norms and rank-one updates
// on square matrices.
//
// All kernels operate on contiguous float64 slices. Length mismatches are
// programming errors and panic with a bound check error.
package dense

import "math"

// Dot computes the dot product xᵀy.
func Dot(x, y []float64) (dot float64) {
	n := uint(len(x))
	if n != uint(len(y)) {
		panic("bound check error")
	}
	m := n % 5
	for i := uint(0); i < m; i++ {
		dot += x[i] * y[i]
	}
	for i := m; i < n; i += 5 {
		x := x[i : i+5 : i+5]
		y := y[i : i+5 : i+5]
		dot += x[0]*y[0] + x[1]*y[1] + x[2]*y[2] + x[3]*y[3] + x[4]*y[4]
	}
	return dot
}

// Axpy performs y = ɑx + y.
func Axpy(alpha float64, x, y []float64) {
	n := uint(len(x))
	if n != uint(len(y)) {
		panic("bound check error")
	}
	if alpha == 0 {
		return
	}
	m := n % 4
	for i := uint(0); i < m; i++ {
		y[i] += alpha * x[i]
	}
	for i := m; i < n; i += 4 {
		x := x[i : i+4 : i+4]
		y := y[i : i+4 : i+4]
		y[0] += alpha * x[0]
		y[1] += alpha * x[1]
		y[2] += alpha * x[2]
		y[3] += alpha * x[3]
	}
}

// Scal scales x by ɑ in place.
func Scal(alpha float64, x []float64) {
	for i := range x {
		x[i] *= alpha
	}
}

// Copy copies src into dst.
func Copy(dst, src []float64) {
	if len(dst) != len(src) {
		panic("bound check error")
	}
	copy(dst, src)
}

// Zero fills x with zero.
func Zero(x []float64) {
	for i := range x {
		x[i] = 0
	}
}

// AddScaled stores x + ɑd into dst. dst may alias x.
func AddScaled(dst, x []float64, alpha float64, d []float64) {
	if len(dst) != len(x) || len(x) != len(d) {
		panic("bound check error")
	}
	for i, v := range x {
		dst[i] = v + alpha*d[i]
	}
}

// Sub stores x - y into dst. dst may alias x or y.
func Sub(dst, x, y []float64) {
	if len(dst) != len(x) || len(x) != len(y) {
		panic("bound check error")
	}
	for i, v := range x {
		dst[i] = v - y[i]
	}
}

// Nrm2 computes the Euclidean norm ‖x‖₂ with scaling to avoid overflow.
func Nrm2(x []float64) float64 {
	switch len(x) {
	case 0:
		return 0
	case 1:
		return math.Abs(x[0])
	}

	scale := 0.0
	ssq := 1.0
	for _, v := range x {
		if absxi := math.Abs(v); absxi > 0 {
			if scale < absxi {
				sxi := scale / absxi
				ssq = 1 + ssq*sxi*sxi
				scale = absxi
			} else {
				sxi := absxi / scale
				ssq += sxi * sxi
			}
		}
	}
	return scale * math.Sqrt(ssq)
}
