// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trustregion

import (
	"github.com/curioloop/descent/dense"
	"github.com/curioloop/descent/iteration"
)

// printInit logs the problem size and the starting point.
func (o *Optimizer) printInit() {
	log := &o.log
	if !log.Enable(iteration.LogLast) {
		return
	}
	log.Log("RUNNING THE QUASI-NEWTON TRUST REGION CODE\n")
	log.Log("           * * *\n")
	log.Log("N = %d    DELTA = %10.3e\n", o.n, o.dt)
	if log.Enable(iteration.LogEval) {
		log.Log("At iterate %5d    f= %12.5e    |g|= %12.5e\n", 0, o.fx, dense.Nrm2(o.g))
		log.Log("\n   it   step      delta        rho          f         |g|\n")
	}
	if log.Enable(iteration.LogVerbose) {
		log.LogVec("X0", o.x)
	}
}

// printIter logs the latest step. dt is the radius the step was computed with.
func (o *Optimizer) printIter(dt float64) {
	log := &o.log
	if !log.Every(o.iter) {
		return
	}
	log.Log("%5d %6v %10.3e %10.3e %12.5e %10.3e\n", o.iter, o.kind, dt, o.rho, o.fx, dense.Nrm2(o.g))
	if log.Enable(iteration.LogTrace) {
		log.Log("DELTA %10.3e -> %10.3e    skipped A= %d  H= %d\n", dt, o.dt, o.skipA, o.skipH)
	}
	if log.Enable(iteration.LogVerbose) {
		log.LogVec(" X", o.x)
		log.LogVec(" G", o.g)
		log.Log("\n A =\n%v", o.a)
		log.Log("\n H =\n%v\n", o.h)
	}
}

// printExit logs the final statistics.
func (o *Optimizer) printExit(status iteration.Outcome) {
	log := &o.log
	if !log.Enable(iteration.LogLast) {
		return
	}
	log.Log("\n           * * *\n")
	log.Log("\n   N    Tit   SkipA   SkipH     Delta         |g|          F\n")
	log.Log("%5d %6d %7d %7d %9.3e %12.5e %12.5e\n",
		o.n, o.iter, o.skipA, o.skipH, o.dt, dense.Nrm2(o.g), o.fx)
	log.Log("\n%v\n", status)
	if log.Enable(iteration.LogVerbose) {
		log.LogVec(" X", o.x)
	}
}
