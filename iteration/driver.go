// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iteration

import (
	"errors"
	"fmt"
	"slices"
)

// Termination specifies the stopping criteria imposed by the caller.
type Termination struct {
	// The iteration stop when the number of iteration exceeds limit.
	MaxIterations int
}

// Result contains the final result of a driven minimization.
type Result struct {
	OK      bool      // Whether the method terminated on its own criterion.
	X       []float64 // Final iterate.
	Summary           // Iteration summary.
}

// Summary contains a summary of the iteration process.
type Summary struct {
	Status  Outcome // Final outcome.
	NumIter int     // Number of calls to Next.
}

// Driver runs a Method until it terminates or the iteration cap is reached.
type Driver struct {
	Method Method
	Stop   Termination
	// Observe is called after Start with iter = 0 and after every call to Next.
	Observe func(iter int, x []float64)
}

// Run starts the method at x0 and iterates.
func (d *Driver) Run(x0 []float64) (*Result, error) {
	switch {
	case d.Method == nil:
		return nil, errors.New("iteration method is required")
	case d.Stop.MaxIterations <= 0:
		return nil, errors.New("max iteration must greater than 0")
	}

	if err := d.Method.Start(x0); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	if d.Observe != nil {
		d.Observe(0, d.Method.X())
	}

	status, iter := Continue, 0
	for !status.Done() {
		if iter == d.Stop.MaxIterations {
			status = Exhausted
			break
		}
		out, err := d.Method.Next()
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", iter+1, err)
		}
		status = out
		iter++
		if d.Observe != nil {
			d.Observe(iter, d.Method.X())
		}
	}

	return &Result{
		OK: status.Done(),
		X:  slices.Clone(d.Method.X()),
		Summary: Summary{
			Status:  status,
			NumIter: iter,
		},
	}, nil
}
