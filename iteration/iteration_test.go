// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iteration

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"
)

// halving moves every coordinate halfway to zero and converges once all are below tol.
type halving struct {
	x       []float64
	tol     float64
	started bool
}

func (h *halving) Start(x0 []float64) error {
	if len(x0) != 2 {
		return ErrDimension
	}
	h.x, h.started = slices.Clone(x0), true
	return nil
}

func (h *halving) Next() (Outcome, error) {
	if !h.started {
		return Continue, ErrNotStarted
	}
	done := true
	for i := range h.x {
		h.x[i] /= 2
		if h.x[i] > h.tol || h.x[i] < -h.tol {
			done = false
		}
	}
	if done {
		return Converged, nil
	}
	return Continue, nil
}

func (h *halving) X() []float64 { return h.x }

func TestOutcome(t *testing.T) {
	cases := []struct {
		o    Outcome
		done bool
	}{
		{Continue, false},
		{Converged, true},
		{Collapsed, true},
		{Exhausted, false},
	}
	for _, c := range cases {
		if c.o.Done() != c.done {
			t.Errorf("%v: done = %v", c.o, c.o.Done())
		}
		if strings.HasPrefix(c.o.String(), "Outcome(") {
			t.Errorf("missing name for %d", int(c.o))
		}
	}
	if Converged == Collapsed {
		t.Fatal("terminal outcomes must be distinct")
	}
}

func TestDriverConverges(t *testing.T) {
	var trace []int
	d := Driver{
		Method:  &halving{tol: 1.0 / 8},
		Stop:    Termination{MaxIterations: 100},
		Observe: func(iter int, x []float64) { trace = append(trace, iter) },
	}
	res, err := d.Run([]float64{1, -1})
	if err != nil {
		t.Fatal(err)
	}
	switch {
	case !res.OK:
		t.Fatal("TestDriverConverges: Not Converge")
	case res.Status != Converged:
		t.Fatalf("unexpected status %v", res.Status)
	case res.NumIter != 3:
		t.Fatalf("expected 3 iterations, got %d", res.NumIter)
	case !slices.Equal(res.X, []float64{0.125, -0.125}):
		t.Fatalf("unexpected x %v", res.X)
	case !slices.Equal(trace, []int{0, 1, 2, 3}):
		t.Fatalf("unexpected trace %v", trace)
	}
}

func TestDriverExhausted(t *testing.T) {
	d := Driver{Method: &halving{tol: 0}, Stop: Termination{MaxIterations: 5}}
	res, err := d.Run([]float64{1, 1})
	if err != nil {
		t.Fatal(err)
	}
	if res.OK || res.Status != Exhausted || res.NumIter != 5 {
		t.Fatalf("unexpected result %+v", res.Summary)
	}
}

func TestDriverErrors(t *testing.T) {
	if _, err := (&Driver{Stop: Termination{MaxIterations: 1}}).Run([]float64{1, 1}); err == nil {
		t.Error("expected error for missing method")
	}
	if _, err := (&Driver{Method: &halving{}}).Run([]float64{1, 1}); err == nil {
		t.Error("expected error for missing iteration cap")
	}
	_, err := (&Driver{Method: &halving{}, Stop: Termination{MaxIterations: 1}}).Run([]float64{1})
	if !errors.Is(err, ErrDimension) {
		t.Errorf("expected dimension error, got %v", err)
	}
}

func TestLogger(t *testing.T) {
	quiet := NewLogger(nil)
	if quiet.Enable(LogLast) || quiet.Every(1) {
		t.Fatal("nil logger must be silent")
	}

	var buf bytes.Buffer
	l := NewLogger(&Logger{Level: LogEval + 1, Msg: &buf})
	if !l.Enable(LogEval) || l.Enable(LogTrace) {
		t.Fatal("unexpected level gating")
	}
	if !l.Every(4) || l.Every(3) {
		t.Fatal("unexpected frequency gating")
	}

	l.Log("At iterate %5d\n", 7)
	l.LogVec(" X", []float64{1, 2, 3, 4, 5, 6, 7})
	out := buf.String()
	if !strings.Contains(out, "At iterate     7") {
		t.Fatalf("unexpected output %q", out)
	}
	if strings.Count(out, "\n") != 3 {
		t.Fatalf("expected the vector to wrap after six entries: %q", out)
	}

	if NewLogger(&Logger{Level: LogLast}).Msg == nil {
		t.Fatal("writer must default to stdout")
	}
}
