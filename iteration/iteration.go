// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package iteration defines the contract shared by the iterative minimizers
// and a driver loop that runs any of them under an iteration cap.
package iteration

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrNotStarted is returned by Next when Start has not been called.
	ErrNotStarted = errors.New("iteration not started")
	// ErrDimension is returned by Start when x0 does not match the problem dimension.
	ErrDimension = errors.New("point dimension not match problem")
)

// Outcome is the status of one iteration step.
type Outcome int

const (
	// Continue means a step was taken and iteration may go on.
	Continue Outcome = 0
	// Terminated is set on every outcome that ends the iteration.
	Terminated Outcome = 1 << 4
)

const (
	// Converged means the first-order optimality condition is fulfilled.
	Converged = Terminated | (1 + iota)
	// Collapsed means the trust region shrank below its minimal size.
	Collapsed
	// Exhausted means the driver stopped on its iteration cap.
	Exhausted Outcome = 1 << 5
)

// Done reports whether the method signalled its own termination.
func (o Outcome) Done() bool { return o&Terminated > 0 }

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "CONTINUE"
	case Converged:
		return "CONVERGENCE: GRADIENT VANISHED"
	case Collapsed:
		return "CONVERGENCE: TRUST REGION COLLAPSED"
	case Exhausted:
		return "STOP: TOTAL NO. of ITERATIONS EXCEEDS LIMIT"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Method is an iterative minimizer.
//
// Callers invoke Start once and then Next repeatedly until the returned
// Outcome is Done. Next advances the current iterate by exactly one step.
type Method interface {
	// Start sets the current iterate to x0 and initializes the method state.
	Start(x0 []float64) error
	// Next performs one step. A terminal Outcome means no further step was taken.
	Next() (Outcome, error)
	// X returns the current iterate. The slice is owned by the method.
	X() []float64
}

// LogLevel controls the frequency and type of logger output
type LogLevel int

const (
	// LogNoop no output is generated (level < 0)
	LogNoop LogLevel = -1
	// LogLast print only one line at the last iteration
	LogLast LogLevel = 0
	// LogEval print also f and |g| every `level` iterations for any (0 < level < 99)
	LogEval LogLevel = 1
	// LogTrace print details of every iteration except n-vectors
	LogTrace LogLevel = 99
	// LogVerbose print details of every iteration including x, g and the approximation matrices (level > 100)
	LogVerbose LogLevel = 101
)

// Logger handles diagnostic output of the minimizers.
// Note the writer must be thread-safe when shared.
type Logger struct {
	Level LogLevel
	Msg   io.Writer // Writer to output log messages.
}

// NewLogger returns a usable logger from an optional one.
// A nil logger produces no output and a nil writer defaults to stdout.
func NewLogger(l *Logger) Logger {
	if l == nil {
		return Logger{Level: LogNoop, Msg: io.Discard}
	}
	out := *l
	if out.Msg == nil {
		out.Msg = os.Stdout
	}
	return out
}

// Enable reports whether messages of the given level are printed.
func (l *Logger) Enable(level LogLevel) bool {
	return l.Level >= level
}

// Every reports whether iteration k should be printed at LogEval frequency.
func (l *Logger) Every(k int) bool {
	if l.Level >= LogTrace {
		return true
	}
	return l.Level >= LogEval && k%int(l.Level) == 0
}

// Log writes a formatted message.
func (l *Logger) Log(format string, a ...any) {
	if len(a) > 0 {
		_, _ = fmt.Fprintf(l.Msg, format, a...)
	} else {
		_, _ = fmt.Fprint(l.Msg, format)
	}
}

// LogVec writes a labelled vector, six entries per line.
func (l *Logger) LogVec(label string, v []float64) {
	l.Log("%s =", label)
	for i, x := range v {
		l.Log(" %.2e", x)
		if (i+1)%6 == 0 && i+1 < len(v) {
			l.Log("\n    ")
		}
	}
	l.Log("\n")
}
