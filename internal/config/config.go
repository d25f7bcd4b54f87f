// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the run configuration of the descent command.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMethod        = "qn"
	DefaultFunction      = "ellipse"
	DefaultDimension     = 2
	DefaultSearch        = "brent"
	DefaultGradient      = "analytic"
	DefaultMaxIterations = 100
)

var (
	Methods   = []string{"cg", "qn"}
	Searches  = []string{"brent", "wolfe", "backtrack"}
	Gradients = []string{"analytic", "forward", "central"}
)

type Config struct {
	Method        string    `yaml:"method"`
	Function      string    `yaml:"function"`
	Dimension     int       `yaml:"dimension"`
	Start         []float64 `yaml:"start,omitempty"`
	Search        string    `yaml:"search"`
	Gradient      string    `yaml:"gradient"`
	MaxIterations int       `yaml:"max_iterations"`
	Plot          bool      `yaml:"plot"`
	// Verbosity is passed to the minimizer logger, see iteration.LogLevel.
	Verbosity int `yaml:"verbosity"`
}

func DefaultConfig() *Config {
	return &Config{
		Method:        DefaultMethod,
		Function:      DefaultFunction,
		Dimension:     DefaultDimension,
		Search:        DefaultSearch,
		Gradient:      DefaultGradient,
		MaxIterations: DefaultMaxIterations,
		Verbosity:     -1,
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the fields that do not depend on the function registry.
func (c *Config) Validate() (err error) {
	switch {
	case !slices.Contains(Methods, c.Method):
		err = fmt.Errorf("unknown method %q, want one of %v", c.Method, Methods)
	case c.Method == "cg" && !slices.Contains(Searches, c.Search):
		err = fmt.Errorf("unknown line search %q, want one of %v", c.Search, Searches)
	case !slices.Contains(Gradients, c.Gradient):
		err = fmt.Errorf("unknown gradient %q, want one of %v", c.Gradient, Gradients)
	case c.Function == "":
		err = errors.New("function is required")
	case c.Dimension <= 0:
		err = errors.New("dimension must greater than 0")
	case len(c.Start) > 0 && len(c.Start) != c.Dimension:
		err = fmt.Errorf("start has %d coordinates, dimension is %d", len(c.Start), c.Dimension)
	case c.MaxIterations <= 0:
		err = errors.New("max_iterations must greater than 0")
	}
	return
}

// StartPoint returns the configured start or the classical one for the function:
// (-1.2, 1, -1.2, 1, ...) for rosenbrock and all ones otherwise.
func (c *Config) StartPoint() []float64 {
	if len(c.Start) > 0 {
		return slices.Clone(c.Start)
	}
	x := make([]float64, c.Dimension)
	for i := range x {
		x[i] = 1
		if c.Function == "rosenbrock" && i%2 == 0 {
			x[i] = -1.2
		}
	}
	return x
}
