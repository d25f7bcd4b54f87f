// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/curioloop/descent/cg"
	"github.com/curioloop/descent/internal/config"
	"github.com/curioloop/descent/iteration"
	"github.com/curioloop/descent/linesearch"
	"github.com/curioloop/descent/objective"
	"github.com/curioloop/descent/trustregion"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ffff"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444466")).Padding(0, 1)
)

var (
	configFile string
	method     string
	function   string
	dimension  int
	start      []float64
	search     string
	gradient   string
	maxIter    int
	plot       bool
	verbosity  int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Minimize a built-in function",
	Long: `Runs a minimizer on a built-in function. Settings come from the
defaults, then the optional --config YAML file, then the flags given explicitly.`,
	RunE: runMinimization,
}

func init() {
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&method, "method", config.DefaultMethod, "minimizer: cg, qn")
	runCmd.Flags().StringVar(&function, "function", config.DefaultFunction, "built-in function, see 'descent list'")
	runCmd.Flags().IntVar(&dimension, "dimension", config.DefaultDimension, "problem dimension")
	runCmd.Flags().Float64SliceVar(&start, "start", nil, "start point (default depends on the function)")
	runCmd.Flags().StringVar(&search, "search", config.DefaultSearch, "cg line search: brent, wolfe, backtrack")
	runCmd.Flags().StringVar(&gradient, "gradient", config.DefaultGradient, "gradient: analytic, forward, central")
	runCmd.Flags().IntVar(&maxIter, "max-iterations", config.DefaultMaxIterations, "iteration cap")
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot the objective value per iteration")
	runCmd.Flags().IntVar(&verbosity, "verbosity", -1, "minimizer log level (-1 quiet, 0 last, k every k iterations, 99 trace, 101 verbose)")
	rootCmd.AddCommand(runCmd)
}

// loadConfig merges the defaults, the config file and the flags set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("method") {
		cfg.Method = method
	}
	if flags.Changed("function") {
		cfg.Function = function
	}
	if flags.Changed("dimension") {
		cfg.Dimension = dimension
	}
	if flags.Changed("start") {
		cfg.Start = start
		if !flags.Changed("dimension") {
			cfg.Dimension = len(start)
		}
	}
	if flags.Changed("search") {
		cfg.Search = search
	}
	if flags.Changed("gradient") {
		cfg.Gradient = gradient
	}
	if flags.Changed("max-iterations") {
		cfg.MaxIterations = maxIter
	}
	if flags.Changed("plot") {
		cfg.Plot = plot
	}
	if flags.Changed("verbosity") {
		cfg.Verbosity = verbosity
	}
	return cfg, cfg.Validate()
}

func runMinimization(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	slog.Info("Starting minimization", "method", cfg.Method, "function", cfg.Function,
		"dimension", cfg.Dimension, "max_iterations", cfg.MaxIterations)

	begin := time.Now()
	rep, err := minimize(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	slog.Info("Minimization finished", "status", rep.Status.String(), "iterations", rep.NumIter,
		"f", rep.trace[len(rep.trace)-1], "elapsed", time.Since(begin))

	rep.print(cmd.OutOrStdout(), cfg)
	return nil
}

type report struct {
	*iteration.Result
	trace []float64 // 𝒇(xₖ) for k = 0, 1, ...
}

// newFunction resolves the configured function and gradient scheme.
func newFunction(cfg *config.Config) (objective.Function, error) {
	f, err := objective.Lookup(cfg.Function, cfg.Dimension)
	if err != nil {
		return nil, err
	}
	switch cfg.Gradient {
	case "forward":
		f = objective.WithNumericGrad(f, objective.Forward)
	case "central":
		f = objective.WithNumericGrad(f, objective.Central)
	}
	return f, nil
}

func newSearcher(name string, f objective.Function) (linesearch.Searcher, error) {
	switch name {
	case "brent":
		return &linesearch.Brent{Func: f}, nil
	case "wolfe":
		return &linesearch.MoreThuente{Func: f}, nil
	case "backtrack":
		return &linesearch.Backtracking{Func: f}, nil
	}
	return nil, fmt.Errorf("unknown line search %q", name)
}

func newMethod(cfg *config.Config, f objective.Function, log *iteration.Logger) (iteration.Method, error) {
	switch cfg.Method {
	case "cg":
		s, err := newSearcher(cfg.Search, f)
		if err != nil {
			return nil, err
		}
		p := cg.Problem{N: cfg.Dimension, Func: f, Search: s}
		return p.New(log)
	case "qn":
		p := trustregion.Problem{N: cfg.Dimension, Func: f}
		return p.New(log)
	}
	return nil, fmt.Errorf("unknown method %q", cfg.Method)
}

// minimize runs the configured minimizer and records the objective value after every step.
// The minimizer log goes to w.
func minimize(cfg *config.Config, w io.Writer) (*report, error) {
	f, err := newFunction(cfg)
	if err != nil {
		return nil, err
	}
	m, err := newMethod(cfg, f, &iteration.Logger{Level: iteration.LogLevel(cfg.Verbosity), Msg: w})
	if err != nil {
		return nil, err
	}

	rep := &report{}
	d := iteration.Driver{
		Method: m,
		Stop:   iteration.Termination{MaxIterations: cfg.MaxIterations},
		Observe: func(iter int, x []float64) {
			fx := f.Eval(x)
			rep.trace = append(rep.trace, fx)
			slog.Debug("iterate", "iter", iter, "f", fx)
		},
	}
	if rep.Result, err = d.Run(cfg.StartPoint()); err != nil {
		return nil, err
	}
	return rep, nil
}

func (r *report) print(w io.Writer, cfg *config.Config) {
	status := warnStyle.Render(r.Status.String())
	if r.OK {
		status = okStyle.Render(r.Status.String())
	}

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("%s on %s (n = %d)", cfg.Method, cfg.Function, cfg.Dimension)),
		status,
		row("iterations", fmt.Sprint(r.NumIter)),
		row("f(x)", fmt.Sprintf("%.6e", r.trace[len(r.trace)-1])),
		row("x", fmt.Sprintf("%.6g", r.X)),
	)
	fmt.Fprintln(w, panelStyle.Render(body))

	if cfg.Plot && len(r.trace) > 1 {
		fmt.Fprintln(w, plotTrace(r.trace))
	}
}

// plotTrace draws log₁₀ 𝒇 when the trace is positive and 𝒇 otherwise.
func plotTrace(trace []float64) string {
	data, caption := make([]float64, len(trace)), "log10 f(x) per iteration"
	for i, v := range trace {
		if v <= 0 {
			copy(data, trace)
			caption = "f(x) per iteration"
			break
		}
		data[i] = math.Log10(v)
	}
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}
