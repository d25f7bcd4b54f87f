// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/curioloop/descent/internal/config"
	"github.com/curioloop/descent/objective"
)

var descriptions = map[string]string{
	"ellipse":    "Σ wᵢxᵢ² with weights spread over [1, 10], minimum at 0",
	"rosenbrock": "chained Rosenbrock valley, minimum at (1, ..., 1), n ≥ 2",
	"sphere":     "½‖x‖², minimum at 0",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in functions and methods",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		name := lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Width(12)
		dim := lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

		fmt.Fprintln(out, titleStyle.Render("functions"))
		for _, fn := range objective.Names() {
			fmt.Fprintf(out, "  %s %s\n", name.Render(fn), dim.Render(descriptions[fn]))
		}
		fmt.Fprintln(out, titleStyle.Render("methods"))
		fmt.Fprintf(out, "  %s %s\n", name.Render("cg"), dim.Render("Fletcher-Reeves conjugate gradients, --search "+fmt.Sprint(config.Searches)))
		fmt.Fprintf(out, "  %s %s\n", name.Render("qn"), dim.Render("SR1 quasi-Newton trust region with dogleg steps"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
