// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/consensys/go-treesynth/pkg/synth"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var synthCmd = &cobra.Command{
	Use:   "synth [flags] [tree_file]",
	Short: "synthesize a navigation program from examples.",
	Long: `Search for a program of a given length which maps the source node of
	every example to its destination node.  Examples are given as
	source:dest pairs, either on the command line or in a run
	configuration file.  Reports NotFound when no such program exists.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		run := getRunConfig(cmd, args)
		store := readTreeFile(run.Tree, run.TreeId)
		config, err := run.SynthConfig()
		exitOnError(err)
		// The z3 adapter imposes its own timeout.
		ctx, cancel := context.Background(), context.CancelFunc(func() {})
		if run.Solver.Name != "z3" && run.Solver.Timeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, run.Solver.Timeout)
		}
		//
		outcome, err := synth.Synthesize(ctx, store, run.SynthExamples(), config, run.Solver.NewSolver())
		cancel()
		exitOnError(err)
		//
		printOutcome(outcome, term.IsTerminal(int(os.Stdout.Fd())))
	},
}

// Print the outcome of synthesis.  Programs are printed one operation per line
// for interactive use, and on a single line otherwise.
func printOutcome(outcome synth.Outcome, numbered bool) {
	if !outcome.IsFound() || !numbered {
		fmt.Println(outcome)
		return
	}
	//
	for i, op := range outcome.Program {
		fmt.Printf("%d: %s\n", i, op)
	}
}

// Construct the run configuration from an (optional) configuration file,
// overridden by any flags given explicitly.
func getRunConfig(cmd *cobra.Command, args []string) *RunConfig {
	var (
		run   = &RunConfig{Length: 1}
		flags = cmd.Flags()
		err   error
	)
	//
	if filename := GetString(cmd, "config"); filename != "" {
		run, err = ReadRunConfig(filename)
		exitOnError(err)
	}
	//
	if len(args) > 0 {
		run.Tree = args[0]
	}
	//
	if flags.Changed("tree-id") {
		run.TreeId = GetUint(cmd, "tree-id")
	}
	//
	if flags.Changed("length") {
		run.Length = GetUint(cmd, "length")
	}
	//
	if flags.Changed("encoding") {
		run.Encoding = GetString(cmd, "encoding")
	}
	//
	if flags.Changed("ops") {
		run.Ops = splitList(GetString(cmd, "ops"))
	}
	//
	if flags.Changed("solver") {
		run.Solver.Name = GetString(cmd, "solver")
	}
	//
	if flags.Changed("z3") {
		run.Solver.Path = GetString(cmd, "z3")
	}
	//
	if flags.Changed("timeout") {
		run.Solver.Timeout = GetDuration(cmd, "timeout")
	}
	//
	if flags.Changed("max-decisions") {
		run.Solver.MaxDecisions = GetUint(cmd, "max-decisions")
	}
	// Examples on the command line replace those of the configuration.
	if flags.Changed("example") {
		run.Examples = nil
		//
		for _, text := range GetStringArray(cmd, "example") {
			ex, err := ParseExample(text)
			exitOnError(err)
			//
			src, dst := ex.Source, ex.Dest
			run.Examples = append(run.Examples, ExampleConfig{&src, &dst})
		}
	}
	//
	exitOnError(run.Validate())
	//
	return run
}

// Register the flags describing a synthesis run.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "read the run configuration from a YAML file")
	cmd.Flags().UintP("length", "k", 1, "length of program to synthesize")
	cmd.Flags().String("encoding", "inline", "formula encoding (inline or table)")
	cmd.Flags().StringArrayP("example", "e", nil, "example as source:dest (repeatable)")
	cmd.Flags().String("ops", "", "comma-separated operations which may be used (default all)")
	cmd.Flags().String("solver", "search", "solver to use (search or z3)")
	cmd.Flags().String("z3", "z3", "path of the z3 executable")
	cmd.Flags().Duration("timeout", 0, "solver timeout (e.g. 30s), where zero means none")
	cmd.Flags().Uint("max-decisions", 0, "decision limit for the search solver, where zero means none")
}

func init() {
	rootCmd.AddCommand(synthCmd)
	addRunFlags(synthCmd)
}
