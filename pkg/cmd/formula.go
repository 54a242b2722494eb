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
	"fmt"

	"github.com/consensys/go-treesynth/pkg/solver"
	"github.com/consensys/go-treesynth/pkg/synth"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var formulaCmd = &cobra.Command{
	Use:   "formula [flags] [tree_file]",
	Short: "print the synthesis formula for a given run.",
	Long: `Print the formula constructed for a synthesis run in SMT-LIB format,
	without solving it.  This accepts the same run configuration as the
	synth command.`,
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
		//
		builder, err := synth.NewBuilder(store, config)
		exitOnError(err)
		query, err := builder.Build(run.SynthExamples())
		exitOnError(err)
		//
		if GetFlag(cmd, "stats") {
			fmt.Printf("; %d declarations, %d terms\n", len(query.Formula.Declarations()), query.Formula.Size())
		}
		//
		if GetFlag(cmd, "script") {
			fmt.Print(solver.Script(query.Formula))
		} else {
			fmt.Print(query.Formula.String())
		}
	},
}

func init() {
	rootCmd.AddCommand(formulaCmd)
	addRunFlags(formulaCmd)
	formulaCmd.Flags().Bool("script", false, "include the commands sent to an external solver")
	formulaCmd.Flags().Bool("stats", false, "report the size of the formula")
}
