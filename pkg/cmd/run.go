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
	"os"
	"strconv"
	"strings"

	"github.com/consensys/go-treesynth/pkg/ast"
	"github.com/consensys/go-treesynth/pkg/dsl"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] tree_file program node...",
	Short: "run a navigation program from given nodes.",
	Long: `Run a program, given as a comma-separated list of operations (e.g.
	"Up,DownLast"), from each of the given nodes and print the node reached.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 3 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		store := readTreeFile(args[0], GetUint(cmd, "tree-id"))
		program, err := dsl.ParseProgram(strings.Trim(args[1], "[]"))
		exitOnError(err)
		//
		for _, arg := range args[2:] {
			id, err := strconv.ParseUint(arg, 10, 0)
			exitOnError(err)
			//
			if !store.Has(ast.NodeId(id)) {
				exitOnError(fmt.Errorf("unknown node %d", id))
			}
			//
			fmt.Printf("%d: %s\n", id, program.Run(ast.NodeId(id), store))
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
