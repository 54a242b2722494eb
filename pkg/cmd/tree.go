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
	"io"
	"os"
	"strings"

	"github.com/consensys/go-treesynth/pkg/ast"
	"github.com/consensys/go-treesynth/pkg/dsl"
	"github.com/ddddddO/gtree"
	"github.com/spf13/cobra"
)

var treeCmd = &cobra.Command{
	Use:   "tree [flags] tree_file",
	Short: "print a tree read from a given file.",
	Long: `Print the tree with a given identifier, along with (optionally) the
	node reached by each navigation operation from every node.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		store := readTreeFile(args[0], GetUint(cmd, "tree-id"))
		//
		exitOnError(printTree(os.Stdout, store, GetFlag(cmd, "nav")))
	},
}

// Render a tree, one node per line.  Each node shows its identifier, type and
// value along with, when requested, where each navigation operation leads.
func printTree(w io.Writer, store *ast.Store, nav bool) error {
	type item struct {
		id   ast.NodeId
		node *gtree.Node
	}
	//
	var (
		root  = gtree.NewRoot(nodeLabel(store, store.Root(), nav))
		stack = []item{{store.Root(), root}}
	)
	//
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		// Children must be added in order, hence collected first.
		children := store.Node(top.id).Children
		items := make([]item, len(children))
		//
		for i, child := range children {
			items[i] = item{child, top.node.Add(nodeLabel(store, child, nav))}
		}
		//
		for i := len(items) - 1; i >= 0; i-- {
			stack = append(stack, items[i])
		}
	}
	//
	return gtree.OutputFromRoot(w, root)
}

func nodeLabel(store *ast.Store, id ast.NodeId, nav bool) string {
	var (
		builder strings.Builder
		node    = store.Node(id)
	)
	//
	fmt.Fprintf(&builder, "%d:%s", id, node.Type)
	//
	if node.Value != "" {
		fmt.Fprintf(&builder, " %q", node.Value)
	}
	//
	if nav {
		var attrs []string
		//
		for _, op := range dsl.Catalog() {
			if r := dsl.Apply(op, id, store); !op.IsIdentity() && r.HasValue() {
				attrs = append(attrs, fmt.Sprintf("%s=%d", op, r.Unwrap()))
			}
		}
		//
		builder.WriteString(" [" + strings.Join(attrs, " ") + "]")
	}
	//
	return builder.String()
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().Bool("nav", false, "show the result of each navigation operation")
}
