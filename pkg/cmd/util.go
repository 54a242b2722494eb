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
	"time"

	"github.com/consensys/go-treesynth/pkg/ast"
	"github.com/consensys/go-treesynth/pkg/ast/json"
	"github.com/consensys/go-treesynth/pkg/synth"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	exitOnError(err)
	//
	return r
}

// GetUint gets an expected unsigned int, or exits if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	exitOnError(err)
	//
	return r
}

// GetString gets an expected string, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	exitOnError(err)
	//
	return r
}

// GetStringArray gets an expected string array, or exits if an error arises.
func GetStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	exitOnError(err)
	//
	return r
}

// GetDuration gets an expected duration, or exits if an error arises.
func GetDuration(cmd *cobra.Command, flag string) time.Duration {
	r, err := cmd.Flags().GetDuration(flag)
	exitOnError(err)
	//
	return r
}

// Read the tree with a given identifier from a JSON-lines file.
func readTreeFile(filename string, treeId uint) *ast.Store {
	bytes, err := os.ReadFile(filename)
	if err == nil {
		var store *ast.Store
		//
		if store, err = json.ReadTree(bytes, treeId); err == nil {
			return store
		}
	}
	// Handle error
	fmt.Printf("%s: %s\n", filename, err)
	os.Exit(2)
	// unreachable
	return nil
}

// ParseExample parses a single example of the form "source:dest".
func ParseExample(text string) (synth.Example, error) {
	src, dst, ok := strings.Cut(text, ":")
	if !ok {
		return synth.Example{}, fmt.Errorf("invalid example \"%s\" (expected source:dest)", text)
	}
	//
	source, err1 := strconv.ParseUint(strings.TrimSpace(src), 10, 0)
	dest, err2 := strconv.ParseUint(strings.TrimSpace(dst), 10, 0)
	//
	if err1 != nil || err2 != nil {
		return synth.Example{}, fmt.Errorf("invalid example \"%s\" (expected node identifiers)", text)
	}
	//
	return synth.Example{Source: ast.NodeId(source), Dest: ast.NodeId(dest)}, nil
}

// Split a comma-separated list, ignoring empty items.
func splitList(text string) []string {
	var items []string
	//
	for _, item := range strings.Split(text, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	//
	return items
}

func exitOnError(err error) {
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
}
