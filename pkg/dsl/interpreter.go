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
package dsl

import (
	"strings"

	"github.com/consensys/go-treesynth/pkg/ast"
	"github.com/consensys/go-treesynth/pkg/util"
)

// Apply evaluates a single operation on a given node of a given tree.  The
// result is empty if the operation is undefined at that node.  Unknown nodes
// are never mapped anywhere, except by Nop.
func Apply(op OpCode, id ast.NodeId, store *ast.Store) util.Option[ast.NodeId] {
	switch {
	case op.IsIdentity():
		return util.Some(id)
	case !op.IsValid():
		panic(&UnknownOperationError{Code: int64(op)})
	}
	//
	return relations[op](store, id)
}

// ApplySequence evaluates a sequence of operations from left to right, starting
// at a given node.  As soon as one operation is undefined, the whole sequence
// is undefined and any remaining operations are skipped.
func ApplySequence(id ast.NodeId, store *ast.Store, ops ...OpCode) util.Option[ast.NodeId] {
	current := util.Some(id)
	//
	for _, op := range ops {
		current = util.Then(current, func(n ast.NodeId) util.Option[ast.NodeId] {
			return Apply(op, n, store)
		})
		//
		if current.IsEmpty() {
			break
		}
	}
	//
	return current
}

// Program is an ordered sequence of operations.
type Program []OpCode

// ParseProgram parses a comma-separated list of operation names.
func ParseProgram(text string) (Program, error) {
	var program Program
	//
	for _, name := range strings.Split(text, ",") {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		//
		op, err := Encode(name)
		if err != nil {
			return nil, err
		}
		//
		program = append(program, op)
	}
	//
	return program, nil
}

// Run evaluates this program starting from a given node.
func (p Program) Run(id ast.NodeId, store *ast.Store) util.Option[ast.NodeId] {
	return ApplySequence(id, store, p...)
}

// Names returns the display name of each operation in this program.
func (p Program) Names() []string {
	names := make([]string, len(p))
	//
	for i, op := range p {
		names[i] = op.String()
	}
	//
	return names
}

func (p Program) String() string {
	return "[" + strings.Join(p.Names(), ", ") + "]"
}
